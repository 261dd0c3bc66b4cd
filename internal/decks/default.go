package decks

import "time"

// DefaultSelectors returns the selectors used when a game names no decks
func DefaultSelectors(now time.Time) []string {
	selectors := []string{DefaultGroup}
	if IsChristmas(now) {
		selectors = append(selectors, ChristmasGroup)
	}
	return selectors
}

// IsChristmas reports whether now falls between 10 and 31 December
func IsChristmas(now time.Time) bool {
	return now.Month() == time.December && now.Day() >= 10
}
