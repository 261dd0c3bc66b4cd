package cards

import (
	"regexp"
	"strings"
)

var capitaliseAfter = regexp.MustCompile(`[!?"':] $`)

// FullEntry fills the blanks of question with answers, in order. The
// capitalised display text is used where an answer starts a sentence.
func FullEntry(question *Card, answers []*Card) string {
	var b strings.Builder
	for i, fragment := range question.Fragments {
		b.WriteString(fragment)
		if i >= len(answers) || i == len(question.Fragments)-1 {
			continue
		}
		text := answers[i].Text
		if startsSentence(i, fragment) {
			text = answers[i].DisplayText
		}
		b.WriteString(text)
	}
	// questions without blanks take their answers at the end
	for i := len(question.Fragments) - 1; i < len(answers); i++ {
		if i < 0 {
			continue
		}
		b.WriteString(" ")
		b.WriteString(answers[i].DisplayText)
	}
	return b.String()
}

func startsSentence(index int, fragment string) bool {
	if index == 0 && fragment == "" {
		return true
	}
	if capitaliseAfter.MatchString(fragment) {
		return true
	}
	// after ". " but not after an ellipsis
	if strings.HasSuffix(fragment, ". ") {
		rest := strings.TrimSuffix(fragment, ". ")
		return rest != "" && !strings.HasSuffix(rest, ".")
	}
	return false
}
