package decks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// groupsFile holds group definitions alongside the deck files
const groupsFile = "groups.json"

// LoadDir reads every *.json deck in dir, plus groups.json if present
func LoadDir(dir string) (*Config, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	sort.Strings(paths)

	cfg := &Config{Groups: Groups{}}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		if filepath.Base(path) == groupsFile {
			if err := json.Unmarshal(data, &cfg.Groups); err != nil {
				return nil, fmt.Errorf("failed to unmarshal groups: %w", err)
			}
			continue
		}

		var deck Deck
		if err := json.Unmarshal(data, &deck); err != nil {
			return nil, fmt.Errorf("failed to unmarshal deck %s: %w", path, err)
		}
		cfg.Decks = append(cfg.Decks, &deck)
	}
	return cfg, nil
}
