package decks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir(t *testing.T) {
	cfg, err := LoadDir("testdata")
	require.NoError(t, err)

	require.Len(t, cfg.Decks, 2)
	assert.Equal(t, "BASE1", cfg.Decks[0].Code)
	assert.Equal(t, "XMAS1", cfg.Decks[1].Code)
	assert.Len(t, cfg.Decks[0].Calls, 2)
	assert.Equal(t, 3, cfg.Decks[0].Calls[1].NumResponses)
	assert.Equal(t, []string{"~DEFAULT", "~CHRISTMAS"}, cfg.Groups["~ALL"])

	collection, err := New(cfg)
	require.NoError(t, err)

	sel := collection.Compile(DefaultSelectors(time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"BASE1", "XMAS1"}, sel.Codes)

	questions, answers, err := collection.Build(sel.Codes)
	require.NoError(t, err)
	assert.Len(t, questions, 3)
	assert.Len(t, answers, 4)
}

func TestLoadDirBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BROKE.json"), []byte("{"), 0o600))

	_, err := LoadDir(dir)
	assert.Error(t, err)
}

func TestLoadDirEmpty(t *testing.T) {
	cfg, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Decks)

	collection, err := New(cfg)
	require.NoError(t, err)
	_, _, err = collection.Build(collection.Compile([]string{DefaultGroup}).Codes)
	assert.ErrorIs(t, err, ErrNoCards)
}

func TestShippedDecksLoad(t *testing.T) {
	cfg, err := LoadDir(filepath.Join("..", "..", "decks"))
	require.NoError(t, err)

	collection, err := New(cfg)
	require.NoError(t, err)

	sel := collection.Compile(DefaultSelectors(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"CZAR1"}, sel.Codes)
	assert.Empty(t, sel.Unknown)

	questions, answers, err := collection.Build(sel.Codes)
	require.NoError(t, err)
	assert.Len(t, questions, 22)
	assert.Len(t, answers, 66)
}
