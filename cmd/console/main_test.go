package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/czar/internal/models"
)

func TestConsoleIdentities(t *testing.T) {
	c := &console{players: make(map[string]models.Identity)}

	alice := c.identity("alice")
	assert.Equal(t, models.Identity{Nick: "alice", User: "alice", Host: consoleHost}, alice)
	assert.Equal(t, "alice@console", alice.Key())

	// a renamed player keeps their key
	alice.Nick = "Alicia"
	c.players["alice"] = alice
	assert.Equal(t, alice, c.identity("alice"))
	assert.Equal(t, alice, c.findByNick("alicia"))

	bob := c.findByNick("bob")
	assert.Equal(t, "bob@console", bob.Key())
	assert.Len(t, c.players, 2)
}
