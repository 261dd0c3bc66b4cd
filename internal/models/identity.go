package models

import "fmt"

// Identity is who a chat user is. Nick is a volatile display name; Key is
// stable for the lifetime of a game.
type Identity struct {
	// Nick is the display name, which can change at any time
	Nick string

	// User is the transport-level user name
	User string

	// Host is the transport-level host or guild
	Host string

	// Account is an authenticated account name, if the transport has one
	Account string
}

// Key returns the stable identity key used to match rejoining players
func (i Identity) Key() string {
	if i.Account != "" {
		return i.Account
	}
	return fmt.Sprintf("%s@%s", i.User, i.Host)
}

func (i Identity) String() string {
	return i.Nick
}
