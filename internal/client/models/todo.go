// Package models defines client-side data models used by the gophtodo CLI.
package models

import "time"

// User is the account the CLI is logged in as.
type User struct {
	ID      string
	Email   string
	IsAdmin bool
}

// Todo mirrors a server-side todo. Cached copies are shown when the server
// cannot be reached.
type Todo struct {
	ID        string
	Title     string
	Completed bool
	CreatorID string
	CreatedAt time.Time
}

// Mark renders the completion state as a checkbox.
func (t Todo) Mark() string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}
