package models

import "time"

// Todo is a to-do item. CreatorID is a plain reference to the owning user and
// is set by the server only.
type Todo struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Completed bool      `db:"completed" json:"completed"`
	CreatorID string    `db:"creator_id" json:"creatorId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Scope restricts a todo lookup. An empty CreatorID matches any owner.
type Scope struct {
	ID        string
	CreatorID string
}

// Unrestricted reports whether the scope drops the owner filter.
func (s Scope) Unrestricted() bool {
	return s.CreatorID == ""
}
