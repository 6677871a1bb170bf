package domain

import "github.com/google/uuid"

// UserRecord and GroupRecord are request-scoped copies of records owned by
// the user and group directories.
type UserRecord struct {
	ID   uuid.UUID `json:"user_id"`
	Name string    `json:"username"`
}

type GroupRecord struct {
	ID   string `json:"group_id"`
	Name string `json:"group_name"`
}
