package model

import "github.com/google/uuid"

// CachedUser is a local projection of the user-service account, kept in sync
// through the user.* queues. It is the summary embedded wherever authorship or
// reaction attribution is shown.
type CachedUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}
