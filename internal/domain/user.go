package domain

import "time"

// User is the domain model for account holders. Email is stored lowercased;
// uniqueness is enforced on the normalized form. PasswordHash only ever holds
// a bcrypt hash, never the plaintext.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
