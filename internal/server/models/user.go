// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash is empty for accounts that only
// ever signed in through the identity provider.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
}

// HasPassword reports whether the account can log in with a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
