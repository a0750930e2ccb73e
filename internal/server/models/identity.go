package models

import "time"

// ExternalIdentity links a provider subject to a local user.
type ExternalIdentity struct {
	Provider  string
	Subject   string
	UserID    string
	CreatedAt time.Time
}
