package models

import "time"

// Session is an opaque login token bound to a user. ID is assigned by storage
// and grows with creation order.
type Session struct {
	ID         int64
	Token      string
	UserID     string
	DeviceInfo *string
	CreatedAt  time.Time
}
