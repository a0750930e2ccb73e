package common

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// UserIDPrefix starts every generated user id and placeholder identity.
const UserIDPrefix = "user_"

// ShortHex returns the first 8 hex digits of a random UUID.
func ShortHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewUserID returns a fresh id of the form user_<8 hex>.
func NewUserID() string {
	return UserIDPrefix + ShortHex()
}

// MakeRandHexString generates size random bytes and returns them hex encoded,
// so the resulting string is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites b with zeros. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// EmailLocalPart returns the part of an email address before the first '@'.
// An address without '@' is returned unchanged.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
