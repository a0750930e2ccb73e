// Package password hashes and verifies local account passwords.
//
// Digests are self-describing: bcrypt digests start with "$2", argon2id
// digests use the PHC string format
// "$argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<salt>$<hash>".
// Verify picks the algorithm from the digest, so switching the configured
// scheme never invalidates stored passwords.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
)

// Argon2id parameters.
const (
	ArgonTime    = 3
	ArgonMemory  = 64 * 1024
	ArgonThreads = 4
	ArgonSaltLen = 16
	ArgonKeyLen  = 32
)

// ErrTooLong is returned by Hash for passwords bcrypt cannot represent.
var ErrTooLong = errors.New("password too long")

// ErrUnknownScheme is returned by New for unsupported schemes.
var ErrUnknownScheme = errors.New("unknown password scheme")

// Hasher produces digests in one configured scheme and verifies digests of
// any supported scheme.
type Hasher struct {
	scheme     string
	bcryptCost int
	dummy      string
}

// CheckScheme reports whether New would accept scheme and bcryptCost.
func CheckScheme(scheme string, bcryptCost int) error {
	switch scheme {
	case SchemeBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	case SchemeArgon2id:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	return nil
}

// New returns a Hasher for scheme. bcryptCost is ignored for argon2id.
func New(scheme string, bcryptCost int) (*Hasher, error) {
	if err := CheckScheme(scheme, bcryptCost); err != nil {
		return nil, err
	}
	h := &Hasher{scheme: scheme, bcryptCost: bcryptCost}

	dummy, err := h.Hash("gophauth-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("dummy digest: %w", err)
	}
	h.dummy = dummy

	return h, nil
}

// Hash returns a salted digest of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if h.scheme == SchemeArgon2id {
		return hashArgon2id(plaintext)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrTooLong
		}
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return Verify(plaintext, digest)
}

// VerifyDummy burns the same work as a real verification against a digest
// that never matches. Used when there is no stored digest to check.
func (h *Hasher) VerifyDummy(plaintext string) {
	_ = Verify(plaintext+"\x00", h.dummy)
}

// Verify reports whether plaintext matches digest. Empty, malformed or
// unknown digests yield false.
func Verify(plaintext, digest string) bool {
	switch {
	case digest == "":
		return false
	case strings.HasPrefix(digest, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
	case strings.HasPrefix(digest, "$"+SchemeArgon2id+"$"):
		return verifyArgon2id(plaintext, digest)
	default:
		return false
	}
}

func hashArgon2id(plaintext string) (string, error) {
	salt := make([]byte, ArgonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, ArgonTime, ArgonMemory, ArgonThreads, ArgonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, ArgonMemory, ArgonTime, ArgonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func verifyArgon2id(plaintext, digest string) bool {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var (
		memory, iterations uint32
		threads            uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}
	if memory == 0 || iterations == 0 || threads == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(plaintext), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
