package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newHashers(t *testing.T) map[string]*Hasher {
	t.Helper()
	b, err := New(SchemeBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	a, err := New(SchemeArgon2id, 0)
	require.NoError(t, err)
	return map[string]*Hasher{SchemeBcrypt: b, SchemeArgon2id: a}
}

func TestHashAndVerify(t *testing.T) {
	for name, h := range newHashers(t) {
		t.Run(name, func(t *testing.T) {
			for _, p := range []string{"pw1", "", "correct horse battery staple", "пароль"} {
				d1, err := h.Hash(p)
				require.NoError(t, err)
				d2, err := h.Hash(p)
				require.NoError(t, err)

				assert.NotEqual(t, p, d1)
				assert.NotEqual(t, d1, d2, "digests must be salted")
				assert.True(t, h.Verify(p, d1))
				assert.True(t, Verify(p, d2))
				assert.False(t, h.Verify(p+"x", d1))
			}
		})
	}
}

func TestHash_Tags(t *testing.T) {
	hs := newHashers(t)

	d, err := hs[SchemeBcrypt].Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d, "$2"))

	d, err = hs[SchemeArgon2id].Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d, "$argon2id$v=19$m=65536,t=3,p=4$"))
}

func TestVerify_CrossScheme(t *testing.T) {
	hs := newHashers(t)

	d, err := hs[SchemeArgon2id].Hash("pw")
	require.NoError(t, err)
	assert.True(t, hs[SchemeBcrypt].Verify("pw", d))

	d, err = hs[SchemeBcrypt].Hash("pw")
	require.NoError(t, err)
	assert.True(t, hs[SchemeArgon2id].Verify("pw", d))
}

func TestVerify_MalformedDigests(t *testing.T) {
	good, err := hashArgon2id("pw")
	require.NoError(t, err)
	parts := strings.Split(good, "$")

	badSalt := append([]string{}, parts...)
	badSalt[4] = "invalid!base64"

	badParams := append([]string{}, parts...)
	badParams[3] = "m=x,t=y,p=z"

	zeroParams := append([]string{}, parts...)
	zeroParams[3] = "m=0,t=0,p=0"

	badVersion := append([]string{}, parts...)
	badVersion[2] = "v=16"

	cases := []string{
		"",
		"plaintext",
		"$2a$",
		"$2a$10$short",
		"$argon2id$",
		"$argon2id$v=19$m=1,t=1,p=1$$",
		strings.Join(badSalt, "$"),
		strings.Join(badParams, "$"),
		strings.Join(zeroParams, "$"),
		strings.Join(badVersion, "$"),
		"$md5$whatever",
	}

	for _, d := range cases {
		assert.NotPanics(t, func() {
			assert.False(t, Verify("pw", d), "digest %q", d)
		})
	}
}

func TestHash_BcryptTooLong(t *testing.T) {
	h, err := New(SchemeBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestNew_Errors(t *testing.T) {
	_, err := New("md5", 10)
	assert.ErrorIs(t, err, ErrUnknownScheme)

	_, err = New(SchemeBcrypt, 2)
	assert.Error(t, err)
}

func TestCheckScheme(t *testing.T) {
	assert.NoError(t, CheckScheme(SchemeBcrypt, bcrypt.DefaultCost))
	assert.NoError(t, CheckScheme(SchemeArgon2id, 0))
	assert.ErrorIs(t, CheckScheme("md5", 10), ErrUnknownScheme)
	assert.ErrorContains(t, CheckScheme(SchemeBcrypt, bcrypt.MaxCost+1), "out of range")
}

func TestVerifyDummy_NeverPanics(t *testing.T) {
	for _, h := range newHashers(t) {
		assert.NotPanics(t, func() { h.VerifyDummy("anything") })
		assert.NotEmpty(t, h.dummy)
	}
}
