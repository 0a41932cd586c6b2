package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/keychain/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newHS256Fixture(t *testing.T, kid string, secret []byte) (jwtx.Signer, *jwtx.HS256Verifier) {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(kid, secret)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	return signer, jwtx.NewVerifierHS256(keys)
}

func TestHS256RoundTrip(t *testing.T) {
	signer, verifier := newHS256Fixture(t, "access-1", []byte("testkey"))

	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	claims := jwtx.NewClaims("42", "access", 300*time.Second, "keychain", now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	decoded, err := verifier.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "42", decoded.Subject)
	require.Equal(t, "access", decoded.Purpose)
	require.Equal(t, int64(1609459500), decoded.ExpiresAt.Unix())
	require.Equal(t, claims.ID, decoded.ID)
}

func TestHS256TamperDetection(t *testing.T) {
	signer, verifier := newHS256Fixture(t, "access-1", []byte("testkey"))

	now := time.Now().UTC()
	token, err := signer.Sign(jwtx.NewClaims("42", "access", time.Minute, "keychain", now))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	flip := func(s string) string {
		b := []byte(s)
		if b[0] == 'A' {
			b[0] = 'B'
		} else {
			b[0] = 'A'
		}
		return string(b)
	}

	t.Run("tampered payload", func(t *testing.T) {
		tampered := parts[0] + "." + flip(parts[1]) + "." + parts[2]
		_, err := verifier.Decode(tampered)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("tampered signature", func(t *testing.T) {
		tampered := parts[0] + "." + parts[1] + "." + flip(parts[2])
		_, err := verifier.Decode(tampered)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, other := newHS256Fixture(t, "access-1", []byte("a completely different secret"))
		_, err := other.Decode(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})
}

func TestHS256Malformed(t *testing.T) {
	_, verifier := newHS256Fixture(t, "access-1", []byte("testkey"))

	for name, token := range map[string]string{
		"empty":             "",
		"one segment":       "abc",
		"two segments":      "abc.def",
		"four segments":     "a.b.c.d",
		"garbage base64":    "!!!.???.###",
		"not a jwt at all":  "hello world",
		"whitespace inside": "a b.c d.e f",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Decode(token)
			require.ErrorIs(t, err, jwtx.ErrMalformed)
		})
	}
}

func TestHS256UnknownKID(t *testing.T) {
	signer, _ := newHS256Fixture(t, "access-1", []byte("testkey"))

	// Verifier built around a different kid entirely.
	_, verifier := newHS256Fixture(t, "reset-1", []byte("testkey"))

	token, err := signer.Sign(jwtx.NewClaims("42", "access", time.Minute, "keychain", time.Now().UTC()))
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID)
}

func TestHS256RejectsForeignAlgorithm(t *testing.T) {
	// A token signed with EdDSA must never pass an HS256 verifier, even
	// if the header claims otherwise.
	edSigner := newEdDSATestSigner(t, "ed-1")
	token, err := edSigner.Sign(jwtx.NewClaims("42", "access", time.Minute, "keychain", time.Now().UTC()))
	require.NoError(t, err)

	_, verifier := newHS256Fixture(t, "ed-1", []byte("testkey"))
	_, err = verifier.Decode(token)
	require.Error(t, err)
	require.NotErrorIs(t, err, jwtx.ErrMalformed)
}

func TestNewSignerHS256Validation(t *testing.T) {
	t.Run("empty secret", func(t *testing.T) {
		_, err := jwtx.NewSignerHS256("kid", nil)
		require.Error(t, err)
	})

	t.Run("empty kid", func(t *testing.T) {
		_, err := jwtx.NewSignerHS256("", []byte("testkey"))
		require.Error(t, err)
	})

	t.Run("short secret fails Validate", func(t *testing.T) {
		s, err := jwtx.NewSignerHS256("kid", []byte("short"))
		require.NoError(t, err)
		require.Error(t, s.Validate())
	})

	t.Run("32 byte secret passes Validate", func(t *testing.T) {
		s, err := jwtx.NewSignerHS256("kid", []byte("0123456789abcdef0123456789abcdef"))
		require.NoError(t, err)
		require.NoError(t, s.Validate())
	})
}
