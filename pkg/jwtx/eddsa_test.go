package jwtx_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/aussiebroadwan/keychain/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newEdDSATestSigner(t *testing.T, kid string) jwtx.Signer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)

	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())

	return signer
}

func TestEdDSARoundTrip(t *testing.T) {
	signer := newEdDSATestSigner(t, "reset-1")

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifierEdDSA(keys)

	now := time.Now().UTC()
	claims := jwtx.NewClaims("42", "reset", time.Minute, "keychain", now).
		WithPasswordVersion("v1")

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	decoded, err := verifier.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "42", decoded.Subject)
	require.Equal(t, "reset", decoded.Purpose)
	require.Equal(t, "v1", decoded.PasswordVersion)
}

func TestEdDSAWrongKey(t *testing.T) {
	signer := newEdDSATestSigner(t, "reset-1")

	// KeySet holding a different key under the same kid.
	other := newEdDSATestSigner(t, "reset-1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(other))
	verifier := jwtx.NewVerifierEdDSA(keys)

	token, err := signer.Sign(jwtx.NewClaims("42", "reset", time.Minute, "keychain", time.Now().UTC()))
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestNewSignerEdDSAValidation(t *testing.T) {
	t.Run("not PEM", func(t *testing.T) {
		_, err := jwtx.NewSignerEdDSA("kid", []byte("not pem at all"))
		require.Error(t, err)
	})

	t.Run("wrong PEM type", func(t *testing.T) {
		block := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1, 2, 3}})
		_, err := jwtx.NewSignerEdDSA("kid", block)
		require.Error(t, err)
	})
}

func TestKeySet(t *testing.T) {
	keys := jwtx.NewKeySet()

	t.Run("empty set knows nothing", func(t *testing.T) {
		_, err := keys.Get("access-1")
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
		require.Zero(t, keys.Len())
	})

	t.Run("add and get", func(t *testing.T) {
		require.NoError(t, keys.Add("access-1", []byte("testkey")))
		key, err := keys.Get("access-1")
		require.NoError(t, err)
		require.Equal(t, []byte("testkey"), key)
	})

	t.Run("duplicate kid rejected", func(t *testing.T) {
		require.Error(t, keys.Add("access-1", []byte("other")))
	})

	t.Run("empty kid rejected", func(t *testing.T) {
		require.Error(t, keys.Add("", []byte("x")))
	})

	t.Run("unsupported key type rejected", func(t *testing.T) {
		require.Error(t, keys.Add("weird", 42))
	})
}
