package jwtx

import (
	"crypto/ed25519"
	"fmt"
	"sync"
)

// KeySet holds verification keys by kid. Each purpose gets its own
// KeySet so rotating one purpose's keys never touches another's.
//
// It's guarded by an RWMutex, but the intended lifecycle is append-only
// at boot and read-only once the server starts taking traffic.
type KeySet struct {
	mu   sync.RWMutex
	keys map[string]any // kid: []byte (HMAC secret) | ed25519.PublicKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]any)}
}

// AddSigner registers a signer's verification key under its kid.
func (k *KeySet) AddSigner(s Signer) error {
	switch sig := s.(type) {
	case *HS256Signer:
		return k.Add(sig.KID(), sig.VerificationKey())
	case *EdDSASigner:
		return k.Add(sig.KID(), sig.VerificationKey())
	default:
		return fmt.Errorf("jwtx: unsupported signer type %T", s)
	}
}

// Add registers a verification key under kid. Replacing an existing kid
// is an error; rotate by registering a fresh kid instead.
func (k *KeySet) Add(kid string, key any) error {
	if kid == "" {
		return fmt.Errorf("jwtx: empty kid")
	}
	switch key.(type) {
	case []byte, ed25519.PublicKey:
	default:
		return fmt.Errorf("jwtx: unsupported key type %T", key)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if _, exists := k.keys[kid]; exists {
		return fmt.Errorf("jwtx: duplicate kid %q", kid)
	}
	k.keys[kid] = key
	return nil
}

// Get returns the verification key for the given kid. A kid we've never
// seen yields ErrUnknownKID, which callers surface as a plain rejection
// when the token came off the wire.
func (k *KeySet) Get(kid string) (any, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if key, ok := k.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("jwtx: kid %q: %w", kid, ErrUnknownKID)
}

// Len reports how many keys are registered.
func (k *KeySet) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}
