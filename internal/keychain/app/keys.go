package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/keychain/internal/keychain/service"
	"github.com/aussiebroadwan/keychain/pkg/jwtx"
)

// InitTokenConfigs builds the per-purpose signer/verifier configuration
// that seeds the Keychain registry.
//
// Key modes:
//   - "ephemeral": Ed25519 keys are generated on startup and held only
//     in memory. All existing tokens become invalid on restart.
//   - "env": key material comes from configuration, so tokens survive
//     restarts. HS256 reads a shared secret per purpose; EdDSA reads a
//     PKCS8 PEM file per purpose.
//
// Every purpose gets its own key. Cross-purpose replay then fails at
// kid lookup even before the purpose claim is checked.
func InitTokenConfigs(cfg Config, logger *slog.Logger) (map[service.Purpose]service.TokenConfig, error) {
	purposes := map[service.Purpose]time.Duration{
		service.PurposeAccess: cfg.AccessTTL,
		service.PurposeReset:  cfg.ResetTTL,
	}
	if cfg.EnableRefresh {
		purposes[service.PurposeRefresh] = cfg.RefreshTTL
	} else {
		logger.Info("refresh tokens disabled")
	}

	configs := make(map[service.Purpose]service.TokenConfig, len(purposes))
	for purpose, ttl := range purposes {
		signer, err := buildSigner(cfg, purpose)
		if err != nil {
			return nil, fmt.Errorf("purpose %q: %w", purpose, err)
		}

		keys := jwtx.NewKeySet()
		if err := keys.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("purpose %q: %w", purpose, err)
		}

		var verifier jwtx.Verifier
		switch signer.Alg() {
		case "HS256":
			verifier = jwtx.NewVerifierHS256(keys)
		default:
			verifier = jwtx.NewVerifierEdDSA(keys)
		}

		configs[purpose] = service.TokenConfig{
			Signer:   signer,
			Verifier: verifier,
			TTL:      ttl,
		}

		logger.Info("token purpose configured",
			"purpose", string(purpose),
			"algorithm", signer.Alg(),
			"kid", signer.KID(),
			"ttl", ttl.String(),
		)
	}

	if cfg.KeyMode != "env" {
		logger.Warn("ephemeral keys in use - all existing tokens are now invalid")
	}

	return configs, nil
}

func buildSigner(cfg Config, purpose service.Purpose) (jwtx.Signer, error) {
	kid := string(purpose) + "-1"

	if cfg.KeyMode != "env" {
		return generateEphemeralSigner(kid)
	}

	switch strings.ToUpper(cfg.Algorithm) {
	case "HS256":
		secret := hmacSecretFor(cfg, purpose)
		if secret == "" {
			return nil, fmt.Errorf("no HMAC secret configured")
		}
		return jwtx.NewSignerHS256(kid, []byte(secret))

	case "EDDSA":
		path := keyFileFor(cfg, purpose)
		if path == "" {
			return nil, fmt.Errorf("no key file configured")
		}
		pemKey, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read key file: %w", err)
		}
		return jwtx.NewSignerEdDSA(kid, pemKey)

	default:
		return nil, fmt.Errorf("unsupported algorithm %q", cfg.Algorithm)
	}
}

func generateEphemeralSigner(kid string) (jwtx.Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, err
	}

	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return jwtx.NewSignerEdDSA(kid, pemKey)
}

func hmacSecretFor(cfg Config, purpose service.Purpose) string {
	switch purpose {
	case service.PurposeAccess:
		return cfg.AccessSecret
	case service.PurposeRefresh:
		return cfg.RefreshSecret
	case service.PurposeReset:
		return cfg.ResetSecret
	}
	return ""
}

func keyFileFor(cfg Config, purpose service.Purpose) string {
	switch purpose {
	case service.PurposeAccess:
		return cfg.AccessKeyFile
	case service.PurposeRefresh:
		return cfg.RefreshKeyFile
	case service.PurposeReset:
		return cfg.ResetKeyFile
	}
	return ""
}
