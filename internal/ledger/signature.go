package ledger

import (
	"encoding/base64"

	"github.com/cloudflare/circl/sign/ed25519"

	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// Signer signs message hashes with a configured Ed25519 seed, or is a
// no-op when the seed is empty (matching original_source/src/sig.rs:
// an empty seed disables signing, and the signature field is then the
// empty string).
type Signer struct {
	enabled bool
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
}

// NewSigner builds a Signer from a base64-encoded 32-byte seed. An empty
// seed disables signing.
func NewSigner(base64Seed string) (*Signer, error) {
	if base64Seed == "" {
		return &Signer{enabled: false}, nil
	}
	seed, err := base64.StdEncoding.DecodeString(base64Seed)
	if err != nil {
		return nil, zkerr.WrapInput(err, "decode ed25519 seed")
	}
	if len(seed) != ed25519.SeedSize {
		return nil, zkerr.Inputf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Signer{enabled: true, priv: priv, pub: pub}, nil
}

// Enabled reports whether a signing seed was configured.
func (s *Signer) Enabled() bool { return s.enabled }

// PublicKeyBase64 returns the base64-encoded public key, or "" if signing
// is disabled.
func (s *Signer) PublicKeyBase64() string {
	if !s.enabled {
		return ""
	}
	return base64.StdEncoding.EncodeToString(s.pub)
}

// Sign signs the hex-encoded hash string as UTF-8 bytes, returning the
// base64-encoded signature, or "" when signing is disabled.
func (s *Signer) Sign(hexHash string) (string, error) {
	if !s.enabled {
		return "", nil
	}
	sig := ed25519.Sign(s.priv, []byte(hexHash))
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyWithPublicKey verifies every element of vs's signature under the
// given base64-encoded public key. A verifier must decide out-of-band
// whether to trust that key (spec.md §4.5).
func VerifyWithPublicKey[V Verifiable](pubKeyBase64 string, vs []V) error {
	pub, err := base64.StdEncoding.DecodeString(pubKeyBase64)
	if err != nil {
		return zkerr.WrapIntegrity(err, "decode ed25519 public key")
	}
	if len(pub) != ed25519.PublicKeySize {
		return zkerr.Integrityf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	for _, v := range vs {
		if err := verifySig(ed25519.PublicKey(pub), v); err != nil {
			return err
		}
	}
	return nil
}

func verifySig(pub ed25519.PublicKey, v Verifiable) error {
	sigBytes, err := base64.StdEncoding.DecodeString(v.GetSignature())
	if err != nil {
		return zkerr.WrapIntegrity(err, "decode signature")
	}
	if !ed25519.Verify(pub, []byte(v.GetHash()), sigBytes) {
		return zkerr.Integrityf("signature verification failed at %s", v.GetHash())
	}
	return nil
}
