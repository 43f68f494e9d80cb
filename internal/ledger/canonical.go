package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// legacyZeroWidthSpace is a zero-width space (U+200B) that legacy writers
// sometimes prepended to prev_hash. Tolerated on read, never produced on
// write (spec.md §4.5/§9).
const legacyZeroWidthSpace = "​"

// CanonicalJSON encodes v deterministically: Go's encoding/json already
// preserves struct field declaration order, and OrderedMap's custom
// MarshalJSON preserves map insertion order, so plain json.Marshal over
// these types is already the canonical form every hashing party must
// reproduce byte-for-byte.
func CanonicalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", zkerr.WrapIntegrity(err, "canonical JSON encode")
	}
	return string(b), nil
}

// Sha256Hex returns the lowercase hex SHA-256 digest of s.
func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Genesis returns the hash-chain anchor for a transcript label: both the
// record chain and the snapshot chain, and the Fiat-Shamir transcript,
// anchor at this same value.
func Genesis(transcriptLabel string) string {
	return Sha256Hex(transcriptLabel)
}

// stripLegacyZeroWidthSpace removes a single leading (or anywhere-first)
// zero-width space from a prev_hash read from disk, matching
// original_source/src/digest.rs's replacen("\u{200b}", "", 1).
func stripLegacyZeroWidthSpace(s string) string {
	return strings.Replace(s, legacyZeroWidthSpace, "", 1)
}

// VerifyMessageHash checks v.Hash == SHA256(canonical_json(v.Message)).
func VerifyMessageHash(v Verifiable) error {
	msg, err := v.CanonicalMessage()
	if err != nil {
		return err
	}
	if v.GetHash() != Sha256Hex(msg) {
		return zkerr.Integrityf("message hash mismatch at %s", v.GetHash())
	}
	return nil
}

// VerifyMessageHashes checks every element of vs.
func VerifyMessageHashes[V Verifiable](vs []V) error {
	for _, v := range vs {
		if err := VerifyMessageHash(v); err != nil {
			return err
		}
	}
	return nil
}

// VerifyHashChainSinceGenesis checks that vs[0]'s prev_hash is genesis and
// that every subsequent element's prev_hash equals
// SHA256(canonical_json(vs[i-1].Message)).
func VerifyHashChainSinceGenesis[V Verifiable](genesis string, vs []V) error {
	prev := genesis
	for _, v := range vs {
		want := stripLegacyZeroWidthSpace(v.GetPrevHash())
		if want != prev {
			return zkerr.Integrityf("hash chain broken at prev_hash %s", want)
		}
		msg, err := v.CanonicalMessage()
		if err != nil {
			return err
		}
		prev = Sha256Hex(msg)
	}
	return nil
}

// VerifyHashChain checks the chain among vs without anchoring the first
// element to genesis (used when verifying a suffix, e.g. the records
// embedded in a single snapshot).
func VerifyHashChain[V Verifiable](vs []V) error {
	for i := 1; i < len(vs); i++ {
		want := stripLegacyZeroWidthSpace(vs[i].GetPrevHash())
		msg, err := vs[i-1].CanonicalMessage()
		if err != nil {
			return err
		}
		if want != Sha256Hex(msg) {
			return zkerr.Integrityf("hash chain broken at prev_hash %s", want)
		}
	}
	return nil
}
