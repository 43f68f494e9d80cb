// Package commitment is the C3 commitment adapter: it Pedersen-commits to
// quantities on the prover side and reconstructs commitment maps from
// serialized commitments on the verifier side. The group, field, and
// homomorphic Add/Sub follow parsdao-pars/zk/pedersen.go's
// PedersenCommitter: C = v*G + r*H over bn254, with G the curve's
// standard generator and H a nothing-up-my-sleeve point derived by
// hashing a domain string onto the curve.
package commitment

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/0kPN1/zkpnl/internal/quantity"
	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// G is the standard bn254 G1 generator.
var G bn254.G1Affine

// H is a second, nothing-up-my-sleeve generator with no known discrete
// log relative to G, derived deterministically by hashing a fixed domain
// string onto the curve (try-and-increment).
var H bn254.G1Affine

func init() {
	_, _, g1, _ := bn254.Generators()
	G = g1
	H = hashToG1("zkpnl/pedersen/H")
}

// hashToG1 derives a curve point from seed via try-and-increment: hash the
// seed with an incrementing counter until the digest is a valid x-coordinate
// with a square root under the curve equation y^2 = x^3 + 3.
func hashToG1(seed string) bn254.G1Affine {
	var three fp.Element
	three.SetUint64(3)

	for counter := byte(0); ; counter++ {
		digest := sha256.Sum256(append([]byte(seed), counter))

		var x, x2, x3, rhs, y fp.Element
		x.SetBytes(digest[:])
		x2.Square(&x)
		x3.Mul(&x2, &x)
		rhs.Add(&x3, &three)

		if y.Sqrt(&rhs) != nil {
			p := bn254.G1Affine{X: x, Y: y}
			if p.IsOnCurve() && !p.IsInfinity() {
				return p
			}
		}
	}
}

// Blinding is a 32-byte Pedersen blinding factor, serialized textually as
// base64 in TradeMessage/SnapshotMessage-adjacent private data.
type Blinding [32]byte

// RandomBlinding samples a fresh uniform scalar.
func RandomBlinding() (Blinding, error) {
	var b Blinding
	if _, err := rand.Read(b[:]); err != nil {
		return b, zkerr.WrapIntegrity(err, "sample blinding factor")
	}
	return b, nil
}

func (b Blinding) toFrElement() fr.Element {
	var e fr.Element
	e.SetBytes(b[:])
	return e
}

// Base64 encodes b textually.
func (b Blinding) Base64() string { return base64.StdEncoding.EncodeToString(b[:]) }

// ParseBlinding decodes a base64-encoded blinding factor.
func ParseBlinding(s string) (Blinding, error) {
	var b Blinding
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return b, zkerr.WrapIntegrity(err, "decode blinding factor")
	}
	if len(raw) != 32 {
		return b, zkerr.Integrityf("blinding factor must be 32 bytes, got %d", len(raw))
	}
	copy(b[:], raw)
	return b, nil
}

// scalarOfInt64 maps a signed 64-bit integer n to the fr scalar n if
// n>=0, or -|n| otherwise, per spec.md §4.3.
func scalarOfInt64(n int64) fr.Element {
	var s fr.Element
	if n >= 0 {
		s.SetUint64(uint64(n))
	} else {
		s.SetUint64(uint64(-n))
		s.Neg(&s)
	}
	return s
}

// CommitWithBlinding commits value under an explicit blinding factor,
// reusing the blinding stored alongside a Trade so the produced
// commitment equals the one published in that Trade's TradeMessage.
func CommitWithBlinding(value int64, blinding Blinding) quantity.Committed {
	v := scalarOfInt64(value)
	r := blinding.toFrElement()

	var vG, rH bn254.G1Affine
	vG.ScalarMultiplication(&G, v.BigInt(new(big.Int)))
	rH.ScalarMultiplication(&H, r.BigInt(new(big.Int)))

	var sum bn254.G1Jac
	var vGJ, rHJ bn254.G1Jac
	vGJ.FromAffine(&vG)
	rHJ.FromAffine(&rH)
	sum.Set(&vGJ).AddAssign(&rHJ)

	var point bn254.G1Affine
	point.FromJacobian(&sum)

	return quantity.Committed{Point: point, Known: true, Value: v, Blinding: r}
}

// CommitQuantity samples a fresh blinding and commits value under it,
// returning the commitment and the blinding so the caller can store it
// alongside the plaintext (Trade.QtyBlinding / Trade.PnLBlinding).
func CommitQuantity(value int64) (quantity.Committed, Blinding, error) {
	blinding, err := RandomBlinding()
	if err != nil {
		return quantity.Committed{}, Blinding{}, err
	}
	return CommitWithBlinding(value, blinding), blinding, nil
}

// CommitPublic returns Commit(value, 0) = value*G: a "commitment" to a
// value that is itself public (e.g. a published cumulative P&L), used by
// internal/proof to fold a public scalar into the same commitment algebra
// as the genuinely hidden quantities it is checked against.
func CommitPublic(value int64) quantity.Committed {
	v := scalarOfInt64(value)
	var point bn254.G1Affine
	point.ScalarMultiplication(&G, v.BigInt(new(big.Int)))
	return quantity.Committed{Point: point, Known: true, Value: v}
}

// Zero returns Commit(0, 0), the group identity, for use as the
// accumulator seed in book package sums over Committed.
func Zero() quantity.Committed {
	return quantity.Committed{Known: true}
}

// Serialize encodes a commitment point as base64 for textual transport in
// TradeMessage/SnapshotMessage (qty_commitment, pnl_commitment,
// portfolio_commitments).
func Serialize(c quantity.Committed) string {
	b := c.Point.Bytes()
	return base64.StdEncoding.EncodeToString(b[:])
}

// Deserialize reconstructs a verifier-side Committed (no known opening)
// from its base64 serialization. Malformed bytes are a fatal
// IntegrityError per spec.md §7.
func Deserialize(s string) (quantity.Committed, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return quantity.Committed{}, zkerr.WrapIntegrity(err, "decode commitment")
	}
	var compressed [32]byte
	if len(raw) != len(compressed) {
		return quantity.Committed{}, zkerr.Integrityf("commitment must be %d bytes, got %d", len(compressed), len(raw))
	}
	copy(compressed[:], raw)

	var p bn254.G1Affine
	if _, err := p.SetBytes(compressed[:]); err != nil {
		return quantity.Committed{}, zkerr.WrapIntegrity(err, "reconstruct commitment point")
	}
	return quantity.Committed{Point: p, Known: false}, nil
}
