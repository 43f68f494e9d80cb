package proof

import (
	"crypto/sha256"
	"encoding/base64"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/0kPN1/zkpnl/internal/commitment"
	"github.com/0kPN1/zkpnl/internal/quantity"
	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// SigmaProof is a single batched Fiat-Shamir Chaum-Pedersen proof of
// knowledge of the opening of a random linear combination of commitment
// differences, replacing the Bulletproofs R1CS proof the original
// implementation produces (see DESIGN.md's OQ2: the book algebra this
// package checks is purely linear, so a from-scratch Sigma protocol
// suffices and needs no general-purpose circuit backend).
type SigmaProof struct {
	R string `json:"r"`
	S string `json:"s"`
}

// proveChaumPedersen proves knowledge of z such that Σ rho_i*diffs[i] ==
// z*H, for a transcript-bound random linear combination rho computed by
// combinationWeights. Every diff must be prover-side (Known=true) with
// Value == 0 — a zero-value commitment whose blinding the prover knows.
func proveChaumPedersen(transcriptLabel string, diffs []quantity.Committed) (SigmaProof, error) {
	weights, err := combinationWeights(transcriptLabel, diffs)
	if err != nil {
		return SigmaProof{}, err
	}

	var z fr.Element
	var combined bn254.G1Jac
	for i, d := range diffs {
		if !d.Known {
			return SigmaProof{}, zkerr.Integrityf("proof: statement %d has no known opening", i)
		}
		if !d.Value.IsZero() {
			return SigmaProof{}, zkerr.Integrityf("proof: statement %d does not hold (nonzero opening)", i)
		}
		var term fr.Element
		term.Mul(&weights[i], &d.Blinding)
		z.Add(&z, &term)

		var scaled bn254.G1Affine
		scaled.ScalarMultiplication(&d.Point, weights[i].BigInt(new(big.Int)))
		var scaledJ bn254.G1Jac
		scaledJ.FromAffine(&scaled)
		combined.AddAssign(&scaledJ)
	}
	var combinedPoint bn254.G1Affine
	combinedPoint.FromJacobian(&combined)

	var k fr.Element
	if _, err := k.SetRandom(); err != nil {
		return SigmaProof{}, zkerr.WrapIntegrity(err, "sample sigma-protocol nonce")
	}
	var rPoint bn254.G1Affine
	rPoint.ScalarMultiplication(&commitment.H, k.BigInt(new(big.Int)))

	c := fiatShamirChallenge(transcriptLabel, combinedPoint, rPoint)

	var s fr.Element
	s.Mul(&c, &z)
	s.Add(&s, &k)

	return SigmaProof{
		R: serializePoint(rPoint),
		S: serializeScalar(s),
	}, nil
}

// verifyChaumPedersen checks proof against diffs, which may be
// verifier-side (Known=false, Point populated only).
func verifyChaumPedersen(transcriptLabel string, diffs []quantity.Committed, p SigmaProof) error {
	weights, err := combinationWeights(transcriptLabel, diffs)
	if err != nil {
		return err
	}

	var combined bn254.G1Jac
	for i, d := range diffs {
		var scaled bn254.G1Affine
		scaled.ScalarMultiplication(&d.Point, weights[i].BigInt(new(big.Int)))
		var scaledJ bn254.G1Jac
		scaledJ.FromAffine(&scaled)
		combined.AddAssign(&scaledJ)
	}
	var combinedPoint bn254.G1Affine
	combinedPoint.FromJacobian(&combined)

	rPoint, err := deserializePoint(p.R)
	if err != nil {
		return zkerr.WrapIntegrity(err, "decode sigma-protocol commitment")
	}
	s, err := deserializeScalar(p.S)
	if err != nil {
		return zkerr.WrapIntegrity(err, "decode sigma-protocol response")
	}

	c := fiatShamirChallenge(transcriptLabel, combinedPoint, rPoint)

	var lhs bn254.G1Affine
	lhs.ScalarMultiplication(&commitment.H, s.BigInt(new(big.Int)))

	var cCombined bn254.G1Affine
	cCombined.ScalarMultiplication(&combinedPoint, c.BigInt(new(big.Int)))
	var rhsJ, rPointJ, cCombinedJ bn254.G1Jac
	rPointJ.FromAffine(&rPoint)
	cCombinedJ.FromAffine(&cCombined)
	rhsJ.Set(&rPointJ).AddAssign(&cCombinedJ)
	var rhs bn254.G1Affine
	rhs.FromJacobian(&rhsJ)

	if !lhs.Equal(&rhs) {
		return zkerr.Integrityf("r1cs proof verification failed")
	}
	return nil
}

// combinationWeights derives one Fiat-Shamir scalar per diff, binding the
// combination to the transcript label and every diff's point so neither
// side can pick favorable weights after the fact.
func combinationWeights(transcriptLabel string, diffs []quantity.Committed) ([]fr.Element, error) {
	weights := make([]fr.Element, len(diffs))
	for i, d := range diffs {
		h := sha256.New()
		h.Write([]byte(transcriptLabel))
		h.Write([]byte("zkpnl/sigma/weight"))
		h.Write(encodeIndex(i))
		b := d.Point.Bytes()
		h.Write(b[:])
		var w fr.Element
		w.SetBytes(h.Sum(nil))
		weights[i] = w
	}
	return weights, nil
}

func fiatShamirChallenge(transcriptLabel string, combined, r bn254.G1Affine) fr.Element {
	h := sha256.New()
	h.Write([]byte(transcriptLabel))
	h.Write([]byte("zkpnl/sigma/challenge"))
	cb := combined.Bytes()
	rb := r.Bytes()
	h.Write(cb[:])
	h.Write(rb[:])
	var c fr.Element
	c.SetBytes(h.Sum(nil))
	return c
}

func encodeIndex(i int) []byte {
	return []byte{byte(i >> 24), byte(i >> 16), byte(i >> 8), byte(i)}
}

func serializePoint(p bn254.G1Affine) string {
	b := p.Bytes()
	return base64.StdEncoding.EncodeToString(b[:])
}

func deserializePoint(s string) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return p, err
	}
	var compressed [32]byte
	if len(raw) != len(compressed) {
		return p, zkerr.Integrityf("point must be %d bytes, got %d", len(compressed), len(raw))
	}
	copy(compressed[:], raw)
	_, err = p.SetBytes(compressed[:])
	return p, err
}

func serializeScalar(s fr.Element) string {
	b := s.Bytes()
	return base64.StdEncoding.EncodeToString(b[:])
}

func deserializeScalar(s string) (fr.Element, error) {
	var e fr.Element
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return e, err
	}
	e.SetBytes(raw)
	return e, nil
}
