package quantity

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Committed is the R1CS-circuit instantiation of Scalar: a Pedersen
// commitment point, carried as a linear combination under addition,
// negation, and public scalar multiplication. On the prover side, Known
// is true and Value/Blinding track the plaintext opening of Point so that
// internal/proof can later prove knowledge of a zero-opening of a
// difference of two Committed values. On the verifier side, only Point is
// populated: the verifier never sees an opening, which is the entire
// point of the scheme.
type Committed struct {
	Point    bn254.G1Affine
	Known    bool
	Value    fr.Element
	Blinding fr.Element
}

// Add implements homomorphic commitment addition: Commit(a)+Commit(b) ==
// Commit(a+b, r_a+r_b).
func (c Committed) Add(other Committed) Committed {
	var sum bn254.G1Jac
	var cj, oj bn254.G1Jac
	cj.FromAffine(&c.Point)
	oj.FromAffine(&other.Point)
	sum.Set(&cj).AddAssign(&oj)

	result := Committed{Known: c.Known && other.Known}
	result.Point.FromJacobian(&sum)
	if result.Known {
		result.Value.Add(&c.Value, &other.Value)
		result.Blinding.Add(&c.Blinding, &other.Blinding)
	}
	return result
}

// Neg implements homomorphic commitment negation: -Commit(a) ==
// Commit(-a, -r).
func (c Committed) Neg() Committed {
	result := Committed{Known: c.Known}
	result.Point.Neg(&c.Point)
	if result.Known {
		result.Value.Neg(&c.Value)
		result.Blinding.Neg(&c.Blinding)
	}
	return result
}

// MulInt64 implements homomorphic scaling by a *public* integer
// coefficient (an integerized price): s*Commit(a) == Commit(s*a, s*r).
func (c Committed) MulInt64(s int64) Committed {
	var scalar fr.Element
	scalar.SetInt64(abs64(s))
	if s < 0 {
		scalar.Neg(&scalar)
	}

	bi := scalar.BigInt(new(big.Int))
	var scaled bn254.G1Affine
	scaled.ScalarMultiplication(&c.Point, bi)

	result := Committed{Point: scaled, Known: c.Known}
	if result.Known {
		result.Value.Mul(&c.Value, &scalar)
		result.Blinding.Mul(&c.Blinding, &scalar)
	}
	return result
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
