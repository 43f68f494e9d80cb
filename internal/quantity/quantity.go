// Package quantity implements the C1 quantity algebra: a single abstract
// "valuation" interface that is instantiated once over plaintext signed
// 64-bit integers (the prover's ledger) and once over Pedersen-committed
// linear combinations (the proof circuit). Book arithmetic in
// internal/book is written once against this interface and executed in
// both modes, which is the foundation of the scheme's soundness: the same
// formula produces the plaintext P&L and the constraint system that
// proves it.
package quantity

import (
	"math"

	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// Factor is the fixed-point grid every price and P&L value is integerized
// onto: integerize(x) = round(x * Factor). Trade quantities are plain
// integers and are not scaled.
const Factor = 1_000_000_000

// Scalar is an additive, negatable, publicly-scalable value. V+V, -V, and
// V*s (s a plain int64 coefficient, e.g. an integerized price) must all
// produce another Scalar of the same concrete type.
type Scalar[S any] interface {
	Add(S) S
	Neg() S
	MulInt64(int64) S
}

// Integerize converts a real price or P&L to the fixed-point grid. The
// result must be either zero or have absolute value at least 1; callers
// passing a value that underflows to a nonzero fraction below 1 have a
// programmer error, not a runtime one, so Integerize panics rather than
// silently truncating to zero.
func Integerize(x float64) int64 {
	scaled := x * Factor
	if scaled != 0 && math.Abs(scaled) < 1 {
		panic("quantity: integerize underflowed a nonzero value to < 1")
	}
	return int64(math.Round(scaled))
}

// Deintegerize reverses Integerize.
func Deintegerize(n int64) float64 {
	return float64(n) / Factor
}

// Int64 is the cleartext instantiation of Scalar: V = S = int64. Overflow
// is detected and reported rather than silently wrapping or saturating,
// per spec.md's integer-overflow policy.
type Int64 int64

func (a Int64) Add(b Int64) Int64 {
	sum := int64(a) + int64(b)
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		panic(zkerr.Integrityf("quantity: int64 addition overflow (%d + %d)", a, b).Error())
	}
	return Int64(sum)
}

func (a Int64) Neg() Int64 {
	if a == math.MinInt64 {
		panic(zkerr.Integrityf("quantity: int64 negation overflow").Error())
	}
	return -a
}

func (a Int64) MulInt64(s int64) Int64 {
	if a == 0 || s == 0 {
		return 0
	}
	product := int64(a) * s
	if product/s != int64(a) {
		panic(zkerr.Integrityf("quantity: int64 multiplication overflow (%d * %d)", a, s).Error())
	}
	return Int64(product)
}
