// Package intbound searches for integral certificates of rational bounds on
// transcendental constants.
//
// A certificate is a nonnegative integrand whose exact definite integral
// equals A + B*K for a target constant K (e, pi, pi^n, e^q, e^(q*pi)).
// Everything is computed in exact rational arithmetic:
//
//   - Rat: reduced fractions over math/big.Int
//   - Affine: linear expressions in the unknowns a, b, c
//   - Poly: polynomials with Affine coefficients
//   - Family: closed-form integrals of a polynomial against a fixed kernel
//   - Searcher: the bounded search that ties them together
package intbound

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Rat: exact rational number
// ============================================================

// Rat is an immutable reduced fraction. The zero value is 0.
type Rat struct{ val *big.Rat }

var (
	ratZero     = new(big.Rat)
	ratOne      = big.NewRat(1, 1)
	ratMinusOne = big.NewRat(-1, 1)
)

// N returns the integer n as a Rat.
func N(n int64) Rat { return Rat{val: new(big.Rat).SetInt64(n)} }

// F returns p/q. It panics if q is zero; use NewRat for untrusted input.
func F(p, q int64) Rat {
	if q == 0 {
		panic("intbound: denominator is zero")
	}
	return Rat{val: new(big.Rat).SetFrac64(p, q)}
}

// RatFromInt returns n/1.
func RatFromInt(n *big.Int) Rat { return Rat{val: new(big.Rat).SetInt(n)} }

// NewRat returns num/den reduced to lowest terms with a positive denominator.
func NewRat(num, den *big.Int) (Rat, error) {
	if den.Sign() == 0 {
		return Rat{}, fmt.Errorf("denominator cannot be zero: %w", ErrDivisionByZero)
	}
	return Rat{val: new(big.Rat).SetFrac(num, den)}, nil
}

// ParseRat parses "p", "-p" or "p/q" with arbitrary-precision integers.
func ParseRat(s string) (Rat, error) {
	s = strings.TrimSpace(s)
	numStr, denStr, isFrac := strings.Cut(s, "/")
	num, ok := parseInt(numStr)
	if !ok {
		return Rat{}, fmt.Errorf("%w: malformed rational %q", ErrInvalidInput, s)
	}
	if !isFrac {
		return RatFromInt(num), nil
	}
	den, ok := parseInt(denStr)
	if !ok {
		return Rat{}, fmt.Errorf("%w: malformed rational %q", ErrInvalidInput, s)
	}
	r, err := NewRat(num, den)
	if err != nil {
		return Rat{}, fmt.Errorf("%w: %q: %w", ErrInvalidInput, s, err)
	}
	return r, nil
}

func parseInt(s string) (*big.Int, bool) {
	if s == "" || strings.HasPrefix(s, "+") {
		return nil, false
	}
	return new(big.Int).SetString(s, 10)
}

func (x Rat) rat() *big.Rat {
	if x.val == nil {
		return ratZero
	}
	return x.val
}

func (x Rat) Add(y Rat) Rat { return Rat{val: new(big.Rat).Add(x.rat(), y.rat())} }
func (x Rat) Sub(y Rat) Rat { return Rat{val: new(big.Rat).Sub(x.rat(), y.rat())} }
func (x Rat) Mul(y Rat) Rat { return Rat{val: new(big.Rat).Mul(x.rat(), y.rat())} }
func (x Rat) Neg() Rat      { return Rat{val: new(big.Rat).Neg(x.rat())} }

// Div returns x/y, or ErrDivisionByZero when y is zero.
func (x Rat) Div(y Rat) (Rat, error) {
	if y.IsZero() {
		return Rat{}, ErrDivisionByZero
	}
	return Rat{val: new(big.Rat).Quo(x.rat(), y.rat())}, nil
}

// Inv returns 1/x, or ErrDivisionByZero when x is zero.
func (x Rat) Inv() (Rat, error) {
	if x.IsZero() {
		return Rat{}, ErrDivisionByZero
	}
	return Rat{val: new(big.Rat).Inv(x.rat())}, nil
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Rat) Cmp(y Rat) int    { return x.rat().Cmp(y.rat()) }
func (x Rat) Equal(y Rat) bool { return x.Cmp(y) == 0 }
func (x Rat) Sign() int        { return x.rat().Sign() }
func (x Rat) IsZero() bool     { return x.Sign() == 0 }
func (x Rat) IsNegative() bool { return x.Sign() < 0 }
func (x Rat) IsOne() bool      { return x.rat().Cmp(ratOne) == 0 }
func (x Rat) IsMinusOne() bool { return x.rat().Cmp(ratMinusOne) == 0 }
func (x Rat) IsInt() bool      { return x.rat().IsInt() }

// Num returns a copy of the numerator.
func (x Rat) Num() *big.Int { return new(big.Int).Set(x.rat().Num()) }

// Den returns a copy of the (positive) denominator.
func (x Rat) Den() *big.Int { return new(big.Int).Set(x.rat().Denom()) }

// Abs returns |x|.
func (x Rat) Abs() Rat { return Rat{val: new(big.Rat).Abs(x.rat())} }

func (x Rat) String() string {
	if x.rat().IsInt() {
		return x.rat().Num().String()
	}
	return x.rat().RatString()
}

// LaTeX renders x with a leading minus sign and \frac for non-integers.
func (x Rat) LaTeX() string { return x.latex(`\frac`) }

func (x Rat) latex(frac string) string {
	sign := ""
	if x.IsNegative() {
		sign = "-"
	}
	return sign + x.alatex(frac)
}

// alatex renders |x| without a sign.
func (x Rat) alatex(frac string) string {
	a := x.Abs()
	if a.IsInt() {
		return a.rat().Num().String()
	}
	return fmt.Sprintf("%s{%s}{%s}", frac, a.rat().Num().String(), a.rat().Denom().String())
}

func (x Rat) MarshalJSON() ([]byte, error) { return json.Marshal(x.String()) }

func (x *Rat) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	r, err := ParseRat(s)
	if err != nil {
		return err
	}
	*x = r
	return nil
}
