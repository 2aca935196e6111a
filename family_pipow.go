package intbound

import (
	"fmt"
	"math/big"
	"strconv"
)

// PiPowerFamily integrates against ln(1/x)^(n-1)/(1+x^2) on [0, 1]:
//
//	Integrate[P(x) * Log[1/x]^(n-1) / (1 + x^2), {x, 0, 1}] = A + B*pi^n
//
// The seed is a + b*x^2 and each step multiplies by x. Only one remainder
// slot carries pi^n, so steps whose parity would leave the other slot
// populated are skipped.
type PiPowerFamily struct {
	n     int
	cache *Cache
}

// NewPiPowerFamily returns the pi^n family for n >= 2. A nil cache gets a
// private one.
func NewPiPowerFamily(n int, cache *Cache) (*PiPowerFamily, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: pi_power_%d: n must be at least 2, use pi for n = 1", ErrInvalidInput, n)
	}
	if cache == nil {
		cache = NewCache()
	}
	return &PiPowerFamily{n: n, cache: cache}, nil
}

// Exponent returns n.
func (f *PiPowerFamily) Exponent() int { return f.n }

func (f *PiPowerFamily) ID() string                    { return "pi_power_" + strconv.Itoa(f.n) }
func (f *PiPowerFamily) Constant() string              { return "pi^" + strconv.Itoa(f.n) }
func (f *PiPowerFamily) Bounds() (lower, upper string) { return "0", "1" }
func (f *PiPowerFamily) Roles() []Role                 { return []Role{RoleRational, RoleConstant} }
func (f *PiPowerFamily) Unknowns() int                 { return 2 }
func (f *PiPowerFamily) DefaultLimit() int             { return 64 }
func (f *PiPowerFamily) Skip(k int) bool               { return (k+f.n)%2 == 0 }

func (f *PiPowerFamily) Seed() Poly {
	return NewPoly(Sym(VarA), Affine{}, Sym(VarB))
}

func (f *PiPowerFamily) Grow(p Poly) (Poly, error) { return p.Shift(1), nil }

// Integrate splits P = Q*(1+x^2) + R. Each quotient term x^i contributes
// (n-1)!/(i+1)^n; R may only populate x^0 (odd n, through beta(n)) or
// x^1 (even n, through zeta(n)).
func (f *PiPowerFamily) Integrate(p Poly) ([]Affine, error) {
	q, r, err := p.DivMod(onePlusXSquared)
	if err != nil {
		return nil, err
	}
	fact, err := f.cache.Factorial(f.n - 1)
	if err != nil {
		return nil, err
	}
	var A Affine
	for i, c := range q.coeffs {
		w, _ := NewRat(big.NewInt(1), FastPow(big.NewInt(int64(i+1)), uint64(f.n)))
		A = A.Add(c.Scale(w))
	}
	A = A.Scale(RatFromInt(fact))

	slot := 1 - f.n%2
	var B Affine
	for i, c := range r.coeffs {
		if c.IsZero() {
			continue
		}
		if i != slot {
			return nil, fmt.Errorf("%s: remainder term x^%d: %w", f.ID(), i, ErrRemainderShape)
		}
		w, err := f.remainderWeight(fact)
		if err != nil {
			return nil, err
		}
		B = c.Scale(w)
	}
	return []Affine{A, B}, nil
}

// remainderWeight is the multiple of pi^n contributed by the populated
// remainder slot:
//
//	odd n:  Integrate[Log[1/x]^(n-1) / (1 + x^2), {x, 0, 1}]     = beta(n) (n-1)!
//	even n: Integrate[x Log[1/x]^(n-1) / (1 + x^2), {x, 0, 1}] = zeta(n) (n-1)! (2^(n-1) - 1) / 2^(2n-1)
func (f *PiPowerFamily) remainderWeight(fact *big.Int) (Rat, error) {
	if f.n%2 == 1 {
		b, err := f.cache.Beta(f.n)
		if err != nil {
			return Rat{}, err
		}
		return b.Mul(RatFromInt(fact)), nil
	}
	z, err := f.cache.Zeta(f.n)
	if err != nil {
		return Rat{}, err
	}
	num, err := f.cache.TwoPower(f.n - 1)
	if err != nil {
		return Rat{}, err
	}
	den, err := f.cache.TwoPower(2*f.n - 1)
	if err != nil {
		return Rat{}, err
	}
	num.Sub(num, big.NewInt(1)).Mul(num, fact)
	w, err := NewRat(num, den)
	if err != nil {
		return Rat{}, err
	}
	return z.Mul(w), nil
}

func (f *PiPowerFamily) Integrand(c Certificate) string {
	return fmt.Sprintf("x**%d * (%s + %s*x**2) * ln(1/x)**%d / (1 + x**2)",
		c.Shift, c.Coefficients[0], c.Coefficients[1], f.n-1)
}

func (f *PiPowerFamily) IntegrandLaTeX(c Certificate) string {
	num := latexPower("x", c.Shift) +
		latexFactor(c.Coefficients, []string{"", "x^{2}"}, `\dfrac`) +
		latexPower(`\left(\ln\frac{1}{x}\right)`, f.n-1)
	return `\dfrac{` + num + `}{1+x^{2}}`
}
