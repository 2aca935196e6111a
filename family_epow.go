package intbound

import "fmt"

// EPowerFamily integrates against e^(q x) on [0, 1]:
//
//	Integrate[P(x) * Exp[q x], {x, 0, 1}] = A + B*e^q
type EPowerFamily struct {
	shiftedLinear
	q, qInv Rat
}

// NewEPowerFamily returns the e^q family for rational q != 0.
func NewEPowerFamily(q Rat) (*EPowerFamily, error) {
	qInv, err := q.Inv()
	if err != nil {
		return nil, fmt.Errorf("%w: e_power_%s: q must be nonzero", ErrInvalidInput, q)
	}
	return &EPowerFamily{q: q, qInv: qInv}, nil
}

// Exponent returns q.
func (f *EPowerFamily) Exponent() Rat { return f.q }

func (f *EPowerFamily) ID() string                    { return "e_power_" + f.q.String() }
func (f *EPowerFamily) Constant() string              { return "e^" + parenthesize(f.q) }
func (f *EPowerFamily) Bounds() (lower, upper string) { return "0", "1" }

// Integrate uses Integrate[x^i e^(q x), {x, 0, 1}] = a_i + b_i*e^q with
// a_0 = -1/q, b_0 = 1/q, a_i = -i a_(i-1)/q and b_i = 1/q - i b_(i-1)/q.
func (f *EPowerFamily) Integrate(p Poly) ([]Affine, error) {
	var A, B Affine
	a, b := f.qInv.Neg(), f.qInv
	for i, c := range p.coeffs {
		if i != 0 {
			k := N(int64(i)).Mul(f.qInv)
			a = a.Mul(k).Neg()
			b = f.qInv.Sub(k.Mul(b))
		}
		A = A.Add(c.Scale(a))
		B = B.Add(c.Scale(b))
	}
	return []Affine{A, B}, nil
}

func (f *EPowerFamily) Integrand(c Certificate) string {
	return fmt.Sprintf("x**%d * (1-x)**%d * (%s + %s*x) * exp(%s * x)",
		c.Shift, c.Shift, c.Coefficients[0], c.Coefficients[1], f.q)
}

func (f *EPowerFamily) IntegrandLaTeX(c Certificate) string {
	f0 := latexPower("x", c.Shift) + latexPower(`\left(1-x\right)`, c.Shift)
	f1 := latexFactor(c.Coefficients, []string{"", "x"}, `\frac`)
	if len(f1) < len(f0) {
		f0, f1 = f1, f0
	}
	return f0 + f1 + `\mathrm{e}^{` + latexCoeff(f.q, "x", `\frac`) + `}`
}

// parenthesize wraps r in parentheses unless it is a nonnegative integer.
func parenthesize(r Rat) string {
	if r.IsInt() && !r.IsNegative() {
		return r.String()
	}
	return "(" + r.String() + ")"
}
