package intbound

import "fmt"

// EPowerPiFamily integrates polynomials in t = sin(x) against e^(q x) on
// [0, pi]:
//
//	Integrate[P(Sin[x]) * Exp[q x], {x, 0, pi}] = A + B*e^(q pi)
//
// Since sin(x) ranges over [0, 1] on [0, pi], the nonnegativity check on
// a + b*t is the same as for the other linear families.
type EPowerPiFamily struct {
	shiftedLinear
	q, qInv, qSq Rat
}

// NewEPowerPiFamily returns the e^(q pi) family for rational q != 0.
func NewEPowerPiFamily(q Rat) (*EPowerPiFamily, error) {
	qInv, err := q.Inv()
	if err != nil {
		return nil, fmt.Errorf("%w: e_power_pi_%s: q must be nonzero", ErrInvalidInput, q)
	}
	return &EPowerPiFamily{q: q, qInv: qInv, qSq: q.Mul(q)}, nil
}

// Exponent returns q.
func (f *EPowerPiFamily) Exponent() Rat { return f.q }

func (f *EPowerPiFamily) ID() string {
	if f.q.IsOne() {
		return "e_power_pi"
	}
	return "e_power_pi_" + f.q.String()
}

func (f *EPowerPiFamily) Constant() string {
	if f.q.IsOne() {
		return "e^pi"
	}
	return "e^(" + f.q.String() + "*pi)"
}

func (f *EPowerPiFamily) Bounds() (lower, upper string) { return "0", "pi" }

// Integrate uses two interleaved chains, one per parity of i:
//
//	I_0 = (e^(q pi) - 1)/q
//	I_1 = (e^(q pi) + 1)/(q^2 + 1)
//	I_i = i (i-1)/(q^2 + i^2) * I_(i-2)
//
// where I_i = Integrate[Sin[x]^i Exp[q x], {x, 0, pi}].
func (f *EPowerPiFamily) Integrate(p Poly) ([]Affine, error) {
	odd, err := f.qSq.Add(N(1)).Inv()
	if err != nil {
		return nil, err
	}
	a := [2]Rat{f.qInv.Neg(), odd}
	b := [2]Rat{f.qInv, odd}
	var A, B Affine
	for i, c := range p.coeffs {
		if i >= 2 {
			n := N(int64(i))
			k, err := n.Mul(n.Sub(N(1))).Div(f.qSq.Add(n.Mul(n)))
			if err != nil {
				return nil, err
			}
			a[i%2] = a[i%2].Mul(k)
			b[i%2] = b[i%2].Mul(k)
		}
		A = A.Add(c.Scale(a[i%2]))
		B = B.Add(c.Scale(b[i%2]))
	}
	return []Affine{A, B}, nil
}

func (f *EPowerPiFamily) Integrand(c Certificate) string {
	exp := "exp(x)"
	if !f.q.IsOne() {
		exp = fmt.Sprintf("exp(%s*x)", f.q)
	}
	return fmt.Sprintf("sin(x)**%d * (1-sin(x))**%d * (%s + %s*sin(x)) * %s",
		c.Shift, c.Shift, c.Coefficients[0], c.Coefficients[1], exp)
}

func (f *EPowerPiFamily) IntegrandLaTeX(c Certificate) string {
	f0 := latexPower(`\left(\sin x\right)`, c.Shift) + latexPower(`\left(1-\sin x\right)`, c.Shift)
	f1 := latexFactor(c.Coefficients, []string{"", `\sin x`}, `\frac`)
	if len(f1) < len(f0) {
		f0, f1 = f1, f0
	}
	return f0 + f1 + `\mathrm{e}^{` + latexCoeff(f.q, "x", `\frac`) + `}`
}
