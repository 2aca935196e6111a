package intbound

import "fmt"

// EFamily integrates against e^x on [0, 1]:
//
//	Integrate[P(x) * Exp[x], {x, 0, 1}] = A + B*e
type EFamily struct{ shiftedLinear }

func (EFamily) ID() string                    { return "e" }
func (EFamily) Constant() string              { return "e" }
func (EFamily) Bounds() (lower, upper string) { return "0", "1" }

// Integrate accumulates the closed form of Integrate[x^i e^x, {x, 0, 1}],
// which is a_i + b_i*e with a_0 = -1, b_0 = 1 and, by parts,
// a_i = -i*a_(i-1), b_i = 1 - i*b_(i-1).
func (EFamily) Integrate(p Poly) ([]Affine, error) {
	var A, B Affine
	a, b := N(-1), N(1)
	for i, c := range p.coeffs {
		if i != 0 {
			n := N(int64(i))
			a = a.Mul(n).Neg()
			b = N(1).Sub(n.Mul(b))
		}
		A = A.Add(c.Scale(a))
		B = B.Add(c.Scale(b))
	}
	return []Affine{A, B}, nil
}

func (EFamily) Integrand(c Certificate) string {
	return fmt.Sprintf("x**%d * (1-x)**%d * (%s + %s*x) * exp(x)",
		c.Shift, c.Shift, c.Coefficients[0], c.Coefficients[1])
}

func (EFamily) IntegrandLaTeX(c Certificate) string {
	f0 := latexPower("x", c.Shift) + latexPower(`\left(1-x\right)`, c.Shift)
	f1 := latexFactor(c.Coefficients, []string{"", "x"}, `\frac`)
	if len(f1) < len(f0) {
		f0, f1 = f1, f0
	}
	return f0 + f1 + `\mathrm{e}^{x}`
}
