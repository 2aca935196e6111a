package intbound

import "fmt"

// PiFamily integrates against 1/(1+x^2) on [0, 1]:
//
//	Integrate[P(x) / (1 + x^2), {x, 0, 1}] = A + B*ln(2) + C*pi
//
// The ln(2) part must vanish, so the search carries three unknowns.
type PiFamily struct{}

func (PiFamily) ID() string                    { return "pi" }
func (PiFamily) Constant() string              { return "pi" }
func (PiFamily) Bounds() (lower, upper string) { return "0", "1" }
func (PiFamily) Roles() []Role                 { return []Role{RoleRational, RoleAuxiliary, RoleConstant} }
func (PiFamily) Unknowns() int                 { return 3 }
func (PiFamily) DefaultLimit() int             { return 32 }
func (PiFamily) Skip(int) bool                 { return false }

func (PiFamily) Seed() Poly {
	return NewPoly(Sym(VarA), Sym(VarB), Sym(VarC))
}

func (PiFamily) Grow(p Poly) (Poly, error) { return growOneMinus(p) }

// Integrate splits P = Q*(1+x^2) + r0 + r1*x. The quotient integrates to
// sum Q_i/(i+1); r0 contributes r0*pi/4 and r1 contributes r1*ln(2)/2.
func (f PiFamily) Integrate(p Poly) ([]Affine, error) {
	q, r, err := p.DivMod(onePlusXSquared)
	if err != nil {
		return nil, err
	}
	var A, B, C Affine
	for i, c := range q.coeffs {
		A = A.Add(c.Scale(F(1, int64(i+1))))
	}
	for i, c := range r.coeffs {
		switch i {
		case 0:
			C = c.Scale(F(1, 4))
		case 1:
			B = c.Scale(F(1, 2))
		default:
			return nil, fmt.Errorf("%s: remainder term x^%d: %w", f.ID(), i, ErrRemainderShape)
		}
	}
	return []Affine{A, B, C}, nil
}

func (PiFamily) Integrand(c Certificate) string {
	return fmt.Sprintf("x**%d * (1-x)**%d * (%s + %s*x + %s*x**2) / (1 + x**2)",
		c.Shift, c.Shift, c.Coefficients[0], c.Coefficients[1], c.Coefficients[2])
}

func (PiFamily) IntegrandLaTeX(c Certificate) string {
	num := latexPower("x", c.Shift) + latexPower(`\left(1-x\right)`, c.Shift) +
		latexFactor(c.Coefficients, []string{"", "x", "x^{2}"}, `\dfrac`)
	return `\dfrac{` + num + `}{1+x^{2}}`
}
