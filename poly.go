package intbound

import (
	"fmt"
	"strings"
)

// ============================================================
// Poly: polynomial in x with Affine coefficients
// ============================================================

// Poly holds the coefficient of x^i at index i. The highest stored
// coefficient is never zero; the empty polynomial is 0.
type Poly struct{ coeffs []Affine }

// NewPoly builds c[0] + c[1]*x + ... from a copy of coeffs.
func NewPoly(coeffs ...Affine) Poly {
	out := make([]Affine, len(coeffs))
	copy(out, coeffs)
	return Poly{coeffs: trim(out)}
}

// Monomial returns c*x^degree, or 0 for a negative degree.
func Monomial(c Affine, degree int) Poly {
	if degree < 0 {
		return Poly{}
	}
	out := make([]Affine, degree+1)
	out[degree] = c
	return Poly{coeffs: trim(out)}
}

func trim(c []Affine) []Affine {
	for len(c) > 0 && c[len(c)-1].IsZero() {
		c = c[:len(c)-1]
	}
	return c
}

// Len returns the number of stored coefficients (degree+1, 0 for the zero polynomial).
func (p Poly) Len() int { return len(p.coeffs) }

// Degree returns the degree, -1 for the zero polynomial.
func (p Poly) Degree() int { return len(p.coeffs) - 1 }

func (p Poly) IsZero() bool { return len(p.coeffs) == 0 }

// Coeff returns the coefficient of x^i, zero outside the stored range.
func (p Poly) Coeff(i int) Affine {
	if i < 0 || i >= len(p.coeffs) {
		return Affine{}
	}
	return p.coeffs[i]
}

// Coeffs returns a copy of the coefficient slice.
func (p Poly) Coeffs() []Affine {
	out := make([]Affine, len(p.coeffs))
	copy(out, p.coeffs)
	return out
}

func (p Poly) Add(q Poly) Poly {
	out := make([]Affine, max(len(p.coeffs), len(q.coeffs)))
	for i := range out {
		out[i] = p.Coeff(i).Add(q.Coeff(i))
	}
	return Poly{coeffs: trim(out)}
}

func (p Poly) Sub(q Poly) Poly {
	out := make([]Affine, max(len(p.coeffs), len(q.coeffs)))
	for i := range out {
		out[i] = p.Coeff(i).Sub(q.Coeff(i))
	}
	return Poly{coeffs: trim(out)}
}

// Mul convolves the coefficient sequences. Every product of two
// coefficients needs one numeric side.
func (p Poly) Mul(q Poly) (Poly, error) {
	if p.IsZero() || q.IsZero() {
		return Poly{}, nil
	}
	out := make([]Affine, len(p.coeffs)+len(q.coeffs)-1)
	for i, pc := range p.coeffs {
		if pc.IsZero() {
			continue
		}
		for j, qc := range q.coeffs {
			prod, err := pc.Mul(qc)
			if err != nil {
				return Poly{}, err
			}
			out[i+j] = out[i+j].Add(prod)
		}
	}
	return Poly{coeffs: trim(out)}, nil
}

// DivMod returns q, r with p = q*d + r and deg r < deg d.
// The leading coefficient of d must be a nonzero number.
func (p Poly) DivMod(d Poly) (q, r Poly, err error) {
	if d.IsZero() {
		return Poly{}, Poly{}, fmt.Errorf("polynomial division: %w", ErrDivisionByZero)
	}
	rem := p.Coeffs()
	dn := len(d.coeffs)
	lead := d.coeffs[dn-1]
	var quo []Affine
	if len(rem) >= dn {
		quo = make([]Affine, len(rem)-dn+1)
	}
	for len(rem) >= dn {
		coeff, err := rem[len(rem)-1].Div(lead)
		if err != nil {
			return Poly{}, Poly{}, err
		}
		shift := len(rem) - dn
		for i, dc := range d.coeffs {
			prod, err := coeff.Mul(dc)
			if err != nil {
				return Poly{}, Poly{}, err
			}
			rem[shift+i] = rem[shift+i].Sub(prod)
		}
		quo[shift] = coeff
		rem = trim(rem)
	}
	return Poly{coeffs: trim(quo)}, Poly{coeffs: rem}, nil
}

// Shift returns p*x^k.
func (p Poly) Shift(k int) Poly {
	if p.IsZero() || k <= 0 {
		return NewPoly(p.coeffs...)
	}
	out := make([]Affine, k+len(p.coeffs))
	copy(out[k:], p.coeffs)
	return Poly{coeffs: out}
}

func (p Poly) Equal(q Poly) bool {
	if len(p.coeffs) != len(q.coeffs) {
		return false
	}
	for i := range p.coeffs {
		if !p.coeffs[i].Equal(q.coeffs[i]) {
			return false
		}
	}
	return true
}

// String renders the polynomial in the variable x, e.g. "(a) + (b) * x^2".
func (p Poly) String() string { return p.Format("x") }

// Format renders the polynomial in the named variable.
func (p Poly) Format(variable string) string {
	var parts []string
	for i, c := range p.coeffs {
		if c.IsZero() {
			continue
		}
		switch i {
		case 0:
			parts = append(parts, "("+c.String()+")")
		case 1:
			parts = append(parts, "("+c.String()+") * "+variable)
		default:
			parts = append(parts, fmt.Sprintf("(%s) * %s^%d", c, variable, i))
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " + ")
}
