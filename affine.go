package intbound

import (
	"fmt"
	"strings"
)

// ============================================================
// Affine: linear expression in the unknowns a, b, c
// ============================================================

// Var names one slot of an Affine expression.
type Var int

const (
	Const Var = iota
	VarA
	VarB
	VarC
	numVars
)

func (v Var) String() string {
	switch v {
	case Const:
		return ""
	case VarA:
		return "a"
	case VarB:
		return "b"
	case VarC:
		return "c"
	}
	return fmt.Sprintf("Var(%d)", int(v))
}

// Affine is c0 + ca*a + cb*b + cc*c with exact coefficients.
// A zero coefficient is an absent term; the zero value is the expression 0.
type Affine struct{ terms [numVars]Rat }

// Sym returns the unknown v with coefficient 1.
func Sym(v Var) Affine { return Term(v, N(1)) }

// Term returns coeff*v.
func Term(v Var, coeff Rat) Affine { return Affine{}.AddTerm(v, coeff) }

// Constant returns the number r.
func Constant(r Rat) Affine { return Term(Const, r) }

// AddTerm returns e + coeff*v. A coefficient that sums to zero is dropped.
func (e Affine) AddTerm(v Var, coeff Rat) Affine {
	if coeff.IsZero() {
		return e
	}
	sum := e.terms[v].Add(coeff)
	if sum.IsZero() {
		sum = Rat{}
	}
	e.terms[v] = sum
	return e
}

// Coefficient returns the coefficient of v, zero when absent.
func (e Affine) Coefficient(v Var) Rat { return e.terms[v] }

// IsNumber reports whether only the constant term may be nonzero.
func (e Affine) IsNumber() bool {
	for v := VarA; v < numVars; v++ {
		if !e.terms[v].IsZero() {
			return false
		}
	}
	return true
}

func (e Affine) IsZero() bool {
	for _, c := range e.terms {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// Value returns the constant of a numeric expression.
func (e Affine) Value() (Rat, error) {
	if !e.IsNumber() {
		return Rat{}, fmt.Errorf("%w: %s", ErrNotANumber, e)
	}
	return e.terms[Const], nil
}

func (e Affine) Add(o Affine) Affine {
	for v := Const; v < numVars; v++ {
		e = e.AddTerm(v, o.terms[v])
	}
	return e
}

func (e Affine) Sub(o Affine) Affine { return e.Add(o.Neg()) }

func (e Affine) Neg() Affine { return e.Scale(N(-1)) }

// Scale multiplies every coefficient by r.
func (e Affine) Scale(r Rat) Affine {
	var out Affine
	if r.IsZero() {
		return out
	}
	for v := Const; v < numVars; v++ {
		out = out.AddTerm(v, e.terms[v].Mul(r))
	}
	return out
}

// Quo divides every coefficient by r.
func (e Affine) Quo(r Rat) (Affine, error) {
	inv, err := r.Inv()
	if err != nil {
		return Affine{}, err
	}
	return e.Scale(inv), nil
}

// Mul multiplies two expressions, one of which must be a number.
func (e Affine) Mul(o Affine) (Affine, error) {
	if o.IsNumber() {
		return e.Scale(o.terms[Const]), nil
	}
	if e.IsNumber() {
		return o.Scale(e.terms[Const]), nil
	}
	return Affine{}, fmt.Errorf("(%s) * (%s): %w", e, o, ErrNotSupported)
}

// Div divides by a numeric expression.
func (e Affine) Div(o Affine) (Affine, error) {
	if !o.IsNumber() {
		return Affine{}, fmt.Errorf("(%s) / (%s): %w", e, o, ErrNotSupported)
	}
	return e.Quo(o.terms[Const])
}

func (e Affine) Equal(o Affine) bool {
	for v := Const; v < numVars; v++ {
		if !e.terms[v].Equal(o.terms[v]) {
			return false
		}
	}
	return true
}

// String renders unknowns first, then the constant: "a - 2 * b + 1/3".
func (e Affine) String() string {
	var sb strings.Builder
	write := func(v Var, c Rat) {
		neg := c.IsNegative()
		switch {
		case sb.Len() == 0 && neg:
			sb.WriteString("-")
		case sb.Len() > 0 && neg:
			sb.WriteString(" - ")
		case sb.Len() > 0:
			sb.WriteString(" + ")
		}
		a := c.Abs()
		switch {
		case v == Const:
			sb.WriteString(a.String())
		case a.IsOne():
			sb.WriteString(v.String())
		default:
			sb.WriteString(a.String() + " * " + v.String())
		}
	}
	for v := VarA; v < numVars; v++ {
		if c := e.terms[v]; !c.IsZero() {
			write(v, c)
		}
	}
	if c := e.terms[Const]; !c.IsZero() {
		write(Const, c)
	}
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}
