package intbound

// ============================================================
// Solvers: Cramer's rule over Rat
// ============================================================

func det2(a1, a2, b1, b2 Rat) Rat { return a1.Mul(b2).Sub(a2.Mul(b1)) }

func det3(a1, a2, a3, b1, b2, b3, c1, c2, c3 Rat) Rat {
	return a1.Mul(b2).Mul(c3).
		Sub(a1.Mul(b3).Mul(c2)).
		Sub(a2.Mul(b1).Mul(c3)).
		Add(a2.Mul(b3).Mul(c1)).
		Add(a3.Mul(b1).Mul(c2)).
		Sub(a3.Mul(b2).Mul(c1))
}

// Solve2 solves
//
//	a1*x + b1*y = -c1
//	a2*x + b2*y = -c2
//
// and returns ErrSingular when the determinant vanishes.
func Solve2(a1, a2, b1, b2, c1, c2 Rat) (x, y Rat, err error) {
	d := det2(a1, a2, b1, b2)
	if d.IsZero() {
		return Rat{}, Rat{}, ErrSingular
	}
	x, _ = det2(c1, c2, b1, b2).Neg().Div(d)
	y, _ = det2(a1, a2, c1, c2).Neg().Div(d)
	return x, y, nil
}

// Solve3 solves ai*x + bi*y + ci*z = -di for i = 1..3.
func Solve3(a1, a2, a3, b1, b2, b3, c1, c2, c3, d1, d2, d3 Rat) (x, y, z Rat, err error) {
	d := det3(a1, a2, a3, b1, b2, b3, c1, c2, c3)
	if d.IsZero() {
		return Rat{}, Rat{}, Rat{}, ErrSingular
	}
	x, _ = det3(d1, d2, d3, b1, b2, b3, c1, c2, c3).Neg().Div(d)
	y, _ = det3(a1, a2, a3, d1, d2, d3, c1, c2, c3).Neg().Div(d)
	z, _ = det3(a1, a2, a3, b1, b2, b3, d1, d2, d3).Neg().Div(d)
	return x, y, z, nil
}

// SolveAB solves eq1 = eq2 = 0 for the unknowns a and b.
func SolveAB(eq1, eq2 Affine) (a, b Rat, err error) {
	return Solve2(
		eq1.Coefficient(VarA), eq2.Coefficient(VarA),
		eq1.Coefficient(VarB), eq2.Coefficient(VarB),
		eq1.Coefficient(Const), eq2.Coefficient(Const),
	)
}

// SolveABC solves eq1 = eq2 = eq3 = 0 for the unknowns a, b and c.
func SolveABC(eq1, eq2, eq3 Affine) (a, b, c Rat, err error) {
	return Solve3(
		eq1.Coefficient(VarA), eq2.Coefficient(VarA), eq3.Coefficient(VarA),
		eq1.Coefficient(VarB), eq2.Coefficient(VarB), eq3.Coefficient(VarB),
		eq1.Coefficient(VarC), eq2.Coefficient(VarC), eq3.Coefficient(VarC),
		eq1.Coefficient(Const), eq2.Coefficient(Const), eq3.Coefficient(Const),
	)
}

// Nonnegative2 reports whether a + b*x >= 0 on [0, 1].
func Nonnegative2(a, b Rat) bool {
	return a.Sign() >= 0 && a.Add(b).Sign() >= 0
}

// Nonnegative3 reports whether a + b*x + c*x^2 >= 0 on [0, 1].
func Nonnegative3(a, b, c Rat) bool {
	if c.IsZero() {
		return Nonnegative2(a, b)
	}
	if a.Sign() < 0 || a.Add(b).Add(c).Sign() < 0 {
		return false
	}
	// vertex at -b/(2c)
	peak, _ := b.Neg().Div(c.Mul(N(2)))
	if peak.Sign() <= 0 || peak.Cmp(N(1)) >= 0 {
		return true
	}
	return a.Add(b.Mul(peak)).Add(c.Mul(peak).Mul(peak)).Sign() >= 0
}
