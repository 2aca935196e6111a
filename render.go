package intbound

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================================
// Rendering: sympy and LaTeX forms of a certificate
// ============================================================

// Rendered bundles a certificate with its printable forms.
type Rendered struct {
	Certificate
	Constant string `json:"constant"`
	Lower    string `json:"lower"`
	Upper    string `json:"upper"`
	Function string `json:"function"`
	LaTeX    string `json:"latex"`
}

// Render produces every printable form of c.
func Render(f Family, c Certificate) Rendered {
	lo, hi := f.Bounds()
	return Rendered{
		Certificate: c,
		Constant:    f.Constant(),
		Lower:       lo,
		Upper:       hi,
		Function:    f.Integrand(c),
		LaTeX:       FormatLaTeX(f, c),
	}
}

// FormatSympy renders c as two lines that sympy can parse:
//
//	Bounds   : 0, 1
//	Function : x**3 * (1-x)**3 * (1/6 + 0*x) * exp(x)
func FormatSympy(f Family, c Certificate) string {
	lo, hi := f.Bounds()
	return fmt.Sprintf("Bounds   : %s, %s\nFunction : %s", lo, hi, f.Integrand(c))
}

// FormatLaTeX renders c as a definite integral.
func FormatLaTeX(f Family, c Certificate) string {
	lo, hi := f.Bounds()
	return fmt.Sprintf(`\int_{%s}^{%s}%s\mathrm{d}x`, latexBound(lo), latexBound(hi), f.IntegrandLaTeX(c))
}

func latexBound(s string) string {
	if s == "pi" {
		return `\pi`
	}
	return s
}

// latexPower renders base^n, dropping the exponent 1 and the factor for n = 0.
func latexPower(base string, n int) string {
	switch n {
	case 0:
		return ""
	case 1:
		return base
	}
	return base + "^{" + strconv.Itoa(n) + "}"
}

// latexCoeff renders c*v as the leading term of a sum.
func latexCoeff(c Rat, v, frac string) string {
	switch {
	case c.IsZero():
		return ""
	case v == "":
		return c.latex(frac)
	case c.IsOne():
		return v
	case c.IsMinusOne():
		return "-" + v
	}
	return c.latex(frac) + v
}

// latexSignCoeff renders c*v as a later term of a sum, always signed.
func latexSignCoeff(c Rat, v, frac string) string {
	if c.IsZero() {
		return ""
	}
	sign := "+"
	if c.IsNegative() {
		sign = "-"
	}
	if v != "" && (c.IsOne() || c.IsMinusOne()) {
		return sign + v
	}
	return sign + c.alatex(frac) + v
}

// latexFactor renders sum(coeffs[i]*vars[i]) in parentheses, skipping zero
// terms.
func latexFactor(coeffs []Rat, vars []string, frac string) string {
	var b strings.Builder
	for i, c := range coeffs {
		if b.Len() == 0 {
			b.WriteString(latexCoeff(c, vars[i], frac))
		} else {
			b.WriteString(latexSignCoeff(c, vars[i], frac))
		}
	}
	if b.Len() == 0 {
		return `\left(0\right)`
	}
	return `\left(` + b.String() + `\right)`
}
