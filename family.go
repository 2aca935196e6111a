package intbound

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================================
// Family: a kernel and bounds with a closed-form integral
// ============================================================

// Role says how one output of Family.Integrate enters the residual system.
type Role int

const (
	// RoleRational is the rational part, matched against the target's A.
	RoleRational Role = iota
	// RoleConstant is the multiple of K, matched against the target's B.
	RoleConstant
	// RoleAuxiliary is a multiple of another constant and must vanish.
	RoleAuxiliary
)

// Family integrates a test polynomial against a fixed kernel and drives
// the shape of the search: the seed polynomial, how it grows, and which
// steps are skipped.
type Family interface {
	// ID is the keyword that selects the family, e.g. "pi_power_3".
	ID() string
	// Constant is the display name of K, e.g. "pi^3".
	Constant() string
	// Bounds are the integration limits in sympy syntax.
	Bounds() (lower, upper string)
	// Roles has one entry per value returned by Integrate.
	Roles() []Role
	// Unknowns is 2 (a, b) or 3 (a, b, c).
	Unknowns() int
	DefaultLimit() int
	Seed() Poly
	Skip(k int) bool
	Grow(p Poly) (Poly, error)
	// Integrate returns the exact integral of p times the kernel,
	// split by Roles.
	Integrate(p Poly) ([]Affine, error)
	// Integrand renders the certificate's integrand as a sympy expression.
	Integrand(c Certificate) string
	// IntegrandLaTeX renders the certificate's integrand as LaTeX.
	IntegrandLaTeX(c Certificate) string
}

var (
	oneMinusX       = NewPoly(Constant(N(1)), Constant(N(-1)))
	onePlusXSquared = NewPoly(Constant(N(1)), Affine{}, Constant(N(1)))
)

// shiftedLinear is the common shape of the exponential families: the seed
// a + b*t grows to t^k (1-t)^k (a + b*t).
type shiftedLinear struct{}

func (shiftedLinear) Roles() []Role     { return []Role{RoleRational, RoleConstant} }
func (shiftedLinear) Unknowns() int     { return 2 }
func (shiftedLinear) DefaultLimit() int { return 64 }
func (shiftedLinear) Seed() Poly        { return NewPoly(Sym(VarA), Sym(VarB)) }
func (shiftedLinear) Skip(int) bool     { return false }

func (shiftedLinear) Grow(p Poly) (Poly, error) { return growOneMinus(p) }

func growOneMinus(p Poly) (Poly, error) {
	q, err := oneMinusX.Mul(p)
	if err != nil {
		return Poly{}, err
	}
	return q.Shift(1), nil
}

// FamilyInfo describes a family keyword.
type FamilyInfo struct {
	Keyword     string `json:"keyword"`
	Constant    string `json:"constant"`
	Description string `json:"description"`
}

// Families lists the supported keywords.
func Families() []FamilyInfo {
	return []FamilyInfo{
		{"e", "e", "x^k (1-x)^k (a + b x) e^x on [0, 1]"},
		{"pi", "pi", "x^k (1-x)^k (a + b x + c x^2) / (1 + x^2) on [0, 1]"},
		{"pi_power_<n>", "pi^n", "x^k (a + b x^2) ln(1/x)^(n-1) / (1 + x^2) on [0, 1], n >= 2"},
		{"e_power_<q>", "e^q", "x^k (1-x)^k (a + b x) e^(q x) on [0, 1], rational q != 0"},
		{"e_power_pi", "e^pi", "sin(x)^k (1-sin(x))^k (a + b sin(x)) e^x on [0, pi]"},
		{"e_power_pi_<q>", "e^(q pi)", "sin(x)^k (1-sin(x))^k (a + b sin(x)) e^(q x) on [0, pi], rational q != 0"},
	}
}

// ParseFamily resolves a family keyword. The cache is used by the pi^n
// families; it may be shared between families and goroutines.
func ParseFamily(keyword string, cache *Cache) (Family, error) {
	var (
		f   Family
		err error
	)
	switch {
	case keyword == "e":
		return EFamily{}, nil
	case keyword == "pi":
		return PiFamily{}, nil
	case keyword == "e_power_pi":
		f, err = NewEPowerPiFamily(N(1))
	case strings.HasPrefix(keyword, "e_power_pi_"):
		var q Rat
		if q, err = parseParam(keyword, "e_power_pi_"); err == nil {
			f, err = NewEPowerPiFamily(q)
		}
	case strings.HasPrefix(keyword, "pi_power_"):
		var n int
		if n, err = parseExponent(keyword, "pi_power_"); err == nil {
			f, err = NewPiPowerFamily(n, cache)
		}
	case strings.HasPrefix(keyword, "e_power_"):
		var q Rat
		if q, err = parseParam(keyword, "e_power_"); err == nil {
			f, err = NewEPowerFamily(q)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, keyword)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// parseParam parses the rational after prefix. A suffix that does not start
// like a number is an unknown keyword; one that does but fails to parse is
// malformed input.
func parseParam(keyword, prefix string) (Rat, error) {
	s := strings.TrimPrefix(keyword, prefix)
	if s == "" || !(isDigit(s[0]) || s[0] == '-') {
		return Rat{}, fmt.Errorf("%w: %q", ErrUnknownFamily, keyword)
	}
	q, err := ParseRat(s)
	if err != nil {
		return Rat{}, fmt.Errorf("family %q: %w", keyword, err)
	}
	return q, nil
}

// parseExponent parses the unsigned integer after prefix.
func parseExponent(keyword, prefix string) (int, error) {
	s := strings.TrimPrefix(keyword, prefix)
	if s == "" || !isDigit(s[0]) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, keyword)
	}
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidInput, keyword, err)
	}
	return int(n), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
