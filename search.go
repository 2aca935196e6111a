package intbound

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ============================================================
// Certificate search
// ============================================================

// Target is the bound A + B*K being certified.
type Target struct {
	A Rat `json:"a"`
	B Rat `json:"b"`
}

// ParseTarget parses the rational part a and the multiple b of K.
func ParseTarget(a, b string) (Target, error) {
	ra, err := ParseRat(a)
	if err != nil {
		return Target{}, fmt.Errorf("A: %w", err)
	}
	rb, err := ParseRat(b)
	if err != nil {
		return Target{}, fmt.Errorf("B: %w", err)
	}
	return Target{A: ra, B: rb}, nil
}

func (t Target) String() string {
	if t.B.IsNegative() {
		return fmt.Sprintf("%s - %s*K", t.A, t.B.Abs())
	}
	return fmt.Sprintf("%s + %s*K", t.A, t.B)
}

// Certificate is the outcome of a successful search: after Shift growth
// steps the family's seed, with its unknowns replaced by Coefficients, is
// nonnegative on the interval and integrates to exactly Target.
type Certificate struct {
	Family       string `json:"family"`
	Shift        int    `json:"shift"`
	Coefficients []Rat  `json:"coefficients"`
	Target       Target `json:"target"`
}

// StepOutcome classifies one iteration of the search loop.
type StepOutcome string

const (
	StepSkipped   StepOutcome = "skipped"
	StepSingular  StepOutcome = "singular"
	StepRemainder StepOutcome = "remainder"
	StepNegative  StepOutcome = "negative"
	StepCertified StepOutcome = "certified"
)

// Observer receives search progress. Implementations must be safe for
// concurrent use when one Searcher serves several goroutines.
type Observer interface {
	Step(family string, k int, outcome StepOutcome)
	Finished(family string, cert *Certificate, err error, elapsed time.Duration)
}

// Searcher runs the bounded certificate search. The zero value is ready to
// use: it searches up to each family's default limit and logs nothing.
type Searcher struct {
	// Limit is the largest shift tried; zero means Family.DefaultLimit.
	Limit    int
	Logger   *slog.Logger
	Observer Observer
}

// Search finds a certificate for t in family f within limit steps.
func Search(f Family, t Target, limit int) (Certificate, error) {
	s := Searcher{Limit: limit}
	return s.Search(f, t)
}

// Search tries k = 0..limit. A singular system or a remainder the family
// cannot integrate only rules out that k; any other error ends the search.
// Exhausting the limit returns a *NoSolutionError.
func (s *Searcher) Search(f Family, t Target) (Certificate, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = f.DefaultLimit()
	}
	log := s.logger().With("family", f.ID(), "limit", limit)
	start := time.Now()

	cert, err := s.run(f, t, limit, log)
	elapsed := time.Since(start)
	if s.Observer != nil {
		var c *Certificate
		if err == nil {
			c = &cert
		}
		s.Observer.Finished(f.ID(), c, err, elapsed)
	}
	if err != nil {
		log.Debug("search failed", "target", t, "err", err, "elapsed", elapsed)
		return Certificate{}, err
	}
	log.Debug("certificate found", "target", t, "shift", cert.Shift, "elapsed", elapsed)
	return cert, nil
}

func (s *Searcher) run(f Family, t Target, limit int, log *slog.Logger) (Certificate, error) {
	p := f.Seed()
	for k := 0; k <= limit; k++ {
		outcome := StepSkipped
		if !f.Skip(k) {
			coeffs, o, err := s.step(f, p, t)
			if err != nil {
				return Certificate{}, fmt.Errorf("%s: shift %d: %w", f.ID(), k, err)
			}
			outcome = o
			if outcome == StepCertified {
				s.observe(f, k, outcome, log)
				return Certificate{Family: f.ID(), Shift: k, Coefficients: coeffs, Target: t}, nil
			}
		}
		s.observe(f, k, outcome, log)
		if k == limit {
			break
		}
		var err error
		if p, err = f.Grow(p); err != nil {
			return Certificate{}, fmt.Errorf("%s: grow past shift %d: %w", f.ID(), k, err)
		}
	}
	return Certificate{}, &NoSolutionError{Family: f.ID(), Limit: limit}
}

// step integrates p, matches the target against the rational and K terms
// and solves the residual system for the unknowns.
func (s *Searcher) step(f Family, p Poly, t Target) ([]Rat, StepOutcome, error) {
	terms, err := f.Integrate(p)
	if errors.Is(err, ErrRemainderShape) {
		return nil, StepRemainder, nil
	}
	if err != nil {
		return nil, "", err
	}
	roles := f.Roles()
	if len(terms) != len(roles) || len(terms) != f.Unknowns() {
		return nil, "", fmt.Errorf("%w: %d terms, %d roles, %d unknowns",
			ErrNotSupported, len(terms), len(roles), f.Unknowns())
	}
	eqs := make([]Affine, len(terms))
	for i, e := range terms {
		switch roles[i] {
		case RoleRational:
			e = e.Sub(Constant(t.A))
		case RoleConstant:
			e = e.Sub(Constant(t.B))
		}
		eqs[i] = e
	}

	var (
		coeffs []Rat
		ok     bool
	)
	switch len(eqs) {
	case 2:
		a, b, err := SolveAB(eqs[0], eqs[1])
		if err != nil {
			return solveFailure(err)
		}
		coeffs, ok = []Rat{a, b}, Nonnegative2(a, b)
	case 3:
		a, b, c, err := SolveABC(eqs[0], eqs[1], eqs[2])
		if err != nil {
			return solveFailure(err)
		}
		coeffs, ok = []Rat{a, b, c}, Nonnegative3(a, b, c)
	default:
		return nil, "", fmt.Errorf("%w: %d unknowns", ErrNotSupported, len(eqs))
	}
	if !ok {
		return nil, StepNegative, nil
	}
	return coeffs, StepCertified, nil
}

func solveFailure(err error) ([]Rat, StepOutcome, error) {
	if errors.Is(err, ErrSingular) {
		return nil, StepSingular, nil
	}
	return nil, "", err
}

func (s *Searcher) observe(f Family, k int, outcome StepOutcome, log *slog.Logger) {
	log.Debug("search step", "k", k, "outcome", outcome)
	if s.Observer != nil {
		s.Observer.Step(f.ID(), k, outcome)
	}
}

func (s *Searcher) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
