package intbound_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/intbound"
)

// ============================================================
// Helpers
// ============================================================

func target(t *testing.T, a, b string) intbound.Target {
	t.Helper()
	tg, err := intbound.ParseTarget(a, b)
	require.NoError(t, err)
	return tg
}

func ratStrings(rs []intbound.Rat) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

// verify rebuilds the certificate's polynomial, integrates it and checks
// that it lands exactly on the target with a vanishing auxiliary part.
func verify(t *testing.T, f intbound.Family, c intbound.Certificate) {
	t.Helper()
	require.Len(t, c.Coefficients, f.Unknowns())
	p := f.Seed()
	for k := 0; k < c.Shift; k++ {
		var err error
		p, err = f.Grow(p)
		require.NoError(t, err)
	}
	terms, err := f.Integrate(p)
	require.NoError(t, err)
	for i, role := range f.Roles() {
		e := terms[i]
		v := e.Coefficient(intbound.Const)
		for j, coeff := range c.Coefficients {
			v = v.Add(e.Coefficient(intbound.VarA + intbound.Var(j)).Mul(coeff))
		}
		switch role {
		case intbound.RoleRational:
			assert.True(t, v.Equal(c.Target.A), "rational part %s, want %s", v, c.Target.A)
		case intbound.RoleConstant:
			assert.True(t, v.Equal(c.Target.B), "constant part %s, want %s", v, c.Target.B)
		case intbound.RoleAuxiliary:
			assert.True(t, v.IsZero(), "auxiliary part %s, want 0", v)
		}
	}
	if len(c.Coefficients) == 2 {
		assert.True(t, intbound.Nonnegative2(c.Coefficients[0], c.Coefficients[1]))
	} else {
		assert.True(t, intbound.Nonnegative3(c.Coefficients[0], c.Coefficients[1], c.Coefficients[2]))
	}
}

// ============================================================
// Search tests
// ============================================================

func TestSearch_Certificates(t *testing.T) {
	tests := []struct {
		family string
		a, b   string
		limit  int
		shift  int
		coeffs []string
	}{
		{"e", "193", "-71", 64, 3, []string{"1/6", "0"}},
		{"e", "193", "-71", 3, 3, []string{"1/6", "0"}},
		{"e", "-71", "193", 64, 0, []string{"193", "122"}},
		{"pi", "14885392687", "-4738167652", 32, 23,
			[]string{"629602886415/653752", "-1184541913/256", "116946872953727/20920064"}},
		{"pi", "-4738167652", "14885392687", 32, 0, []string{"54803403096", "0", "-4738167652"}},
		{"pi", "1", "0", 1, 0, []string{"1", "0", "1"}},
		{"pi", "0", "1", 1, 0, []string{"4", "0", "0"}},
		{"pi_power_2", "-49", "5", 64, 9, []string{"395/3", "-325/3"}},
		{"pi_power_3", "-31", "1", 64, 12,
			[]string{"1091239949453/83203139250", "-240010278547/83203139250"}},
		{"pi_power_3", "32", "-1", 0, 0, []string{"0", "16"}},
		{"pi_power_4", "98", "-1", 0, 5, []string{"456/7", "2376/7"}},
		{"e_power_3", "-20", "1", 0, 4, []string{"75/8", "21/8"}},
		{"e_power_-1", "-9", "25", 0, 1, []string{"1", "2"}},
		{"e_power_1/2", "-41", "25", 0, 1, []string{"3/4", "1/2"}},
		{"e_power_pi", "463", "-20", 0, 5, []string{"1682810207/38287680", "-1203002411/38287680"}},
		{"e_power_pi", "-23", "1", 0, 4, []string{"258895/47806", "-2015/1749"}},
		{"e_power_pi_1/2", "5", "-1", 0, 3, []string{"433945/134871", "26432475/11508992"}},
	}
	cache := intbound.NewCache()
	for _, tt := range tests {
		name := fmt.Sprintf("%s(%s,%s)/limit=%d", tt.family, tt.a, tt.b, tt.limit)
		t.Run(name, func(t *testing.T) {
			f, err := intbound.ParseFamily(tt.family, cache)
			require.NoError(t, err)
			tg := target(t, tt.a, tt.b)

			c, err := intbound.Search(f, tg, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, f.ID(), c.Family)
			assert.Equal(t, tt.shift, c.Shift)
			if diff := cmp.Diff(tt.coeffs, ratStrings(c.Coefficients)); diff != "" {
				t.Errorf("coefficients mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, c.Target.A.Equal(tg.A) && c.Target.B.Equal(tg.B))
			verify(t, f, c)
		})
	}
}

func TestSearch_NoSolution(t *testing.T) {
	tests := []struct {
		family string
		a, b   string
		limit  int
	}{
		{"e", "193", "-71", 2},
		{"pi", "-1", "0", 1},
		{"pi", "-1", "0", 32},
		{"pi_power_2", "-49", "5", 8},
		{"pi_power_3", "-31", "1", 11},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/limit=%d", tt.family, tt.limit), func(t *testing.T) {
			f := mustFamily(t, tt.family)
			_, err := intbound.Search(f, target(t, tt.a, tt.b), tt.limit)
			require.Error(t, err)
			assert.ErrorIs(t, err, intbound.ErrNoSolution)
			assert.Equal(t, intbound.ClassNoSolution, intbound.Classify(err))

			var nse *intbound.NoSolutionError
			require.True(t, errors.As(err, &nse))
			assert.Equal(t, tt.limit, nse.Limit)
			assert.Equal(t, f.ID(), nse.Family)
		})
	}
}

func TestSearcher_DefaultLimit(t *testing.T) {
	var s intbound.Searcher
	c, err := s.Search(intbound.EFamily{}, target(t, "193", "-71"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Shift)

	_, err = s.Search(intbound.PiFamily{}, target(t, "-1", "0"))
	var nse *intbound.NoSolutionError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, intbound.PiFamily{}.DefaultLimit(), nse.Limit)
}

func TestSearch_Deterministic(t *testing.T) {
	f := mustFamily(t, "pi_power_2")
	tg := target(t, "-49", "5")
	first, err := intbound.Search(f, tg, 0)
	require.NoError(t, err)
	second, err := intbound.Search(f, tg, 0)
	require.NoError(t, err)
	assert.Equal(t, ratStrings(first.Coefficients), ratStrings(second.Coefficients))
	assert.Equal(t, first.Shift, second.Shift)
}

// ============================================================
// Observer tests
// ============================================================

type stepRecord struct {
	k       int
	outcome intbound.StepOutcome
}

type recordingObserver struct {
	mu       sync.Mutex
	steps    []stepRecord
	finished int
	cert     *intbound.Certificate
	err      error
}

func (o *recordingObserver) Step(_ string, k int, outcome intbound.StepOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.steps = append(o.steps, stepRecord{k, outcome})
}

func (o *recordingObserver) Finished(_ string, c *intbound.Certificate, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished++
	o.cert, o.err = c, err
}

func TestSearcher_ObserverSeesEveryStep(t *testing.T) {
	obs := &recordingObserver{}
	s := intbound.Searcher{Observer: obs}
	c, err := s.Search(mustFamily(t, "pi_power_2"), target(t, "-49", "5"))
	require.NoError(t, err)
	require.Equal(t, 9, c.Shift)

	require.Len(t, obs.steps, 10)
	for _, st := range obs.steps[:9] {
		if st.k%2 == 0 {
			assert.Equal(t, intbound.StepSkipped, st.outcome, "k=%d", st.k)
		} else {
			assert.NotEqual(t, intbound.StepSkipped, st.outcome, "k=%d", st.k)
			assert.NotEqual(t, intbound.StepCertified, st.outcome, "k=%d", st.k)
		}
	}
	assert.Equal(t, stepRecord{9, intbound.StepCertified}, obs.steps[9])
	assert.Equal(t, 1, obs.finished)
	require.NotNil(t, obs.cert)
	assert.Equal(t, 9, obs.cert.Shift)
	assert.NoError(t, obs.err)
}

func TestSearcher_ObserverOnFailure(t *testing.T) {
	obs := &recordingObserver{}
	s := intbound.Searcher{Limit: 4, Observer: obs}
	_, err := s.Search(intbound.PiFamily{}, target(t, "-1", "0"))
	require.ErrorIs(t, err, intbound.ErrNoSolution)
	assert.Len(t, obs.steps, 5)
	assert.Nil(t, obs.cert)
	assert.ErrorIs(t, obs.err, intbound.ErrNoSolution)
}

// ============================================================
// Fatal errors
// ============================================================

var errBoom = errors.New("boom")

type brokenFamily struct{ intbound.EFamily }

func (brokenFamily) Integrate(intbound.Poly) ([]intbound.Affine, error) { return nil, errBoom }

type lopsidedFamily struct{ intbound.EFamily }

func (lopsidedFamily) Roles() []intbound.Role {
	return []intbound.Role{intbound.RoleRational, intbound.RoleConstant, intbound.RoleAuxiliary}
}

func TestSearch_IntegrateErrorIsFatal(t *testing.T) {
	_, err := intbound.Search(brokenFamily{}, target(t, "1", "1"), 10)
	require.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, intbound.ErrNoSolution)
	assert.Contains(t, err.Error(), "shift 0")
	assert.Equal(t, intbound.ClassInternal, intbound.Classify(err))
}

// lowDegreeFamily cannot integrate polynomials of degree below 5.
type lowDegreeFamily struct{ intbound.EFamily }

func (f lowDegreeFamily) Integrate(p intbound.Poly) ([]intbound.Affine, error) {
	if p.Degree() < 5 {
		return nil, fmt.Errorf("degree %d: %w", p.Degree(), intbound.ErrRemainderShape)
	}
	return f.EFamily.Integrate(p)
}

func TestSearcher_RemainderShapeSkipsShift(t *testing.T) {
	obs := &recordingObserver{}
	s := intbound.Searcher{Observer: obs}
	c, err := s.Search(lowDegreeFamily{}, target(t, "193", "-71"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Shift)
	assert.Equal(t, []string{"1/6", "0"}, ratStrings(c.Coefficients))

	require.Len(t, obs.steps, 4)
	assert.Equal(t, stepRecord{0, intbound.StepRemainder}, obs.steps[0])
	assert.Equal(t, stepRecord{1, intbound.StepRemainder}, obs.steps[1])
	assert.NotEqual(t, intbound.StepRemainder, obs.steps[2].outcome)
	assert.Equal(t, stepRecord{3, intbound.StepCertified}, obs.steps[3])
	assert.NoError(t, obs.err)
}

func TestSearch_RoleMismatchIsFatal(t *testing.T) {
	_, err := intbound.Search(lopsidedFamily{}, target(t, "1", "1"), 10)
	assert.ErrorIs(t, err, intbound.ErrNotSupported)
}

// ============================================================
// Target tests
// ============================================================

func TestParseTarget(t *testing.T) {
	tg, err := intbound.ParseTarget("1/2", "-3")
	require.NoError(t, err)
	assert.Equal(t, "1/2 - 3*K", tg.String())

	tg, err = intbound.ParseTarget("-49", "5")
	require.NoError(t, err)
	assert.Equal(t, "-49 + 5*K", tg.String())
	assert.Equal(t, "0 - 1/3*K", intbound.Target{B: intbound.F(-1, 3)}.String())

	_, err = intbound.ParseTarget("x", "1")
	assert.ErrorIs(t, err, intbound.ErrInvalidInput)
	assert.Contains(t, err.Error(), "A: ")

	_, err = intbound.ParseTarget("1", "1/0")
	assert.ErrorIs(t, err, intbound.ErrInvalidInput)
	assert.Contains(t, err.Error(), "B: ")
}
