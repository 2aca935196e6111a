package intbound_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/intbound"
)

// ============================================================
// Rat tests
// ============================================================

func TestRat_ReducesOnConstruction(t *testing.T) {
	tests := []struct {
		num, den int64
		want     string
	}{
		{6, 8, "3/4"},
		{-6, 8, "-3/4"},
		{6, -8, "-3/4"},
		{-6, -8, "3/4"},
		{0, 5, "0"},
		{10, 5, "2"},
	}
	for _, tt := range tests {
		r, err := intbound.NewRat(big.NewInt(tt.num), big.NewInt(tt.den))
		require.NoError(t, err)
		assert.Equal(t, tt.want, r.String())
		assert.Equal(t, 1, r.Den().Sign(), "denominator must be positive")
		g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(r.Num()), r.Den())
		if r.Sign() != 0 {
			assert.Equal(t, int64(1), g.Int64(), "gcd(%s)", r)
		}
	}
}

func TestRat_ZeroDenominator(t *testing.T) {
	_, err := intbound.NewRat(big.NewInt(1), big.NewInt(0))
	assert.ErrorIs(t, err, intbound.ErrDivisionByZero)

	_, err = intbound.N(1).Div(intbound.Rat{})
	assert.ErrorIs(t, err, intbound.ErrDivisionByZero)

	_, err = intbound.Rat{}.Inv()
	assert.ErrorIs(t, err, intbound.ErrDivisionByZero)

	assert.Panics(t, func() { intbound.F(1, 0) })
}

func TestRat_Arithmetic(t *testing.T) {
	a, b := intbound.F(1, 3), intbound.F(1, 6)
	assert.Equal(t, "1/2", a.Add(b).String())
	assert.Equal(t, "1/6", a.Sub(b).String())
	assert.Equal(t, "1/18", a.Mul(b).String())
	q, err := a.Div(b)
	require.NoError(t, err)
	assert.Equal(t, "2", q.String())
	assert.Equal(t, "-1/3", a.Neg().String())
	inv, err := intbound.F(-2, 7).Inv()
	require.NoError(t, err)
	assert.Equal(t, "-7/2", inv.String())
}

func TestRat_ValueSemantics(t *testing.T) {
	a := intbound.N(5)
	b := a.Add(intbound.N(1))
	assert.Equal(t, "5", a.String())
	assert.Equal(t, "6", b.String())

	num := a.Num()
	num.SetInt64(100)
	assert.Equal(t, "5", a.String(), "Num must return a copy")
}

func TestRat_Predicates(t *testing.T) {
	var zero intbound.Rat
	assert.True(t, zero.IsZero())
	assert.Equal(t, "0", zero.String())
	assert.True(t, intbound.N(1).IsOne())
	assert.True(t, intbound.N(-1).IsMinusOne())
	assert.True(t, intbound.F(-1, 2).IsNegative())
	assert.False(t, intbound.F(1, 2).IsInt())
	assert.Equal(t, -1, intbound.F(1, 3).Cmp(intbound.F(1, 2)))
	assert.True(t, intbound.F(2, 4).Equal(intbound.F(1, 2)))
	assert.Equal(t, "3/4", intbound.F(-3, 4).Abs().String())
}

func TestRat_Parse(t *testing.T) {
	valid := map[string]string{
		"42":                    "42",
		"-71":                   "-71",
		"1/2":                   "1/2",
		"-6/8":                  "-3/4",
		"14885392687":           "14885392687",
		"123456789012345678901": "123456789012345678901",
		" 7 ":                   "7",
	}
	for in, want := range valid {
		r, err := intbound.ParseRat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, r.String(), in)
	}

	for _, in := range []string{"", "+1", "abc", "1/", "/2", "1.5", "1/+2", "--1"} {
		_, err := intbound.ParseRat(in)
		assert.ErrorIs(t, err, intbound.ErrInvalidInput, in)
	}

	_, err := intbound.ParseRat("1/0")
	assert.ErrorIs(t, err, intbound.ErrInvalidInput)
	assert.ErrorIs(t, err, intbound.ErrDivisionByZero)
}

func TestRat_ParseRoundTrip(t *testing.T) {
	for _, r := range []intbound.Rat{
		intbound.N(0), intbound.N(-5), intbound.F(22, 7), intbound.F(-629602886415, 653752),
	} {
		back, err := intbound.ParseRat(r.String())
		require.NoError(t, err)
		assert.True(t, back.Equal(r), "%s", r)
	}
}

func TestRat_LaTeX(t *testing.T) {
	assert.Equal(t, `\frac{2}{5}`, intbound.F(2, 5).LaTeX())
	assert.Equal(t, `-\frac{1}{3}`, intbound.F(-1, 3).LaTeX())
	assert.Equal(t, "-4", intbound.N(-4).LaTeX())
}

func TestRat_JSON(t *testing.T) {
	b, err := json.Marshal([]intbound.Rat{intbound.F(-3, 4), intbound.N(2)})
	require.NoError(t, err)
	assert.JSONEq(t, `["-3/4","2"]`, string(b))

	var out []intbound.Rat
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out, 2)
	assert.True(t, out[0].Equal(intbound.F(-3, 4)))

	var bad intbound.Rat
	assert.Error(t, json.Unmarshal([]byte(`"1/0"`), &bad))
}
