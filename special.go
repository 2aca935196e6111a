package intbound

import (
	"fmt"
	"math/big"
	"sync"
)

// ============================================================
// Cache: factorials and the rational parts of zeta / beta
// ============================================================

// Cache memoizes the integer sequences used by the pi^n family. Tables
// only grow. A Cache is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	factorials []*big.Int // factorials[k] = k!
	twoPowers  []*big.Int // twoPowers[k] = 2^k
	zeta       []Rat      // zeta[k] = zeta(2k) / pi^(2k)
	beta       []Rat      // beta[k] = beta(2k+1) / pi^(2k+1)
}

// NewCache returns a cache holding the seed entries.
func NewCache() *Cache {
	return &Cache{
		factorials: []*big.Int{big.NewInt(1)},
		twoPowers:  []*big.Int{big.NewInt(1)},
		zeta:       []Rat{N(1)},
		beta:       []Rat{F(1, 4)},
	}
}

// FastPow returns base^exp by binary exponentiation.
func FastPow(base *big.Int, exp uint64) *big.Int {
	result := big.NewInt(1)
	b := new(big.Int).Set(base)
	for ; exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			result.Mul(result, b)
		}
		b.Mul(b, b)
	}
	return result
}

// Factorial returns n!.
func (c *Cache) Factorial(n int) (*big.Int, error) {
	if n < 0 {
		return nil, fmt.Errorf("factorial(%d): %w: not defined for negative integers", n, ErrDomain)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return new(big.Int).Set(c.factorial(n)), nil
}

// Gamma returns (n-1)! for positive n.
func (c *Cache) Gamma(n int) (*big.Int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("gamma(%d): %w: not defined for non-positive integers", n, ErrDomain)
	}
	return c.Factorial(n - 1)
}

// TwoPower returns 2^n.
func (c *Cache) TwoPower(n int) (*big.Int, error) {
	if n < 0 {
		return nil, fmt.Errorf("2^%d: %w: negative exponent", n, ErrDomain)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return new(big.Int).Set(c.twoPower(n)), nil
}

// Zeta returns zeta(n)/pi^n for even n > 1.
func (c *Cache) Zeta(n int) (Rat, error) {
	if n <= 1 {
		return Rat{}, fmt.Errorf("zeta(%d): %w: not defined for n <= 1", n, ErrDomain)
	}
	if n%2 == 1 {
		return Rat{}, fmt.Errorf("zeta(%d): %w: odd argument", n, ErrNotImplemented)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	half := n / 2
	for k := len(c.zeta); k <= half; k++ {
		next := RatFromInt(big.NewInt(int64(k)))
		if k%2 == 0 {
			next = next.Neg()
		}
		next = next.Mul(c.invFactorial(2*k + 1))
		for i := 1; i < k; i++ {
			term := c.zeta[k-i].Mul(c.invFactorial(2*i + 1))
			if i%2 == 1 {
				next = next.Add(term)
			} else {
				next = next.Sub(term)
			}
		}
		c.zeta = append(c.zeta, next)
	}
	return c.zeta[half], nil
}

// Beta returns beta(n)/pi^n (Dirichlet beta) for odd n > 0.
func (c *Cache) Beta(n int) (Rat, error) {
	if n <= 0 {
		return Rat{}, fmt.Errorf("beta(%d): %w: not defined for non-positive integers", n, ErrDomain)
	}
	if n%2 == 0 {
		return Rat{}, fmt.Errorf("beta(%d): %w: even argument", n, ErrNotImplemented)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	half := n / 2
	for k := len(c.beta); k <= half; k++ {
		var next Rat
		for m := 1; m <= k; m++ {
			den := new(big.Int).Mul(c.factorial(2*m), c.twoPower(2*m))
			term, _ := c.beta[k-m].Div(RatFromInt(den))
			if m%2 == 1 {
				next = next.Add(term)
			} else {
				next = next.Sub(term)
			}
		}
		c.beta = append(c.beta, next)
	}
	return c.beta[half], nil
}

// factorial grows the table up to n; c.mu must be held.
func (c *Cache) factorial(n int) *big.Int {
	for k := len(c.factorials); k <= n; k++ {
		next := new(big.Int).Mul(c.factorials[k-1], big.NewInt(int64(k)))
		c.factorials = append(c.factorials, next)
	}
	return c.factorials[n]
}

func (c *Cache) invFactorial(n int) Rat {
	r, _ := NewRat(big.NewInt(1), c.factorial(n))
	return r
}

// twoPower grows the table up to n; c.mu must be held.
func (c *Cache) twoPower(n int) *big.Int {
	for k := len(c.twoPowers); k <= n; k++ {
		c.twoPowers = append(c.twoPowers, new(big.Int).Lsh(c.twoPowers[k-1], 1))
	}
	return c.twoPowers[n]
}
