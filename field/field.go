package field

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrNoInverse is returned when an element has no multiplicative inverse,
	// which for a prime modulus means the element is congruent to zero.
	ErrNoInverse = errors.New("field: element has no inverse")

	// ErrNotPrime is returned when the modulus is not a prime greater than 2.
	ErrNotPrime = errors.New("field: modulus must be a prime greater than 2")
)

// mersenne127 is 2^127 - 1, the default modulus.
var mersenne127 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

var one = big.NewInt(1)

// Field is the prime field Z_p. It is immutable once built and safe for
// concurrent use.
type Field struct {
	p *big.Int
}

// New returns the field of integers modulo p.
func New(p *big.Int) (*Field, error) {
	if p == nil || p.Cmp(big.NewInt(2)) <= 0 || !p.ProbablyPrime(20) {
		return nil, ErrNotPrime
	}

	return &Field{p: new(big.Int).Set(p)}, nil
}

// MustNew is like New but panics on an invalid modulus.
func MustNew(p *big.Int) *Field {
	f, err := New(p)
	if err != nil {
		panic(err)
	}
	return f
}

// Default returns the field over the Mersenne prime 2^127 - 1.
func Default() *Field {
	return &Field{p: new(big.Int).Set(mersenne127)}
}

// DefaultPrime returns a copy of 2^127 - 1.
func DefaultPrime() *big.Int {
	return new(big.Int).Set(mersenne127)
}

// Prime returns a copy of the modulus.
func (f *Field) Prime() *big.Int {
	return new(big.Int).Set(f.p)
}

// Reduce returns the representative of a in [0, p).
func (f *Field) Reduce(a *big.Int) *big.Int {
	// big.Int.Mod is Euclidean, so negative inputs land in [0, p) too.
	return new(big.Int).Mod(a, f.p)
}

// Add computes (a + b) mod p
func (f *Field) Add(a, b *big.Int) *big.Int {
	result := new(big.Int).Add(a, b)
	return result.Mod(result, f.p)
}

// Sub computes (a - b) mod p
func (f *Field) Sub(a, b *big.Int) *big.Int {
	result := new(big.Int).Sub(a, b)
	return result.Mod(result, f.p)
}

// Mul computes (a * b) mod p
func (f *Field) Mul(a, b *big.Int) *big.Int {
	result := new(big.Int).Mul(a, b)
	return result.Mod(result, f.p)
}

// Neg computes (-a) mod p
func (f *Field) Neg(a *big.Int) *big.Int {
	result := new(big.Int).Neg(a)
	return result.Mod(result, f.p)
}

// Inverse returns r with a*r = 1 (mod p).
func (f *Field) Inverse(a *big.Int) (*big.Int, error) {
	g, x, _ := ExtendedGCD(f.Reduce(a), f.p)
	if g.Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: %s mod %s", ErrNoInverse, a, f.p)
	}

	return f.Reduce(x), nil
}

// Div computes (a / b) mod p
func (f *Field) Div(a, b *big.Int) (*big.Int, error) {
	inv, err := f.Inverse(b)
	if err != nil {
		return nil, err
	}
	return f.Mul(a, inv), nil
}

// ExtendedGCD returns g = gcd(a, b) and x, y such that a*x + b*y = g.
//
// The coefficients are the ones produced by the recursive definition
// egcd(a, 0) = (a, 1, 0) and egcd(a, b) = (g, y1, x1 - (a/b)*y1) where
// (g, x1, y1) = egcd(b, a%b), with truncated division. The loop walks the
// same remainder sequence without recursion.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)

	for r.Sign() != 0 {
		q.Quo(oldR, r)

		tmp.Mul(q, r)
		tmp.Sub(oldR, tmp)
		oldR, r = r, new(big.Int).Set(tmp)

		tmp.Mul(q, s)
		tmp.Sub(oldS, tmp)
		oldS, s = s, new(big.Int).Set(tmp)

		tmp.Mul(q, t)
		tmp.Sub(oldT, tmp)
		oldT, t = t, new(big.Int).Set(tmp)
	}

	return oldR, oldS, oldT
}
