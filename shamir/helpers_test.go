package shamir

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitalvas/sssrecover/field"
)

// polynomial represents a polynomial over the prime field.
// coefficients[0] is the constant term (the secret).
type polynomial struct {
	field        *field.Field
	coefficients []*big.Int
}

func newRandomPolynomial(t *testing.T, f *field.Field, secret *big.Int, degree int) *polynomial {
	t.Helper()

	coefficients := make([]*big.Int, degree+1)
	coefficients[0] = f.Reduce(secret)

	for i := 1; i <= degree; i++ {
		coef, err := rand.Int(rand.Reader, f.Prime())
		require.NoError(t, err)
		coefficients[i] = coef
	}

	return &polynomial{field: f, coefficients: coefficients}
}

// evaluate evaluates the polynomial at point x using Horner's method.
func (p *polynomial) evaluate(x *big.Int) *big.Int {
	result := new(big.Int).Set(p.coefficients[len(p.coefficients)-1])

	for i := len(p.coefficients) - 2; i >= 0; i-- {
		result = p.field.Mul(result, x)
		result = p.field.Add(result, p.coefficients[i])
	}

	return result
}

// sharesAt evaluates the polynomial at each x and returns the shares.
func (p *polynomial) sharesAt(t *testing.T, xs ...int64) []*Share {
	t.Helper()

	shares := make([]*Share, len(xs))
	for i, x := range xs {
		bx := big.NewInt(x)
		share, err := NewShare(p.field, bx, p.evaluate(bx))
		require.NoError(t, err)
		shares[i] = share
	}

	return shares
}

func mustShare(t *testing.T, f *field.Field, x, y int64) *Share {
	t.Helper()

	share, err := NewShare(f, big.NewInt(x), big.NewInt(y))
	require.NoError(t, err)
	return share
}
