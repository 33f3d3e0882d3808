package shamir

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/sssrecover/field"
)

func TestInterpolateSmallField(t *testing.T) {
	// f(x) = 3 + 5x mod 17 gives (1, 8), (2, 13), (3, 1)
	f := field.MustNew(big.NewInt(17))

	tests := []struct {
		name   string
		shares []*Share
	}{
		{"first two", []*Share{mustShare(t, f, 1, 8), mustShare(t, f, 2, 13)}},
		{"last two", []*Share{mustShare(t, f, 2, 13), mustShare(t, f, 3, 1)}},
		{"outer two", []*Share{mustShare(t, f, 1, 8), mustShare(t, f, 3, 1)}},
		{"reversed", []*Share{mustShare(t, f, 3, 1), mustShare(t, f, 1, 8)}},
		{"all three", []*Share{mustShare(t, f, 1, 8), mustShare(t, f, 2, 13), mustShare(t, f, 3, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := Interpolate(f, tt.shares)
			require.NoError(t, err)
			assert.Equal(t, int64(3), secret.Int64())
		})
	}
}

func TestInterpolateQuadratic(t *testing.T) {
	// Points from f(x) = 5 + 3x + 2x^2, small enough to stay below the prime
	f := field.Default()
	shares := []*Share{
		mustShare(t, f, 1, 10),
		mustShare(t, f, 2, 19),
		mustShare(t, f, 3, 32),
	}

	secret, err := Interpolate(f, shares)
	require.NoError(t, err)
	assert.Equal(t, int64(5), secret.Int64())
}

func TestInterpolateRandomPolynomials(t *testing.T) {
	f := field.Default()

	for degree := 0; degree < 8; degree++ {
		secret, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
		require.True(t, ok)

		poly := newRandomPolynomial(t, f, secret, degree)

		xs := make([]int64, degree+1)
		for i := range xs {
			xs[i] = int64(i*7 + 3)
		}

		got, err := Interpolate(f, poly.sharesAt(t, xs...))
		require.NoError(t, err)
		assert.Equal(t, 0, got.Cmp(secret), "degree %d", degree)
	}
}

func TestInterpolateSubsetsAgree(t *testing.T) {
	f := field.Default()
	secret := big.NewInt(987654321)
	poly := newRandomPolynomial(t, f, secret, 2)
	shares := poly.sharesAt(t, 1, 2, 3, 4, 5)

	subsets := [][]*Share{
		{shares[0], shares[1], shares[2]},
		{shares[0], shares[1], shares[3]},
		{shares[0], shares[2], shares[4]},
		{shares[1], shares[3], shares[4]},
		{shares[2], shares[3], shares[4]},
		shares,
	}

	for i, subset := range subsets {
		t.Run("subset "+string(rune('A'+i)), func(t *testing.T) {
			got, err := Interpolate(f, subset)
			require.NoError(t, err)
			assert.Equal(t, 0, got.Cmp(secret))
		})
	}
}

func TestInterpolateSingleShare(t *testing.T) {
	f := field.MustNew(big.NewInt(17))

	t.Run("returns y", func(t *testing.T) {
		secret, err := Interpolate(f, []*Share{mustShare(t, f, 5, 11)})
		require.NoError(t, err)
		assert.Equal(t, int64(11), secret.Int64())
	})

	t.Run("returns reduced y", func(t *testing.T) {
		secret, err := Interpolate(f, []*Share{mustShare(t, f, 5, 40)})
		require.NoError(t, err)
		assert.Equal(t, int64(6), secret.Int64())
	})
}

func TestInterpolateErrors(t *testing.T) {
	f := field.MustNew(big.NewInt(17))

	t.Run("no shares", func(t *testing.T) {
		_, err := Interpolate(f, nil)
		assert.ErrorIs(t, err, ErrInsufficientShares)
	})

	t.Run("duplicate x with different y", func(t *testing.T) {
		secret, err := Interpolate(f, []*Share{mustShare(t, f, 2, 13), mustShare(t, f, 2, 5)})
		assert.Nil(t, secret)
		require.ErrorIs(t, err, field.ErrNoInverse)
		assert.Contains(t, err.Error(), "X=2")
	})

	t.Run("x congruent modulo prime", func(t *testing.T) {
		secret, err := Interpolate(f, []*Share{
			mustShare(t, f, 1, 8),
			mustShare(t, f, 3, 1),
			mustShare(t, f, 20, 4),
		})
		assert.Nil(t, secret)
		assert.True(t, errors.Is(err, field.ErrNoInverse))
	})
}

func TestEvaluate(t *testing.T) {
	f := field.MustNew(big.NewInt(17))
	shares := []*Share{mustShare(t, f, 1, 8), mustShare(t, f, 2, 13)}

	tests := []struct {
		x        int64
		expected int64
	}{
		{0, 3},
		{1, 8},
		{3, 1},
		{4, 6},
		{16, 15},
	}

	for _, tt := range tests {
		got, err := Evaluate(f, shares, big.NewInt(tt.x))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got.Int64(), "f(%d)", tt.x)
	}

	t.Run("matches interpolate at zero", func(t *testing.T) {
		poly := newRandomPolynomial(t, field.Default(), big.NewInt(77), 4)
		points := poly.sharesAt(t, 2, 4, 6, 8, 10)

		atZero, err := Evaluate(field.Default(), points, big.NewInt(0))
		require.NoError(t, err)

		secret, err := Interpolate(field.Default(), points)
		require.NoError(t, err)
		assert.Equal(t, 0, atZero.Cmp(secret))
	})

	t.Run("no shares", func(t *testing.T) {
		_, err := Evaluate(f, nil, big.NewInt(1))
		assert.ErrorIs(t, err, ErrInsufficientShares)
	})
}
