package shamir

import (
	"fmt"
	"math/big"

	"github.com/vitalvas/sssrecover/field"
)

// Interpolate performs Lagrange interpolation to find f(0), the constant
// term of the unique polynomial of degree < len(shares) through the shares.
//
// A repeated X coordinate leaves a zero denominator and the returned error
// matches field.ErrNoInverse.
func Interpolate(f *field.Field, shares []*Share) (*big.Int, error) {
	if len(shares) == 0 {
		return nil, ErrInsufficientShares
	}

	result := big.NewInt(0)

	for i := range shares {
		// Calculate the Lagrange basis polynomial L_i(0)
		numerator := big.NewInt(1)
		denominator := big.NewInt(1)

		for j := range shares {
			if i == j {
				continue
			}

			// numerator *= (0 - x_j) = -x_j
			numerator = f.Mul(numerator, f.Neg(shares[j].X))

			// denominator *= (x_i - x_j)
			denominator = f.Mul(denominator, f.Sub(shares[i].X, shares[j].X))
		}

		// L_i(0) = numerator / denominator
		basis, err := f.Div(numerator, denominator)
		if err != nil {
			return nil, fmt.Errorf("shamir: basis for share X=%s: %w", shares[i].X, err)
		}

		// result += y_i * L_i(0)
		result = f.Add(result, f.Mul(shares[i].Y, basis))
	}

	return result, nil
}

// Evaluate performs Lagrange interpolation to find the polynomial through
// the shares at an arbitrary point x.
func Evaluate(f *field.Field, shares []*Share, x *big.Int) (*big.Int, error) {
	if len(shares) == 0 {
		return nil, ErrInsufficientShares
	}

	result := big.NewInt(0)

	for i := range shares {
		numerator := big.NewInt(1)
		denominator := big.NewInt(1)

		for j := range shares {
			if i == j {
				continue
			}

			// numerator *= (x - x_j)
			numerator = f.Mul(numerator, f.Sub(x, shares[j].X))

			// denominator *= (x_i - x_j)
			denominator = f.Mul(denominator, f.Sub(shares[i].X, shares[j].X))
		}

		basis, err := f.Div(numerator, denominator)
		if err != nil {
			return nil, fmt.Errorf("shamir: basis for share X=%s: %w", shares[i].X, err)
		}

		result = f.Add(result, f.Mul(shares[i].Y, basis))
	}

	return result, nil
}
