// Package radix converts digit strings in bases 2 through 36 to and from
// arbitrary-precision integers.
package radix

import (
	"errors"
	"fmt"
	"math/big"
)

const (
	MinBase = 2
	MaxBase = 36
)

var (
	// ErrInvalidDigit is matched by every *DigitError.
	ErrInvalidDigit = errors.New("radix: invalid digit")

	// ErrInvalidBase is returned when the base is outside [2, 36].
	ErrInvalidBase = errors.New("radix: base must be between 2 and 36")

	// ErrEmpty is returned when there are no digits to decode.
	ErrEmpty = errors.New("radix: empty digit string")

	// ErrNegative is returned when encoding a negative value.
	ErrNegative = errors.New("radix: cannot encode negative value")
)

// DigitError reports a character that is not a digit of the given base.
type DigitError struct {
	Digit    rune
	// Position is the zero-based character index of Digit, not a byte offset.
	Position int
	Base     int
}

func (e *DigitError) Error() string {
	return fmt.Sprintf("radix: invalid digit %q at position %d for base %d", e.Digit, e.Position, e.Base)
}

func (e *DigitError) Is(target error) bool {
	return target == ErrInvalidDigit
}

// digitValue returns the alphabet position of r, or -1.
func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	default:
		return -1
	}
}

// Decode parses digits as a nonnegative integer in the given base using
// Horner evaluation. Digits are case-insensitive. The result is not reduced
// into any field.
func Decode(digits string, base int) (*big.Int, error) {
	if base < MinBase || base > MaxBase {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBase, base)
	}

	if digits == "" {
		return nil, ErrEmpty
	}

	b := big.NewInt(int64(base))
	d := new(big.Int)
	value := new(big.Int)

	pos := 0
	for _, r := range digits {
		v := digitValue(r)
		if v < 0 || v >= base {
			return nil, &DigitError{Digit: r, Position: pos, Base: base}
		}

		value.Mul(value, b)
		value.Add(value, d.SetInt64(int64(v)))
		pos++
	}

	return value, nil
}

// Encode renders a nonnegative value in the given base with lowercase
// digits and no leading zeros.
func Encode(value *big.Int, base int) (string, error) {
	if base < MinBase || base > MaxBase {
		return "", fmt.Errorf("%w: %d", ErrInvalidBase, base)
	}

	if value.Sign() < 0 {
		return "", ErrNegative
	}

	// Text uses the same lowercase alphabet for bases up to 36.
	return value.Text(base), nil
}
