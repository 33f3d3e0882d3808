package shamir

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/vitalvas/sssrecover/field"
)

var (
	// ErrInvalidThreshold is returned when threshold is less than 1.
	ErrInvalidThreshold = errors.New("shamir: threshold must be at least 1")

	// ErrInvalidTotal is returned when total shares is less than threshold.
	ErrInvalidTotal = errors.New("shamir: total shares must be at least equal to threshold")

	// ErrInsufficientShares is returned when not enough shares are provided for reconstruction.
	ErrInsufficientShares = errors.New("shamir: insufficient shares for reconstruction")

	// ErrDuplicateShares is matched by every *DuplicateShareError.
	ErrDuplicateShares = errors.New("shamir: duplicate share indices detected")

	// ErrInvalidShareX is returned when share X coordinate is zero modulo the prime.
	ErrInvalidShareX = errors.New("shamir: share X coordinate must be non-zero")

	// ErrInconsistentShares is matched by every *InconsistentShareError.
	ErrInconsistentShares = errors.New("shamir: shares do not lie on one polynomial")
)

// DuplicateShareError reports two shares with the same X modulo the prime.
// A repeated X makes a Lagrange denominator vanish, so the error also
// matches field.ErrNoInverse.
type DuplicateShareError struct {
	X *big.Int
}

func (e *DuplicateShareError) Error() string {
	return fmt.Sprintf("shamir: duplicate share X coordinate %s", e.X)
}

func (e *DuplicateShareError) Is(target error) bool {
	return target == ErrDuplicateShares || target == field.ErrNoInverse
}

// InconsistentShareError reports a share that is off the polynomial defined
// by the working set.
type InconsistentShareError struct {
	X        *big.Int
	Got      *big.Int
	Expected *big.Int
}

func (e *InconsistentShareError) Error() string {
	return fmt.Sprintf("shamir: share at X=%s does not lie on the interpolated polynomial", e.X)
}

func (e *InconsistentShareError) Is(target error) bool {
	return target == ErrInconsistentShares
}
