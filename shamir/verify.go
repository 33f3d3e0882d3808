package shamir

import (
	"math/big"

	"github.com/vitalvas/sssrecover/field"
)

// Verify checks that every share in extra lies on the polynomial defined by
// base. With exactly len(base) points any share set is consistent, so only
// shares beyond the working set can expose a mismatch.
//
// The first offending share is reported as an *InconsistentShareError.
func Verify(f *field.Field, base, extra []*Share) error {
	for _, share := range extra {
		// Compute what y should be at share.X using Lagrange interpolation
		expected, err := Evaluate(f, base, share.X)
		if err != nil {
			return err
		}

		if expected.Cmp(f.Reduce(share.Y)) != 0 {
			return &InconsistentShareError{
				X:        new(big.Int).Set(share.X),
				Got:      new(big.Int).Set(share.Y),
				Expected: expected,
			}
		}
	}

	return nil
}

// VerifyAll checks that all shares of the set lie on the polynomial through
// its first threshold shares.
func (s *ShareSet) VerifyAll() error {
	return Verify(s.field, s.shares[:s.threshold], s.shares[s.threshold:])
}
