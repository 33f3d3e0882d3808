package shamir

import (
	"fmt"
	"math/big"

	"github.com/vitalvas/sssrecover/field"
)

// Share represents a single point (X, Y) of the sharing polynomial.
// Both coordinates are reduced into the field by NewShare and must not be
// modified afterwards; use Clone to get a mutable copy.
type Share struct {
	// X is the x-coordinate (share index), non-zero modulo the prime.
	X *big.Int
	// Y is the y-coordinate (share value).
	Y *big.Int
}

// NewShare builds a share over f, reducing both coordinates.
func NewShare(f *field.Field, x, y *big.Int) (*Share, error) {
	rx := f.Reduce(x)
	if rx.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidShareX, x)
	}

	return &Share{X: rx, Y: f.Reduce(y)}, nil
}

// Clone creates a deep copy of the share.
func (s *Share) Clone() *Share {
	return &Share{
		X: new(big.Int).Set(s.X),
		Y: new(big.Int).Set(s.Y),
	}
}

// Equal checks if two shares are equal.
func (s *Share) Equal(other *Share) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.X.Cmp(other.X) == 0 && s.Y.Cmp(other.Y) == 0
}

// String renders the share as "(x, y)" in decimal.
func (s *Share) String() string {
	return fmt.Sprintf("(%s, %s)", s.X, s.Y)
}

// ShareSet is an ordered collection of shares with a declared total n and
// reconstruction threshold k.
type ShareSet struct {
	field     *field.Field
	threshold int
	total     int
	shares    []*Share
}

// NewShareSet validates and wraps shares. It requires 1 <= threshold <= total,
// at least threshold shares, and pairwise distinct X coordinates. The share
// order is kept as given.
func NewShareSet(f *field.Field, threshold, total int, shares []*Share) (*ShareSet, error) {
	if threshold < 1 {
		return nil, ErrInvalidThreshold
	}

	if total < threshold {
		return nil, ErrInvalidTotal
	}

	if len(shares) < threshold {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrInsufficientShares, threshold, len(shares))
	}

	seen := make(map[string]bool, len(shares))
	for _, share := range shares {
		key := f.Reduce(share.X).String()
		if seen[key] {
			return nil, &DuplicateShareError{X: new(big.Int).Set(share.X)}
		}
		seen[key] = true
	}

	return &ShareSet{
		field:     f,
		threshold: threshold,
		total:     total,
		shares:    append([]*Share(nil), shares...),
	}, nil
}

// Threshold returns k.
func (s *ShareSet) Threshold() int { return s.threshold }

// Total returns the declared n.
func (s *ShareSet) Total() int { return s.total }

// Len returns the number of shares actually held.
func (s *ShareSet) Len() int { return len(s.shares) }

// Field returns the field the shares live in.
func (s *ShareSet) Field() *field.Field { return s.field }

// Shares returns the shares in input order. The slice is a copy.
func (s *ShareSet) Shares() []*Share {
	return append([]*Share(nil), s.shares...)
}

// First returns the first k shares in input order.
func (s *ShareSet) First(k int) []*Share {
	k = min(k, len(s.shares))
	return append([]*Share(nil), s.shares[:k]...)
}

// Combine interpolates the first threshold shares at zero.
func (s *ShareSet) Combine() (*big.Int, error) {
	return Interpolate(s.field, s.First(s.threshold))
}
