// Package reconstruct drives share decoding, subset selection and Lagrange
// interpolation for input records.
package reconstruct

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/vitalvas/sssrecover/field"
	"github.com/vitalvas/sssrecover/radix"
	"github.com/vitalvas/sssrecover/record"
	"github.com/vitalvas/sssrecover/shamir"
	"github.com/vitalvas/sssrecover/xcmd"
	"github.com/vitalvas/sssrecover/xlogger"
)

// Selector picks the k shares to interpolate from the decoded shares, which
// are given in input order.
type Selector func(shares []*shamir.Share, k int) []*shamir.Share

// FirstK selects the first k shares in input order. It does not check that
// the remaining shares agree with the chosen ones.
func FirstK(shares []*shamir.Share, k int) []*shamir.Share {
	k = min(k, len(shares))
	return append([]*shamir.Share(nil), shares[:k]...)
}

// Result is the outcome of one reconstruction.
type Result struct {
	// Source is the input path, empty for in-memory records.
	Source string
	// Secret is f(0) mod p.
	Secret *big.Int
	// Threshold and Total are k and n as declared by the record.
	Threshold int
	Total     int
	// Available is the number of share entries actually present.
	Available int
	// Used holds the working set in the order it was interpolated.
	Used []*shamir.Share
	// Fingerprint identifies the field and working set.
	Fingerprint string
}

// Format renders the secret in the given base.
func (r *Result) Format(base int) (string, error) {
	return radix.Encode(r.Secret, base)
}

// Reconstructor recovers secrets from records over a single field.
type Reconstructor struct {
	field    *field.Field
	logger   *slog.Logger
	selector Selector
	verify   bool
	workers  int
}

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithLogger sets the logger; nil keeps the current one.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconstructor) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSelector replaces FirstK; nil keeps the current selector.
func WithSelector(selector Selector) Option {
	return func(r *Reconstructor) {
		if selector != nil {
			r.selector = selector
		}
	}
}

// WithVerify makes Reconstruct fail when a share outside the working set is
// off the interpolated polynomial.
func WithVerify(verify bool) Option {
	return func(r *Reconstructor) {
		r.verify = verify
	}
}

// WithWorkers caps parallel file reconstructions; zero or less means no cap.
func WithWorkers(workers int) Option {
	return func(r *Reconstructor) {
		r.workers = workers
	}
}

// New returns a Reconstructor over f. Without options it uses FirstK, no
// verification and a discarding logger.
func New(f *field.Field, opts ...Option) *Reconstructor {
	r := &Reconstructor{
		field:    f,
		logger:   xlogger.Discard(),
		selector: FirstK,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Field returns the field used for reconstruction.
func (r *Reconstructor) Field() *field.Field {
	return r.field
}

// Decode turns every share entry of rec into a field-reduced share and
// validates the set.
func (r *Reconstructor) Decode(rec *record.Record) (*shamir.ShareSet, error) {
	shares := make([]*shamir.Share, 0, len(rec.Entries))

	for _, entry := range rec.Entries {
		share, err := r.decodeEntry(entry)
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}

	set, err := shamir.NewShareSet(r.field, rec.K, rec.N, shares)
	if err != nil {
		return nil, err
	}

	return set, nil
}

func (r *Reconstructor) decodeEntry(entry record.Entry) (*shamir.Share, error) {
	x, err := entry.X()
	if err != nil {
		return nil, err
	}

	base, err := entry.Radix()
	if err != nil {
		return nil, err
	}

	if base < radix.MinBase || base > radix.MaxBase {
		return nil, fmt.Errorf("%w: share %q: base %d outside [%d, %d]",
			record.ErrMalformedInput, entry.Key, base, radix.MinBase, radix.MaxBase)
	}

	y, err := radix.Decode(entry.Value, base)
	if err != nil {
		return nil, fmt.Errorf("share %q (base %d): %w", entry.Key, base, err)
	}

	share, err := shamir.NewShare(r.field, x, y)
	if err != nil {
		return nil, fmt.Errorf("share %q: %w", entry.Key, err)
	}

	return share, nil
}

// Reconstruct recovers the secret of rec from the shares picked by the
// selector.
func (r *Reconstructor) Reconstruct(rec *record.Record) (*Result, error) {
	return r.reconstruct("", rec)
}

// ReconstructFile reads the record at path and reconstructs it.
func (r *Reconstructor) ReconstructFile(path string) (*Result, error) {
	rec, err := record.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res, err := r.reconstruct(path, rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return res, nil
}

// ReconstructFiles reconstructs every path concurrently and returns results
// in argument order. The first failure stops the remaining work.
func (r *Reconstructor) ReconstructFiles(ctx context.Context, paths []string) ([]*Result, error) {
	return xcmd.Map(ctx, r.workers, paths, func(ctx context.Context, path string) (*Result, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return r.ReconstructFile(path)
	})
}

func (r *Reconstructor) reconstruct(source string, rec *record.Record) (*Result, error) {
	logger := r.logger
	if source != "" {
		logger = logger.With("source", source)
	}

	set, err := r.Decode(rec)
	if err != nil {
		return nil, err
	}

	logger.Debug("decoded shares", "available", set.Len(), "threshold", set.Threshold(), "total", set.Total())

	if set.Len() != set.Total() {
		logger.Warn("share count differs from declared total", "available", set.Len(), "total", set.Total())
	}

	all := set.Shares()
	used := r.selector(all, set.Threshold())
	if len(used) < set.Threshold() {
		return nil, fmt.Errorf("%w: selector returned %d of %d shares", shamir.ErrInsufficientShares, len(used), set.Threshold())
	}

	secret, err := shamir.Interpolate(r.field, used)
	if err != nil {
		return nil, err
	}

	if r.verify {
		if err := shamir.Verify(r.field, used, remaining(all, used)); err != nil {
			return nil, err
		}
		logger.Debug("verified shares", "checked", set.Len()-len(used))
	}

	res := &Result{
		Source:      source,
		Secret:      secret,
		Threshold:   set.Threshold(),
		Total:       set.Total(),
		Available:   set.Len(),
		Used:        used,
		Fingerprint: shamir.Fingerprint(r.field, used),
	}

	logger.Info("reconstructed secret", "used", len(used), "fingerprint", res.Fingerprint)

	return res, nil
}

// remaining returns the shares of all whose X is not in used.
func remaining(all, used []*shamir.Share) []*shamir.Share {
	picked := make(map[string]bool, len(used))
	for _, share := range used {
		picked[share.X.String()] = true
	}

	var rest []*shamir.Share
	for _, share := range all {
		if !picked[share.X.String()] {
			rest = append(rest, share)
		}
	}

	return rest
}
