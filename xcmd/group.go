package xcmd

import (
	"context"
	"sync"
)

// Group runs functions in goroutines and cancels the shared context as soon
// as one of them fails. Unlike errgroup, the cancellation cause is the first
// error itself.
type Group struct {
	ctx     context.Context
	cancel  context.CancelCauseFunc
	wg      sync.WaitGroup
	sem     chan struct{}
	errOnce sync.Once
	err     error
}

// ErrGroup returns a new Group and an associated Context derived from ctx.
// The derived Context is canceled when the first function returns an error,
// or when Wait returns, whichever happens first.
func ErrGroup(ctx context.Context) (*Group, context.Context) {
	ctx, cancel := context.WithCancelCause(ctx)
	return &Group{ctx: ctx, cancel: cancel}, ctx
}

// SetLimit caps the number of functions running at once. A limit below one
// removes the cap. It must be called before the first Go.
func (g *Group) SetLimit(n int) {
	if n < 1 {
		g.sem = nil
		return
	}
	g.sem = make(chan struct{}, n)
}

// Go calls f in a new goroutine, blocking first while the limit is reached.
// Functions queued after the context is canceled are skipped.
func (g *Group) Go(f func(ctx context.Context) error) {
	if g.sem != nil {
		select {
		case g.sem <- struct{}{}:
		case <-g.ctx.Done():
			g.fail(context.Cause(g.ctx))
			return
		}
	}

	g.wg.Add(1)

	go func() {
		defer g.wg.Done()
		if g.sem != nil {
			defer func() { <-g.sem }()
		}

		if err := f(g.ctx); err != nil {
			g.fail(err)
		}
	}()
}

func (g *Group) fail(err error) {
	g.errOnce.Do(func() {
		g.err = err
		g.cancel(err)
	})
}

// Wait blocks until all function calls from the Go method have returned,
// then returns the first non-nil error (if any) from them.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.cancel(nil)
	return g.err
}

// Map applies fn to every input concurrently, at most limit at a time, and
// returns the results in input order. The first error cancels the rest and
// is returned.
func Map[T, R any](ctx context.Context, limit int, inputs []T, fn func(ctx context.Context, in T) (R, error)) ([]R, error) {
	group, ctx := ErrGroup(ctx)
	group.SetLimit(limit)

	results := make([]R, len(inputs))
	for i, in := range inputs {
		group.Go(func(ctx context.Context) error {
			out, err := fn(ctx, in)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
