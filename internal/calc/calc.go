// Package calc runs the yield and return calculations for bond requests.
package calc

import (
	"benritz/bonds/internal/input"
	"benritz/bonds/internal/types"
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Guess is the solver's initial yield. Nil means types.DefaultGuess.
	Guess *float64
	// EstimateGuess starts the solver from EstimatedYieldToMaturity instead.
	EstimateGuess bool
	MaxIterations int
	// Workers bounds CalculateAll's concurrency. Zero means one per request.
	Workers int
}

// Calculation is the outcome of one request. The yield and return are
// computed independently so one failing does not hide the other.
type Calculation struct {
	Request   *input.Request
	Yield     types.YieldResult
	YieldErr  error
	Return    types.ReturnResult
	ReturnErr error
}

func (c *Calculation) Err() error {
	return errors.Join(c.YieldErr, c.ReturnErr)
}

func (o Options) solverOptions(b types.BondTerms) []types.SolverOption {
	guess := types.DefaultGuess
	if o.Guess != nil {
		guess = *o.Guess
	}
	if o.EstimateGuess {
		guess = types.EstimatedYieldToMaturity(b)
	}

	opts := []types.SolverOption{types.WithGuess(guess)}
	if o.MaxIterations > 0 {
		opts = append(opts, types.WithMaxIterations(o.MaxIterations))
	}
	return opts
}

func Calculate(req *input.Request, o Options) *Calculation {
	c := &Calculation{Request: req}

	c.Yield, c.YieldErr = types.YieldToMaturity(req.Terms, o.solverOptions(req.Terms)...)
	c.Return, c.ReturnErr = types.ComputeReturn(req.Terms, req.Costs)

	return c
}

// CalculateAll calculates every request in the batch, keeping the batch
// order. It only fails when ctx is done.
func CalculateAll(ctx context.Context, batch *input.Batch, o Options) ([]*Calculation, error) {
	results := make([]*Calculation, len(batch.Requests))

	g, gctx := errgroup.WithContext(ctx)
	if o.Workers > 0 {
		g.SetLimit(o.Workers)
	}

	for i, req := range batch.Requests {
		if gctx.Err() != nil {
			break
		}

		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Calculate(req, o)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
