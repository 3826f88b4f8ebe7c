package types

import (
	"math"
)

const (
	DefaultGuess         = 0.05
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 1_000

	minDerivative = 1e-12
)

// YieldResult is the outcome of the yield to maturity solver.
//
//	YTM:        Periodic yield as a fraction (0.05 = 5%).
//	Iterations: Number of Newton-Raphson steps evaluated.
//	Residual:   Price(YTM) - price at the returned estimate.
//	Converged:  True only when |Residual| met the tolerance.
type YieldResult struct {
	YTM        float64
	Iterations int
	Residual   float64
	Converged  bool
}

type solverOptions struct {
	guess         float64
	tolerance     float64
	maxIterations int
}

type SolverOption func(*solverOptions)

// WithGuess sets the initial yield estimate (fraction).
func WithGuess(y float64) SolverOption {
	return func(o *solverOptions) {
		o.guess = y
	}
}

// WithTolerance sets the absolute price tolerance in currency units.
func WithTolerance(t float64) SolverOption {
	return func(o *solverOptions) {
		if t > 0 {
			o.tolerance = t
		}
	}
}

func WithMaxIterations(i int) SolverOption {
	return func(o *solverOptions) {
		if i > 0 {
			o.maxIterations = i
		}
	}
}

// Price calculates the present value of the bond's cash flows discounted at
// the periodic yield y.
//
//	Price = C/(1+y)^1 + C/(1+y)^2 + ... + C/(1+y)^n + F/(1+y)^n
func Price(b BondTerms, y float64) (float64, error) {
	base := 1 + y
	if !(base > 0) {
		return 0, ErrNonPositiveDiscountBase
	}

	CP := b.CouponPayment()
	n := b.Years

	price := b.FaceValue / math.Pow(base, float64(n))

	for t := 1; t <= n; t++ {
		price += CP / math.Pow(base, float64(t))
	}

	return price, nil
}

// PriceDerivative calculates dPrice/dy, used in the Newton-Raphson method.
//
//	dP/dy = Σ -t·C/(1+y)^(t+1) - n·F/(1+y)^(n+1)
func PriceDerivative(b BondTerms, y float64) (float64, error) {
	base := 1 + y
	if !(base > 0) {
		return 0, ErrNonPositiveDiscountBase
	}

	CP := b.CouponPayment()
	n := b.Years

	derivative := -float64(n) * b.FaceValue / math.Pow(base, float64(n+1))

	for t := 1; t <= n; t++ {
		derivative += -float64(t) * CP / math.Pow(base, float64(t+1))
	}

	return derivative, nil
}

// YieldToMaturity solves Price(y) = b.Price for y using the Newton-Raphson
// numerical method with the analytic derivative.
//
// The terms are validated before the first iteration. When the method stops
// without meeting the tolerance the returned result holds the last estimate
// with Converged set to false, alongside an error wrapping ErrNonConvergence
// or ErrDomain.
func YieldToMaturity(b BondTerms, opts ...SolverOption) (YieldResult, error) {
	o := solverOptions{
		guess:         DefaultGuess,
		tolerance:     DefaultTolerance,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := b.Validate(); err != nil {
		return YieldResult{}, err
	}

	if !isFinite(o.guess) || o.guess <= -1 {
		return YieldResult{}, ErrInvalidGuess
	}

	y := o.guess
	res := YieldResult{YTM: y}

	for i := 0; i < o.maxIterations; i++ {
		res.Iterations = i + 1

		p, err := Price(b, y)
		if err != nil {
			return res, err
		}

		dp := p - b.Price
		res.YTM = y
		res.Residual = dp

		if math.Abs(dp) < o.tolerance {
			res.Converged = true
			return res, nil
		}

		d, err := PriceDerivative(b, y)
		if err != nil {
			return res, err
		}

		if math.Abs(d) < minDerivative {
			return res, ErrYieldToMaturityDerivativeTooSmall
		}

		next := y - dp/d
		if !isFinite(next) {
			return res, ErrYieldToMaturityNotFinite
		}

		y = next
	}

	return res, ErrYieldToMaturityNoConvergence
}

// EstimatedYieldToMaturity calculates a rough estimate of the yield to maturity
// used as a starting point for the Newton-Raphson solver.
//
//	y ≈ (C + (F - P)/n) / ((F + P)/2)
//
// Returns:
//
//	Estimated yield to maturity as a fraction.
func EstimatedYieldToMaturity(b BondTerms) float64 {
	if b.Years < 1 {
		return DefaultGuess
	}

	F, P := b.FaceValue, b.Price
	y := (b.CouponPayment() + (F-P)/float64(b.Years)) / ((F + P) / 2)

	if !isFinite(y) || y <= -1 {
		return DefaultGuess
	}

	return y
}
