package types

import (
	"fmt"
	"math"
)

// BondTerms describes a plain annual-coupon bullet bond.
//
//	FaceValue:  Redemption amount paid at maturity.
//	CouponRate: Annual coupon rate as a fraction (0.05 = 5%).
//	Years:      Whole annual coupon periods remaining to maturity.
//	Price:      Current market price.
type BondTerms struct {
	FaceValue  float64
	CouponRate float64
	Years      int
	Price      float64
}

// CouponPayment is the coupon paid each period.
func (b BondTerms) CouponPayment() float64 {
	return b.CouponRate * b.FaceValue
}

func (b BondTerms) Validate() error {
	if !isFinite(b.FaceValue) || b.FaceValue <= 0 {
		return ErrInvalidFaceValue
	}

	if !isFinite(b.CouponRate) || b.CouponRate < 0 || b.CouponRate > 1 {
		return ErrInvalidCouponRate
	}

	if b.Years < 1 {
		return ErrInvalidYears
	}

	if !isFinite(b.Price) || b.Price <= 0 {
		return ErrInvalidPrice
	}

	return nil
}

// TransactionCosts are the costs applied when buying the bond.
//
//	Markup:         Currency amount added to the price at purchase.
//	WithholdingTax: Percentage (0-100) deducted from coupon income.
type TransactionCosts struct {
	Markup         float64
	WithholdingTax float64
}

func (c TransactionCosts) Validate() error {
	if !isFinite(c.Markup) {
		return ErrInvalidMarkup
	}

	if !isFinite(c.WithholdingTax) || c.WithholdingTax < 0 || c.WithholdingTax > 100 {
		return ErrInvalidWithholdingTax
	}

	return nil
}

// MarkupAmount converts a markup quoted as a percentage of the price into
// the currency amount TransactionCosts expects.
func MarkupAmount(price, markupPercent float64) float64 {
	return price * markupPercent / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var (
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrNonConvergence = fmt.Errorf("non-convergence")
	ErrDomain         = fmt.Errorf("domain error")

	ErrInvalidFaceValue      = fmt.Errorf("%w: face value must be greater than 0", ErrInvalidInput)
	ErrInvalidCouponRate     = fmt.Errorf("%w: coupon rate must be between 0 and 1", ErrInvalidInput)
	ErrInvalidYears          = fmt.Errorf("%w: years to maturity must be at least 1", ErrInvalidInput)
	ErrInvalidPrice          = fmt.Errorf("%w: price must be greater than 0", ErrInvalidInput)
	ErrInvalidMarkup         = fmt.Errorf("%w: markup must be a finite amount", ErrInvalidInput)
	ErrInvalidWithholdingTax = fmt.Errorf("%w: withholding tax must be between 0 and 100", ErrInvalidInput)
	ErrInvalidGuess          = fmt.Errorf("%w: initial guess must be finite and greater than -1", ErrInvalidInput)

	ErrYieldToMaturityNoConvergence      = fmt.Errorf("%w: Newton-Raphson failed to converge within max iterations", ErrNonConvergence)
	ErrYieldToMaturityDerivativeTooSmall = fmt.Errorf("%w: Newton-Raphson failed (derivative is too small)", ErrNonConvergence)
	ErrYieldToMaturityNotFinite          = fmt.Errorf("%w: Newton-Raphson produced a non-finite yield", ErrNonConvergence)

	ErrNonPositiveDiscountBase = fmt.Errorf("%w: 1 + yield must be greater than 0", ErrDomain)
	ErrNegativeGrowthBase      = fmt.Errorf("%w: 1 + total return must not be negative", ErrDomain)
	ErrDivisionByZero          = fmt.Errorf("%w: adjusted price is zero", ErrDomain)
)
