package types

import (
	"math"
)

// ReturnResult holds the total and annualised return of holding a bond to
// maturity, together with the intermediate figures they are derived from.
type ReturnResult struct {
	AdjustedPrice   float64
	TotalCoupons    float64
	AfterTaxCoupons float64
	CapitalGain     float64

	TotalReturnAbsolute   float64
	TotalReturnPercentage float64
	AnnualisedAbsolute    float64
	AnnualisedPercentage  float64
}

// TotalReturn calculates the return of buying the bond at price plus markup
// and holding it to maturity, with withholding tax deducted from the coupons.
// The annualised fields are left zero.
func TotalReturn(b BondTerms, c TransactionCosts) (ReturnResult, error) {
	if err := b.Validate(); err != nil {
		return ReturnResult{}, err
	}

	if err := c.Validate(); err != nil {
		return ReturnResult{}, err
	}

	r := ReturnResult{}

	r.AdjustedPrice = b.Price + c.Markup
	r.TotalCoupons = b.CouponRate * b.FaceValue * float64(b.Years)
	r.AfterTaxCoupons = r.TotalCoupons * (1 - c.WithholdingTax/100)
	r.CapitalGain = b.FaceValue - r.AdjustedPrice
	r.TotalReturnAbsolute = r.AfterTaxCoupons + r.CapitalGain

	if r.AdjustedPrice == 0 {
		return ReturnResult{}, ErrDivisionByZero
	}

	r.TotalReturnPercentage = r.TotalReturnAbsolute / r.AdjustedPrice * 100

	return r, nil
}

// AnnualisedReturn converts a total return over years into its per-year
// equivalent, compounding the percentage.
//
//	pct = ((1 + total/100)^(1/years) - 1) * 100
func AnnualisedReturn(totalAbsolute, totalPercentage float64, years int) (float64, float64, error) {
	if years < 1 {
		return 0, 0, ErrInvalidYears
	}

	base := 1 + totalPercentage/100
	if base < 0 {
		return 0, 0, ErrNegativeGrowthBase
	}

	abs := totalAbsolute / float64(years)
	pct := (math.Pow(base, 1/float64(years)) - 1) * 100

	return abs, pct, nil
}

// SimpleAnnualisedReturn is AnnualisedReturn without compounding.
//
//	pct = total / years
func SimpleAnnualisedReturn(totalAbsolute, totalPercentage float64, years int) (float64, float64, error) {
	if years < 1 {
		return 0, 0, ErrInvalidYears
	}

	return totalAbsolute / float64(years), totalPercentage / float64(years), nil
}

// ComputeReturn calculates the total return and its compounded annualised
// equivalent.
func ComputeReturn(b BondTerms, c TransactionCosts) (ReturnResult, error) {
	r, err := TotalReturn(b, c)
	if err != nil {
		return ReturnResult{}, err
	}

	r.AnnualisedAbsolute, r.AnnualisedPercentage, err = AnnualisedReturn(
		r.TotalReturnAbsolute,
		r.TotalReturnPercentage,
		b.Years,
	)
	if err != nil {
		return ReturnResult{}, err
	}

	return r, nil
}
