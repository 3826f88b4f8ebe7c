package main

import (
	"benritz/bonds/internal/calc"
	"benritz/bonds/internal/input"
	"benritz/bonds/internal/report"
	"benritz/bonds/internal/types"
	"fmt"
	"os"
)

func main() {
	scenarios := []*input.Request{
		{
			Name:     "5% par bond, 5 years",
			Currency: types.EUR,
			Terms:    types.BondTerms{FaceValue: 1000, CouponRate: 0.05, Years: 5, Price: 1000},
			Costs:    types.TransactionCosts{Markup: 12, WithholdingTax: 15},
		},
		{
			Name:     "3 1/2% discount bond, 10 years",
			Currency: types.GBP,
			Terms:    types.BondTerms{FaceValue: 100, CouponRate: 0.035, Years: 10, Price: 92.40},
			Costs:    types.TransactionCosts{Markup: 0.25, WithholdingTax: 0},
		},
		{
			Name:     "Zero coupon, 1 year",
			Currency: types.USD,
			Terms:    types.BondTerms{FaceValue: 1000, CouponRate: 0, Years: 1, Price: 960},
			Costs:    types.TransactionCosts{Markup: types.MarkupAmount(960, 0.5), WithholdingTax: 30},
		},
	}

	for _, req := range scenarios {
		c := calc.Calculate(req, calc.Options{})
		report.PrintResults(os.Stdout, c)

		ey := types.EstimatedYieldToMaturity(req.Terms)
		fmt.Printf("\tEstimated YTM: %.8f\n", ey)
		fmt.Printf("\tIterations: %d (residual %.3g)\n", c.Yield.Iterations, c.Yield.Residual)
		fmt.Println()
	}

	// price 0 is rejected before the solver runs
	_, err := types.YieldToMaturity(types.BondTerms{FaceValue: 1000, CouponRate: 0.05, Years: 5, Price: 0})
	fmt.Printf("Zero price: %v\n", err)
}
