package main

import (
	"benritz/bonds/internal/calc"
	"benritz/bonds/internal/input"
	"benritz/bonds/internal/report"
	"benritz/bonds/internal/types"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

func parseGuess(s string) (*float64, bool, error) {
	if s == "" {
		return nil, false, nil
	}
	if s == "estimate" {
		return nil, true, nil
	}
	g, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false, err
	}
	g /= 100
	return &g, false, nil
}

func main() {
	name := flag.String("name", "", "Name of the bond")
	currencyStr := flag.String("currency", "EUR", "Currency of the amounts (EUR, USD, GBP)")
	price := flag.Float64("price", 1000.0, "Current price of the bond")
	faceValue := flag.Float64("facevalue", 1000.0, "Face value of the bond")
	coupon := flag.Float64("coupon", 5.0, "Coupon rate (%) of the bond")
	years := flag.Int("years", 5, "Years to maturity")
	markup := flag.Float64("markup", 12.0, "Markup on purchase (currency amount)")
	markupPct := flag.Float64("markuppct", 0.0, "Markup on purchase (% of price), replaces -markup")
	withholdingTax := flag.Float64("withholdingtax", 15.0, "Withholding tax (%) on coupons")
	guessStr := flag.String("guess", "", "Initial YTM guess (%) or \"estimate\"")
	simple := flag.Bool("simple", false, "Annualise the return without compounding")

	flag.Parse()

	flagsSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		flagsSet[f.Name] = true
	})

	if flagsSet["markup"] && flagsSet["markuppct"] {
		fmt.Println("Error: -markup and -markuppct cannot both be set")
		os.Exit(1)
	}

	currency, err := types.ParseCurrency(*currencyStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	guess, estimate, err := parseGuess(*guessStr)
	if err != nil {
		fmt.Printf("Error: invalid guess: %v\n", err)
		os.Exit(1)
	}

	req := &input.Request{
		Name:     *name,
		Currency: currency,
		Terms: types.BondTerms{
			FaceValue:  *faceValue,
			CouponRate: *coupon / 100,
			Years:      *years,
			Price:      *price,
		},
		Costs: types.TransactionCosts{
			Markup:         *markup,
			WithholdingTax: *withholdingTax,
		},
	}

	if flagsSet["markuppct"] {
		req.Costs.Markup = types.MarkupAmount(*price, *markupPct)
	}

	if err := req.Terms.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := req.Costs.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	c := calc.Calculate(req, calc.Options{Guess: guess, EstimateGuess: estimate})

	if *simple && c.ReturnErr == nil {
		c.Return.AnnualisedAbsolute, c.Return.AnnualisedPercentage, c.ReturnErr = types.SimpleAnnualisedReturn(
			c.Return.TotalReturnAbsolute,
			c.Return.TotalReturnPercentage,
			req.Terms.Years,
		)
	}

	report.PrintResults(os.Stdout, c)

	if err := c.Err(); err != nil {
		if errors.Is(err, types.ErrNonConvergence) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
