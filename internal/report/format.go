package report

import (
	"benritz/bonds/internal/calc"
	"benritz/bonds/internal/types"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount rounded half away from zero to two decimals
// with the currency symbol in front, e.g. €200.50 or -£12.00.
func FormatMoney(c types.Currency, v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-" + c.Symbol() + d.Neg().StringFixed(2)
	}
	return c.Symbol() + d.StringFixed(2)
}

func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// PrintResults writes the results card followed by a summary of the data
// entered.
func PrintResults(w io.Writer, c *calc.Calculation) {
	req := c.Request
	cur := req.Currency

	if req.Name != "" {
		fmt.Fprintf(w, "Results for %s:\n", req.Name)
	} else {
		fmt.Fprintf(w, "Results:\n")
	}

	switch {
	case c.YieldErr == nil:
		fmt.Fprintf(w, "\tYTM: %s\n", FormatPercent(c.Yield.YTM*100))
	case c.Yield.Iterations > 0:
		fmt.Fprintf(w, "\tYTM: %s (not converged after %d iterations: %v)\n", FormatPercent(c.Yield.YTM*100), c.Yield.Iterations, c.YieldErr)
	default:
		fmt.Fprintf(w, "\tYTM: error: %v\n", c.YieldErr)
	}

	if c.ReturnErr != nil {
		fmt.Fprintf(w, "\tReturn: error: %v\n", c.ReturnErr)
	} else {
		fmt.Fprintf(w, "\tTotal Return (%s): %s\n", cur.Symbol(), FormatMoney(cur, c.Return.TotalReturnAbsolute))
		fmt.Fprintf(w, "\tTotal Return (%%): %s\n", FormatPercent(c.Return.TotalReturnPercentage))
		fmt.Fprintf(w, "\tAnnualised Return (%s): %s\n", cur.Symbol(), FormatMoney(cur, c.Return.AnnualisedAbsolute))
		fmt.Fprintf(w, "\tAnnualised Return (%%): %s\n", FormatPercent(c.Return.AnnualisedPercentage))
	}

	fmt.Fprintf(w, "Bond Details:\n")
	fmt.Fprintf(w, "\tCurrent Price (%s): %s\n", cur.Symbol(), FormatMoney(cur, req.Terms.Price))
	fmt.Fprintf(w, "\tFace Value (%s): %s\n", cur.Symbol(), FormatMoney(cur, req.Terms.FaceValue))
	fmt.Fprintf(w, "\tCoupon Rate: %s\n", FormatPercent(req.Terms.CouponRate*100))
	fmt.Fprintf(w, "\tYears to Maturity: %d\n", req.Terms.Years)
	fmt.Fprintf(w, "\tMarkup (%s): %s\n", cur.Symbol(), FormatMoney(cur, req.Costs.Markup))
	fmt.Fprintf(w, "\tWithholding Tax: %s\n", FormatPercent(req.Costs.WithholdingTax))
}
