package types

import (
	"fmt"
	"strings"
)

type Currency string

var (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"

	DefaultCurrency = EUR
)

var ErrUnsupportedCurrency = fmt.Errorf("%w: unsupported currency", ErrInvalidInput)

func (c Currency) Symbol() string {
	switch c {
	case USD:
		return "$"
	case GBP:
		return "£"
	default:
		return "€"
	}
}

// ParseCurrency accepts an ISO code or a symbol. An empty string is the
// default currency.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return DefaultCurrency, nil
	case "EUR", "€":
		return EUR, nil
	case "USD", "$":
		return USD, nil
	case "GBP", "£":
		return GBP, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedCurrency, s)
}
