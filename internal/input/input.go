package input

import (
	"benritz/bonds/internal/types"
	"context"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidRow      = fmt.Errorf("invalid row")
	ErrDataUnavailable = fmt.Errorf("data unavailable")
)

// Request is one bond calculation as entered by the user.
type Request struct {
	Row      int
	Name     string
	Currency types.Currency
	Terms    types.BondTerms
	Costs    types.TransactionCosts
}

type CollectedRequest struct {
	Request *Request
	Err     error
}

func (c *CollectedRequest) SetError(err error) {
	if c.Err == nil {
		c.Err = err
	}
}

// Batch holds the requests read from a source and the rows that failed to
// parse or validate.
type Batch struct {
	Requests []*Request
	Failures []*CollectedRequest
	Source   string
}

func (b *Batch) AddRequest(cr *CollectedRequest) {
	if cr.Err == nil {
		b.Requests = append(b.Requests, cr.Request)
	} else {
		b.Failures = append(b.Failures, cr)
	}
}

func NewBatch(source string) *Batch {
	return &Batch{
		Source:   source,
		Requests: []*Request{},
		Failures: []*CollectedRequest{},
	}
}

type Source interface {
	Load(ctx context.Context) (*Batch, error)
	Source() string
}

var (
	COL_NAME            = 0
	COL_PRICE           = 1
	COL_FACE_VALUE      = 2
	COL_COUPON          = 3
	COL_YEARS           = 4
	COL_MARKUP          = 5
	COL_WITHHOLDING_TAX = 6
	COL_CURRENCY        = 7

	minColumns = COL_WITHHOLDING_TAX + 1
)

// parseRow converts a row of cells into a request. A row that is not a data
// row (blank, header) returns ErrInvalidRow and should be skipped; a data row
// with bad values is returned with its error set.
func parseRow(n int, row []string) (*CollectedRequest, error) {
	if len(row) < minColumns || isBlank(row) {
		return nil, ErrInvalidRow
	}

	// header rows have a non-numeric price
	if _, err := parseAmount(row[COL_PRICE]); err != nil && n == 0 {
		return nil, ErrInvalidRow
	}

	req := &Request{
		Row:      n,
		Name:     strings.TrimSpace(row[COL_NAME]),
		Currency: types.DefaultCurrency,
	}

	cr := &CollectedRequest{Request: req}

	if v, err := parseAmount(row[COL_PRICE]); err == nil {
		req.Terms.Price = v
	} else {
		cr.SetError(types.ErrInvalidPrice)
	}

	if v, err := parseAmount(row[COL_FACE_VALUE]); err == nil {
		req.Terms.FaceValue = v
	} else {
		cr.SetError(types.ErrInvalidFaceValue)
	}

	if v, err := parseCouponPercentage(row[COL_COUPON]); err == nil {
		req.Terms.CouponRate = v / 100
	} else {
		cr.SetError(types.ErrInvalidCouponRate)
	}

	if v, err := strconv.Atoi(strings.TrimSpace(row[COL_YEARS])); err == nil {
		req.Terms.Years = v
	} else {
		cr.SetError(types.ErrInvalidYears)
	}

	if v, err := parseAmount(row[COL_MARKUP]); err == nil {
		req.Costs.Markup = v
	} else {
		cr.SetError(types.ErrInvalidMarkup)
	}

	s := strings.TrimSuffix(strings.TrimSpace(row[COL_WITHHOLDING_TAX]), "%")
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		req.Costs.WithholdingTax = v
	} else {
		cr.SetError(types.ErrInvalidWithholdingTax)
	}

	if len(row) > COL_CURRENCY {
		if c, err := types.ParseCurrency(row[COL_CURRENCY]); err == nil {
			req.Currency = c
		} else {
			cr.SetError(err)
		}
	}

	if cr.Err == nil {
		cr.Err = validate(req)
	}

	return cr, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func validate(req *Request) error {
	if err := req.Terms.Validate(); err != nil {
		return err
	}
	return req.Costs.Validate()
}

// parseAmount parses a currency amount, ignoring a leading currency symbol
// and thousands separators.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, sym := range []string{"€", "$", "£"} {
		s = strings.TrimPrefix(s, sym)
	}
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
