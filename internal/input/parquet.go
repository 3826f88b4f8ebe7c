package input

import (
	"benritz/bonds/internal/types"
	"context"
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

var SourceParquet = "Parquet"

// ParquetRow is the columnar layout of a request. The coupon is a percentage,
// as it is entered everywhere else.
type ParquetRow struct {
	Name           string  `parquet:"name"`
	Price          float64 `parquet:"price"`
	FaceValue      float64 `parquet:"face_value"`
	CouponPercent  float64 `parquet:"coupon_pct"`
	Years          int64   `parquet:"years"`
	Markup         float64 `parquet:"markup"`
	WithholdingTax float64 `parquet:"withholding_tax"`
	Currency       string  `parquet:"currency,optional"`
}

type ParquetSource struct {
	path string
}

func NewParquetSource(path string) *ParquetSource {
	return &ParquetSource{path: path}
}

func (s *ParquetSource) Load(ctx context.Context) (*Batch, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	rows, err := parquet.Read[ParquetRow](f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrDataUnavailable
	}

	batch := NewBatch(SourceParquet)

	for n, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch.AddRequest(row.collect(n))
	}

	return batch, nil
}

func (s *ParquetSource) Source() string {
	return SourceParquet
}

func (r ParquetRow) collect(n int) *CollectedRequest {
	req := &Request{
		Row:  n,
		Name: r.Name,
		Terms: types.BondTerms{
			FaceValue:  r.FaceValue,
			CouponRate: r.CouponPercent / 100,
			Years:      int(r.Years),
			Price:      r.Price,
		},
		Costs: types.TransactionCosts{
			Markup:         r.Markup,
			WithholdingTax: r.WithholdingTax,
		},
	}

	cr := &CollectedRequest{Request: req}

	c, err := types.ParseCurrency(r.Currency)
	if err != nil {
		cr.SetError(err)
	}
	req.Currency = c

	if cr.Err == nil {
		cr.Err = validate(req)
	}

	return cr
}
