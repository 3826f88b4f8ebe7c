package report

import (
	"benritz/bonds/internal/calc"
	"benritz/bonds/internal/input"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/parquet-go/parquet-go"
)

// Row is one calculation in the batch report. Percentages are in percent,
// the yield included.
type Row struct {
	Row            int64   `parquet:"row"`
	Name           string  `parquet:"name"`
	Currency       string  `parquet:"currency"`
	Price          float64 `parquet:"price"`
	FaceValue      float64 `parquet:"face_value"`
	CouponPercent  float64 `parquet:"coupon_pct"`
	Years          int64   `parquet:"years"`
	Markup         float64 `parquet:"markup"`
	WithholdingTax float64 `parquet:"withholding_tax"`

	YieldToMaturity float64 `parquet:"ytm_pct"`
	YieldConverged  bool    `parquet:"ytm_converged"`
	YieldIterations int64   `parquet:"ytm_iterations"`

	TotalReturn         float64 `parquet:"total_return"`
	TotalReturnPercent  float64 `parquet:"total_return_pct"`
	AnnualisedReturn    float64 `parquet:"annualised_return"`
	AnnualisedReturnPct float64 `parquet:"annualised_return_pct"`
	Error               string  `parquet:"error,optional"`
}

func NewRow(c *calc.Calculation) Row {
	req := c.Request

	r := Row{
		Row:            int64(req.Row),
		Name:           req.Name,
		Currency:       string(req.Currency),
		Price:          req.Terms.Price,
		FaceValue:      req.Terms.FaceValue,
		CouponPercent:  req.Terms.CouponRate * 100,
		Years:          int64(req.Terms.Years),
		Markup:         req.Costs.Markup,
		WithholdingTax: req.Costs.WithholdingTax,

		YieldToMaturity: c.Yield.YTM * 100,
		YieldConverged:  c.Yield.Converged,
		YieldIterations: int64(c.Yield.Iterations),
	}

	if c.ReturnErr == nil {
		r.TotalReturn = c.Return.TotalReturnAbsolute
		r.TotalReturnPercent = c.Return.TotalReturnPercentage
		r.AnnualisedReturn = c.Return.AnnualisedAbsolute
		r.AnnualisedReturnPct = c.Return.AnnualisedPercentage
	}

	if err := c.Err(); err != nil {
		r.Error = strings.ReplaceAll(err.Error(), "\n", "; ")
	}

	return r
}

func NewRows(calcs []*calc.Calculation) []Row {
	rows := make([]Row, 0, len(calcs))
	for _, c := range calcs {
		rows = append(rows, NewRow(c))
	}
	return rows
}

func writeRows(rows []Row, output io.Writer) error {
	writer := parquet.NewGenericWriter[Row](output)

	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write records: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	return nil
}

func StoreToPath(ctx context.Context, rows []Row, outPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), os.ModePerm); err != nil {
		return "", err
	}

	file, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := writeRows(rows, file); err != nil {
		return "", err
	}

	return outPath, nil
}

type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// StoreToS3 uploads the report to dst. The prefix is the full object key.
func StoreToS3(ctx context.Context, rows []Row, s3Client S3PutObjectAPI, dst *input.S3Path) (string, error) {
	tmp, err := os.CreateTemp("", "bonds-report-*.parquet")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer tmp.Close()
	defer os.Remove(tmp.Name())

	if err := writeRows(rows, tmp); err != nil {
		return "", err
	}

	if _, err := tmp.Seek(0, 0); err != nil {
		return "", fmt.Errorf("failed to seek to start of file: %w", err)
	}

	key := dst.Prefix
	if key == "" || strings.HasSuffix(key, "/") {
		return "", fmt.Errorf("missing object key in s3://%s/%s", dst.Bucket, dst.Prefix)
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(dst.Bucket),
		Key:    aws.String(key),
		Body:   tmp,
	}

	if _, err := s3Client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to upload file to s3://%s/%s: %w", dst.Bucket, key, err)
	}

	outPath := fmt.Sprintf("s3://%s/%s", dst.Bucket, key)

	return outPath, nil
}
