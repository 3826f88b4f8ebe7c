package report

import (
	"benritz/bonds/internal/calc"
	"benritz/bonds/internal/input"
	"benritz/bonds/internal/types"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/parquet-go/parquet-go"
)

func scenario() *calc.Calculation {
	return calc.Calculate(&input.Request{
		Row:      1,
		Name:     "Bund 2030",
		Currency: types.EUR,
		Terms:    types.BondTerms{FaceValue: 1000, CouponRate: 0.05, Years: 5, Price: 1000},
		Costs:    types.TransactionCosts{Markup: 12, WithholdingTax: 15},
	}, calc.Options{})
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	cases := []struct {
		c    types.Currency
		v    float64
		want string
	}{
		{types.EUR, 200.5, "€200.50"},
		{types.USD, 40.1, "$40.10"},
		{types.GBP, -12, "-£12.00"},
		{types.EUR, 0.005, "€0.01"},
		{types.EUR, 1012, "€1012.00"},
	}

	for _, tc := range cases {
		if got := FormatMoney(tc.c, tc.v); got != tc.want {
			t.Errorf("FormatMoney(%s, %v) = %q, want %q", tc.c, tc.v, got, tc.want)
		}
	}

	if got := FormatPercent(19.812252964); got != "19.81%" {
		t.Errorf("FormatPercent = %q", got)
	}
}

func TestPrintResults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintResults(&buf, scenario())
	out := buf.String()

	for _, want := range []string{
		"Results for Bund 2030:",
		"YTM: 5.00%",
		"Total Return (€): €200.50",
		"Total Return (%): 19.81%",
		"Annualised Return (€): €40.10",
		"Annualised Return (%): 3.68%",
		"Markup (€): €12.00",
		"Withholding Tax: 15.00%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewRow_Error(t *testing.T) {
	t.Parallel()

	c := calc.Calculate(&input.Request{
		Name:  "zero",
		Terms: types.BondTerms{FaceValue: 1000, CouponRate: 0.05, Years: 5, Price: 500},
		Costs: types.TransactionCosts{Markup: -500},
	}, calc.Options{})

	r := NewRow(c)
	if !strings.Contains(r.Error, "adjusted price is zero") {
		t.Errorf("row error = %q", r.Error)
	}
	if r.TotalReturn != 0 || !r.YieldConverged {
		t.Errorf("row = %+v", r)
	}
}

func TestStoreToPath(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "reports", "bonds.parquet")

	if _, err := StoreToPath(context.Background(), NewRows([]*calc.Calculation{scenario()}), out); err != nil {
		t.Fatalf("StoreToPath: %v", err)
	}

	rows, err := parquet.ReadFile[Row](out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Name != "Bund 2030" || rows[0].TotalReturn != 200.5 || rows[0].Error != "" {
		t.Errorf("row = %+v", rows[0])
	}
}

type fakeS3 struct {
	bucket, key string
	body        []byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.bucket, f.key, f.body = *in.Bucket, *in.Key, b
	return &s3.PutObjectOutput{}, nil
}

func TestStoreToS3(t *testing.T) {
	t.Parallel()

	client := &fakeS3{}
	dst := &input.S3Path{Bucket: "reports", Prefix: "2026/bonds.parquet"}

	out, err := StoreToS3(context.Background(), NewRows([]*calc.Calculation{scenario()}), client, dst)
	if err != nil {
		t.Fatalf("StoreToS3: %v", err)
	}
	if out != "s3://reports/2026/bonds.parquet" {
		t.Errorf("out = %s", out)
	}

	rows, err := parquet.Read[Row](bytes.NewReader(client.body), int64(len(client.body)))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 1 || rows[0].Currency != "EUR" {
		t.Errorf("rows = %+v", rows)
	}

	if _, err := StoreToS3(context.Background(), nil, client, &input.S3Path{Bucket: "reports"}); err == nil {
		t.Error("StoreToS3 without key succeeded")
	}
}
