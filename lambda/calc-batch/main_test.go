package main

import (
	"benritz/bonds/internal/config"
	"benritz/bonds/internal/input"
	"benritz/bonds/internal/report"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"
)

const page = `<table>
<tr><th>Name</th><th>Price</th><th>Face</th><th>Coupon</th><th>Years</th><th>Markup</th><th>Tax</th></tr>
<tr><td>Bund 2030</td><td>1000</td><td>1000</td><td>5%</td><td>5</td><td>12</td><td>15</td></tr>
<tr><td>OAT 2028</td><td>970</td><td>1000</td><td>2 1/2%</td><td>3</td><td>4</td><td>12.8</td></tr>
</table>`

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, fmt.Errorf("no such key %s", *in.Key)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func newTestHandler(client *fakeS3) *handler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &handler{
		cfg: &config.Config{
			BucketName:    "reports",
			BucketPrefix:  "bonds",
			MaxIterations: 1_000,
			Workers:       2,
		},
		client: client,
		logger: logger,
	}
}

func s3Event(bucket, key string) events.S3Event {
	return events.S3Event{
		Records: []events.S3EventRecord{
			{
				S3: events.S3Entity{
					Bucket: events.S3Bucket{Name: bucket},
					Object: events.S3Object{Key: key},
				},
			},
		},
	}
}

func TestHandle(t *testing.T) {
	t.Parallel()

	client := &fakeS3{objects: map[string][]byte{"uploads/in/my+bonds.html": []byte(page)}}
	h := newTestHandler(client)

	if err := h.handle(context.Background(), s3Event("uploads", "in/my%2Bbonds.html")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	b, ok := client.objects["reports/bonds/my+bonds.parquet"]
	if !ok {
		t.Fatalf("report not stored, objects: %v", len(client.objects))
	}

	rows, err := parquet.Read[report.Row](bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Name != "Bund 2030" || rows[0].TotalReturn != 200.5 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if math.Abs(rows[1].CouponPercent-2.5) > 1e-12 || !rows[1].YieldConverged {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestHandle_SkipsOwnReports(t *testing.T) {
	t.Parallel()

	client := &fakeS3{objects: map[string][]byte{}}
	h := newTestHandler(client)

	if err := h.handle(context.Background(), s3Event("reports", "bonds/x.parquet")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(client.objects) != 0 {
		t.Errorf("objects written: %d", len(client.objects))
	}
}

func TestHandle_MissingObject(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&fakeS3{objects: map[string][]byte{}})

	if err := h.handle(context.Background(), s3Event("uploads", "missing.xlsx")); err == nil {
		t.Error("handle succeeded for a missing object")
	}
}

func TestIsReport(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&fakeS3{})

	cases := []struct {
		bucket, key string
		want        bool
	}{
		{"reports", "bonds/x.parquet", true},
		{"reports", "bonds-inbox/x.parquet", false},
		{"reports", "bonds/in/x.parquet", false},
		{"reports", "x.parquet", false},
		{"reports", "bonds/x.xlsx", false},
		{"uploads", "bonds/x.parquet", false},
	}
	for _, tc := range cases {
		if got := h.isReport(tc.bucket, tc.key); got != tc.want {
			t.Errorf("isReport(%q, %q) = %v, want %v", tc.bucket, tc.key, got, tc.want)
		}
	}

	h.cfg.BucketPrefix = ""
	if !h.isReport("reports", "x.parquet") || h.isReport("reports", "in/x.parquet") {
		t.Error("empty prefix: only top level reports should match")
	}
}

func TestHandle_ParquetBesideReports(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	in := []input.ParquetRow{{Name: "A", Price: 1000, FaceValue: 1000, CouponPercent: 5, Years: 5, Markup: 12, WithholdingTax: 15}}
	if err := parquet.Write(&buf, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	client := &fakeS3{objects: map[string][]byte{"reports/bonds-inbox/more.parquet": buf.Bytes()}}
	h := newTestHandler(client)

	if err := h.handle(context.Background(), s3Event("reports", "bonds-inbox/more.parquet")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	b, ok := client.objects["reports/bonds/more.parquet"]
	if !ok {
		t.Fatal("report not stored for input sharing the prefix")
	}
	rows, err := parquet.Read[report.Row](bytes.NewReader(b), int64(len(b)))
	if err != nil || len(rows) != 1 || rows[0].Name != "A" {
		t.Errorf("rows = %+v, err = %v", rows, err)
	}
}
