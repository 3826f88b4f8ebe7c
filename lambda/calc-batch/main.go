package main

import (
	"benritz/bonds/internal/calc"
	"benritz/bonds/internal/config"
	"benritz/bonds/internal/input"
	"benritz/bonds/internal/report"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

type s3API interface {
	input.S3GetObjectAPI
	report.S3PutObjectAPI
}

type handler struct {
	cfg    *config.Config
	client s3API
	logger *logrus.Logger
}

// reportPath is where the report for an uploaded input object is stored:
// <prefix>/<input name without extension>.parquet in the report bucket.
func (h *handler) reportPath(key string) *input.S3Path {
	name := strings.TrimSuffix(path.Base(key), path.Ext(key)) + ".parquet"
	dst := &input.S3Path{Bucket: h.cfg.BucketName, Prefix: h.cfg.BucketPrefix}
	return &input.S3Path{Bucket: dst.Bucket, Prefix: dst.Key(name)}
}

// isReport reports whether the object is one of this handler's own reports,
// which would otherwise trigger again when the report bucket is watched.
func (h *handler) isReport(bucket, key string) bool {
	return bucket == h.cfg.BucketName && h.reportPath(key).Prefix == key
}

func (h *handler) calculateObject(ctx context.Context, bucket, key string) (string, error) {
	src := fmt.Sprintf("s3://%s/%s", bucket, key)

	source, cleanup, err := input.Open(ctx, src, h.client)
	if err != nil {
		return "", err
	}
	defer cleanup()

	batch, err := source.Load(ctx)
	if err != nil {
		return "", err
	}

	for _, f := range batch.Failures {
		h.logger.WithFields(logrus.Fields{
			"input": src,
			"row":   f.Request.Row,
			"name":  f.Request.Name,
		}).Warnf("skipping row: %v", f.Err)
	}

	results, err := calc.CalculateAll(ctx, batch, calc.Options{
		MaxIterations: h.cfg.MaxIterations,
		Workers:       h.cfg.Workers,
	})
	if err != nil {
		return "", err
	}

	outPath, err := report.StoreToS3(ctx, report.NewRows(results), h.client, h.reportPath(key))
	if err != nil {
		return "", err
	}

	h.logger.WithFields(logrus.Fields{
		"input":      src,
		"calculated": len(results),
		"skipped":    len(batch.Failures),
	}).Infof("stored report to %s", outPath)

	return outPath, nil
}

func (h *handler) handle(ctx context.Context, event events.S3Event) error {
	var errs []error

	for _, rec := range event.Records {
		key, err := url.QueryUnescape(rec.S3.Object.Key)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid object key %q: %w", rec.S3.Object.Key, err))
			continue
		}

		if h.isReport(rec.S3.Bucket.Name, key) {
			continue
		}

		if _, err := h.calculateObject(ctx, rec.S3.Bucket.Name, key); err != nil {
			h.logger.WithField("key", key).Errorf("failed to calculate: %v", err)
			errs = append(errs, fmt.Errorf("s3://%s/%s: %w", rec.S3.Bucket.Name, key, err))
		}
	}

	return errors.Join(errs...)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	logger := cfg.NewLogger()

	if err := cfg.RequireBucket(); err != nil {
		logger.Fatalf("config error: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	h := &handler{
		cfg:    cfg,
		client: s3.NewFromConfig(awsCfg),
		logger: logger,
	}

	lambda.Start(h.handle)
}
