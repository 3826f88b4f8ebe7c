package main

import (
	"benritz/bonds/internal/calc"
	"benritz/bonds/internal/input"
	"benritz/bonds/internal/report"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

func getAwsConfig(ctx context.Context, profile string) (aws.Config, error) {
	if profile == "default" {
		return config.LoadDefaultConfig(ctx)
	}
	return config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	profile := flag.String("profile", "default", "the AWS profile to use")
	workers := flag.Int("workers", 4, "number of bonds calculated concurrently")
	maxIterations := flag.Int("maxiterations", 1_000, "Newton-Raphson iteration budget")
	estimate := flag.Bool("estimate", false, "start the solver from the estimated YTM")
	helpFlag := flag.Bool("help", false, "print this help message")
	flag.Parse()
	args := flag.Args()

	if len(args) != 2 || *helpFlag {
		fmt.Printf("Usage: %s <flags> <input> <output>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(1)
	}

	src, dst := args[0], args[1]

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	dstS3, _ := input.ParseS3(dst)
	srcS3, _ := input.ParseS3(src)

	var s3Client *s3.Client
	if srcS3 != nil || dstS3 != nil {
		cfg, err := getAwsConfig(ctx, *profile)
		if err != nil {
			logger.Fatalf("failed to load AWS config: %v", err)
		}
		s3Client = s3.NewFromConfig(cfg)
	}

	var getter input.S3GetObjectAPI
	if s3Client != nil {
		getter = s3Client
	}

	source, cleanup, err := input.Open(ctx, src, getter)
	if err != nil {
		logger.Fatalf("failed to open input: %v", err)
	}
	defer cleanup()

	batch, err := source.Load(ctx)
	if err != nil {
		logger.Fatalf("failed to read input: %v", err)
	}

	for _, f := range batch.Failures {
		logger.WithFields(logrus.Fields{
			"row":  f.Request.Row,
			"name": f.Request.Name,
		}).Warnf("skipping row: %v", f.Err)
	}

	results, err := calc.CalculateAll(ctx, batch, calc.Options{
		EstimateGuess: *estimate,
		MaxIterations: *maxIterations,
		Workers:       *workers,
	})
	if err != nil {
		logger.Fatalf("calculation interrupted: %v", err)
	}

	failed := 0
	for _, c := range results {
		if err := c.Err(); err != nil {
			failed++
			logger.WithFields(logrus.Fields{
				"row":  c.Request.Row,
				"name": c.Request.Name,
			}).Warnf("calculation failed: %v", err)
		}
	}

	rows := report.NewRows(results)

	var outPath string
	if dstS3 != nil {
		outPath, err = report.StoreToS3(ctx, rows, s3Client, dstS3)
	} else {
		outPath, err = report.StoreToPath(ctx, rows, dst)
	}

	if err != nil {
		logger.Fatalf("failed to store report: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"source":     batch.Source,
		"calculated": len(results),
		"failed":     failed,
		"skipped":    len(batch.Failures),
	}).Infof("stored report to %s", outPath)
}
