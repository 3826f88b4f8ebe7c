package input

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Path struct {
	Bucket string
	Prefix string
}

// Key joins name onto the prefix.
func (p *S3Path) Key(name string) string {
	if p.Prefix == "" {
		return name
	}
	return fmt.Sprintf("%s/%s", p.Prefix, name)
}

func (p *S3Path) String() string {
	return fmt.Sprintf("s3://%s/%s", p.Bucket, p.Prefix)
}

func ParseS3(path string) (*S3Path, error) {
	if !strings.HasPrefix(path, "s3://") {
		return nil, fmt.Errorf("path must start with s3://")
	}

	path = strings.TrimPrefix(path, "s3://")
	parts := strings.SplitN(path, "/", 2)

	bucket := parts[0]
	if bucket == "" {
		return nil, fmt.Errorf("missing bucket in s3 path")
	}

	var prefix string

	if len(parts) > 1 {
		prefix = parts[1]
		prefix = strings.TrimSuffix(prefix, "/")
	} else {
		prefix = ""
	}

	return &S3Path{
		Bucket: bucket,
		Prefix: prefix,
	}, nil
}

type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// FetchS3 downloads the object at src to a temp file keeping the object's
// extension. The caller removes the file.
func FetchS3(ctx context.Context, client S3GetObjectAPI, src *S3Path) (string, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(src.Bucket),
		Key:    aws.String(src.Prefix),
	})
	if err != nil {
		return "", fmt.Errorf("failed to download s3://%s/%s: %w", src.Bucket, src.Prefix, err)
	}
	defer out.Body.Close()

	tmp, err := os.CreateTemp("", "bonds-*"+path.Ext(src.Prefix))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, out.Body); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to download s3://%s/%s: %w", src.Bucket, src.Prefix, err)
	}

	return tmp.Name(), nil
}
