package input

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Open picks a Source for location. s3:// objects are downloaded first; the
// returned cleanup removes the download and is always safe to call.
func Open(ctx context.Context, location string, client S3GetObjectAPI) (Source, func(), error) {
	cleanup := func() {}

	if s3Path, _ := ParseS3(location); s3Path != nil {
		if client == nil {
			return nil, cleanup, fmt.Errorf("no s3 client for %s", location)
		}

		tmp, err := FetchS3(ctx, client, s3Path)
		if err != nil {
			return nil, cleanup, err
		}

		cleanup = func() { os.Remove(tmp) }
		location = tmp
	}

	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTMLTableSource(location), cleanup, nil
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".parquet":
		return NewParquetSource(location), cleanup, nil
	case ".html", ".htm":
		return NewHTMLTableSource(location), cleanup, nil
	default:
		return NewSpreadsheetSource(location), cleanup, nil
	}
}
