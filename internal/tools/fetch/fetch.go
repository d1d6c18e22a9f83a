// Package fetch downloads documents from any go-getter source: local paths,
// http(s) urls, s3 or gcs buckets and git repositories.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"
)

const errorLocalPath = "relative paths require a module with a pwd"

// File returns the content of the file at src.
func File(ctx context.Context, src string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "apigwctl-")
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	defer os.RemoveAll(dir)

	dst := filepath.Join(dir, filepath.Base(src))

	err = getter.GetFile(dst, src, getter.WithContext(ctx))
	if err != nil && err.Error() == errorLocalPath {
		src, err = filepath.Abs(src)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		err = getter.GetFile(dst, src, getter.WithContext(ctx))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return os.ReadFile(dst)
}
