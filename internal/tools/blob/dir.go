package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a Store rooted in a local directory. Buckets are sub directories.
type Dir struct {
	Root string
}

func (d *Dir) path(loc Location) (string, error) {
	p := filepath.Join(d.Root, loc.Bucket, filepath.FromSlash(loc.Key))
	rel, err := filepath.Rel(d.Root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("location %s escapes %s", loc, d.Root)
	}
	return p, nil
}

func (d *Dir) Get(_ context.Context, loc Location) ([]byte, error) {
	p, err := d.path(loc)
	if err != nil {
		return nil, err
	}
	body, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return body, err
}

func (d *Dir) Put(_ context.Context, loc Location, body []byte) error {
	p, err := d.path(loc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, body, 0o644)
}
