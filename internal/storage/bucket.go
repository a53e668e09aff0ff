// Package storage keeps uploaded images in named buckets.
package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrBucketNotFound = errors.New("storage bucket is not provisioned")

// Bucket is a flat key space of public objects.
type Bucket interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// LocalBucket stores objects under a directory served by the web server.
type LocalBucket struct {
	dir     string
	baseURL string
}

func NewLocalBucket(dir, baseURL string) *LocalBucket {
	return &LocalBucket{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *LocalBucket) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := safeJoin(b.dir, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return errors.Wrap(err, "create bucket directory")
	}
	// uploads never overwrite an existing object
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640) //nolint:gosec // G304: key is validated by safeJoin
	if err != nil {
		return errors.Wrap(err, "create object")
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "write object")
	}
	return f.Close()
}

func (b *LocalBucket) PublicURL(key string) string {
	return b.baseURL + "/" + key
}

// safeJoin keeps keys inside root.
func safeJoin(root, key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", errors.Errorf("invalid object key %q", key)
	}
	return filepath.Join(root, filepath.FromSlash(clean)), nil
}

// Buckets is the set of provisioned buckets of one backend.
type Buckets struct {
	items  map[string]Bucket
	closer io.Closer
}

func (bs *Buckets) Get(name string) (Bucket, error) {
	if bs == nil {
		return nil, ErrBucketNotFound
	}
	b, ok := bs.items[name]
	if !ok {
		return nil, ErrBucketNotFound
	}
	return b, nil
}

func (bs *Buckets) Close() error {
	if bs == nil || bs.closer == nil {
		return nil
	}
	return bs.closer.Close()
}
