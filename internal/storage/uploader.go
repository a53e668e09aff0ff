package storage

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultMaxSize = 5 * 1024 * 1024

var (
	ErrNotImage = errors.New("upload is not an image")
	ErrTooLarge = errors.New("upload exceeds the size limit")
)

// Warnings shown when the image is embedded instead of stored
const (
	WarnNotConfigured = "Storage not configured. Using local image (will work for now)."
	WarnUploadFailed  = "Using local image. Upload to storage failed."
)

// Upload is the outcome of storing one image.
type Upload struct {
	URL         string `json:"url"`
	Key         string `json:"key,omitempty"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Fallback    bool   `json:"fallback"`
	Warning     string `json:"warning,omitempty"`
}

// Uploader validates images and stores them, embedding them as data URIs
// when storage is unavailable.
type Uploader struct {
	buckets *Buckets
	maxSize int64
	now     func() time.Time
}

func NewUploader(buckets *Buckets, maxSize int64) *Uploader {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Uploader{buckets: buckets, maxSize: maxSize, now: time.Now}
}

// Upload stores data under <userID>/<unixMillis>.<ext> in bucket. An
// anonymous user gets a data URI without a warning.
func (u *Uploader) Upload(ctx context.Context, bucket, userID, filename string, data []byte) (*Upload, error) {
	mtype := mimetype.Detect(data)
	contentType := mtype.String()
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}
	if int64(len(data)) > u.maxSize {
		return nil, ErrTooLarge
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	result := &Upload{ContentType: contentType, Size: len(data)}
	if userID == "" {
		return u.embed(result, data, ""), nil
	}

	b, err := u.buckets.Get(bucket)
	if err != nil {
		zap.L().Warn("storage upload failed, using data uri", zap.String("bucket", bucket), zap.Error(err),
			zap.String("namespace", "storage"))
		return u.embed(result, data, WarnNotConfigured), nil
	}

	key := userID + "/" + strconv.FormatInt(u.now().UnixMilli(), 10) + "." + extension(filename, mtype)
	if err := b.Put(ctx, key, data, contentType); err != nil {
		zap.L().Warn("storage upload failed, using data uri", zap.String("bucket", bucket), zap.Error(err),
			zap.String("namespace", "storage"))
		return u.embed(result, data, WarnUploadFailed), nil
	}
	result.Key = key
	result.URL = b.PublicURL(key)
	return result, nil
}

func (u *Uploader) embed(result *Upload, data []byte, warning string) *Upload {
	result.URL = "data:" + result.ContentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	result.Fallback = true
	result.Warning = warning
	return result
}

// extension prefers the client's file extension, falling back to the sniffed one.
func extension(filename string, mtype *mimetype.MIME) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" || strings.ContainsAny(ext, "/\\") {
		ext = strings.TrimPrefix(mtype.Extension(), ".")
	}
	return ext
}
