package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	storage_go "github.com/supabase-community/storage-go"

	"github.com/ld100/peacedoon/internal/logging"
	"github.com/ld100/peacedoon/internal/services"
)

// SupabaseConfig holds the connection settings for a Supabase Storage
// backend. PublicURLPrefix is the base under which uploaded objects are
// served.
type SupabaseConfig struct {
	URL             string
	APIKey          string
	Bucket          string
	PublicURLPrefix string
}

// SupabaseUploader stores objects in one Supabase Storage bucket.
type SupabaseUploader struct {
	client *storage_go.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewSupabaseUploader creates an uploader for the configured bucket.
func NewSupabaseUploader(cfg SupabaseConfig, logger *slog.Logger) *SupabaseUploader {
	return &SupabaseUploader{
		client: storage_go.NewClient(cfg.URL, cfg.APIKey, nil),
		bucket: cfg.Bucket,
		prefix: strings.TrimRight(cfg.PublicURLPrefix, "/"),
		logger: logging.NewComponentLogger(logger, "storage"),
	}
}

// EnsureBucket creates the bucket as public when it does not exist yet.
func (u *SupabaseUploader) EnsureBucket(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := u.client.GetBucket(u.bucket); err == nil {
		return nil
	}
	if _, err := u.client.CreateBucket(u.bucket, storage_go.BucketOptions{Public: true}); err != nil {
		return services.Wrap(services.ErrExternalTool, "storage", "ensure_bucket", u.bucket, err)
	}
	u.logger.Info("created storage bucket", logging.String("bucket", u.bucket))
	return nil
}

// Upload stores the object at remotePath, replacing any previous version,
// and returns its public URL.
func (u *SupabaseUploader) Upload(ctx context.Context, remotePath string, data io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	upsert := true
	options := storage_go.FileOptions{Upsert: &upsert}
	if contentType != "" {
		options.ContentType = &contentType
	}
	if _, err := u.client.UploadFile(u.bucket, remotePath, data, options); err != nil {
		return "", services.Wrap(services.ErrTransient, "storage", "upload", remotePath, err)
	}
	url := fmt.Sprintf("%s/%s", u.prefix, strings.TrimLeft(remotePath, "/"))
	u.logger.Debug("uploaded object",
		logging.String("path", remotePath),
		logging.String("url", url),
	)
	return url, nil
}

var _ Uploader = (*SupabaseUploader)(nil)
