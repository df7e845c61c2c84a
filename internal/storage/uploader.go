// Package storage stores binary attachments in an S3-compatible object
// store and hands back durable fetch URLs.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/restolink/api/internal/config"
)

// Uploader writes blobs to one bucket.
type Uploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// New connects to the object store and makes sure the bucket exists.
func New(ctx context.Context, cfg *config.Config) (*Uploader, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	return &Uploader{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores data at path and returns the durable fetch URL.
func (u *Uploader) Upload(ctx context.Context, data []byte, path string) (string, error) {
	path = strings.TrimLeft(path, "/")
	_, err := u.client.PutObject(ctx, u.bucket, path, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: http.DetectContentType(data)})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return u.publicURL + "/" + path, nil
}
