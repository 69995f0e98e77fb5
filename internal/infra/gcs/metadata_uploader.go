// internal/infra/gcs/metadata_uploader.go
package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"

	assetdom "narratives-nft/internal/domain/asset"
)

// Default bucket for NFT metadata.
const defaultMetadataBucket = "narratives_development_nft_metadata"

const metadataPrefix = "metadata/"

// putFunc writes data to bucket/object.
type putFunc func(ctx context.Context, bucket, object, contentType string, data []byte) error

// MetadataUploader stores metadata JSON as a public GCS object and returns its URL.
type MetadataUploader struct {
	Bucket string

	put   putFunc
	newID func() string
	log   *zap.Logger
}

var _ assetdom.MetadataUploader = (*MetadataUploader)(nil)

func NewMetadataUploader(client *storage.Client, bucket string, log *zap.Logger) *MetadataUploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &MetadataUploader{
		Bucket: strings.TrimSpace(bucket),
		put:    storagePut(client),
		newID:  uuid.NewString,
		log:    log.Named("gcs"),
	}
}

func storagePut(client *storage.Client) putFunc {
	return func(ctx context.Context, bucket, object, contentType string, data []byte) error {
		if client == nil {
			return errors.New("MetadataUploader: nil storage client")
		}
		w := client.Bucket(bucket).Object(object).NewWriter(ctx)
		w.ContentType = contentType
		w.CacheControl = "public, max-age=300"
		if _, err := w.Write(data); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	}
}

func (u *MetadataUploader) bucket() string {
	b := strings.TrimSpace(u.Bucket)
	if b == "" {
		return defaultMetadataBucket
	}
	return b
}

// UploadMetadata writes metadata/<uuid>.json and returns
// https://storage.googleapis.com/<bucket>/metadata/<uuid>.json.
func (u *MetadataUploader) UploadMetadata(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("MetadataUploader: data is empty")
	}
	if !json.Valid(data) {
		return "", errors.New("MetadataUploader: data is not valid JSON")
	}

	bucket := u.bucket()
	object := metadataPrefix + u.newID() + ".json"

	if err := u.put(ctx, bucket, object, "application/json", data); err != nil {
		return "", fmt.Errorf("MetadataUploader: write gs://%s/%s: %w", bucket, object, err)
	}

	uri := PublicURL(bucket, object)
	u.log.Info("metadata uploaded", zap.String("uri", uri))
	return uri, nil
}

// PublicURL builds a public GCS URL.
func PublicURL(bucket, objectPath string) string {
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", strings.TrimSpace(bucket), obj)
}
