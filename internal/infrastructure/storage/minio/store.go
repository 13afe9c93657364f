package minio

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/errors"
)

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "object not found")
	ErrUploadFailed   = errors.New(errors.ErrCodeStorageError, "upload failed")
)

// DocumentStore archives uploaded agreement documents in object storage.
// The analysis service writes the raw upload here before the pipeline runs,
// keyed by analysis ID, so the original document outlives the extraction.
type DocumentStore struct {
	client *MinIOClient
	logger logging.Logger
}

// NewDocumentStore builds a store on top of a connected client.
func NewDocumentStore(client *MinIOClient, log logging.Logger) *DocumentStore {
	return &DocumentStore{client: client, logger: log}
}

// Put stores the document and returns its storage key.
func (s *DocumentStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.API().PutObject(ctx, s.client.Bucket(), key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		s.logger.Error("DocumentStore.Put", logging.String("key", key), logging.Err(err))
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to store document")
	}

	s.logger.Debug("Stored document",
		logging.String("key", key),
		logging.Int("size", len(data)),
	)
	return key, nil
}

// Get retrieves a stored document by key.
func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.API().GetObject(ctx, s.client.Bucket(), key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to open document")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to read document")
	}
	return data, nil
}

// Exists reports whether a document is stored under the key.
func (s *DocumentStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.API().StatObject(ctx, s.client.Bucket(), key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat document")
	}
	return true, nil
}

// Delete removes a stored document.
func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	err := s.client.API().RemoveObject(ctx, s.client.Bucket(), key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to delete document")
	}
	return nil
}

// PresignedDownloadURL returns a time-limited URL for downloading the
// original document. A zero expiry uses the configured default.
func (s *DocumentStore) PresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = s.client.config.PresignExpiry
	}
	u, err := s.client.API().PresignedGetObject(ctx, s.client.Bucket(), key, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to presign download")
	}
	return u.String(), nil
}
