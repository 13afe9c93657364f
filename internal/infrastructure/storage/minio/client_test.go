package minio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := &MinIOConfig{}
	applyDefaults(cfg)

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "agreements", cfg.Bucket)
	assert.Equal(t, time.Hour, cfg.PresignExpiry)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := &MinIOConfig{
		Region:        "eu-west-1",
		Bucket:        "custom",
		PresignExpiry: 10 * time.Minute,
	}
	applyDefaults(cfg)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "custom", cfg.Bucket)
	assert.Equal(t, 10*time.Minute, cfg.PresignExpiry)
}

func TestEnsureBucket(t *testing.T) {
	t.Run("AlreadyExists", func(t *testing.T) {
		api := new(MockMinIOAPI)
		api.On("BucketExists", mock.Anything, "agreements").Return(true, nil)

		client := NewMinIOClientWithAPI(api, &MinIOConfig{Bucket: "agreements"}, logging.NewNopLogger())
		assert.NoError(t, client.EnsureBucket(context.Background()))
		api.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		api := new(MockMinIOAPI)
		api.On("BucketExists", mock.Anything, "agreements").Return(false, nil)
		api.On("MakeBucket", mock.Anything, "agreements", mock.Anything).Return(nil)

		client := NewMinIOClientWithAPI(api, &MinIOConfig{Bucket: "agreements"}, logging.NewNopLogger())
		assert.NoError(t, client.EnsureBucket(context.Background()))
		api.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		api := new(MockMinIOAPI)
		api.On("BucketExists", mock.Anything, "agreements").Return(false, fmt.Errorf("boom"))

		client := NewMinIOClientWithAPI(api, &MinIOConfig{Bucket: "agreements"}, logging.NewNopLogger())
		assert.Error(t, client.EnsureBucket(context.Background()))
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		api := new(MockMinIOAPI)
		api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{{Name: "agreements"}}, nil)

		client := NewMinIOClientWithAPI(api, &MinIOConfig{}, logging.NewNopLogger())
		assert.NoError(t, client.HealthCheck(context.Background()))
	})

	t.Run("Closed", func(t *testing.T) {
		api := new(MockMinIOAPI)
		client := NewMinIOClientWithAPI(api, &MinIOConfig{}, logging.NewNopLogger())
		client.Close()

		assert.Error(t, client.HealthCheck(context.Background()))
	})

	t.Run("Unreachable", func(t *testing.T) {
		api := new(MockMinIOAPI)
		api.On("ListBuckets", mock.Anything).Return(nil, fmt.Errorf("connection refused"))

		client := NewMinIOClientWithAPI(api, &MinIOConfig{}, logging.NewNopLogger())
		assert.Error(t, client.HealthCheck(context.Background()))
	})
}
