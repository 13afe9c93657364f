package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultRedisTTL, cfg.Redis.DefaultTTL)
	assert.Equal(t, DefaultModelDir, cfg.Pipeline.ModelDir)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Pipeline.OCRBinary = "/usr/local/bin/tesseract"
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/usr/local/bin/tesseract", cfg.Pipeline.OCRBinary)
}

func TestApplyDefaults_NilConfig(t *testing.T) {
	assert.NotPanics(t, func() {
		ApplyDefaults(nil)
	})
}
