package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/umrah-docs-api/internal/ingest"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.S3Enabled)
	assert.Equal(t, ingest.DefaultBudget(), cfg.Budget)
	assert.Equal(t, ingest.DocumentImageOptions(), cfg.Presets["document"])
	assert.Equal(t, ingest.ProfilePhotoOptions(), cfg.Presets["photo"])
	assert.Equal(t, int64(3*ingest.MiB), cfg.MaxFileSize)
	assert.Equal(t, 128, cfg.CacheSize)
}

func TestLoadBudgetFromEnv(t *testing.T) {
	t.Setenv("INGEST_MAX_IMAGE_BYTES", "1048576")
	t.Setenv("INGEST_MAX_DOCUMENT_BYTES", "2097152")
	t.Setenv("INGEST_MAX_EMBEDDED_LEN", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(1<<20), cfg.Budget.MaxImageBytes)
	assert.Equal(t, int64(2<<20), cfg.Budget.MaxDocumentBytes)
	assert.Equal(t, ingest.DefaultMaxEmbeddedLen, cfg.Budget.MaxEmbeddedLen)
	assert.Equal(t, int64(2<<20), cfg.MaxFileSize)
}

func TestLoadPresetsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
budget:
  max_embedded_len: 500000
presets:
  photo:
    max_width: 320
    quality: 90
  banner:
    max_width: 1200
    quality: 75
`), 0o644))
	t.Setenv("INGEST_PRESETS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500000, cfg.Budget.MaxEmbeddedLen)
	assert.Equal(t, ingest.DefaultMaxImageBytes, cfg.Budget.MaxImageBytes)
	assert.Equal(t, 320, cfg.Presets["photo"].MaxWidth)
	assert.Equal(t, 90, cfg.Presets["photo"].Quality)
	assert.Equal(t, 1200, cfg.Presets["banner"].MaxWidth)
	assert.Equal(t, ingest.DocumentImageOptions(), cfg.Presets["document"])
}

func TestLoadRejectsBadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  photo:\n    max_width: 0\n    quality: 80\n"), 0o644))
	t.Setenv("INGEST_PRESETS_FILE", path)

	_, err := Load()
	assert.ErrorContains(t, err, `preset "photo"`)
}

func TestLoadMissingPresetsFile(t *testing.T) {
	t.Setenv("INGEST_PRESETS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to read presets file")
}

func TestValidateS3(t *testing.T) {
	cfg := &Config{Presets: DefaultPresets(), S3Enabled: true}
	assert.Error(t, cfg.Validate())

	cfg.S3BucketName = "originals"
	assert.NoError(t, cfg.Validate())
}
