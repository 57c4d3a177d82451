package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/BerylCAtieno/umrah-docs-api/internal/ingest"
	"github.com/BerylCAtieno/umrah-docs-api/internal/models"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string

	// S3 archive of original uploads
	S3Enabled         bool
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Ingestion
	Budget      ingest.Budget
	Presets     map[string]ingest.ImageOptions
	PresetsFile string
	CacheSize   int

	// Upload limits
	MaxFileSize int64
}

// presetsFile is the YAML layout of INGEST_PRESETS_FILE.
type presetsFile struct {
	Budget  *ingest.Budget                 `yaml:"budget"`
	Presets map[string]ingest.ImageOptions `yaml:"presets"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "data/records.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		S3Enabled:         getEnv("S3_ENABLED", "false") == "true",
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "originals"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		Budget: ingest.Budget{
			MaxImageBytes:       getEnvAsInt64("INGEST_MAX_IMAGE_BYTES", ingest.DefaultMaxImageBytes),
			MaxDocumentBytes:    getEnvAsInt64("INGEST_MAX_DOCUMENT_BYTES", ingest.DefaultMaxDocumentBytes),
			MaxEmbeddedLen:      getEnvAsInt("INGEST_MAX_EMBEDDED_LEN", ingest.DefaultMaxEmbeddedLen),
			EncodingOverheadPct: getEnvAsInt64("INGEST_ENCODING_OVERHEAD_PCT", ingest.DefaultEncodingOverheadPct),
		},
		Presets:     DefaultPresets(),
		PresetsFile: getEnv("INGEST_PRESETS_FILE", ""),
		CacheSize:   getEnvAsInt("INGEST_CACHE_SIZE", 128),
	}

	if cfg.PresetsFile != "" {
		if err := cfg.loadPresetsFile(cfg.PresetsFile); err != nil {
			return nil, err
		}
	}

	cfg.Budget = cfg.Budget.WithDefaults()

	// Largest raw file any category accepts. The upload handler adds
	// multipart slack on top.
	cfg.MaxFileSize = max(cfg.Budget.MaxImageBytes, cfg.Budget.MaxDocumentBytes)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPresets returns the built-in image presets.
func DefaultPresets() map[string]ingest.ImageOptions {
	return map[string]ingest.ImageOptions{
		models.PresetDocument: ingest.DocumentImageOptions(),
		models.PresetPhoto:    ingest.ProfilePhotoOptions(),
	}
}

func (c *Config) loadPresetsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}

	var pf presetsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("failed to parse presets file %s: %w", path, err)
	}

	if pf.Budget != nil {
		c.Budget = *pf.Budget
	}
	for name, opts := range pf.Presets {
		c.Presets[name] = opts
	}
	return nil
}

func (c *Config) Validate() error {
	if _, ok := c.Presets[models.PresetDocument]; !ok {
		return fmt.Errorf("preset %q is required", models.PresetDocument)
	}
	for name, opts := range c.Presets {
		if opts.MaxWidth <= 0 {
			return fmt.Errorf("preset %q: max_width must be positive", name)
		}
		if opts.Quality <= 0 || opts.Quality > 100 {
			return fmt.Errorf("preset %q: quality must be between 1 and 100", name)
		}
	}
	if c.S3Enabled && c.S3BucketName == "" {
		return fmt.Errorf("S3_BUCKET_NAME is required when S3_ENABLED=true")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("INGEST_CACHE_SIZE must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
