package audiostore

import (
	"errors"
	"fmt"
	"time"

	"github.com/VoiceAsService/VoxGate/internal/pkg/env"
)

// Config holds S3 audio storage configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadConfig loads S3 configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnv("S3_AUDIO_STORE_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when the audio store is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when the audio store is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when the audio store is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if the audio store is enabled
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// SynthesisKey generates the object key for a synthesized audio result.
// Format: synthesis/YYYY/MM/<id>.<format>
func (c *Config) SynthesisKey(id, format string, t time.Time) string {
	return fmt.Sprintf("synthesis/%04d/%02d/%s.%s", t.Year(), int(t.Month()), id, format)
}

// CloneSampleKey generates the object key for an uploaded clone sample.
// Format: clone-samples/<user>/<id>/<filename>
func (c *Config) CloneSampleKey(userID uint, id, filename string) string {
	return fmt.Sprintf("clone-samples/%d/%s/%s", userID, id, filename)
}

// GetAppEnv returns the current application environment
func GetAppEnv() string {
	return env.GetEnv("APP_ENV", "dev")
}
