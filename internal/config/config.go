package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys double as environment variable names through viper's AutomaticEnv.
const (
	KeyAppName  = "APP_NAME"
	KeyAppEnv   = "APP_ENV"
	KeyPort     = "PORT"
	KeyAPIToken = "API_TOKEN"
	KeyLogJSON  = "LOG_JSON"
	KeyDebug    = "DEBUG"

	KeyBucket          = "BUCKET_NAME"
	KeyStore           = "ARTIFACT_STORE"
	KeyBaseURL         = "ARTIFACT_BASE_URL"
	KeyDir             = "ARTIFACT_DIR"
	KeyTimeout         = "ARTIFACT_TIMEOUT"
	KeyRetries         = "ARTIFACT_RETRIES"
	KeyUnsupervisedVec = "UNSUPERVISED_VECTORIZER_PATH"
	KeySupervisedVec   = "SUPERVISED_VECTORIZER_PATH"
	KeyClassifier      = "CLASSIFIER_PATH"
	KeyMetadata        = "JOB_METADATA_PATH"
	KeyVectors         = "JOB_VECTORS_PATH"

	KeyRateLimitMax    = "RATE_LIMIT_MAX"
	KeyRateLimitWindow = "RATE_LIMIT_WINDOW"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// NewViper returns a viper instance with every default registered and
// environment lookup enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	paths := DefaultArtifactPaths()

	v.SetDefault(KeyAppName, "JobMate ML API")
	v.SetDefault(KeyAppEnv, "development")
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyAPIToken, DefaultAPIToken)
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyDebug, false)

	v.SetDefault(KeyStore, StoreGCS)
	v.SetDefault(KeyBaseURL, "https://storage.googleapis.com")
	v.SetDefault(KeyDir, ".")
	v.SetDefault(KeyTimeout, 60*time.Second)
	v.SetDefault(KeyRetries, 3)
	v.SetDefault(KeyUnsupervisedVec, paths.UnsupervisedVectorizer)
	v.SetDefault(KeySupervisedVec, paths.SupervisedVectorizer)
	v.SetDefault(KeyClassifier, paths.Classifier)
	v.SetDefault(KeyMetadata, paths.Metadata)
	v.SetDefault(KeyVectors, paths.Vectors)

	v.SetDefault(KeyRateLimitMax, 0)
	v.SetDefault(KeyRateLimitWindow, time.Minute)
}

// Load reads the configuration out of v. It does not validate it.
func Load(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:     v.GetString(KeyAppName),
			Env:      strings.ToLower(strings.TrimSpace(v.GetString(KeyAppEnv))),
			Port:     strings.TrimPrefix(strings.TrimSpace(v.GetString(KeyPort)), ":"),
			APIToken: v.GetString(KeyAPIToken),
			LogJSON:  v.GetBool(KeyLogJSON),
			Debug:    v.GetBool(KeyDebug),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeyStore))),
			Bucket:  strings.TrimSpace(v.GetString(KeyBucket)),
			BaseURL: v.GetString(KeyBaseURL),
			Dir:     v.GetString(KeyDir),
			Timeout: v.GetDuration(KeyTimeout),
			Retries: v.GetInt(KeyRetries),
			Paths: ArtifactPaths{
				UnsupervisedVectorizer: v.GetString(KeyUnsupervisedVec),
				SupervisedVectorizer:   v.GetString(KeySupervisedVec),
				Classifier:             v.GetString(KeyClassifier),
				Metadata:               v.GetString(KeyMetadata),
				Vectors:                v.GetString(KeyVectors),
			},
		},
		RateLimit: RateLimitConfig{
			Max:    v.GetInt(KeyRateLimitMax),
			Window: v.GetDuration(KeyRateLimitWindow),
		},
	}
}

// Validate reports the first configuration problem that would stop the
// service from starting.
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, KeyPort)
	}
	if c.App.APIToken == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, KeyAPIToken)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("%w: %s environment variable not set", ErrInvalidConfig, KeyBucket)
	}

	switch c.Storage.Backend {
	case StoreGCS, StoreFile:
	case StoreHTTP:
		if c.Storage.BaseURL == "" {
			return fmt.Errorf("%w: %s is required for the http store", ErrInvalidConfig, KeyBaseURL)
		}
	default:
		return fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, KeyStore, c.Storage.Backend)
	}
	if c.Storage.Timeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyTimeout)
	}
	if c.Storage.Retries < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, KeyRetries)
	}

	p := c.Storage.Paths
	for key, path := range map[string]string{
		KeyUnsupervisedVec: p.UnsupervisedVectorizer,
		KeySupervisedVec:   p.SupervisedVectorizer,
		KeyClassifier:      p.Classifier,
		KeyMetadata:        p.Metadata,
		KeyVectors:         p.Vectors,
	} {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, key)
		}
	}

	if c.RateLimit.Max < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, KeyRateLimitMax)
	}
	if c.RateLimit.Enabled() && c.RateLimit.Window <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyRateLimitWindow)
	}
	return nil
}
