// Package config loads the server configuration from an optional YAML file and
// STAFFING_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"staffing/internal/blob"
	"staffing/internal/core"
	"staffing/internal/logging"
)

// Default values.
const (
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxBodyBytes    = 1 << 20
	DefaultSQLitePath      = "staffing.db"
	DefaultBoltPath        = "staffing.bolt"
	DefaultBlobRoot        = "./blobdata"

	// BlobDisabled turns off exports.
	BlobDisabled = "none"
)

// Config is the full server configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Blob    BlobConfig    `yaml:"blob"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// HTTPConfig controls the listener.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// StorageConfig selects the record store.
type StorageConfig struct {
	// Driver is one of memory | sqlite | postgres | bolt.
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	BoltPath    string `yaml:"bolt_path"`
	// Seed creates one sample record per empty collection at startup.
	Seed bool `yaml:"seed"`
}

// BlobConfig selects where exports are written.
type BlobConfig struct {
	// Driver is one of fs | s3 | memory | none.
	Driver string   `yaml:"driver"`
	FSRoot string   `yaml:"fs_root"`
	S3     S3Config `yaml:"s3"`
}

// S3Config mirrors the S3 blob settings.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Trace writes one JSON line per service operation to the log output.
	Trace bool `yaml:"trace"`
}

// MetricsConfig toggles /metrics and /debug/vars.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a Config pre-populated with default values.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxBodyBytes:    DefaultMaxBodyBytes,
		},
		Storage: StorageConfig{
			Driver:     string(core.StorageSQLite),
			SQLitePath: DefaultSQLitePath,
			BoltPath:   DefaultBoltPath,
		},
		Blob: BlobConfig{
			Driver: string(blob.DriverFilesystem),
			FSRoot: DefaultBlobRoot,
		},
		Log:     LogConfig{Level: "info", Format: string(logging.FormatText)},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads path (optional), applies environment overrides and validates.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment.
func LoadWithEnv(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}
	if lookup != nil {
		if err := applyEnv(&cfg, lookup); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("STAFFING_HTTP_ADDR", &cfg.HTTP.Addr)
	dur("STAFFING_HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	dur("STAFFING_HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)
	dur("STAFFING_HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout)
	dur("STAFFING_HTTP_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout)
	if v, ok := lookup("STAFFING_HTTP_MAX_BODY_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("STAFFING_HTTP_MAX_BODY_BYTES: %w", err))
		} else {
			cfg.HTTP.MaxBodyBytes = n
		}
	}

	str("STAFFING_STORAGE_DRIVER", &cfg.Storage.Driver)
	str("STAFFING_SQLITE_PATH", &cfg.Storage.SQLitePath)
	str("STAFFING_POSTGRES_DSN", &cfg.Storage.PostgresDSN)
	str("STAFFING_BOLT_PATH", &cfg.Storage.BoltPath)
	boolean("STAFFING_SEED", &cfg.Storage.Seed)

	str("STAFFING_BLOB_DRIVER", &cfg.Blob.Driver)
	str("STAFFING_BLOB_FS_ROOT", &cfg.Blob.FSRoot)
	str("STAFFING_BLOB_S3_BUCKET", &cfg.Blob.S3.Bucket)
	str("STAFFING_BLOB_S3_REGION", &cfg.Blob.S3.Region)
	str("STAFFING_BLOB_S3_ENDPOINT", &cfg.Blob.S3.Endpoint)
	boolean("STAFFING_BLOB_S3_PATH_STYLE", &cfg.Blob.S3.PathStyle)
	str("STAFFING_BLOB_S3_ACCESS_KEY_ID", &cfg.Blob.S3.AccessKeyID)
	str("STAFFING_BLOB_S3_SECRET_ACCESS_KEY", &cfg.Blob.S3.SecretAccessKey)

	str("STAFFING_LOG_LEVEL", &cfg.Log.Level)
	str("STAFFING_LOG_FORMAT", &cfg.Log.Format)
	boolean("STAFFING_LOG_TRACE", &cfg.Log.Trace)
	boolean("STAFFING_METRICS_ENABLED", &cfg.Metrics.Enabled)

	return errors.Join(errs...)
}

// Validate checks structural constraints.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr must not be empty"))
	}
	for name, d := range map[string]time.Duration{
		"http.read_timeout":     c.HTTP.ReadTimeout,
		"http.write_timeout":    c.HTTP.WriteTimeout,
		"http.idle_timeout":     c.HTTP.IdleTimeout,
		"http.shutdown_timeout": c.HTTP.ShutdownTimeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("http.max_body_bytes must be positive, got %d", c.HTTP.MaxBodyBytes))
	}

	switch core.StorageDriver(c.Storage.Driver) {
	case core.StorageMemory, core.StorageSQLite, core.StoragePostgres, core.StorageBolt:
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q unknown: want memory|sqlite|postgres|bolt", c.Storage.Driver))
	}

	switch c.Blob.Driver {
	case string(blob.DriverFilesystem), string(blob.DriverMemory), BlobDisabled:
	case string(blob.DriverS3):
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("blob.s3.bucket is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("blob.driver %q unknown: want fs|s3|memory|none", c.Blob.Driver))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	return errors.Join(errs...)
}

// StorageOptions converts the storage section for core.OpenStores.
func (c Config) StorageOptions() core.StorageOptions {
	return core.StorageOptions{
		Driver:      core.StorageDriver(c.Storage.Driver),
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
		BoltPath:    c.Storage.BoltPath,
	}
}

// BlobEnabled reports whether exports have a backend.
func (c Config) BlobEnabled() bool { return c.Blob.Driver != BlobDisabled }

// BlobConfig converts the blob section for blob.Open.
func (c Config) BlobConfig() blob.Config {
	return blob.Config{
		Driver: blob.Driver(c.Blob.Driver),
		FSRoot: c.Blob.FSRoot,
		S3: blob.S3Config{
			Bucket:          c.Blob.S3.Bucket,
			Region:          c.Blob.S3.Region,
			Endpoint:        c.Blob.S3.Endpoint,
			PathStyle:       c.Blob.S3.PathStyle,
			AccessKeyID:     c.Blob.S3.AccessKeyID,
			SecretAccessKey: c.Blob.S3.SecretAccessKey,
		},
	}
}

// Logging converts the log section. Call after Validate.
func (c Config) Logging(out io.Writer) logging.Config {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	return logging.Config{Level: level, Format: format, Output: out}
}
