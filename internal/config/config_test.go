package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffing/internal/blob"
	"staffing/internal/core"
	"staffing/internal/logging"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staffing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadWithEnv("", envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.HTTP.Addr)
	assert.Equal(t, core.StorageSQLite, cfg.StorageOptions().Driver)
	assert.Equal(t, DefaultSQLitePath, cfg.StorageOptions().SQLitePath)
	assert.Equal(t, blob.DriverFilesystem, cfg.BlobConfig().Driver)
	assert.True(t, cfg.BlobEnabled())
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Storage.Seed)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
http:
  addr: 127.0.0.1:9000
  read_timeout: 3s
storage:
  driver: bolt
  bolt_path: /tmp/x.bolt
  seed: true
blob:
  driver: s3
  s3:
    bucket: exports
    path_style: true
log:
  level: debug
  format: json
`)
	cfg, err := LoadWithEnv(path, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.HTTP.WriteTimeout)
	assert.Equal(t, core.StorageBolt, cfg.StorageOptions().Driver)
	assert.True(t, cfg.Storage.Seed)
	assert.Equal(t, "exports", cfg.BlobConfig().S3.Bucket)
	assert.True(t, cfg.BlobConfig().S3.PathStyle)

	lc := cfg.Logging(nil)
	assert.Equal(t, logging.FormatJSON, lc.Format)
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadWithEnv(writeFile(t, ""), envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestUnknownKeyRejected(t *testing.T) {
	_, err := LoadWithEnv(writeFile(t, "storage:\n  drvier: memory\n"), envMap(nil))
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"), envMap(nil))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "storage:\n  driver: bolt\n")
	cfg, err := LoadWithEnv(path, envMap(map[string]string{
		"STAFFING_STORAGE_DRIVER":     "postgres",
		"STAFFING_POSTGRES_DSN":       "postgres://db/staffing",
		"STAFFING_HTTP_ADDR":          ":9999",
		"STAFFING_HTTP_WRITE_TIMEOUT": "1m",
		"STAFFING_SEED":               "true",
		"STAFFING_BLOB_DRIVER":        "none",
		"STAFFING_METRICS_ENABLED":    "false",
		"STAFFING_LOG_LEVEL":          "warn",
		"STAFFING_SQLITE_PATH":        "",
	}))
	require.NoError(t, err)
	assert.Equal(t, core.StoragePostgres, cfg.StorageOptions().Driver)
	assert.Equal(t, "postgres://db/staffing", cfg.StorageOptions().PostgresDSN)
	assert.Equal(t, DefaultSQLitePath, cfg.Storage.SQLitePath, "empty env values are ignored")
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, time.Minute, cfg.HTTP.WriteTimeout)
	assert.True(t, cfg.Storage.Seed)
	assert.False(t, cfg.BlobEnabled())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvIsSoleSourceForDriverOptions(t *testing.T) {
	cfg, err := LoadWithEnv("", envMap(map[string]string{
		"STAFFING_STORAGE_DRIVER":            "bolt",
		"STAFFING_BOLT_PATH":                 "/srv/staffing.bolt",
		"STAFFING_BLOB_DRIVER":               "s3",
		"STAFFING_BLOB_FS_ROOT":              "/srv/blobs",
		"STAFFING_BLOB_S3_BUCKET":            "exports",
		"STAFFING_BLOB_S3_REGION":            "eu-west-1",
		"STAFFING_BLOB_S3_ENDPOINT":          "http://minio:9000",
		"STAFFING_BLOB_S3_PATH_STYLE":        "1",
		"STAFFING_BLOB_S3_ACCESS_KEY_ID":     "id",
		"STAFFING_BLOB_S3_SECRET_ACCESS_KEY": "secret",
	}))
	require.NoError(t, err)

	storage := cfg.StorageOptions()
	assert.Equal(t, core.StorageBolt, storage.Driver)
	assert.Equal(t, "/srv/staffing.bolt", storage.BoltPath)

	bc := cfg.BlobConfig()
	assert.Equal(t, blob.DriverS3, bc.Driver)
	assert.Equal(t, "/srv/blobs", bc.FSRoot)
	assert.Equal(t, blob.S3Config{
		Bucket:          "exports",
		Region:          "eu-west-1",
		Endpoint:        "http://minio:9000",
		PathStyle:       true,
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
	}, bc.S3)

	_, err = LoadWithEnv("", envMap(map[string]string{"STAFFING_BLOB_S3_PATH_STYLE": "yes"}))
	assert.ErrorContains(t, err, "STAFFING_BLOB_S3_PATH_STYLE")
}

func TestEnvParseErrors(t *testing.T) {
	for key, value := range map[string]string{
		"STAFFING_HTTP_READ_TIMEOUT":   "soon",
		"STAFFING_SEED":                "maybe",
		"STAFFING_HTTP_MAX_BODY_BYTES": "big",
	} {
		_, err := LoadWithEnv("", envMap(map[string]string{key: value}))
		assert.ErrorContains(t, err, key)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"storage driver", func(c *Config) { c.Storage.Driver = "mongo" }, "storage.driver"},
		{"blob driver", func(c *Config) { c.Blob.Driver = "gcs" }, "blob.driver"},
		{"s3 bucket", func(c *Config) { c.Blob.Driver = "s3" }, "blob.s3.bucket"},
		{"addr", func(c *Config) { c.HTTP.Addr = " " }, "http.addr"},
		{"timeout", func(c *Config) { c.HTTP.IdleTimeout = -time.Second }, "http.idle_timeout"},
		{"body", func(c *Config) { c.HTTP.MaxBodyBytes = 0 }, "http.max_body_bytes"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
	assert.NoError(t, Default().Validate())
}
