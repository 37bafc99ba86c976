package config_test

import (
	"github.com/stretchr/testify/require"
	"imageResizer/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
kafka:
  brokers: ["localhost:9092"]
blob:
  public_base_url: "http://localhost:8082/processed"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, config.StorageDriverPostgres, cfg.Storage.Driver)
	require.Equal(t, config.BlobDriverLocal, cfg.Blob.Driver)
	require.Equal(t, int64(500000), cfg.Transcoder.MinSourceBytes)
	require.Equal(t, 20*time.Second, cfg.Transcoder.FetchTimeout)
	require.Equal(t, 600, cfg.Variants.ThumbnailHeight)
	require.Equal(t, 1800, cfg.Variants.LargeWidth)
	require.Equal(t, "search.image.deletions", cfg.Kafka.SearchTopic)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "Azure Without Credentials",
			body: `
kafka:
  brokers: ["localhost:9092"]
blob:
  driver: "azure"
  public_base_url: "https://acct.blob.core.windows.net/derivatives"
`,
		},
		{
			name: "Unknown Storage Driver",
			body: `
storage:
  driver: "redis"
kafka:
  brokers: ["localhost:9092"]
blob:
  public_base_url: "http://localhost:8082/processed"
`,
		},
		{
			name: "Missing Public Base URL",
			body: `
kafka:
  brokers: ["localhost:9092"]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
