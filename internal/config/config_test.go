package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"image-publisher/internal/domain"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_PATH", path)
}

func TestMustLoadDefaults(t *testing.T) {
	writeConfig(t, "server:\n  addr: \"9090\"\n")

	cfg, err := MustLoad()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Addr)
	require.Equal(t, "share-link", cfg.Publish.Strategy)
	require.Equal(t, "Check out this awesome image!", cfg.Publish.Message)
	require.Equal(t, 85, cfg.Pipeline.Quality)
	require.Equal(t, 1, cfg.Pipeline.Workers)
	require.Equal(t, []string{"300x250", "728x90", "160x600", "300x600"}, cfg.Pipeline.Presets)
	require.Equal(t, "disk", cfg.Storage.Backend)
	require.Equal(t, 30*time.Second, cfg.Pipeline.ResizeTimeout)
}

func TestMustLoadFromEnvWhenFileMissing(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	t.Setenv("PUBLISH_STRATEGY", "direct-post")
	t.Setenv("PIPELINE_QUALITY", "90")

	cfg, err := MustLoad()
	require.NoError(t, err)
	require.Equal(t, "direct-post", cfg.Publish.Strategy)
	require.Equal(t, 90, cfg.Pipeline.Quality)
}

func TestMustLoadRejectsUnknownStrategy(t *testing.T) {
	writeConfig(t, "publish:\n  strategy: carrier-pigeon\n")

	_, err := MustLoad()
	require.Error(t, err)
}

func TestMustLoadRejectsBadQuality(t *testing.T) {
	writeConfig(t, "pipeline:\n  quality: 0\n")

	_, err := MustLoad()
	require.Error(t, err)
}

func TestMustLoadRejectsBadPreset(t *testing.T) {
	writeConfig(t, "pipeline:\n  share_preset: widexhigh\n")

	_, err := MustLoad()
	require.Error(t, err)
}

func TestActivePresetsDirectPost(t *testing.T) {
	writeConfig(t, "publish:\n  strategy: direct-post\n")

	cfg, err := MustLoad()
	require.NoError(t, err)

	presets, err := cfg.ActivePresets()
	require.NoError(t, err)
	require.Equal(t, []domain.SizePreset{
		{Width: 300, Height: 250},
		{Width: 728, Height: 90},
		{Width: 160, Height: 600},
		{Width: 300, Height: 600},
	}, presets)
}

func TestActivePresetsShareLink(t *testing.T) {
	writeConfig(t, "publish:\n  strategy: share-link\n")

	cfg, err := MustLoad()
	require.NoError(t, err)

	presets, err := cfg.ActivePresets()
	require.NoError(t, err)
	require.Equal(t, []domain.SizePreset{{Width: 300, Height: 250}}, presets)
}

func TestDefaultRetryStrategy(t *testing.T) {
	writeConfig(t, "retry:\n  attempts: 5\n  delay: 1s\n  backoff: 3\n")

	cfg, err := MustLoad()
	require.NoError(t, err)

	strategy := cfg.DefaultRetryStrategy()
	require.Equal(t, 5, strategy.Attempts)
	require.Equal(t, time.Second, strategy.Delay)
	require.Equal(t, float64(3), strategy.Backoff)
}
