package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfdemo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"log_level": "debug",
		"standalone": {"roboto_font": "fonts/Roboto-Medium.ttf"},
		"http": {"timeout": "3s", "retry_count": 0}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "fonts/Roboto-Medium.ttf", cfg.Standalone.RobotoFont)
	assert.Equal(t, Default().Standalone.TestImage, cfg.Standalone.TestImage)
	assert.Equal(t, Duration(3*time.Second), cfg.HTTP.Timeout)
	assert.Equal(t, 0, cfg.HTTP.RetryCount)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"syntax":   `{"log_level": `,
		"duration": `{"http": {"timeout": 5}}`,
		"timeout":  `{"http": {"timeout": "0s"}}`,
		"selector": `{"browser": {"lazy_asset_selector": ""}}`,
	} {
		path := filepath.Join(dir, name+".json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestDurationRoundTrip(t *testing.T) {
	b, err := Duration(1500 * time.Millisecond).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"1.5s"`, string(b))
}
