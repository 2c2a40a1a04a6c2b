// Package config loads the JSON configuration shared by both commands.
// Every field has a default, so a missing file is not an error.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pwnholic/pdfdemo/internal/assets"
)

const DefaultFile = "pdfdemo.json"

type Config struct {
	LogLevel   string           `json:"log_level"`
	OutputDir  string           `json:"output_dir"`
	Standalone StandaloneConfig `json:"standalone"`
	Browser    BrowserConfig    `json:"browser"`
	HTTP       HTTPConfig       `json:"http"`
}

// StandaloneConfig names the filesystem locations used by the command-line
// adapter. Font and image references may use the embed: prefix.
type StandaloneConfig struct {
	WorkDir       string `json:"work_dir"`
	TestImage     string `json:"test_image"`
	RobotoFont    string `json:"roboto_font"`
	HelveticaFont string `json:"helvetica_font"`
	EagerImage    string `json:"eager_image"`
}

// BrowserConfig describes where the in-browser adapter finds its assets.
// The lazy asset URL is discovered from the manifest page the same way a
// bundler-emitted page would reference it.
type BrowserConfig struct {
	ManifestPath      string `json:"manifest_path"`
	LazyAssetSelector string `json:"lazy_asset_selector"`
	LazyAssetAttr     string `json:"lazy_asset_attr"`
	RobotoFont        string `json:"roboto_font"`
}

type HTTPConfig struct {
	RetryCount       int      `json:"retry_count"`
	RetryWaitTime    Duration `json:"retry_wait_time"`
	RetryMaxWaitTime Duration `json:"retry_max_wait_time"`
	Timeout          Duration `json:"timeout"`
	UserAgent        string   `json:"user_agent"`
}

// Duration decodes from a Go duration string such as "5s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func Default() Config {
	return Config{
		LogLevel:  "info",
		OutputDir: ".",
		Standalone: StandaloneConfig{
			WorkDir:       ".",
			TestImage:     assets.Ref(assets.TestImage),
			RobotoFont:    assets.Ref(assets.FontMedium),
			HelveticaFont: assets.Ref(assets.FontRegular),
			EagerImage:    assets.Ref(assets.BeeImage),
		},
		Browser: BrowserConfig{
			ManifestPath:      "/assets",
			LazyAssetSelector: "img.lazy-asset",
			LazyAssetAttr:     "src",
			RobotoFont:        "fonts/Roboto-Regular.ttf",
		},
		HTTP: HTTPConfig{
			RetryCount:       3,
			RetryWaitTime:    Duration(500 * time.Millisecond),
			RetryMaxWaitTime: Duration(2 * time.Second),
			Timeout:          Duration(10 * time.Second),
			UserAgent:        "pdfdemo/1.0",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse JSON configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.HTTP.RetryCount < 0 {
		errs = append(errs, fmt.Errorf("http.retry_count must be >= 0"))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("http.timeout must be > 0"))
	}
	if c.Standalone.TestImage == "" {
		errs = append(errs, fmt.Errorf("standalone.test_image is required"))
	}
	if c.Browser.LazyAssetSelector == "" || c.Browser.LazyAssetAttr == "" {
		errs = append(errs, fmt.Errorf("browser.lazy_asset_selector and browser.lazy_asset_attr are required"))
	}
	return errors.Join(errs...)
}
