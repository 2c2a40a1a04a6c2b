package clients

import (
	"time"

	"github.com/pwnholic/pdfdemo/internal/config"
)

type HTTPClientOptions struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	UserAgent        string
}

// OptionsFromConfig converts the http section of the configuration.
func OptionsFromConfig(c config.HTTPConfig) *HTTPClientOptions {
	return &HTTPClientOptions{
		RetryCount:       c.RetryCount,
		RetryWaitTime:    time.Duration(c.RetryWaitTime),
		RetryMaxWaitTime: time.Duration(c.RetryMaxWaitTime),
		Timeout:          time.Duration(c.Timeout),
		UserAgent:        c.UserAgent,
	}
}

// AssetManifest points at a page listing bundled assets and says how to
// pick the lazy asset out of it.
type AssetManifest struct {
	PageURL  string
	Selector string
	Attr     string
}
