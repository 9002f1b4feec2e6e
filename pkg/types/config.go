package types

import (
	"net/url"
	"strings"
	"time"
)

// DefaultIndexPath is the same-origin path the static site publishes its
// search index at.
const DefaultIndexPath = "/index.json"

// HTTPConfig holds shared HTTP settings used when fetching the index.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "blog-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on 429/503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SiteConfig identifies the blog the index belongs to.
type SiteConfig struct {
	// BaseURL is the site origin, e.g. "https://blog.example.com".
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// IndexConfig locates the search index. File takes precedence over URL.
type IndexConfig struct {
	// URL is the index location. A path-only value is resolved against
	// SiteConfig.BaseURL; empty means DefaultIndexPath.
	URL string `json:"url" yaml:"url"`

	// File is a local path to an index.json, used instead of HTTP.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ServeConfig holds settings for the HTTP server.
type ServeConfig struct {
	// Addr is the listen address (default ":8990").
	Addr string `json:"addr" yaml:"addr"`

	// Page is the host HTML page carrying the search anchors.
	Page string `json:"page" yaml:"page"`

	// CorpusRetry is how long the server waits before fetching an index
	// that came back empty or unavailable again. Zero never retries.
	CorpusRetry time.Duration `json:"corpus_retry" yaml:"corpus_retry"`
}

// Config groups every configuration section.
type Config struct {
	Site  SiteConfig  `json:"site" yaml:"site"`
	Index IndexConfig `json:"index" yaml:"index"`
	HTTP  HTTPConfig  `json:"http" yaml:"http"`
	Serve ServeConfig `json:"serve" yaml:"serve"`
}

// DefaultConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultConfig() Config {
	return Config{
		Site:  SiteConfig{BaseURL: "http://localhost:1313"},
		Index: IndexConfig{URL: DefaultIndexPath},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			UserAgent:  "blog-search/0.1",
			MaxRetries: 5,
		},
		Serve: ServeConfig{Addr: ":8990", Page: "public/search/index.html", CorpusRetry: time.Minute},
	}
}

// IndexURL returns the absolute index URL, resolving a path-only URL
// against the site base URL.
func (c Config) IndexURL() (string, error) {
	raw := strings.TrimSpace(c.Index.URL)
	if raw == "" {
		raw = DefaultIndexPath
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	base, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
