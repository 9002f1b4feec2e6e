package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/blog-search/internal/corpus"
	"github.com/pdiddy/blog-search/internal/engine"
	"github.com/pdiddy/blog-search/internal/output"
	"github.com/pdiddy/blog-search/internal/widget"
	"github.com/pdiddy/blog-search/pkg/types"
)

// envKeyReplacer maps nested keys to environment names, so index.url reads
// BLOG_SEARCH_INDEX_URL.
var envKeyReplacer = strings.NewReplacer(".", "_")

// setDefaults registers every configuration key with viper. AutomaticEnv
// only resolves keys viper already knows about.
func setDefaults(d types.Config) {
	viper.SetDefault("site.base_url", d.Site.BaseURL)
	viper.SetDefault("index.url", d.Index.URL)
	viper.SetDefault("index.file", d.Index.File)
	viper.SetDefault("http.timeout", d.HTTP.Timeout)
	viper.SetDefault("http.user_agent", d.HTTP.UserAgent)
	viper.SetDefault("http.max_retries", d.HTTP.MaxRetries)
	viper.SetDefault("serve.addr", d.Serve.Addr)
	viper.SetDefault("serve.page", d.Serve.Page)
	viper.SetDefault("serve.corpus_retry", d.Serve.CorpusRetry)
}

// loadConfig reads the merged configuration out of viper.
func loadConfig() types.Config {
	return types.Config{
		Site:  types.SiteConfig{BaseURL: viper.GetString("site.base_url")},
		Index: types.IndexConfig{URL: viper.GetString("index.url"), File: viper.GetString("index.file")},
		HTTP: types.HTTPConfig{
			Timeout:    viper.GetDuration("http.timeout"),
			UserAgent:  viper.GetString("http.user_agent"),
			MaxRetries: viper.GetInt("http.max_retries"),
		},
		Serve: types.ServeConfig{
			Addr:        viper.GetString("serve.addr"),
			Page:        viper.GetString("serve.page"),
			CorpusRetry: viper.GetDuration("serve.corpus_retry"),
		},
	}
}

// newWidget wires the corpus loader, the bundled engine and the widget for
// one process.
func newWidget(cfg types.Config, log io.Writer) (*widget.Widget, error) {
	loader := &corpus.Loader{
		File:        cfg.Index.File,
		HTTP:        cfg.HTTP,
		Credentials: loadedSecrets,
		Log:         log,
	}
	if loader.File == "" {
		u, err := cfg.IndexURL()
		if err != nil {
			return nil, fmt.Errorf("resolving index URL: %w", err)
		}
		loader.URL = u
		loader.Client = &http.Client{Timeout: cfg.HTTP.Timeout}
	}

	state := widget.NewSearchState(engine.Bundled{}, loader, engine.DefaultOptions())
	return widget.New(state, log), nil
}

// newPrinter returns a status printer on out and the command's error
// stream, honouring --no-color.
func newPrinter(cmd *cobra.Command, out io.Writer) *output.Printer {
	p := output.NewPrinter(out, cmd.ErrOrStderr())
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		p.WithColors(false)
	}
	return p
}
