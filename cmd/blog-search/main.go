// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the blog-search CLI.
//
// The CLI runs the same search pipeline the site's search page uses: search
// prints matches for a query, render applies the widget to a host page, and
// serve exposes both over HTTP.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/blog-search/internal/secrets"
	"github.com/pdiddy/blog-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds site credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the blog-search CLI.
var rootCmd = &cobra.Command{
	Use:   "blog-search",
	Short: "Fuzzy search over a static blog's index.json",
	Long: `blog-search loads the index.json a static site publishes, builds a fuzzy
search engine over it once, and answers queries the way the site's search
page does.

Configuration comes from blog-search.yaml, BLOG_SEARCH_* environment
variables (a .env file is read first), and flags, in increasing precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./blog-search.yaml or ~/.config/blog-search/blog-search.yaml)")
	flags.String("base-url", "", "site origin that path-only index URLs resolve against")
	flags.String("index-url", "", "search index URL or same-origin path")
	flags.String("index-file", "", "read the search index from a local file instead of HTTP")
	flags.Bool("no-color", false, "disable coloured status output")

	_ = viper.BindPFlag("site.base_url", flags.Lookup("base-url"))
	_ = viper.BindPFlag("index.url", flags.Lookup("index-url"))
	_ = viper.BindPFlag("index.file", flags.Lookup("index-file"))
}

func initConfig() {
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("blog-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "blog-search"))
		}
	}

	setDefaults(types.DefaultConfig())
	viper.SetEnvPrefix("BLOG_SEARCH")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
