package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/blog-search/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search page and JSON API",
	Long: `Serve starts an HTTP server with /search (the host page with results
rendered), /api/search (JSON), /healthz and /metrics. The index is fetched
and the engine built on the first search and shared by every request after.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8990)")
	serveCmd.Flags().String("page", "", "host HTML page carrying the search anchors")
	serveCmd.Flags().Duration("corpus-retry", 0, "refetch an empty or unavailable index after this long (default 1m, 0 in config disables)")
	serveCmd.Flags().Bool("warm", false, "wait for the index and engine before accepting requests (default: load in the background)")

	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("serve.page", serveCmd.Flags().Lookup("page"))
	_ = viper.BindPFlag("serve.corpus_retry", serveCmd.Flags().Lookup("corpus-retry"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := cmd.ErrOrStderr()
	printer := newPrinter(cmd, cmd.OutOrStdout())

	w, err := newWidget(cfg, log)
	if err != nil {
		return err
	}
	w.State().RetryEmptyCorpus(cfg.Serve.CorpusRetry)

	if warm, _ := cmd.Flags().GetBool("warm"); warm {
		if _, err := w.State().EnsureReady(cmd.Context()); err != nil {
			return fmt.Errorf("warming search engine: %w", err)
		}
		n, _ := w.State().CorpusSize()
		printer.Info("Search engine ready: %d records", n)
	} else {
		w.State().Preload(cmd.Context())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv := server.New(cfg.Serve, w, reg, log)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		printer.Info("Listening on %s", cfg.Serve.Addr)
		errCh <- srv.Start(cfg.Serve.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}

	printer.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
