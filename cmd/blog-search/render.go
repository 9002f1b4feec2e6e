package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/blog-search/internal/page"
	"github.com/pdiddy/blog-search/internal/widget"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Apply the search widget to a host page",
	Long: `Render parses a host HTML page, runs one search activation for the query in
--url, and writes the page with its message and results containers filled
in. A page without search anchors is written back unchanged.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("page", "", "host HTML page (default: serve.page)")
	renderCmd.Flags().String("url", "", "page URL carrying the ?q= query, e.g. /search/?q=golang")
	renderCmd.Flags().String("out", "", "output file (default: stdout)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	pagePath, _ := cmd.Flags().GetString("page")
	if pagePath == "" {
		pagePath = cfg.Serve.Page
	}
	pageURL, _ := cmd.Flags().GetString("url")
	outPath, _ := cmd.Flags().GetString("out")

	f, err := os.Open(pagePath)
	if err != nil {
		return fmt.Errorf("opening host page: %w", err)
	}
	defer f.Close()

	doc, err := page.Parse(f)
	if err != nil {
		return err
	}

	w, err := newWidget(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	// The page itself goes to stdout, so status lines go to stderr.
	printer := newPrinter(cmd, cmd.ErrOrStderr())

	var display widget.Display
	anchors, ok := doc.Locate()
	if ok {
		display = anchors
	} else {
		printer.Warning("%s has no search anchors", pagePath)
	}
	phase := w.Run(cmd.Context(), display, pageURL)
	if ok {
		printer.Info("%s: %s (%d results)", phase, anchors.Message(), anchors.ResultCount())
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		printer.Info("Wrote %s", outPath)
		return nil
	}
	_, err = out.Write(buf.Bytes())
	return err
}
