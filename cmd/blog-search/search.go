package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/blog-search/internal/output"
	"github.com/pdiddy/blog-search/internal/render"
	"github.com/pdiddy/blog-search/internal/widget"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the blog index",
	Long: `Search loads the site's index.json, builds the fuzzy engine, and prints
matches for the query best first. The query comes from the positional
arguments or --query and must be at least two characters after trimming.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "search query (alternative to positional arguments)")
	searchCmd.Flags().Int("limit", 0, "maximum number of results to print (0 prints all)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("yaml", false, "output results as YAML")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		query = strings.Join(args, " ")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	if asJSON && asYAML {
		return errors.New("--json and --yaml are mutually exclusive")
	}

	printer := newPrinter(cmd, cmd.OutOrStdout())

	w, err := newWidget(loadConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	matches, err := w.Search(cmd.Context(), query)
	switch {
	case errors.Is(err, widget.ErrQueryEmpty):
		printer.Warning(render.MsgEmptyQuery)
		return err
	case errors.Is(err, widget.ErrQueryTooShort):
		printer.Warning(render.TooShortMessage(widget.MinQueryLength))
		return err
	case err != nil:
		printer.Error(render.MsgFailed)
		return err
	}

	if n, ok := w.State().CorpusSize(); ok && n == 0 {
		printer.Warning("search index is empty")
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		return output.JSON(out, matches)
	case asYAML:
		return output.YAML(out, matches)
	}
	if err := output.Table(out, matches, widget.NormalizeQuery(query)); err != nil {
		return fmt.Errorf("printing results: %w", err)
	}
	return nil
}
