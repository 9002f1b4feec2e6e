package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/blog-search/internal/render"
	"github.com/pdiddy/blog-search/pkg/types"
)

// Table writes matches as a borderless table followed by the view message.
func Table(w io.Writer, matches []types.Match, query string) error {
	view := render.Render(matches, query)
	if len(view.Cards) == 0 {
		_, err := fmt.Fprintln(w, view.Message)
		return err
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
	)
	table.Header([]string{"Rank", "Score", "Title", "Meta", "Date", "Permalink"})

	rows := make([][]string, 0, len(view.Cards))
	for i, c := range view.Cards {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.3f", matches[i].Score),
			render.Truncate(c.Title, 40),
			render.Truncate(c.Meta, 20),
			c.Date,
			c.Permalink,
		})
	}
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("writing result table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("writing result table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\n%s\n", view.Message)
	return err
}

// JSON writes matches as indented JSON.
func JSON(w io.Writer, matches []types.Match) error {
	if matches == nil {
		matches = []types.Match{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(matches)
}

// YAML writes matches as a YAML sequence.
func YAML(w io.Writer, matches []types.Match) error {
	if matches == nil {
		matches = []types.Match{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(matches); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
