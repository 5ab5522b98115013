/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package stale

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteReport renders the stale set as a Markdown table, suitable for a
// job step summary.
func WriteReport(w io.Writer, prs []PR, threshold time.Duration) error {
	fmt.Fprintf(w, "## Stale pull requests\n\n")
	if len(prs) == 0 {
		fmt.Fprintf(w, "No open pull requests have been quiet for %s.\n", threshold)
		return nil
	}
	fmt.Fprintf(w, "%d open pull request(s) quiet for %s or longer:\n\n", len(prs), threshold)

	table := newMarkdownTable([]string{"PR", "Title", "Author", "Last activity"}, w)
	for _, pr := range prs {
		_ = table.Append([]string{
			fmt.Sprintf("#%d", pr.Number),
			pr.Title,
			pr.Author,
			pr.LastActive.UTC().Format("2006-01-02"),
		})
	}
	return table.Render()
}

// newMarkdownTable builds a table writer tuned for GitHub-flavored
// Markdown output.
func newMarkdownTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 120,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
