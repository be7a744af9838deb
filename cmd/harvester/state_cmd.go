package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-catalog/state"
)

func newStateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the last parsed page of every category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				slog.Error("invalid configuration", slog.Any("error", err))
				return err
			}
			st, err := state.NewStore(cfg.StateFile).Load()
			if err != nil {
				return err
			}
			renderState(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func renderState(w io.Writer, st state.CrawlState) {
	categories := st.Categories()
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories parsed yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Category", "Last page", "Range"})
	for _, category := range categories {
		r := st.PageRanges[category]
		t.AppendRow(table.Row{category, st.LastParsedPages[category], fmt.Sprintf("%d-%d", r.StartPage, r.EndPage)})
	}
	t.Render()
}
