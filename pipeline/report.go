package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/aluiziolira/go-scrape-catalog/parser"
)

const untitledDir = "untitled"

// wrapped columns, 1-based
var longColumns = []int{3, 13, 14}

// TitleDir returns the per-item directory for title under root.
func TitleDir(root, title string) string {
	name := untitledDir
	if strings.TrimSpace(title) != "" {
		name = parser.SanitizeFilename(title)
	}
	return filepath.Join(root, name)
}

// ReportWriter renders the rows sharing a title as an aligned text table in
// {root}/{title}/{title}.txt.
type ReportWriter struct {
	root  string
	width int
}

// NewReportWriter writes reports below root.
func NewReportWriter(root string) *ReportWriter {
	return &ReportWriter{root: root, width: 60}
}

// Write renders rows into the report for title and returns its path.
func (rw *ReportWriter) Write(title string, rows []ExportRow) (string, error) {
	dir := TitleDir(rw.root, title)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(dir)+".txt")
	if err := os.WriteFile(path, []byte(rw.Render(rows)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}

// Render returns the table text for rows.
func (rw *ReportWriter) Render(rows []ExportRow) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(longColumns))
	for _, n := range longColumns {
		configs = append(configs, table.ColumnConfig{Number: n, WidthMax: rw.width})
	}
	t.SetColumnConfigs(configs)

	for _, row := range rows {
		values := row.Values()
		cells := make(table.Row, len(values))
		for i, v := range values {
			cells[i] = v
		}
		t.AppendRow(cells)
	}
	return t.Render()
}
