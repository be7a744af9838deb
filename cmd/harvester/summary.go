package main

import (
	"fmt"
	"io"
	"time"

	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/aluiziolira/go-scrape-catalog/models"
)

func printSummary(w io.Writer, result *models.RunResult, cfg *config.Config, metrics map[string]interface{}) {
	if result == nil {
		return
	}
	separator := "--------------------------------------------------"
	duration := result.EndTime.Sub(result.StartTime)
	if duration < 0 {
		duration = time.Duration(0)
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "Harvest complete")
	fmt.Fprintf(w, "  Category:      %s\n", result.Category)
	fmt.Fprintf(w, "  Pages:         %d-%d (resumed: %v)\n", result.Requested.StartPage, result.Requested.EndPage, result.Resumed)
	fmt.Fprintf(w, "  Last page:     %d (exhausted: %v, committed: %v)\n", result.LastPage, result.Exhausted, result.Committed)
	fmt.Fprintf(w, "  Records:       %d\n", len(result.Records))
	fmt.Fprintf(w, "  Requests:      %d\n", result.RequestCount)
	fmt.Fprintf(w, "  Errors:        %d\n", result.ErrorCount)
	if len(result.ErrorsByType) > 0 {
		fmt.Fprintf(w, "  Error types:   %v\n", result.ErrorsByType)
	}
	if failures, ok := metrics["asset_failures"].(map[string]int); ok && len(failures) > 0 {
		fmt.Fprintf(w, "  Asset issues:  %d titles\n", len(failures))
	}
	fmt.Fprintf(w, "  Duration:      %v\n", duration.Round(time.Millisecond))
	if metrics != nil {
		fmt.Fprintf(w, "  Output file:   %s\n", cfg.OutputFile)
		fmt.Fprintf(w, "  Output dir:    %s\n", cfg.OutputDir)
	}
	fmt.Fprintln(w, separator)
}
