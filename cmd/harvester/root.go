package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/parser"
	"github.com/aluiziolira/go-scrape-catalog/pipeline"
	"github.com/aluiziolira/go-scrape-catalog/scraper"
	"github.com/aluiziolira/go-scrape-catalog/state"
)

const defaultConfigFile = "harvester.json5"

type options struct {
	configFile  string
	category    string
	pages       string
	absolute    bool
	format      string
	output      string
	outputDir   string
	stateFile   string
	metricsAddr string
	baseURL     string
	noAssets    bool
	verbose     bool
	delay       time.Duration
	timeout     time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "harvester",
		Short:         "Incrementally harvest catalog detail pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				slog.Error("invalid configuration", slog.Any("error", err))
				return err
			}
			if err := run(cmd.Context(), cmd, cfg, opts); err != nil {
				slog.Error("harvest failed", slog.Any("error", err))
				return err
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "JSON5 config file (default "+defaultConfigFile+" when present)")
	flags.StringVar(&opts.stateFile, "state", "", "Crawl state file")
	flags.StringVar(&opts.baseURL, "base-url", "", "Catalog base URL")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	local := cmd.Flags()
	local.StringVar(&opts.category, "category", "", "Category key, or \"all\" for the whole catalog")
	local.StringVar(&opts.pages, "pages", "", "Page range \"N-M\" or single page \"N\"")
	local.BoolVar(&opts.absolute, "absolute", false, "Parse the typed page range even when a checkpoint exists")
	local.StringVar(&opts.format, "format", "", "Output format: csv, json, or dual")
	local.StringVar(&opts.output, "output", "", "Tabular output file")
	local.StringVar(&opts.outputDir, "output-dir", "", "Directory for per-title reports and assets")
	local.StringVar(&opts.metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	local.BoolVar(&opts.noAssets, "no-assets", false, "Skip archive and screenshot downloads")
	local.DurationVar(&opts.delay, "delay", 0, "Delay between page requests")
	local.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout")

	cmd.AddCommand(newStateCmd(opts))
	return cmd
}

// loadConfig layers defaults, config file, environment and flags, in that order.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path := opts.configFile
	if path == "" {
		path = defaultConfigFile
	}
	if err := config.LoadFile(cfg, path); err != nil {
		if opts.configFile != "" || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg, opts)

	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) {
	changed := cmd.Flags().Changed
	if changed("state") {
		cfg.StateFile = opts.stateFile
	}
	if changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}
	if changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if changed("format") {
		cfg.OutputFormat = strings.ToLower(opts.format)
	}
	if changed("output") {
		cfg.OutputFile = opts.output
	}
	if changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if changed("no-assets") {
		cfg.DownloadAssets = !opts.noAssets
	}
	if changed("delay") {
		cfg.Delay = opts.delay
	}
	if changed("timeout") {
		cfg.Timeout = opts.timeout
	}
}

func run(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompt := newPrompter(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())

	categoryKey := opts.category
	if categoryKey == "" {
		key, err := prompt.ChooseCategory(cfg.Categories)
		if err != nil {
			return fmt.Errorf("choose category: %w", err)
		}
		categoryKey = key
	}
	categoryURL, err := cfg.CategoryURL(categoryKey)
	if err != nil {
		return err
	}

	store := state.NewStore(cfg.StateFile)
	st, err := store.Load()
	if err != nil {
		return err
	}
	last, hasCheckpoint := st.Checkpoint(categoryURL)
	prompt.ShowCheckpoint(categoryURL, last, hasCheckpoint)

	pageInput := opts.pages
	if pageInput == "" {
		if pageInput, err = prompt.AskPages(); err != nil {
			return fmt.Errorf("read page range: %w", err)
		}
	}
	req, err := parser.ParsePageRange(pageInput)
	if err != nil {
		slog.Warn("invalid page range, parsing page 1 only", slog.String("input", pageInput), slog.Any("error", err))
	}
	if opts.absolute && req.Mode == models.RangeSpan {
		req.Mode = models.RangeAbsolute
	}

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		return fmt.Errorf("initialising scraper: %w", err)
	}

	metricsServer := startMetricsServer(cfg.MetricsAddr, s.Metrics)
	defer shutdownMetricsServer(metricsServer)

	result, next, runErr := s.Run(ctx, categoryURL, req, st)
	if runErr != nil {
		printSummary(cmd.OutOrStdout(), result, cfg, nil)
		return runErr
	}
	if result.Committed {
		if err := store.Save(next); err != nil {
			return err
		}
		slog.Info("checkpoint saved",
			slog.String("category", categoryURL),
			slog.Int("last_parsed_page", result.LastPage),
		)
	}

	pipelineMetrics, err := processRecords(ctx, cfg, s.Metrics, result.Records)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), result, cfg, pipelineMetrics)
	return nil
}

func processRecords(ctx context.Context, cfg *config.Config, metrics *scraper.Metrics, records []*models.DetailRecord) (map[string]interface{}, error) {
	if len(records) == 0 {
		slog.Info("no records harvested, skipping export")
		return nil, nil
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	writer, err := pipeline.NewOutputWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("creating writer: %w", err)
	}

	var assets *pipeline.AssetFetcher
	if cfg.DownloadAssets {
		if assets, err = pipeline.NewAssetFetcher(cfg, metrics); err != nil {
			writer.Close()
			return nil, err
		}
	}

	p := pipeline.NewPipeline(writer, pipeline.NewReportWriter(cfg.OutputDir), assets, base, cfg.OutputDir)
	processErr := p.Process(ctx, records)
	closeErr := writer.Close()
	if err := errors.Join(processErr, closeErr); err != nil {
		return nil, err
	}
	if err := writer.Validate(); err != nil {
		return nil, fmt.Errorf("output validation failed: %w", err)
	}
	return p.GetMetrics(), nil
}

func startMetricsServer(addr string, metrics *scraper.Metrics) *http.Server {
	if addr == "" || metrics == nil {
		return nil
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}

func shutdownMetricsServer(server *http.Server) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("error", err))
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
