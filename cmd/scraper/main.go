package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-book-report/config"
	"github.com/aluiziolira/go-book-report/models"
	"github.com/aluiziolira/go-book-report/scraper"
	"github.com/aluiziolira/go-book-report/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()
	pagesDefault := defaultCfg.MaxPages
	if value, ok, err := config.EnvInt("SCRAPER_PAGES"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_PAGES: %v\n", err)
		os.Exit(1)
	} else if ok {
		pagesDefault = value
	}
	outputDefault := defaultCfg.OutputFile
	if value, ok := config.EnvString("SCRAPER_OUTPUT"); ok {
		outputDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	maxPages := flag.Int("pages", pagesDefault, "Number of catalog pages to collect")
	outputFile := flag.String("output", outputDefault, "Output file path")
	outputFormat := flag.String("format", defaultCfg.OutputFormat, "Output format: csv, json, or dual")
	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Base URL of the catalog")
	timeoutMs := flag.Int("timeout", int(defaultCfg.Timeout/time.Millisecond), "Per-request timeout (milliseconds)")
	maxAttempts := flag.Int("max-attempts", defaultCfg.MaxAttempts, "Attempts per page, including the first")
	retryWaitMs := flag.Int("retry-wait", int(defaultCfg.RetryWait/time.Millisecond), "Wait between attempts (milliseconds)")
	pageDelayMs := flag.Int("page-delay", int(defaultCfg.PageDelay/time.Millisecond), "Pause between page requests (milliseconds)")
	respectRobots := flag.Bool("respect-robots", defaultCfg.RespectRobotsTxt, "Respect robots.txt directives")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	cfg := buildConfigFromFlags(*baseURL, *maxPages, *timeoutMs, *maxAttempts, *retryWaitMs, *pageDelayMs, *respectRobots, *outputFile, *outputFormat, *verbose, *metricsAddr)

	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting collection",
		slog.String("base_url", cfg.BaseURL),
		slog.Int("pages", cfg.MaxPages),
		slog.String("output", cfg.OutputFile),
	)

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current page")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && s.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	result, err := s.Run(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNoBooks) {
			slog.Error("no records collected, nothing written",
				slog.Int("failed_pages", len(result.FailedPages)),
			)
		} else {
			slog.Error("collection failed", slog.Any("error", err))
		}
		os.Exit(1)
	}

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}
	if err := writer.Write(result.Books); err != nil {
		writer.Close()
		slog.Error("writing output", slog.Any("error", err))
		os.Exit(1)
	}
	if err := writer.Validate(); err != nil {
		writer.Close()
		slog.Error("output validation failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		slog.Error("close writer", slog.Any("error", err))
		os.Exit(1)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, cfg.OutputFile)
	printPreview(result.Books, 5)
}

func buildConfigFromFlags(baseURL string, maxPages, timeoutMs, maxAttempts, retryWaitMs, pageDelayMs int, respectRobots bool, outputFile, outputFormat string, verbose bool, metricsAddr string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.MaxPages = maxPages
	cfg.Timeout = time.Duration(timeoutMs) * time.Millisecond
	cfg.MaxAttempts = maxAttempts
	cfg.RetryWait = time.Duration(retryWaitMs) * time.Millisecond
	cfg.PageDelay = time.Duration(pageDelayMs) * time.Millisecond
	cfg.RespectRobotsTxt = respectRobots
	cfg.OutputFile = outputFile
	cfg.OutputFormat = strings.ToLower(outputFormat)
	cfg.Verbose = verbose
	cfg.MetricsAddr = metricsAddr
	return cfg
}

func createWriter(format, filename string) (storage.OutputWriter, error) {
	switch format {
	case "json":
		return storage.NewJSONWriter(filename)
	case "csv":
		return storage.NewCSVWriter(filename)
	case "dual":
		jsonFilename := strings.TrimSuffix(filename, ".csv") + ".json"
		return storage.NewDualWriter(filename, jsonFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printSummary(result *models.ScrapeResult, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Collection complete")

	failedAttempts := 0
	for _, n := range result.ErrorsByType {
		failedAttempts += n
	}
	successRate := 0.0
	if result.RequestCount > 0 {
		successRate = float64(result.RequestCount-failedAttempts) / float64(result.RequestCount) * 100
	}

	fmt.Printf("  Records:       %d\n", len(result.Books))
	fmt.Printf("  Pages fetched: %d\n", result.PagesFetched)
	fmt.Printf("  Pages failed:  %d\n", len(result.FailedPages))
	fmt.Printf("  Requests:      %d\n", result.RequestCount)
	fmt.Printf("  Retries:       %d\n", result.RetryCount)
	fmt.Printf("  Success rate:  %.2f%%\n", successRate)
	fmt.Printf("  Skipped items: %d\n", len(result.Skips))
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", result.Duration())
	fmt.Printf("  Output file:   %s\n", outputFile)
	fmt.Println(separator)
}

func printPreview(books []models.Book, n int) {
	if len(books) < n {
		n = len(books)
	}
	fmt.Printf("\nFirst %d records:\n", n)
	for _, b := range books[:n] {
		fmt.Printf("  %-50.50s £%7.2f  %d/5  %s\n", b.Title, b.Price, b.Rating, b.Link)
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
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
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
