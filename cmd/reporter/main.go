package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aluiziolira/go-book-report/config"
	"github.com/aluiziolira/go-book-report/report"
	"github.com/aluiziolira/go-book-report/storage"
)

func main() {
	defaults := report.DefaultOptions()

	inputDefault := config.DefaultConfig().OutputFile
	if value, ok := config.EnvString("REPORT_INPUT"); ok {
		inputDefault = value
	}

	input := flag.String("input", inputDefault, "Path to the CSV file written by the collector")
	maxPrice := flag.Float64("max-price", 0, "Keep records priced at or below this value (0 disables)")
	minRating := flag.Int("min-rating", 0, "Keep records rated at or above this value, 1-5 (0 disables)")
	keyword := flag.String("keyword", "", "Keep records whose title contains this word")
	sortBy := flag.String("sort", defaults.SortBy, "Sort by field: price or rating")
	order := flag.String("order", defaults.Order, "Sort order: asc or desc")
	top := flag.Int("top", defaults.Top, "Number of records to display")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	opts := report.Options{
		MaxPrice:  *maxPrice,
		MinRating: *minRating,
		Keyword:   *keyword,
		SortBy:    *sortBy,
		Order:     *order,
		Top:       *top,
	}
	if err := opts.Validate(); err != nil {
		slog.Error("invalid options", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Println("Loading data...")
	books, err := storage.LoadCSV(*input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: file %s not found!\n", *input)
			fmt.Fprintln(os.Stderr, "Run the collector first to gather data.")
		} else {
			slog.Error("loading input", slog.Any("error", err))
		}
		os.Exit(1)
	}

	fmt.Printf("Loaded records: %d\n", len(books))
	fmt.Println(strings.Repeat("-", 80))

	if err := report.Run(os.Stdout, books, opts); err != nil {
		slog.Error("rendering report", slog.Any("error", err))
		os.Exit(1)
	}
}

// newLogger routes diagnostics to stderr so the rendered report owns stdout.
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
