// Package scraper walks the paginated book catalog and extracts listings.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aluiziolira/go-book-report/config"
	"github.com/aluiziolira/go-book-report/models"
	"github.com/gocolly/colly/v2"
	"go.uber.org/ratelimit"
)

// Scraper drives a sequential collection run. Colly runs in synchronous
// mode, so HTML callbacks fire inline during Visit and all state below is
// owned by the goroutine calling Run.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	limiter   ratelimit.Limiter
	Metrics   *Metrics

	books        []models.Book
	skips        []models.ItemSkip
	currentPage  int
	lastStatus   int
	requestCount int
	retryCount   int
	errorsByType map[string]int
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	s := &Scraper{
		cfg:          cfg,
		collector:    collector,
		limiter:      newLimiter(cfg.PageDelay),
		Metrics:      NewMetrics(),
		errorsByType: make(map[string]int),
	}

	collector.OnHTML(productSelector, func(e *colly.HTMLElement) {
		book, err := extractBook(e.DOM, s.cfg.BaseURL)
		if err != nil {
			s.skips = append(s.skips, models.ItemSkip{Page: s.currentPage, Reason: err.Error()})
			s.Metrics.IncSkips()
			slog.Warn("listing skipped",
				slog.Int("page", s.currentPage),
				slog.Any("error", err),
			)
			return
		}
		s.books = append(s.books, book)
		s.Metrics.IncItems()
	})

	collector.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			s.lastStatus = r.StatusCode
		}
	})

	return s, nil
}

// Run fetches pages 1..MaxPages in order and returns the accumulated
// records. A page that exhausts its attempts contributes zero records and
// the run continues; a run that ends with zero records overall returns
// models.ErrNoBooks.
func (s *Scraper) Run(ctx context.Context) (*models.ScrapeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.books = nil
	s.skips = nil
	s.requestCount = 0
	s.retryCount = 0
	s.errorsByType = make(map[string]int)

	result := &models.ScrapeResult{StartTime: time.Now()}

	for page := 1; page <= s.cfg.MaxPages; page++ {
		if ctx.Err() != nil {
			slog.Info("collection interrupted", slog.Int("next_page", page))
			break
		}
		s.limiter.Take()

		pageURL := s.pageURL(page)
		s.currentPage = page
		found := len(s.books)

		slog.Info("fetching page", slog.Int("page", page), slog.String("url", pageURL))
		if err := s.fetchPage(ctx, pageURL); err != nil {
			result.FailedPages = append(result.FailedPages, page)
			s.Metrics.IncPage("skipped")
			slog.Error("page skipped",
				slog.Int("page", page),
				slog.String("url", pageURL),
				slog.Any("error", err),
			)
			continue
		}

		result.PagesFetched++
		s.Metrics.IncPage("fetched")
		slog.Info("page parsed",
			slog.Int("page", page),
			slog.Int("found", len(s.books)-found),
		)
	}

	result.EndTime = time.Now()
	result.Books = s.books
	result.Skips = s.skips
	result.RequestCount = s.requestCount
	result.RetryCount = s.retryCount
	result.ErrorsByType = s.errorsByType

	if len(result.Books) == 0 {
		return result, models.ErrNoBooks
	}
	return result, nil
}

// fetchPage issues up to MaxAttempts GETs for one page URL, waiting
// RetryWait between attempts. Every failed attempt is logged and counted;
// the page's listings arrive through the OnHTML callback on success.
func (s *Scraper) fetchPage(ctx context.Context, pageURL string) error {
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.requestCount++
		s.Metrics.IncRequest()
		if attempt > 1 {
			s.retryCount++
			s.Metrics.IncRetries()
		}

		s.lastStatus = 0
		started := time.Now()
		err := s.collector.Visit(pageURL)
		s.Metrics.ObserveDuration(time.Since(started))
		if err == nil {
			return nil
		}

		classified := classifyError(err, s.lastStatus)
		category := errorTypeLabel(classified)
		s.errorsByType[category]++
		s.Metrics.IncError(category)
		lastErr = classified
		slog.Warn("page fetch failed",
			slog.String("url", pageURL),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.cfg.MaxAttempts),
			slog.String("category", category),
			slog.Any("error", err),
		)

		if attempt < s.cfg.MaxAttempts {
			if err := sleepContext(ctx, s.cfg.RetryWait); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", s.cfg.MaxAttempts, lastErr)
}

// pageURL builds the fixed page URL template for a page number.
func (s *Scraper) pageURL(page int) string {
	return fmt.Sprintf("%s/catalogue/page-%d.html", strings.TrimSuffix(s.cfg.BaseURL, "/"), page)
}

// newLimiter gates page requests to one per delay window.
func newLimiter(delay time.Duration) ratelimit.Limiter {
	if delay <= 0 {
		return ratelimit.NewUnlimited()
	}
	return ratelimit.New(1, ratelimit.Per(delay))
}

// sleepContext waits for d unless the context ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
