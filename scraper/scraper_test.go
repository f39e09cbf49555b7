package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/aluiziolira/go-book-report/config"
	"github.com/aluiziolira/go-book-report/models"
	"github.com/jarcoal/httpmock"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseURL = "http://example.test/"
	cfg.MaxPages = 3
	cfg.MaxAttempts = 3
	cfg.RetryWait = 0
	cfg.PageDelay = 0
	return cfg
}

func pageURLFor(page int) string {
	return fmt.Sprintf("http://example.test/catalogue/page-%d.html", page)
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(http.StatusOK, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}

func buildCatalogPage(page int) string {
	var builder strings.Builder
	builder.WriteString("<html><body><section class=\"products\">")

	for i := 1; i <= 20; i++ {
		id := (page-1)*20 + i
		builder.WriteString("<article class=\"product_pod\">")
		fmt.Fprintf(&builder, "<h3><a href=\"book-%d/index.html\" title=\"Book %d\">Book %d</a></h3>", id, id, id)
		fmt.Fprintf(&builder, "<p class=\"price_color\">&pound;%0.2f</p>", float64(id))
		builder.WriteString("<p class=\"star-rating Two\"></p>")
		builder.WriteString("<p class=\"instock availability\">In stock</p>")
		builder.WriteString("</article>")
	}

	builder.WriteString("</section></body></html>")
	return builder.String()
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		expected   string
	}{
		{name: "nil", err: nil, statusCode: 0, expected: "unknown"},
		{name: "context timeout", err: context.DeadlineExceeded, expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, expected: "timeout"},
		{name: "connection", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, expected: "connection"},
		{name: "forbidden", err: errors.New("Forbidden"), statusCode: http.StatusForbidden, expected: "forbidden"},
		{name: "not found", err: errors.New("Not Found"), statusCode: http.StatusNotFound, expected: "not_found"},
		{name: "rate limited", err: errors.New("Too Many Requests"), statusCode: http.StatusTooManyRequests, expected: "rate_limited"},
		{name: "server error", err: errors.New("Internal Server Error"), statusCode: http.StatusInternalServerError, expected: "other"},
		{name: "other", err: errors.New("some other error"), expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorTypeLabel(classifyError(tt.err, tt.statusCode)); got != tt.expected {
				t.Fatalf("classifyError(%v, %d) = %q, want %q", tt.err, tt.statusCode, got, tt.expected)
			}
		})
	}
}

func TestClassifiedErrorsUnwrap(t *testing.T) {
	classified := classifyError(context.DeadlineExceeded, 0)
	if !errors.Is(classified, context.DeadlineExceeded) {
		t.Fatalf("classified timeout should unwrap to the original error")
	}
}

func TestScraperRun(t *testing.T) {
	cfg := testConfig()

	transport := httpmock.NewMockTransport()
	for page := 1; page <= cfg.MaxPages; page++ {
		transport.RegisterResponder("GET", pageURLFor(page), htmlResponder(buildCatalogPage(page)))
	}

	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	s.collector.WithTransport(transport)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := len(result.Books); got != 60 {
		t.Fatalf("books = %d, want 60 (requests=%d failed=%v)", got, result.RequestCount, result.FailedPages)
	}
	if result.PagesFetched != 3 {
		t.Fatalf("pages fetched = %d, want 3", result.PagesFetched)
	}
	if result.RequestCount != 3 || result.RetryCount != 0 {
		t.Fatalf("requests=%d retries=%d, want 3/0", result.RequestCount, result.RetryCount)
	}
	if len(result.FailedPages) != 0 {
		t.Fatalf("failed pages = %v, want none", result.FailedPages)
	}

	first := result.Books[0]
	if first.Title != "Book 1" {
		t.Fatalf("first title = %q, want %q", first.Title, "Book 1")
	}
	if first.Price != 1.00 {
		t.Fatalf("first price = %v, want 1.00", first.Price)
	}
	if first.Rating != 2 {
		t.Fatalf("first rating = %d, want 2", first.Rating)
	}
	if want := "http://example.test/catalogue/book-1/index.html"; first.Link != want {
		t.Fatalf("first link = %q, want %q", first.Link, want)
	}
	if last := result.Books[59]; last.Title != "Book 60" {
		t.Fatalf("last title = %q, want %q", last.Title, "Book 60")
	}
}

func TestScraperRetriesFailedPage(t *testing.T) {
	cfg := testConfig()

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", pageURLFor(1), htmlResponder(buildCatalogPage(1)))
	transport.RegisterResponder("GET", pageURLFor(2), httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))
	transport.RegisterResponder("GET", pageURLFor(3), htmlResponder(buildCatalogPage(3)))

	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	s.collector.WithTransport(transport)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := len(result.Books); got != 40 {
		t.Fatalf("books = %d, want 40", got)
	}
	if got := transport.GetCallCountInfo()["GET "+pageURLFor(2)]; got != cfg.MaxAttempts {
		t.Fatalf("page 2 attempts = %d, want %d", got, cfg.MaxAttempts)
	}
	if len(result.FailedPages) != 1 || result.FailedPages[0] != 2 {
		t.Fatalf("failed pages = %v, want [2]", result.FailedPages)
	}
	if result.RequestCount != 5 {
		t.Fatalf("requests = %d, want 5", result.RequestCount)
	}
	if result.RetryCount != 2 {
		t.Fatalf("retries = %d, want 2", result.RetryCount)
	}
	if got := result.ErrorsByType["other"]; got != 3 {
		t.Fatalf("errors by type = %v, want 3 under \"other\"", result.ErrorsByType)
	}
	if result.PagesFetched != 2 {
		t.Fatalf("pages fetched = %d, want 2", result.PagesFetched)
	}
}

func TestScraperRecoversAfterFailedAttempt(t *testing.T) {
	cfg := testConfig()

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", pageURLFor(1), htmlResponder(buildCatalogPage(1)))
	transport.RegisterResponder("GET", pageURLFor(2),
		httpmock.NewStringResponder(http.StatusInternalServerError, "boom").
			Then(htmlResponder(buildCatalogPage(2))))
	transport.RegisterResponder("GET", pageURLFor(3), htmlResponder(buildCatalogPage(3)))

	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	s.collector.WithTransport(transport)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := len(result.Books); got != 60 {
		t.Fatalf("books = %d, want 60", got)
	}
	if got := result.Books[20].Title; got != "Book 21" {
		t.Fatalf("first page-2 title = %q, want %q", got, "Book 21")
	}
	if got := transport.GetCallCountInfo()["GET "+pageURLFor(2)]; got != 2 {
		t.Fatalf("page 2 attempts = %d, want 2", got)
	}
	if len(result.FailedPages) != 0 {
		t.Fatalf("failed pages = %v, want none", result.FailedPages)
	}
	if result.RequestCount != 4 {
		t.Fatalf("requests = %d, want 4", result.RequestCount)
	}
	if result.RetryCount != 1 {
		t.Fatalf("retries = %d, want 1", result.RetryCount)
	}
	if got := result.ErrorsByType["other"]; got != 1 {
		t.Fatalf("errors by type = %v, want 1 under \"other\"", result.ErrorsByType)
	}
	if result.PagesFetched != 3 {
		t.Fatalf("pages fetched = %d, want 3", result.PagesFetched)
	}
}

func TestScraperHTTPStatusClassification(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{status: http.StatusTooManyRequests, expected: "rate_limited"},
		{status: http.StatusForbidden, expected: "forbidden"},
		{status: http.StatusNotFound, expected: "not_found"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			cfg := testConfig()
			cfg.MaxPages = 1
			cfg.MaxAttempts = 1

			transport := httpmock.NewMockTransport()
			transport.RegisterResponder("GET", pageURLFor(1), httpmock.NewStringResponder(tt.status, ""))

			s, err := NewScraper(cfg)
			if err != nil {
				t.Fatalf("new scraper: %v", err)
			}
			s.collector.WithTransport(transport)

			result, err := s.Run(context.Background())
			if !errors.Is(err, models.ErrNoBooks) {
				t.Fatalf("run err = %v, want ErrNoBooks", err)
			}
			if got := result.ErrorsByType[tt.expected]; got != 1 {
				t.Fatalf("errors by type = %v, want one %q", result.ErrorsByType, tt.expected)
			}
		})
	}
}

func TestScraperSkipsBadListings(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPages = 1

	var b strings.Builder
	b.WriteString(`<html><body><section class="products">`)
	b.WriteString(`<article class="product_pod"><h3><a href="good-1/index.html" title="Good One">Good ...</a></h3><p class="price_color">£10.00</p><p class="star-rating Four"></p></article>`)
	b.WriteString(`<article class="product_pod"><h3><a href="bad-title/index.html">No Title</a></h3><p class="price_color">£11.00</p></article>`)
	b.WriteString(`<article class="product_pod"><h3><a href="bad-price/index.html" title="Bad Price">Bad ...</a></h3><p class="price_color">soon</p></article>`)
	b.WriteString(`<article class="product_pod"><h3><a href="good-2/index.html" title="Good Two">Good ...</a></h3><p class="price_color">£12.50</p><p class="star-rating One"></p></article>`)
	b.WriteString(`</section></body></html>`)

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", pageURLFor(1), htmlResponder(b.String()))

	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	s.collector.WithTransport(transport)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := len(result.Books); got != 2 {
		t.Fatalf("books = %d, want 2", got)
	}
	if result.Books[0].Title != "Good One" || result.Books[1].Title != "Good Two" {
		t.Fatalf("unexpected titles: %q, %q", result.Books[0].Title, result.Books[1].Title)
	}
	if got := len(result.Skips); got != 2 {
		t.Fatalf("skips = %d, want 2 (%+v)", got, result.Skips)
	}
	for _, skip := range result.Skips {
		if skip.Page != 1 || skip.Reason == "" {
			t.Fatalf("skip = %+v, want page 1 with a reason", skip)
		}
	}
}

func TestScraperEmptyCatalog(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPages = 2

	empty := `<html><body><section class="products"></section></body></html>`
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", pageURLFor(1), htmlResponder(empty))
	transport.RegisterResponder("GET", pageURLFor(2), htmlResponder(empty))

	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	s.collector.WithTransport(transport)

	result, err := s.Run(context.Background())
	if !errors.Is(err, models.ErrNoBooks) {
		t.Fatalf("run err = %v, want ErrNoBooks", err)
	}
	if result.PagesFetched != 2 {
		t.Fatalf("pages fetched = %d, want 2", result.PagesFetched)
	}
	if len(result.Books) != 0 {
		t.Fatalf("books = %d, want 0", len(result.Books))
	}
}

func TestScraperCancelledContext(t *testing.T) {
	cfg := testConfig()

	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	s.collector.WithTransport(httpmock.NewMockTransport())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx)
	if !errors.Is(err, models.ErrNoBooks) {
		t.Fatalf("run err = %v, want ErrNoBooks", err)
	}
	if result.RequestCount != 0 {
		t.Fatalf("requests = %d, want 0", result.RequestCount)
	}
}

func TestPageURL(t *testing.T) {
	cfg := testConfig()
	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	if got := s.pageURL(4); got != "http://example.test/catalogue/page-4.html" {
		t.Fatalf("page url = %q", got)
	}

	cfg.BaseURL = "http://example.test"
	s2, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	if got := s2.pageURL(1); got != "http://example.test/catalogue/page-1.html" {
		t.Fatalf("page url = %q", got)
	}
}

func TestNewScraperRejectsBadBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.BaseURL = "not-a-url"
	if _, err := NewScraper(cfg); err == nil {
		t.Fatalf("expected error for base url without host")
	}
}
