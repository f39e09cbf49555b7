// Package report filters, sorts and renders collected book records.
package report

import (
	"fmt"
	"io"

	"github.com/aluiziolira/go-book-report/models"
)

// Run applies the configured filters and sort to books and renders the
// result to w. Each active filter announces itself so the reader can tell
// which criteria produced the table.
func Run(w io.Writer, books []models.Book, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	filtered := books
	if opts.MaxPrice > 0 {
		filtered = FilterMaxPrice(filtered, opts.MaxPrice)
		fmt.Fprintf(w, "Filter: price <= £%.2f\n", opts.MaxPrice)
	}
	if opts.Keyword != "" {
		filtered = FilterKeyword(filtered, opts.Keyword)
		fmt.Fprintf(w, "Filter: keyword %q in title\n", opts.Keyword)
	}
	if opts.MinRating > 0 {
		filtered = FilterMinRating(filtered, opts.MinRating)
		fmt.Fprintf(w, "Filter: rating >= %d\n", opts.MinRating)
	}

	ascending := opts.Order == "asc"
	sorted := SortBooks(filtered, opts.SortBy, ascending)
	direction := "ascending"
	if !ascending {
		direction = "descending"
	}
	fmt.Fprintf(w, "Sort: by %s, %s\n", opts.SortBy, direction)

	return Render(w, sorted, opts.Top)
}
