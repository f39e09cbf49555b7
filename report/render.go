package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-book-report/models"
	"github.com/olekukonko/tablewriter"
)

const (
	separatorWidth = 80
	maxTitleWidth  = 50
	maxLinkWidth   = 40
)

// Render prints up to top records as a grid table followed by aggregate
// statistics over the whole record set. An empty set prints a notice and
// nothing else.
func Render(w io.Writer, books []models.Book, top int) error {
	if len(books) == 0 {
		fmt.Fprintln(w, "\nNo records match the filter criteria.")
		return nil
	}

	shown := books
	if top > 0 && len(books) > top {
		shown = books[:top]
	}

	rule := strings.Repeat("=", separatorWidth)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "Found: %d | Showing: %d\n", len(books), len(shown))
	fmt.Fprintln(w, rule)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"title", "price", "rating", "link"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	for _, b := range shown {
		table.Append([]string{
			truncate(b.Title, maxTitleWidth),
			fmt.Sprintf("£%.2f", b.Price),
			strconv.Itoa(b.Rating),
			truncate(b.Link, maxLinkWidth),
		})
	}
	table.Render()

	summary, err := Summarize(books)
	if err != nil {
		return fmt.Errorf("compute statistics: %w", err)
	}

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, "STATISTICS:")
	fmt.Fprintf(w, "  Average price: £%.2f\n", summary.MeanPrice)
	fmt.Fprintf(w, "  Minimum price: £%.2f\n", summary.MinPrice)
	fmt.Fprintf(w, "  Maximum price: £%.2f\n", summary.MaxPrice)
	fmt.Fprintf(w, "  Average rating: %.2f\n", summary.MeanRating)
	fmt.Fprintln(w, rule)

	return nil
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
