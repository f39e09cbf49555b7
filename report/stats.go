package report

import (
	"fmt"

	"github.com/aluiziolira/go-book-report/models"
	"github.com/montanaflynn/stats"
)

// Summary holds aggregate figures over a record set.
type Summary struct {
	Count      int
	MeanPrice  float64
	MinPrice   float64
	MaxPrice   float64
	MeanRating float64
}

// Summarize computes price and rating aggregates over all of books, not
// just the rows a renderer chooses to display.
func Summarize(books []models.Book) (Summary, error) {
	if len(books) == 0 {
		return Summary{}, fmt.Errorf("no records to summarize")
	}

	prices := make(stats.Float64Data, len(books))
	ratings := make(stats.Float64Data, len(books))
	for i, b := range books {
		prices[i] = b.Price
		ratings[i] = float64(b.Rating)
	}

	meanPrice, err := stats.Mean(prices)
	if err != nil {
		return Summary{}, fmt.Errorf("mean price: %w", err)
	}
	minPrice, err := stats.Min(prices)
	if err != nil {
		return Summary{}, fmt.Errorf("min price: %w", err)
	}
	maxPrice, err := stats.Max(prices)
	if err != nil {
		return Summary{}, fmt.Errorf("max price: %w", err)
	}
	meanRating, err := stats.Mean(ratings)
	if err != nil {
		return Summary{}, fmt.Errorf("mean rating: %w", err)
	}

	return Summary{
		Count:      len(books),
		MeanPrice:  meanPrice,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		MeanRating: meanRating,
	}, nil
}
