package report

import (
	"strings"

	"github.com/aluiziolira/go-book-report/models"
)

// FilterMaxPrice keeps books priced at or below max.
func FilterMaxPrice(books []models.Book, max float64) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if b.Price <= max {
			out = append(out, b)
		}
	}
	return out
}

// FilterKeyword keeps books whose title contains keyword, case-insensitively.
func FilterKeyword(books []models.Book, keyword string) []models.Book {
	needle := strings.ToLower(keyword)
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), needle) {
			out = append(out, b)
		}
	}
	return out
}

// FilterMinRating keeps books rated at or above min.
func FilterMinRating(books []models.Book, min int) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if b.Rating >= min {
			out = append(out, b)
		}
	}
	return out
}
