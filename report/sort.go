package report

import (
	"cmp"
	"slices"

	"github.com/aluiziolira/go-book-report/models"
)

// SortBooks returns a sorted copy of books ordered by field. An unknown
// field returns the input untouched so callers decide how strict to be.
// The sort is stable: books with equal keys keep their collection order.
func SortBooks(books []models.Book, field string, ascending bool) []models.Book {
	if field != "price" && field != "rating" {
		return books
	}

	sorted := slices.Clone(books)
	slices.SortStableFunc(sorted, func(a, b models.Book) int {
		var c int
		switch field {
		case "price":
			c = cmp.Compare(a.Price, b.Price)
		case "rating":
			c = cmp.Compare(a.Rating, b.Rating)
		}
		if !ascending {
			c = -c
		}
		return c
	})
	return sorted
}
