package report

import "fmt"

// Options control filtering, ordering and presentation of a report run.
// Zero values disable the price, rating and keyword filters.
type Options struct {
	MaxPrice  float64
	MinRating int
	Keyword   string
	SortBy    string // price or rating
	Order     string // asc or desc
	Top       int
}

// DefaultOptions mirrors the reporter CLI defaults.
func DefaultOptions() Options {
	return Options{
		SortBy: "price",
		Order:  "asc",
		Top:    10,
	}
}

// Validate rejects option values the report cannot honour.
func (o Options) Validate() error {
	if o.MaxPrice < 0 {
		return fmt.Errorf("max price cannot be negative")
	}
	if o.MinRating < 0 || o.MinRating > 5 {
		return fmt.Errorf("min rating must be between 1 and 5")
	}
	if o.SortBy != "price" && o.SortBy != "rating" {
		return fmt.Errorf("sort field must be price or rating")
	}
	if o.Order != "asc" && o.Order != "desc" {
		return fmt.Errorf("order must be asc or desc")
	}
	if o.Top <= 0 {
		return fmt.Errorf("top must be positive")
	}
	return nil
}
