package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-book-report/models"
	"github.com/aluiziolira/go-book-report/parser"
)

// productSelector matches one listing on a catalog page.
const productSelector = "article.product_pod"

// extractBook pulls one listing out of its product_pod fragment. A missing
// title, missing href, or unparseable price fails the single item; the
// rating is tolerant and defaults to 0 for unknown labels.
func extractBook(sel *goquery.Selection, baseURL string) (models.Book, error) {
	anchor := sel.Find("h3 a").First()

	title := strings.TrimSpace(anchor.AttrOr("title", ""))
	if title == "" {
		return models.Book{}, fmt.Errorf("listing has no title attribute")
	}

	href := strings.TrimSpace(anchor.AttrOr("href", ""))
	if href == "" {
		return models.Book{}, fmt.Errorf("listing %q has no detail href", title)
	}

	priceText := sel.Find("p.price_color").First().Text()
	price, err := parser.ParsePrice(priceText)
	if err != nil {
		return models.Book{}, fmt.Errorf("listing %q: %w", title, err)
	}

	ratingClass := sel.Find("p.star-rating").First().AttrOr("class", "")

	return models.Book{
		Title:  title,
		Price:  price,
		Rating: parser.ParseRating(ratingClass),
		Link:   parser.ResolveLink(baseURL, href),
	}, nil
}
