package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/aluiziolira/go-book-report/models"
)

// LoadCSV reads records produced by the CSV writer. The header must match
// Header exactly and every row must parse; a malformed row aborts the load
// with its row number so a damaged file never yields silent partial data.
func LoadCSV(filename string) ([]models.Book, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(Header)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv file %q is empty", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("unexpected csv header %v, want %v", header, Header)
	}

	var books []models.Book
	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}

		price, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price %q", row, record[1])
		}
		rating, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid rating %q", row, record[2])
		}

		books = append(books, models.Book{
			Title:  record[0],
			Price:  price,
			Rating: rating,
			Link:   record[3],
		})
	}

	return books, nil
}
