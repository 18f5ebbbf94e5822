package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ImportResult reports what an import added and which rows it skipped.
type ImportResult struct {
	Added   []Book
	Skipped []ImportError
}

// ImportError describes one rejected CSV row.
type ImportError struct {
	Line int
	Err  error
}

func (e ImportError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

var bookColumns = []string{"title", "author", "isbn", "publication_date", "genre"}

// ImportBooks reads CSV rows of title,author,isbn,publication_date,genre and
// adds one book per row. A header row is skipped when present. Rows with the
// wrong column count or a bad date are reported in Skipped; a malformed CSV
// stream stops the import.
func (lm *LibraryManager) ImportBooks(r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var res ImportResult
	for first := true; ; first = false {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read csv: %w", err)
		}
		if first && strings.EqualFold(strings.TrimSpace(record[0]), bookColumns[0]) {
			continue
		}
		// The file line the record starts on, not the record count.
		line, _ := cr.FieldPos(0)
		if len(record) != len(bookColumns) {
			res.Skipped = append(res.Skipped, ImportError{Line: line, Err: fmt.Errorf("want %d columns, got %d: %w", len(bookColumns), len(record), ErrInvalidInput)})
			continue
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		b, err := lm.AddBook(record[0], record[1], record[2], record[3], record[4])
		if err != nil {
			res.Skipped = append(res.Skipped, ImportError{Line: line, Err: err})
			continue
		}
		res.Added = append(res.Added, b)
	}
	lm.log.Info("books imported", "added", len(res.Added), "skipped", len(res.Skipped))
	return res, nil
}

// ImportBooksFromFile opens path (relative paths resolve from cwd) and imports it.
func (lm *LibraryManager) ImportBooksFromFile(path string) (ImportResult, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return ImportResult{}, err
	}
	defer f.Close()
	return lm.ImportBooks(f)
}
