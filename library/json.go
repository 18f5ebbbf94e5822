package library

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dates go over the wire as yyyy-MM-dd. A zero date is left out.

type bookJSON struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	PublicationDate string `json:"publication_date,omitempty"`
	Genre           string `json:"genre"`
	Available       bool   `json:"available"`
}

func (b Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookJSON{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		PublicationDate: FormatDate(b.PublicationDate),
		Genre:           b.Genre,
		Available:       b.Available,
	})
}

func (b *Book) UnmarshalJSON(data []byte) error {
	var w bookJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	published, err := parseWireDate("publication_date", w.PublicationDate)
	if err != nil {
		return err
	}
	*b = Book{
		ID:              w.ID,
		Title:           w.Title,
		Author:          w.Author,
		ISBN:            w.ISBN,
		PublicationDate: published,
		Genre:           w.Genre,
		Available:       w.Available,
	}
	return nil
}

type transactionJSON struct {
	ID         string `json:"id"`
	BookID     string `json:"book_id"`
	PatronID   string `json:"patron_id"`
	BorrowDate string `json:"borrow_date"`
	DueDate    string `json:"due_date"`
	ReturnDate string `json:"return_date,omitempty"`
	Returned   bool   `json:"returned"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:         t.ID,
		BookID:     t.BookID,
		PatronID:   t.PatronID,
		BorrowDate: FormatDate(t.BorrowDate),
		DueDate:    FormatDate(t.DueDate),
		ReturnDate: FormatDate(t.ReturnDate),
		Returned:   t.Returned,
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w transactionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	borrowed, err := parseWireDate("borrow_date", w.BorrowDate)
	if err != nil {
		return err
	}
	due, err := parseWireDate("due_date", w.DueDate)
	if err != nil {
		return err
	}
	returned, err := parseWireDate("return_date", w.ReturnDate)
	if err != nil {
		return err
	}
	*t = Transaction{
		ID:         w.ID,
		BookID:     w.BookID,
		PatronID:   w.PatronID,
		BorrowDate: borrowed,
		DueDate:    due,
		ReturnDate: returned,
		Returned:   w.Returned,
	}
	return nil
}

type reservationJSON struct {
	ID              string `json:"id"`
	BookID          string `json:"book_id"`
	PatronID        string `json:"patron_id"`
	ReservationDate string `json:"reservation_date"`
	Active          bool   `json:"active"`
}

func (r Reservation) MarshalJSON() ([]byte, error) {
	return json.Marshal(reservationJSON{
		ID:              r.ID,
		BookID:          r.BookID,
		PatronID:        r.PatronID,
		ReservationDate: FormatDate(r.ReservationDate),
		Active:          r.Active,
	})
}

func (r *Reservation) UnmarshalJSON(data []byte) error {
	var w reservationJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	reserved, err := parseWireDate("reservation_date", w.ReservationDate)
	if err != nil {
		return err
	}
	*r = Reservation{
		ID:              w.ID,
		BookID:          w.BookID,
		PatronID:        w.PatronID,
		ReservationDate: reserved,
		Active:          w.Active,
	}
	return nil
}

// parseWireDate accepts "" as the zero date.
func parseWireDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q: %w", field, s, ErrInvalidInput)
	}
	return d, nil
}
