package library

import "time"

// DateLayout is the calendar date format used for every date exchanged with callers.
const DateLayout = "2006-01-02"

// Book represents catalog metadata and current availability of a book.
// Available is false exactly while a transaction against the book is open.
// The JSON form is in json.go.
type Book struct {
	ID              string
	Title           string
	Author          string
	ISBN            string
	PublicationDate time.Time
	Genre           string
	Available       bool
}

// Patron represents a registered library patron. MembershipDate is free text.
type Patron struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ContactInfo    string `json:"contact_info"`
	Address        string `json:"address"`
	MembershipDate string `json:"membership_date"`
}

// Transaction records one borrow of a book by a patron. ReturnDate is the zero
// time until the book comes back.
type Transaction struct {
	ID         string
	BookID     string
	PatronID   string
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate time.Time
	Returned   bool
}

// IsOverdue reports whether the transaction is still open past its due date.
func (t Transaction) IsOverdue(today time.Time) bool {
	return !t.Returned && t.DueDate.Before(today)
}

// Reservation is a patron's place in a book's waitlist. Active goes false once,
// when the reservation is cancelled or fulfilled.
type Reservation struct {
	ID              string
	BookID          string
	PatronID        string
	ReservationDate time.Time
	Active          bool
}

// ParseDate parses a yyyy-MM-dd calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as yyyy-MM-dd, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// dateOf truncates t to its calendar date in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
