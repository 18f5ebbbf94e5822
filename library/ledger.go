package library

import (
	"fmt"
	"time"

	"library-catalog/datastruct"
)

// BookStore is the part of the catalog the ledger and reservation engine use.
type BookStore interface {
	FindByID(id string) (Book, error)
	SetAvailability(id string, available bool) error
}

// PatronLookup reports whether a patron exists.
type PatronLookup interface {
	Contains(id string) bool
}

// Ledger owns the transactions. A transaction is created by Borrow and closed
// once by Return; Borrow and Return are the only places book availability
// changes.
type Ledger struct {
	transactions *datastruct.List[*Transaction]
	books        BookStore
	patrons      PatronLookup
	now          func() time.Time
	ids          *sequence
}

// NewLedger returns an empty ledger. now supplies "today" for due dates,
// return stamps and overdue checks.
func NewLedger(books BookStore, patrons PatronLookup, now func() time.Time) *Ledger {
	return &Ledger{
		transactions: datastruct.NewList[*Transaction](),
		books:        books,
		patrons:      patrons,
		now:          now,
		ids:          newSequence("T"),
	}
}

// Borrow lends the book to the patron for days days. It fails when either
// does not exist or the book is already out. days is not bounded here.
func (l *Ledger) Borrow(bookID, patronID string, days int) (Transaction, error) {
	book, err := l.books.FindByID(bookID)
	if err != nil {
		return Transaction{}, err
	}
	if !l.patrons.Contains(patronID) {
		return Transaction{}, notFound("patron", patronID)
	}
	if !book.Available {
		return Transaction{}, fmt.Errorf("book %q: %w", bookID, ErrUnavailable)
	}

	today := l.today()
	tx := &Transaction{
		ID:         l.ids.next(),
		BookID:     bookID,
		PatronID:   patronID,
		BorrowDate: today,
		DueDate:    today.AddDate(0, 0, days),
	}
	if err := l.books.SetAvailability(bookID, false); err != nil {
		return Transaction{}, err
	}
	l.transactions.Add(tx)
	return *tx, nil
}

// Return closes the transaction and makes its book available again. A
// transaction can be returned once; later calls fail with ErrAlreadyReturned.
func (l *Ledger) Return(id string) (Transaction, error) {
	tx, ok := l.lookup(id)
	if !ok {
		return Transaction{}, notFound("transaction", id)
	}
	if tx.Returned {
		return Transaction{}, fmt.Errorf("transaction %q: %w", id, ErrAlreadyReturned)
	}
	tx.ReturnDate = l.today()
	tx.Returned = true
	// The book may have been removed from the catalog since it was lent.
	_ = l.books.SetAvailability(tx.BookID, true)
	return *tx, nil
}

// OpenFor returns the patron's first open transaction on the book.
func (l *Ledger) OpenFor(bookID, patronID string) (Transaction, error) {
	tx, ok := l.transactions.Find(func(t *Transaction) bool {
		return !t.Returned && t.BookID == bookID && t.PatronID == patronID
	})
	if !ok {
		return Transaction{}, fmt.Errorf("open transaction for book %q and patron %q: %w", bookID, patronID, ErrNotFound)
	}
	return *tx, nil
}

func (l *Ledger) FindByID(id string) (Transaction, error) {
	tx, ok := l.lookup(id)
	if !ok {
		return Transaction{}, notFound("transaction", id)
	}
	return *tx, nil
}

func (l *Ledger) All() []Transaction {
	return l.filter(func(*Transaction) bool { return true })
}

// Active returns the transactions that have not been returned.
func (l *Ledger) Active() []Transaction {
	return l.filter(func(t *Transaction) bool { return !t.Returned })
}

// Overdue returns the open transactions whose due date is before today.
func (l *Ledger) Overdue() []Transaction {
	today := l.today()
	return l.filter(func(t *Transaction) bool { return t.IsOverdue(today) })
}

func (l *Ledger) ByPatron(patronID string) []Transaction {
	return l.filter(func(t *Transaction) bool { return t.PatronID == patronID })
}

func (l *Ledger) ByBook(bookID string) []Transaction {
	return l.filter(func(t *Transaction) bool { return t.BookID == bookID })
}

func (l *Ledger) today() time.Time { return dateOf(l.now()) }

func (l *Ledger) lookup(id string) (*Transaction, bool) {
	return l.transactions.Find(func(t *Transaction) bool { return t.ID == id })
}

func (l *Ledger) filter(pred func(*Transaction) bool) []Transaction {
	matches := l.transactions.Filter(pred)
	out := make([]Transaction, len(matches))
	for i, t := range matches {
		out[i] = *t
	}
	return out
}
