package library

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Loan period bounds enforced by the manager; the ledger accepts any length.
const (
	MinLoanDays = 1
	MaxLoanDays = 30
)

// LibraryManager is the façade the text interface talks to. It composes the
// catalog, patron directory, ledger and reservation engine and serialises
// every call behind one mutex. Stores never call back into the manager.
type LibraryManager struct {
	mu sync.Mutex

	catalog      *Catalog
	patrons      *PatronDirectory
	ledger       *Ledger
	reservations *ReservationEngine

	log        *slog.Logger
	now        func() time.Time
	sampleData bool
}

// Option configures a LibraryManager.
type Option func(*LibraryManager)

// WithLogger sets the logger used for state transitions and rejections.
func WithLogger(l *slog.Logger) Option {
	return func(lm *LibraryManager) { lm.log = l }
}

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(lm *LibraryManager) { lm.now = now }
}

// WithoutSampleData starts with an empty catalog and patron directory.
func WithoutSampleData() Option {
	return func(lm *LibraryManager) { lm.sampleData = false }
}

// NewLibraryManager builds the stores and, unless disabled, loads the sample
// books and patrons.
func NewLibraryManager(opts ...Option) *LibraryManager {
	lm := &LibraryManager{
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
		sampleData: true,
	}
	for _, opt := range opts {
		opt(lm)
	}

	lm.catalog = NewCatalog()
	lm.patrons = NewPatronDirectory()
	lm.ledger = NewLedger(lm.catalog, lm.patrons, lm.now)
	lm.reservations = NewReservationEngine(lm.catalog, lm.patrons, lm.now)

	if lm.sampleData {
		loadSampleData(lm.catalog, lm.patrons)
		lm.log.Debug("sample data loaded", "books", lm.catalog.Len(), "patrons", lm.patrons.Len())
	}
	return lm
}

// ------------------ Books ------------------

// AddBook adds a book; publicationDate must be yyyy-MM-dd.
func (lm *LibraryManager) AddBook(title, author, isbn, publicationDate, genre string) (Book, error) {
	published, err := ParseDate(publicationDate)
	if err != nil {
		return Book{}, lm.reject("add book", fmt.Errorf("publication date %q: %w", publicationDate, ErrInvalidInput))
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()
	b := lm.catalog.Add(title, author, isbn, published, genre)
	lm.log.Info("book added", "book_id", b.ID, "title", b.Title)
	return b, nil
}

func (lm *LibraryManager) RemoveBook(id string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if err := lm.catalog.Remove(id); err != nil {
		return lm.reject("remove book", err)
	}
	lm.log.Info("book removed", "book_id", id)
	return nil
}

// UpdateBook changes the non-empty fields of a book. A malformed publication
// date rejects the whole update.
func (lm *LibraryManager) UpdateBook(id, title, author, isbn, publicationDate, genre string) (Book, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	b, err := lm.catalog.FindByID(id)
	if err != nil {
		return Book{}, lm.reject("update book", err)
	}
	if publicationDate != "" {
		published, err := ParseDate(publicationDate)
		if err != nil {
			return Book{}, lm.reject("update book", fmt.Errorf("publication date %q: %w", publicationDate, ErrInvalidInput))
		}
		b.PublicationDate = published
	}
	b.Title = orDefault(title, b.Title)
	b.Author = orDefault(author, b.Author)
	b.ISBN = orDefault(isbn, b.ISBN)
	b.Genre = orDefault(genre, b.Genre)

	if err := lm.catalog.Update(b); err != nil {
		return Book{}, lm.reject("update book", err)
	}
	lm.log.Info("book updated", "book_id", id)
	return lm.catalog.FindByID(id)
}

func (lm *LibraryManager) FindBook(id string) (Book, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.catalog.FindByID(id)
}

func (lm *LibraryManager) FindBooksByTitle(title string) []Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.catalog.FindByTitle(title)
}

func (lm *LibraryManager) FindBooksByAuthor(author string) []Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.catalog.FindByAuthor(author)
}

// SearchBooks matches keyword against title, author and genre.
func (lm *LibraryManager) SearchBooks(keyword string) []Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.catalog.Search(keyword)
}

func (lm *LibraryManager) Books() []Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.catalog.All()
}

func (lm *LibraryManager) BooksSortedByTitle() []Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.catalog.SortedByTitle()
}

func (lm *LibraryManager) BooksSortedByAuthor() []Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.catalog.SortedByAuthor()
}

func (lm *LibraryManager) BooksSortedByPublicationDate() []Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.catalog.SortedByPublicationDate()
}

// ------------------ Patrons ------------------

func (lm *LibraryManager) AddPatron(name, contactInfo, address, membershipDate string) Patron {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	p := lm.patrons.Add(name, contactInfo, address, membershipDate)
	lm.log.Info("patron added", "patron_id", p.ID, "name", p.Name)
	return p
}

func (lm *LibraryManager) RemovePatron(id string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if err := lm.patrons.Remove(id); err != nil {
		return lm.reject("remove patron", err)
	}
	lm.log.Info("patron removed", "patron_id", id)
	return nil
}

// UpdatePatron changes the non-empty fields of a patron.
func (lm *LibraryManager) UpdatePatron(id, name, contactInfo, address, membershipDate string) (Patron, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	p, err := lm.patrons.FindByID(id)
	if err != nil {
		return Patron{}, lm.reject("update patron", err)
	}
	p.Name = orDefault(name, p.Name)
	p.ContactInfo = orDefault(contactInfo, p.ContactInfo)
	p.Address = orDefault(address, p.Address)
	p.MembershipDate = orDefault(membershipDate, p.MembershipDate)
	if err := lm.patrons.Update(p); err != nil {
		return Patron{}, lm.reject("update patron", err)
	}
	lm.log.Info("patron updated", "patron_id", id)
	return p, nil
}

func (lm *LibraryManager) FindPatron(id string) (Patron, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.patrons.FindByID(id)
}

func (lm *LibraryManager) FindPatronsByName(name string) []Patron {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.patrons.FindByName(name)
}

func (lm *LibraryManager) Patrons() []Patron {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.patrons.All()
}

// ------------------ Circulation ------------------

// BorrowBook lends a book for days days, MinLoanDays to MaxLoanDays inclusive.
func (lm *LibraryManager) BorrowBook(bookID, patronID string, days int) (Transaction, error) {
	if days < MinLoanDays || days > MaxLoanDays {
		return Transaction{}, lm.reject("borrow", fmt.Errorf("loan of %d days, want %d-%d: %w", days, MinLoanDays, MaxLoanDays, ErrInvalidInput))
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()
	tx, err := lm.ledger.Borrow(bookID, patronID, days)
	if err != nil {
		return Transaction{}, lm.reject("borrow", err)
	}
	lm.log.Info("book borrowed", "transaction_id", tx.ID, "book_id", bookID, "patron_id", patronID, "due", FormatDate(tx.DueDate))
	return tx, nil
}

// ReturnBook closes the transaction with the given id.
func (lm *LibraryManager) ReturnBook(transactionID string) (Transaction, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.returnLocked(transactionID)
}

// ReturnBookFor closes the patron's open transaction on the book.
func (lm *LibraryManager) ReturnBookFor(bookID, patronID string) (Transaction, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	tx, err := lm.ledger.OpenFor(bookID, patronID)
	if err != nil {
		return Transaction{}, lm.reject("return", err)
	}
	return lm.returnLocked(tx.ID)
}

func (lm *LibraryManager) returnLocked(transactionID string) (Transaction, error) {
	tx, err := lm.ledger.Return(transactionID)
	if err != nil {
		return Transaction{}, lm.reject("return", err)
	}
	lm.log.Info("book returned", "transaction_id", tx.ID, "book_id", tx.BookID, "patron_id", tx.PatronID)
	return tx, nil
}

func (lm *LibraryManager) FindTransaction(id string) (Transaction, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.ledger.FindByID(id)
}

func (lm *LibraryManager) Transactions() []Transaction {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.ledger.All()
}

func (lm *LibraryManager) ActiveTransactions() []Transaction {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.ledger.Active()
}

func (lm *LibraryManager) OverdueTransactions() []Transaction {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.ledger.Overdue()
}

func (lm *LibraryManager) TransactionsByPatron(patronID string) []Transaction {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.ledger.ByPatron(patronID)
}

func (lm *LibraryManager) TransactionsByBook(bookID string) []Transaction {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.ledger.ByBook(bookID)
}

// ------------------ Reservations ------------------

// ReserveBook places the patron in the book's waitlist. Reserving twice
// returns the reservation already held.
func (lm *LibraryManager) ReserveBook(bookID, patronID string) (Reservation, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	r, created, err := lm.reservations.Reserve(bookID, patronID)
	if err != nil {
		return Reservation{}, lm.reject("reserve", err)
	}
	if created {
		lm.log.Info("book reserved", "reservation_id", r.ID, "book_id", bookID, "patron_id", patronID)
	} else {
		lm.log.Debug("reservation already held", "reservation_id", r.ID)
	}
	return r, nil
}

func (lm *LibraryManager) CancelReservation(id string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	r, err := lm.reservations.Cancel(id)
	if err != nil {
		return lm.reject("cancel reservation", err)
	}
	lm.log.Info("reservation cancelled", "reservation_id", id, "book_id", r.BookID)
	return nil
}

// FulfillReservation closes the reservation at the head of its book's waitlist
// once the book is back on the shelf.
func (lm *LibraryManager) FulfillReservation(id string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	r, err := lm.reservations.Fulfill(id)
	if err != nil {
		return lm.reject("fulfill reservation", err)
	}
	lm.log.Info("reservation fulfilled", "reservation_id", id, "book_id", r.BookID, "patron_id", r.PatronID)
	return nil
}

// NextReservation returns the head of the book's waitlist.
func (lm *LibraryManager) NextReservation(bookID string) (Reservation, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.reservations.Next(bookID)
}

// QueuePosition returns the patron's 1-based waitlist position, or -1.
func (lm *LibraryManager) QueuePosition(bookID, patronID string) int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.reservations.QueuePosition(bookID, patronID)
}

func (lm *LibraryManager) Waitlist(bookID string) []Reservation {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.reservations.Waitlist(bookID)
}

func (lm *LibraryManager) FindReservation(id string) (Reservation, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.reservations.FindByID(id)
}

func (lm *LibraryManager) Reservations() []Reservation {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.reservations.All()
}

func (lm *LibraryManager) ActiveReservations() []Reservation {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.reservations.Active()
}

func (lm *LibraryManager) ReservationsByPatron(patronID string) []Reservation {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.reservations.ByPatron(patronID)
}

func (lm *LibraryManager) ReservationsByBook(bookID string) []Reservation {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.reservations.ByBook(bookID)
}

// ------------------ Utilities ------------------

// Today returns the manager's current calendar date.
func (lm *LibraryManager) Today() time.Time { return dateOf(lm.now()) }

func (lm *LibraryManager) reject(op string, err error) error {
	lm.log.Debug("operation rejected", "op", op, "error", err)
	return err
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
