package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"library-catalog/library"
)

// shell is the line-oriented text interface. It only calls LibraryManager
// operations and renders their results.
type shell struct {
	mgr         *library.LibraryManager
	sc          *bufio.Scanner
	out         io.Writer
	render      *renderer
	log         *slog.Logger
	interactive bool
}

func newShell(mgr *library.LibraryManager, in io.Reader, out io.Writer, render *renderer, log *slog.Logger, interactive bool) *shell {
	return &shell{
		mgr:         mgr,
		sc:          bufio.NewScanner(in),
		out:         out,
		render:      render,
		log:         log,
		interactive: interactive,
	}
}

const helpText = `Available commands:
  Books:        add book, list books, show book, update book, remove book, sort books, search books
  Patrons:      add patron, list patrons, show patron, update patron, remove patron, search patrons
  Circulation:  borrow, return, transactions
  Reservations: reserve, cancel reservation, fulfill reservation, reservations, queue
  System:       export, help, exit`

// run reads commands until exit or end of input.
func (s *shell) run() {
	if s.interactive {
		fmt.Fprintln(s.out, "Welcome to the Library Catalog!")
		fmt.Fprintln(s.out, helpText)
	}

	for {
		if s.interactive {
			fmt.Fprint(s.out, "\n> ")
		}
		if !s.sc.Scan() {
			return
		}
		cmd := strings.ToLower(strings.TrimSpace(s.sc.Text()))
		if cmd == "" {
			continue
		}
		s.log.Debug("command", "cmd", cmd)

		switch cmd {
		case "add book":
			s.handleAddBook()
		case "list books":
			s.render.books(s.mgr.Books(), "No books in library.")
		case "show book":
			s.handleShowBook()
		case "update book":
			s.handleUpdateBook()
		case "remove book":
			s.handleRemoveBook()
		case "sort books":
			s.handleSortBooks()
		case "search books":
			s.handleSearchBooks()
		case "add patron":
			s.handleAddPatron()
		case "list patrons":
			s.render.patrons(s.mgr.Patrons(), "No patrons registered.")
		case "show patron":
			s.handleShowPatron()
		case "update patron":
			s.handleUpdatePatron()
		case "remove patron":
			s.handleRemovePatron()
		case "search patrons":
			name := s.prompt("Name contains: ")
			s.render.patrons(s.mgr.FindPatronsByName(name), fmt.Sprintf("No patrons found matching '%s'.", name))
		case "borrow":
			s.handleBorrow()
		case "return":
			s.handleReturn()
		case "transactions":
			s.handleTransactions()
		case "reserve":
			s.handleReserve()
		case "cancel reservation":
			s.handleCancelReservation()
		case "fulfill reservation":
			s.handleFulfillReservation()
		case "reservations":
			s.handleReservations()
		case "queue":
			s.handleQueue()
		case "export":
			s.handleExport()
		case "help":
			fmt.Fprintln(s.out, helpText)
		case "exit", "quit":
			fmt.Fprintln(s.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(s.out, "Unknown command. Type 'help' to list the available commands.")
		}
	}
}

// prompt prints label on a terminal and reads one trimmed line; it returns ""
// at end of input.
func (s *shell) prompt(label string) string {
	if s.interactive {
		fmt.Fprint(s.out, label)
	}
	if !s.sc.Scan() {
		return ""
	}
	return strings.TrimSpace(s.sc.Text())
}

func (s *shell) fail(action string, err error) {
	fmt.Fprintf(s.out, "%s failed: %s\n", action, describe(err))
}

// describe turns a library error into a short user-facing reason.
func describe(err error) string {
	switch {
	case errors.Is(err, library.ErrNotQueueHead):
		return "another reservation is ahead in the waitlist"
	case errors.Is(err, library.ErrNotFound):
		return fmt.Sprintf("not found (%v)", err)
	case errors.Is(err, library.ErrUnavailable):
		return "the book is not available"
	case errors.Is(err, library.ErrAlreadyReturned):
		return "the transaction was already returned"
	case errors.Is(err, library.ErrReservationInactive):
		return "the reservation is no longer active"
	case errors.Is(err, library.ErrInvalidInput):
		return fmt.Sprintf("invalid input (%v)", err)
	default:
		return err.Error()
	}
}

// ------------------ Books ------------------

func (s *shell) handleAddBook() {
	title := s.prompt("Title: ")
	author := s.prompt("Author: ")
	isbn := s.prompt("ISBN: ")
	published := s.prompt("Publication date (yyyy-MM-dd): ")
	genre := s.prompt("Genre: ")

	b, err := s.mgr.AddBook(title, author, isbn, published, genre)
	if err != nil {
		s.fail("Add book", err)
		return
	}
	fmt.Fprintf(s.out, "Added book %s: %s\n", b.ID, b.Title)
}

func (s *shell) handleShowBook() {
	b, err := s.mgr.FindBook(s.prompt("Book ID: "))
	if err != nil {
		s.fail("Show book", err)
		return
	}
	s.render.book(b)
	if !s.render.json && !b.Available {
		if next, err := s.mgr.NextReservation(b.ID); err == nil {
			fmt.Fprintf(s.out, "Next in waitlist: %s (reservation %s)\n", s.patronName(next.PatronID), next.ID)
		}
	}
}

func (s *shell) handleUpdateBook() {
	id := s.prompt("Book ID: ")
	if _, err := s.mgr.FindBook(id); err != nil {
		s.fail("Update book", err)
		return
	}
	if s.interactive {
		fmt.Fprintln(s.out, "Leave a field empty to keep its current value.")
	}
	title := s.prompt("Title: ")
	author := s.prompt("Author: ")
	isbn := s.prompt("ISBN: ")
	published := s.prompt("Publication date (yyyy-MM-dd): ")
	genre := s.prompt("Genre: ")

	if _, err := s.mgr.UpdateBook(id, title, author, isbn, published, genre); err != nil {
		s.fail("Update book", err)
		return
	}
	fmt.Fprintf(s.out, "Book %s updated.\n", id)
}

func (s *shell) handleRemoveBook() {
	id := s.prompt("Book ID: ")
	if err := s.mgr.RemoveBook(id); err != nil {
		s.fail("Remove book", err)
		return
	}
	fmt.Fprintf(s.out, "Book %s removed.\n", id)
}

func (s *shell) handleSortBooks() {
	switch by := strings.ToLower(s.prompt("Sort by (title/author/date): ")); by {
	case "title":
		s.render.books(s.mgr.BooksSortedByTitle(), "No books in library.")
	case "author":
		s.render.books(s.mgr.BooksSortedByAuthor(), "No books in library.")
	case "date":
		s.render.books(s.mgr.BooksSortedByPublicationDate(), "No books in library.")
	default:
		fmt.Fprintf(s.out, "Unknown sort key '%s'.\n", by)
	}
}

func (s *shell) handleSearchBooks() {
	by := strings.ToLower(s.prompt("Search by (title/author/keyword): "))
	query := s.prompt("Query: ")
	empty := fmt.Sprintf("No books found matching '%s'.", query)
	switch by {
	case "title":
		s.render.books(s.mgr.FindBooksByTitle(query), empty)
	case "author":
		s.render.books(s.mgr.FindBooksByAuthor(query), empty)
	case "keyword", "":
		s.render.books(s.mgr.SearchBooks(query), empty)
	default:
		fmt.Fprintf(s.out, "Unknown search field '%s'.\n", by)
	}
}

// ------------------ Patrons ------------------

func (s *shell) handleAddPatron() {
	name := s.prompt("Name: ")
	contact := s.prompt("Contact info: ")
	address := s.prompt("Address: ")
	since := s.prompt("Membership date: ")

	p := s.mgr.AddPatron(name, contact, address, since)
	fmt.Fprintf(s.out, "Added patron %s: %s\n", p.ID, p.Name)
}

func (s *shell) handleShowPatron() {
	p, err := s.mgr.FindPatron(s.prompt("Patron ID: "))
	if err != nil {
		s.fail("Show patron", err)
		return
	}
	s.render.patron(p)
	if s.render.json {
		return
	}
	fmt.Fprintln(s.out, "\nBorrowing history:")
	s.render.transactions(s.mgr.TransactionsByPatron(p.ID), "No transactions.")
	fmt.Fprintln(s.out, "\nActive reservations:")
	s.render.reservations(s.mgr.ReservationsByPatron(p.ID), "No active reservations.")
}

func (s *shell) handleUpdatePatron() {
	id := s.prompt("Patron ID: ")
	if _, err := s.mgr.FindPatron(id); err != nil {
		s.fail("Update patron", err)
		return
	}
	if s.interactive {
		fmt.Fprintln(s.out, "Leave a field empty to keep its current value.")
	}
	name := s.prompt("Name: ")
	contact := s.prompt("Contact info: ")
	address := s.prompt("Address: ")
	since := s.prompt("Membership date: ")

	if _, err := s.mgr.UpdatePatron(id, name, contact, address, since); err != nil {
		s.fail("Update patron", err)
		return
	}
	fmt.Fprintf(s.out, "Patron %s updated.\n", id)
}

func (s *shell) handleRemovePatron() {
	id := s.prompt("Patron ID: ")
	if err := s.mgr.RemovePatron(id); err != nil {
		s.fail("Remove patron", err)
		return
	}
	fmt.Fprintf(s.out, "Patron %s removed.\n", id)
}

// ------------------ Circulation ------------------

func (s *shell) handleBorrow() {
	bookID := s.prompt("Book ID: ")
	book, err := s.mgr.FindBook(bookID)
	if err != nil {
		s.fail("Borrow", err)
		return
	}
	if !book.Available {
		fmt.Fprintln(s.out, "This book is currently not available for borrowing.")
		if next, err := s.mgr.NextReservation(bookID); err == nil {
			fmt.Fprintf(s.out, "Next in waitlist: %s\n", s.patronName(next.PatronID))
		}
		if strings.EqualFold(s.prompt("Place a reservation instead? (y/n): "), "y") {
			s.reserve(bookID, s.prompt("Patron ID: "))
		}
		return
	}

	patronID := s.prompt("Patron ID: ")
	daysStr := s.prompt(fmt.Sprintf("Loan period in days (%d-%d): ", library.MinLoanDays, library.MaxLoanDays))
	days, err := strconv.Atoi(daysStr)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid number of days: %s\n", daysStr)
		return
	}
	tx, err := s.mgr.BorrowBook(bookID, patronID, days)
	if err != nil {
		s.fail("Borrow", err)
		return
	}
	fmt.Fprintf(s.out, "Transaction %s: %s lent to %s, due %s.\n",
		tx.ID, book.Title, s.patronName(patronID), library.FormatDate(tx.DueDate))
}

func (s *shell) handleReturn() {
	var (
		tx  library.Transaction
		err error
	)
	switch s.prompt("Return by (1) transaction ID or (2) book and patron: ") {
	case "1":
		tx, err = s.mgr.ReturnBook(s.prompt("Transaction ID: "))
	case "2":
		bookID := s.prompt("Book ID: ")
		tx, err = s.mgr.ReturnBookFor(bookID, s.prompt("Patron ID: "))
	default:
		fmt.Fprintln(s.out, "Invalid choice.")
		return
	}
	if err != nil {
		s.fail("Return", err)
		return
	}
	fmt.Fprintf(s.out, "Book %s returned (transaction %s).\n", tx.BookID, tx.ID)

	next, err := s.mgr.NextReservation(tx.BookID)
	if err != nil {
		return
	}
	fmt.Fprintf(s.out, "This book is reserved by %s (reservation %s).\n", s.patronName(next.PatronID), next.ID)
	if strings.EqualFold(s.prompt("Fulfill this reservation now? (y/n): "), "y") {
		if err := s.mgr.FulfillReservation(next.ID); err != nil {
			s.fail("Fulfill reservation", err)
			return
		}
		fmt.Fprintf(s.out, "Reservation %s fulfilled.\n", next.ID)
	}
}

func (s *shell) handleTransactions() {
	switch which := strings.ToLower(s.prompt("Show (all/active/overdue/patron/book): ")); which {
	case "all", "":
		s.render.transactions(s.mgr.Transactions(), "No transactions found.")
	case "active":
		s.render.transactions(s.mgr.ActiveTransactions(), "No active borrows found.")
	case "overdue":
		s.render.transactions(s.mgr.OverdueTransactions(), "No overdue books found.")
	case "patron":
		s.render.transactions(s.mgr.TransactionsByPatron(s.prompt("Patron ID: ")), "No transactions found.")
	case "book":
		s.render.transactions(s.mgr.TransactionsByBook(s.prompt("Book ID: ")), "No transactions found.")
	default:
		fmt.Fprintf(s.out, "Unknown filter '%s'.\n", which)
	}
}

// ------------------ Reservations ------------------

func (s *shell) handleReserve() {
	bookID := s.prompt("Book ID: ")
	s.reserve(bookID, s.prompt("Patron ID: "))
}

func (s *shell) reserve(bookID, patronID string) {
	r, err := s.mgr.ReserveBook(bookID, patronID)
	if err != nil {
		s.fail("Reserve", err)
		return
	}
	fmt.Fprintf(s.out, "Reservation %s placed. Queue position: %d\n", r.ID, s.mgr.QueuePosition(bookID, patronID))
}

func (s *shell) handleCancelReservation() {
	id := s.prompt("Reservation ID: ")
	if err := s.mgr.CancelReservation(id); err != nil {
		s.fail("Cancel reservation", err)
		return
	}
	fmt.Fprintf(s.out, "Reservation %s cancelled.\n", id)
}

func (s *shell) handleFulfillReservation() {
	id := s.prompt("Reservation ID: ")
	if err := s.mgr.FulfillReservation(id); err != nil {
		s.fail("Fulfill reservation", err)
		return
	}
	fmt.Fprintf(s.out, "Reservation %s fulfilled.\n", id)
}

func (s *shell) handleReservations() {
	switch which := strings.ToLower(s.prompt("Show (all/active/patron/book): ")); which {
	case "all", "":
		s.render.reservations(s.mgr.Reservations(), "No reservations found.")
	case "active":
		s.render.reservations(s.mgr.ActiveReservations(), "No active reservations found.")
	case "patron":
		s.render.reservations(s.mgr.ReservationsByPatron(s.prompt("Patron ID: ")), "No reservations found.")
	case "book":
		s.render.reservations(s.mgr.ReservationsByBook(s.prompt("Book ID: ")), "No reservations found.")
	default:
		fmt.Fprintf(s.out, "Unknown filter '%s'.\n", which)
	}
}

func (s *shell) handleQueue() {
	bookID := s.prompt("Book ID: ")
	patronID := s.prompt("Patron ID (optional): ")
	if patronID != "" {
		if pos := s.mgr.QueuePosition(bookID, patronID); pos > 0 {
			fmt.Fprintf(s.out, "%s is number %d in the waitlist for %s.\n", s.patronName(patronID), pos, bookID)
		} else {
			fmt.Fprintf(s.out, "%s has no active reservation for %s.\n", s.patronName(patronID), bookID)
		}
		return
	}
	waitlist := s.mgr.Waitlist(bookID)
	if s.render.json {
		s.render.writeJSON(waitlist)
		return
	}
	if len(waitlist) == 0 {
		fmt.Fprintf(s.out, "No one is waiting for %s.\n", bookID)
		return
	}
	for i, r := range waitlist {
		fmt.Fprintf(s.out, "%d. %s (reservation %s, since %s)\n", i+1, s.patronName(r.PatronID), r.ID, library.FormatDate(r.ReservationDate))
	}
}

func (s *shell) handleExport() {
	path := s.prompt("Snapshot file: ")
	if path == "" {
		fmt.Fprintln(s.out, "Export failed: a file path is required")
		return
	}
	snap, err := s.mgr.ExportSnapshot(path)
	if err != nil {
		s.fail("Export", err)
		return
	}
	fmt.Fprintf(s.out, "Exported %d books, %d patrons, %d transactions, %d reservations to %s.\n",
		snap.Books, snap.Patrons, snap.Transactions, snap.Reservations, snap.Path)
}

// patronName renders a patron for messages, falling back to the bare id for
// removed patrons.
func (s *shell) patronName(id string) string {
	if p, err := s.mgr.FindPatron(id); err == nil {
		return fmt.Sprintf("%s (%s)", p.Name, p.ID)
	}
	return id
}
