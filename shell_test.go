package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/library"
)

func testManager() *library.LibraryManager {
	clock := func() time.Time { return time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC) }
	return library.NewLibraryManager(library.WithoutSampleData(), library.WithClock(clock))
}

// runScript feeds lines to a non-interactive shell and returns what it printed.
func runScript(t *testing.T, mgr *library.LibraryManager, format string, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	newShell(mgr, in, &out, newRenderer(&out, format, 0), log, false).run()
	return out.String()
}

func TestShellBorrowReserveReturnFlow(t *testing.T) {
	mgr := testManager()
	out := runScript(t, mgr, "table",
		"add book", "Dune", "Frank Herbert", "9780441013593", "1965-08-01", "Science Fiction",
		"add patron", "Alice", "alice@example.com", "1 Elm St", "2024-01-01",
		"add patron", "Bob", "", "", "",
		"borrow", "B0001", "P0001", "14",
		"borrow", "B0001", "y", "P0002",
		"return", "1", "T0001", "y",
		"exit",
	)

	assert.Contains(t, out, "Added book B0001: Dune\n")
	assert.Contains(t, out, "Added patron P0001: Alice\n")
	assert.Contains(t, out, "Transaction T0001: Dune lent to Alice (P0001), due 2024-03-15.\n")
	assert.Contains(t, out, "This book is currently not available for borrowing.\n")
	assert.Contains(t, out, "Reservation R0001 placed. Queue position: 1\n")
	assert.Contains(t, out, "Book B0001 returned (transaction T0001).\n")
	assert.Contains(t, out, "This book is reserved by Bob (P0002) (reservation R0001).\n")
	assert.Contains(t, out, "Reservation R0001 fulfilled.\n")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))

	r, err := mgr.FindReservation("R0001")
	require.NoError(t, err)
	assert.False(t, r.Active)
}

func TestShellReportsFailures(t *testing.T) {
	mgr := testManager()
	out := runScript(t, mgr, "table",
		"add book", "Dune", "Herbert", "", "August 1965", "",
		"add book", "Dune", "Herbert", "", "1965-08-01", "",
		"add patron", "Alice", "", "", "",
		"add patron", "Bob", "", "", "",
		"borrow", "B0404",
		"borrow", "B0001", "P0001", "45",
		"borrow", "B0001", "P0001", "soon",
		"reserve", "B0001", "P0001",
		"reserve", "B0001", "P0002",
		"fulfill reservation", "R0002",
		"cancel reservation", "R0001",
		"cancel reservation", "R0001",
		"return", "1", "T0404",
		"frobnicate",
	)

	assert.Contains(t, out, "Add book failed: invalid input")
	assert.Contains(t, out, "Added book B0001: Dune\n")
	assert.Contains(t, out, "Borrow failed: not found")
	assert.Contains(t, out, "Borrow failed: invalid input")
	assert.Contains(t, out, "Invalid number of days: soon\n")
	assert.Contains(t, out, "Reservation R0002 placed. Queue position: 2\n")
	assert.Contains(t, out, "Fulfill reservation failed: another reservation is ahead in the waitlist\n")
	assert.Contains(t, out, "Reservation R0001 cancelled.\n")
	assert.Contains(t, out, "Cancel reservation failed: the reservation is no longer active\n")
	assert.Contains(t, out, "Return failed: not found")
	assert.Contains(t, out, "Unknown command. Type 'help' to list the available commands.\n")

	assert.Empty(t, mgr.Transactions())
}

func TestShellUpdateKeepsBlankFields(t *testing.T) {
	mgr := testManager()
	_, err := mgr.AddBook("Dune", "Herbert", "111", "1965-08-01", "SF")
	require.NoError(t, err)

	out := runScript(t, mgr, "table",
		"update book", "B0001", "Dune Messiah", "", "", "", "",
		"sort books", "title",
	)
	assert.Contains(t, out, "Book B0001 updated.\n")
	assert.Contains(t, out, "Dune Messiah")

	b, err := mgr.FindBook("B0001")
	require.NoError(t, err)
	assert.Equal(t, "Herbert", b.Author)
	assert.Equal(t, "111", b.ISBN)
}

func TestShellQueue(t *testing.T) {
	mgr := testManager()
	b, _ := mgr.AddBook("Dune", "Herbert", "", "1965-08-01", "")
	alice := mgr.AddPatron("Alice", "", "", "")
	bob := mgr.AddPatron("Bob", "", "", "")
	_, _ = mgr.ReserveBook(b.ID, alice.ID)
	_, _ = mgr.ReserveBook(b.ID, bob.ID)

	out := runScript(t, mgr, "table",
		"queue", b.ID, "",
		"queue", b.ID, bob.ID,
		"queue", "B0404", "",
	)
	assert.Contains(t, out, "1. Alice (P0001) (reservation R0001, since 2024-03-01)\n")
	assert.Contains(t, out, "2. Bob (P0002) (reservation R0002, since 2024-03-01)\n")
	assert.Contains(t, out, "Bob (P0002) is number 2 in the waitlist for B0001.\n")
	assert.Contains(t, out, "No one is waiting for B0404.\n")
}

func TestShellJSONOutput(t *testing.T) {
	mgr := testManager()
	_, err := mgr.AddBook("Dune", "Herbert", "111", "1965-08-01", "SF")
	require.NoError(t, err)
	_, err = mgr.AddBook("Emma", "Austen", "", "1815-12-23", "")
	require.NoError(t, err)

	out := runScript(t, mgr, "json", "sort books", "date")

	var books []library.Book
	require.NoError(t, json.Unmarshal([]byte(out), &books))
	require.Len(t, books, 2)
	assert.Equal(t, "Emma", books[0].Title)
	assert.Equal(t, "B0001", books[1].ID)
	assert.True(t, books[1].Available)
}

func TestShellJSONTransactionDates(t *testing.T) {
	mgr := testManager()
	b, _ := mgr.AddBook("Dune", "Herbert", "", "1965-08-01", "")
	p := mgr.AddPatron("Alice", "", "", "")
	_, err := mgr.BorrowBook(b.ID, p.ID, 7)
	require.NoError(t, err)

	out := runScript(t, mgr, "json", "transactions", "active")

	var raw []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "2024-03-01", raw[0]["borrow_date"])
	assert.Equal(t, "2024-03-08", raw[0]["due_date"])
	assert.NotContains(t, raw[0], "return_date", "an open loan has no return date")
}

func TestShellJSONEmptyList(t *testing.T) {
	out := runScript(t, testManager(), "json", "list patrons")
	assert.Equal(t, "[]\n", out)
}
