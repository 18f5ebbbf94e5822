package library

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSnapshot(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func count(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	return n
}

func TestExportSnapshot(t *testing.T) {
	mgr, _ := newManager(t)
	dune, _ := mgr.AddBook("Dune", "Herbert", "9780441013593", "1965-08-01", "Science Fiction")
	emma, _ := mgr.AddBook("Emma", "Austen", "", "1815-12-23", "")
	alice := mgr.AddPatron("Alice", "alice@example.com", "1 Elm St", "2024-01-01")
	bob := mgr.AddPatron("Bob", "", "", "")

	closed, err := mgr.BorrowBook(emma.ID, bob.ID, 7)
	require.NoError(t, err)
	_, err = mgr.ReturnBook(closed.ID)
	require.NoError(t, err)
	open, err := mgr.BorrowBook(dune.ID, alice.ID, 14)
	require.NoError(t, err)
	_, err = mgr.ReserveBook(dune.ID, bob.ID)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reports", "snapshot.db")
	snap, err := mgr.ExportSnapshot(path)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.RunID)
	assert.Equal(t, path, snap.Path)
	assert.Equal(t, 2, snap.Books)
	assert.Equal(t, 2, snap.Patrons)
	assert.Equal(t, 2, snap.Transactions)
	assert.Equal(t, 1, snap.Reservations)

	db := openSnapshot(t, path)
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM books`))
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM patrons`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM reservations WHERE active = 1`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM books WHERE available = 0`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM transactions WHERE return_date IS NULL AND id = ?`, open.ID))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM exports WHERE run_id = ?`, snap.RunID))

	var title, published string
	err = db.QueryRow(`SELECT title, publication_date FROM books WHERE id = ?`, dune.ID).Scan(&title, &published)
	require.NoError(t, err)
	assert.Equal(t, "Dune", title)
	assert.Equal(t, "1965-08-01", published)

	var due, returned string
	err = db.QueryRow(`SELECT due_date, return_date FROM transactions WHERE id = ?`, closed.ID).Scan(&due, &returned)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", due)
	assert.Equal(t, "2024-03-01", returned)
}

func TestExportSnapshotReplacesTables(t *testing.T) {
	mgr, _ := newManager(t)
	b, _ := mgr.AddBook("Dune", "Herbert", "", "1965-08-01", "")
	path := filepath.Join(t.TempDir(), "snapshot.db")

	first, err := mgr.ExportSnapshot(path)
	require.NoError(t, err)

	require.NoError(t, mgr.RemoveBook(b.ID))
	mgr.AddBook("Emma", "Austen", "", "1815-12-23", "")
	mgr.AddBook("Persuasion", "Austen", "", "1817-12-20", "")
	second, err := mgr.ExportSnapshot(path)
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)

	db := openSnapshot(t, path)
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM books`))
	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM books WHERE id = ?`, b.ID))
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM exports`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM meta WHERE key = 'schema_version' AND value = '1'`))
}

func TestExportSnapshotBadPath(t *testing.T) {
	mgr, _ := newManager(t)
	dir := t.TempDir()

	// A directory cannot be opened as a database file.
	_, err := mgr.ExportSnapshot(dir)
	assert.Error(t, err)
}
