package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Snapshot is the summary of one export run.
type Snapshot struct {
	RunID        string
	Path         string
	ExportedAt   time.Time
	Books        int
	Patrons      int
	Transactions int
	Reservations int
}

// snapshotState is a consistent copy of every store taken under the manager lock.
type snapshotState struct {
	books        []Book
	patrons      []Patron
	transactions []Transaction
	reservations []Reservation
}

// ExportSnapshot writes the current catalog, patrons, transactions and
// reservations to the SQLite file at path for offline reporting. Tables are
// replaced on every run; the exports table keeps one row per run. The file is
// never read back by the manager.
func (lm *LibraryManager) ExportSnapshot(path string) (Snapshot, error) {
	lm.mu.Lock()
	state := snapshotState{
		books:        lm.catalog.All(),
		patrons:      lm.patrons.All(),
		transactions: lm.ledger.All(),
		reservations: lm.reservations.All(),
	}
	lm.mu.Unlock()

	snap := Snapshot{
		RunID:        uuid.NewString(),
		Path:         path,
		ExportedAt:   lm.now().UTC(),
		Books:        len(state.books),
		Patrons:      len(state.patrons),
		Transactions: len(state.transactions),
		Reservations: len(state.reservations),
	}
	if err := writeSnapshot(path, snap, state); err != nil {
		lm.log.Warn("snapshot export failed", "path", path, "error", err)
		return Snapshot{}, err
	}
	lm.log.Info("snapshot exported", "path", path, "run_id", snap.RunID, "books", snap.Books, "transactions", snap.Transactions)
	return snap, nil
}

func writeSnapshot(path string, snap Snapshot, state snapshotState) error {
	// Ensure directory exists so first export succeeds.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if err := applyMigrations(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"books", "patrons", "transactions", "reservations"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertBooks(tx, state.books); err != nil {
		return err
	}
	if err := insertPatrons(tx, state.patrons); err != nil {
		return err
	}
	if err := insertTransactions(tx, state.transactions); err != nil {
		return err
	}
	if err := insertReservations(tx, state.reservations); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO exports(run_id,exported_at,books,patrons,transactions,reservations) VALUES(?,?,?,?,?,?)`,
		snap.RunID, snap.ExportedAt.Format(time.RFC3339), snap.Books, snap.Patrons, snap.Transactions, snap.Reservations); err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            isbn TEXT NOT NULL,
            publication_date TEXT NOT NULL,
            genre TEXT NOT NULL,
            available BOOLEAN NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS patrons (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            contact_info TEXT NOT NULL,
            address TEXT NOT NULL,
            membership_date TEXT NOT NULL
        );`,
		// No foreign keys: history outlives removed books and patrons.
		`CREATE TABLE IF NOT EXISTS transactions (
            id TEXT PRIMARY KEY,
            book_id TEXT NOT NULL,
            patron_id TEXT NOT NULL,
            borrow_date TEXT NOT NULL,
            due_date TEXT NOT NULL,
            return_date TEXT,
            returned BOOLEAN NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS reservations (
            id TEXT PRIMARY KEY,
            book_id TEXT NOT NULL,
            patron_id TEXT NOT NULL,
            reservation_date TEXT NOT NULL,
            active BOOLEAN NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS exports (
            run_id TEXT PRIMARY KEY,
            exported_at TEXT NOT NULL,
            books INTEGER NOT NULL,
            patrons INTEGER NOT NULL,
            transactions INTEGER NOT NULL,
            reservations INTEGER NOT NULL
        );`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Inserts
// ---------------------------------------------------------------------------

func insertBooks(tx *sql.Tx, books []Book) error {
	stmt, err := tx.Prepare(`INSERT INTO books(id,title,author,isbn,publication_date,genre,available) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, b := range books {
		if _, err := stmt.Exec(b.ID, b.Title, b.Author, b.ISBN, FormatDate(b.PublicationDate), b.Genre, b.Available); err != nil {
			return fmt.Errorf("insert book %s: %w", b.ID, err)
		}
	}
	return nil
}

func insertPatrons(tx *sql.Tx, patrons []Patron) error {
	stmt, err := tx.Prepare(`INSERT INTO patrons(id,name,contact_info,address,membership_date) VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range patrons {
		if _, err := stmt.Exec(p.ID, p.Name, p.ContactInfo, p.Address, p.MembershipDate); err != nil {
			return fmt.Errorf("insert patron %s: %w", p.ID, err)
		}
	}
	return nil
}

func insertTransactions(tx *sql.Tx, transactions []Transaction) error {
	stmt, err := tx.Prepare(`INSERT INTO transactions(id,book_id,patron_id,borrow_date,due_date,return_date,returned) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, t := range transactions {
		var returnDate sql.NullString
		if t.Returned {
			returnDate = sql.NullString{String: FormatDate(t.ReturnDate), Valid: true}
		}
		if _, err := stmt.Exec(t.ID, t.BookID, t.PatronID, FormatDate(t.BorrowDate), FormatDate(t.DueDate), returnDate, t.Returned); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	return nil
}

func insertReservations(tx *sql.Tx, reservations []Reservation) error {
	stmt, err := tx.Prepare(`INSERT INTO reservations(id,book_id,patron_id,reservation_date,active) VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range reservations {
		if _, err := stmt.Exec(r.ID, r.BookID, r.PatronID, FormatDate(r.ReservationDate), r.Active); err != nil {
			return fmt.Errorf("insert reservation %s: %w", r.ID, err)
		}
	}
	return nil
}
