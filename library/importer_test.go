package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportBooks(t *testing.T) {
	mgr, _ := newManager(t)
	input := strings.Join([]string{
		"title,author,isbn,publication_date,genre",
		"Dune, Frank Herbert, 9780441013593, 1965-08-01, Science Fiction",
		`"Emma",Jane Austen,,1815-12-23,Romance`,
		"Broken,Nobody,,not-a-date,",
		"Too,Few",
		`"Collected Works, Vol. 1",Anonymous,,1900-01-01,Poetry`,
	}, "\n")

	res, err := mgr.ImportBooks(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, res.Added, 3)
	assert.Equal(t, []string{"B0001", "B0002", "B0003"}, ids(res.Added))
	assert.Equal(t, "Frank Herbert", res.Added[0].Author)
	assert.Equal(t, "Collected Works, Vol. 1", res.Added[2].Title)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 4, res.Skipped[0].Line)
	assert.ErrorIs(t, res.Skipped[0].Err, ErrInvalidInput)
	assert.Equal(t, 5, res.Skipped[1].Line)
	assert.ErrorIs(t, res.Skipped[1].Err, ErrInvalidInput)
	assert.Contains(t, res.Skipped[1].Error(), "line 5")

	assert.Len(t, mgr.Books(), 3)
}

func TestImportBooksReportsFileLines(t *testing.T) {
	mgr, _ := newManager(t)
	input := "title,author,isbn,publication_date,genre\n" +
		"\n" +
		"\n" +
		"Broken,Nobody,,bad,\n" +
		"\"Two\nLines\",Somebody,,1999-01-01,\n" +
		"Late,Nobody,,also-bad,\n"

	res, err := mgr.ImportBooks(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, "Two\nLines", res.Added[0].Title)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 4, res.Skipped[0].Line)
	assert.Equal(t, 7, res.Skipped[1].Line)
	assert.Contains(t, res.Skipped[0].Error(), "line 4")
}

func TestImportBooksWithoutHeader(t *testing.T) {
	mgr, _ := newManager(t)
	res, err := mgr.ImportBooks(strings.NewReader("Dune,Herbert,,1965-08-01,SF\n"))
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, "Dune", res.Added[0].Title)
	assert.Empty(t, res.Skipped)
}

func TestImportBooksMalformedCSV(t *testing.T) {
	mgr, _ := newManager(t)
	input := "Dune,Herbert,,1965-08-01,SF\n\"unterminated,Herbert,,1965-08-01,SF\n"

	res, err := mgr.ImportBooks(strings.NewReader(input))
	assert.Error(t, err)
	assert.Len(t, res.Added, 1, "rows before the broken one are kept")
}

func TestImportBooksFromFile(t *testing.T) {
	mgr, _ := newManager(t)
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte("Emma,Austen,,1815-12-23,\n"), 0o644))

	res, err := mgr.ImportBooksFromFile(path)
	require.NoError(t, err)
	assert.Len(t, res.Added, 1)

	_, err = mgr.ImportBooksFromFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
