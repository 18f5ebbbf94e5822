package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addBook(t *testing.T, c *Catalog, title, author, published string) Book {
	t.Helper()
	d, err := ParseDate(published)
	require.NoError(t, err)
	return c.Add(title, author, "", d, "")
}

func ids(books []Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestCatalogAddAssignsSequentialIDs(t *testing.T) {
	c := NewCatalog()
	a := addBook(t, c, "Dune", "Herbert", "1965-08-01")
	b := addBook(t, c, "Emma", "Austen", "1815-12-23")

	assert.Equal(t, "B0001", a.ID)
	assert.Equal(t, "B0002", b.ID)
	assert.True(t, a.Available)
	assert.True(t, c.Contains("B0002"))
	assert.False(t, c.Contains("B0003"))
}

func TestCatalogSortedViews(t *testing.T) {
	c := NewCatalog()
	addBook(t, c, "The Hobbit", "Tolkien", "1937-09-21")
	addBook(t, c, "1984", "Orwell", "1949-06-08")
	addBook(t, c, "Emma", "Austen", "1815-12-23")

	assert.Equal(t, []string{"B0002", "B0003", "B0001"}, ids(c.SortedByTitle()))
	assert.Equal(t, []string{"B0003", "B0002", "B0001"}, ids(c.SortedByAuthor()))
	assert.Equal(t, []string{"B0003", "B0001", "B0002"}, ids(c.SortedByPublicationDate()))
	assert.Equal(t, []string{"B0001", "B0002", "B0003"}, ids(c.All()))
}

func TestCatalogFindBySubstring(t *testing.T) {
	c := NewCatalog()
	addBook(t, c, "The Hobbit", "J.R.R. Tolkien", "1937-09-21")
	addBook(t, c, "The Two Towers", "J.R.R. Tolkien", "1954-11-11")
	addBook(t, c, "Emma", "Jane Austen", "1815-12-23")

	assert.Equal(t, []string{"B0001", "B0002"}, ids(c.FindByTitle("the")))
	assert.Equal(t, []string{"B0003"}, ids(c.FindByAuthor("AUSTEN")))
	assert.Empty(t, c.FindByTitle("dune"))
}

func TestCatalogSearchMatchesGenre(t *testing.T) {
	c := NewCatalog()
	d, _ := ParseDate("1965-08-01")
	c.Add("Dune", "Frank Herbert", "", d, "Science Fiction")
	c.Add("Emma", "Jane Austen", "", d, "Romance")

	assert.Equal(t, []string{"B0001"}, ids(c.Search("fiction")))
	assert.Equal(t, []string{"B0002"}, ids(c.Search("austen")))
	assert.Len(t, c.Search("e"), 2)
}

func TestCatalogRemove(t *testing.T) {
	c := NewCatalog()
	addBook(t, c, "Dune", "Herbert", "1965-08-01")
	addBook(t, c, "Emma", "Austen", "1815-12-23")

	require.NoError(t, c.Remove("B0001"))
	assert.False(t, c.Contains("B0001"))
	assert.Equal(t, []string{"B0002"}, ids(c.All()))
	assert.Equal(t, []string{"B0002"}, ids(c.SortedByTitle()))
	assert.Equal(t, []string{"B0002"}, ids(c.SortedByAuthor()))

	_, err := c.FindByID("B0001")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, c.Remove("B0001"), ErrNotFound)
}

// Two books sharing a title or author are separate index entries, and
// removing one leaves the other indexed.
func TestCatalogRemoveWithCollidingKeys(t *testing.T) {
	c := NewCatalog()
	addBook(t, c, "Collected Poems", "Anonymous", "1900-01-01")
	addBook(t, c, "Collected Poems", "Anonymous", "1950-01-01")
	addBook(t, c, "Beowulf", "Anonymous", "1000-01-01")

	assert.Equal(t, []string{"B0003", "B0001", "B0002"}, ids(c.SortedByTitle()))
	assert.Equal(t, []string{"B0001", "B0002", "B0003"}, ids(c.SortedByAuthor()))

	require.NoError(t, c.Remove("B0001"))
	assert.Equal(t, []string{"B0003", "B0002"}, ids(c.SortedByTitle()))
	assert.Equal(t, []string{"B0002", "B0003"}, ids(c.SortedByAuthor()))
}

func TestCatalogUpdateReindexes(t *testing.T) {
	c := NewCatalog()
	a := addBook(t, c, "Zebra", "Zed", "1965-08-01")
	addBook(t, c, "Middle", "Mid", "1965-08-01")

	a.Title = "Aardvark"
	a.Author = "Abe"
	a.Available = false
	require.NoError(t, c.Update(a))

	got, err := c.FindByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aardvark", got.Title)
	assert.True(t, got.Available, "Update must not touch availability")

	title := c.SortedByTitle()
	require.Len(t, title, 2)
	assert.Equal(t, "Aardvark", title[0].Title)
	assert.Equal(t, []string{"B0001", "B0002"}, ids(c.SortedByAuthor()))

	assert.ErrorIs(t, c.Update(Book{ID: "B0042"}), ErrNotFound)
}

func TestCatalogSetAvailability(t *testing.T) {
	c := NewCatalog()
	b := addBook(t, c, "Dune", "Herbert", "1965-08-01")

	require.NoError(t, c.SetAvailability(b.ID, false))
	got, _ := c.FindByID(b.ID)
	assert.False(t, got.Available)

	assert.ErrorIs(t, c.SetAvailability("B0404", true), ErrNotFound)
}

func TestCatalogReturnsCopies(t *testing.T) {
	c := NewCatalog()
	addBook(t, c, "Dune", "Herbert", "1965-08-01")

	all := c.All()
	all[0].Title = "Changed"
	all[0].Available = false

	got, _ := c.FindByID("B0001")
	assert.Equal(t, "Dune", got.Title)
	assert.True(t, got.Available)
}
