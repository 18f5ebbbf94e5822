package library

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"library-catalog/datastruct"
)

// Catalog owns the books. Every book sits in the insertion-ordered list and in
// three search trees keyed by id, (title, id) and (author, id). Breaking ties
// on id keeps two books with the same title as two separate index nodes.
type Catalog struct {
	books    *datastruct.List[*Book]
	byID     *datastruct.Tree[*Book]
	byTitle  *datastruct.Tree[*Book]
	byAuthor *datastruct.Tree[*Book]
	ids      *sequence
}

func compareBookID(a, b *Book) int { return strings.Compare(a.ID, b.ID) }

func compareBookTitle(a, b *Book) int {
	return cmp.Or(strings.Compare(a.Title, b.Title), compareBookID(a, b))
}

func compareBookAuthor(a, b *Book) int {
	return cmp.Or(strings.Compare(a.Author, b.Author), compareBookID(a, b))
}

// NewCatalog returns an empty catalog whose first book gets id B0001.
func NewCatalog() *Catalog {
	return &Catalog{
		books:    datastruct.NewList[*Book](),
		byID:     datastruct.NewTree(compareBookID),
		byTitle:  datastruct.NewTree(compareBookTitle),
		byAuthor: datastruct.NewTree(compareBookAuthor),
		ids:      newSequence("B"),
	}
}

// Add registers a new, available book and returns it.
func (c *Catalog) Add(title, author, isbn string, published time.Time, genre string) Book {
	b := &Book{
		ID:              c.ids.next(),
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		PublicationDate: dateOf(published),
		Genre:           genre,
		Available:       true,
	}
	c.books.Add(b)
	c.index(b)
	c.byID.Insert(b)
	return *b
}

// Remove drops the book from the list and all three indexes. Transactions and
// reservations that reference it are left alone.
func (c *Catalog) Remove(id string) error {
	b, ok := c.lookup(id)
	if !ok {
		return notFound("book", id)
	}
	c.books.Remove(b)
	c.unindex(b)
	c.byID.Delete(b)
	return nil
}

// FindByID returns a copy of the book with the given id.
func (c *Catalog) FindByID(id string) (Book, error) {
	b, ok := c.lookup(id)
	if !ok {
		return Book{}, notFound("book", id)
	}
	return *b, nil
}

// Contains reports whether a book with the given id exists.
func (c *Catalog) Contains(id string) bool {
	return c.byID.Search(&Book{ID: id})
}

// FindByTitle returns books whose title contains sub, ignoring case.
func (c *Catalog) FindByTitle(sub string) []Book {
	return c.filter(func(b *Book) bool { return containsFold(b.Title, sub) })
}

// FindByAuthor returns books whose author contains sub, ignoring case.
func (c *Catalog) FindByAuthor(sub string) []Book {
	return c.filter(func(b *Book) bool { return containsFold(b.Author, sub) })
}

// Search returns books whose title, author or genre contains keyword, ignoring case.
func (c *Catalog) Search(keyword string) []Book {
	return c.filter(func(b *Book) bool {
		return containsFold(b.Title, keyword) || containsFold(b.Author, keyword) || containsFold(b.Genre, keyword)
	})
}

// All returns every book in insertion order.
func (c *Catalog) All() []Book {
	return c.filter(func(*Book) bool { return true })
}

func (c *Catalog) Len() int { return c.books.Size() }

// SetAvailability flips the availability flag of a book.
func (c *Catalog) SetAvailability(id string, available bool) error {
	b, ok := c.lookup(id)
	if !ok {
		return notFound("book", id)
	}
	b.Available = available
	return nil
}

// Update replaces every field of the stored book except ID and Available.
// The old title and author keys are removed before the fields change.
func (c *Catalog) Update(book Book) error {
	b, ok := c.lookup(book.ID)
	if !ok {
		return notFound("book", book.ID)
	}
	c.unindex(b)
	b.Title = book.Title
	b.Author = book.Author
	b.ISBN = book.ISBN
	b.PublicationDate = dateOf(book.PublicationDate)
	b.Genre = book.Genre
	c.index(b)
	return nil
}

// SortedByTitle walks the title index in order.
func (c *Catalog) SortedByTitle() []Book { return collect(c.byTitle) }

// SortedByAuthor walks the author index in order.
func (c *Catalog) SortedByAuthor() []Book { return collect(c.byAuthor) }

// SortedByPublicationDate sorts a snapshot by publication date, oldest first.
// There is no date index; books with the same date keep insertion order.
func (c *Catalog) SortedByPublicationDate() []Book {
	books := c.All()
	slices.SortStableFunc(books, func(a, b Book) int {
		return a.PublicationDate.Compare(b.PublicationDate)
	})
	return books
}

func (c *Catalog) lookup(id string) (*Book, bool) {
	if !c.Contains(id) {
		return nil, false
	}
	return c.books.Find(func(b *Book) bool { return b.ID == id })
}

func (c *Catalog) index(b *Book) {
	c.byTitle.Insert(b)
	c.byAuthor.Insert(b)
}

func (c *Catalog) unindex(b *Book) {
	c.byTitle.Delete(b)
	c.byAuthor.Delete(b)
}

func (c *Catalog) filter(pred func(*Book) bool) []Book {
	matches := c.books.Filter(pred)
	out := make([]Book, len(matches))
	for i, b := range matches {
		out[i] = *b
	}
	return out
}

func collect(t *datastruct.Tree[*Book]) []Book {
	out := make([]Book, 0, t.Len())
	t.InOrder(func(b *Book) { out = append(out, *b) })
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
