package library

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// BookIDLength is the fixed length of a book identifier.
const BookIDLength = 5

// ValidateID reports whether id is one ASCII letter followed by four ASCII digits.
func ValidateID(id string) bool {
	if len(id) != BookIDLength || !isLetter(id[0]) {
		return false
	}
	for i := 1; i < BookIDLength; i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// BookCatalog holds books in insertion order until SortAndList reorders them.
// It is not safe for concurrent use.
type BookCatalog struct {
	books []Book
}

// NewBookCatalog returns an empty catalog.
func NewBookCatalog() *BookCatalog {
	return &BookCatalog{}
}

// Add appends a book. The caller is expected to have checked id with ValidateID.
func (c *BookCatalog) Add(title, author, id string) {
	c.add(title, author, id)
}

func (c *BookCatalog) add(title, author, id string) Book {
	b := Book{Title: title, Author: author, BookID: id, key: uuid.NewString()}
	c.books = append(c.books, b)
	return b
}

// RemoveByID removes the first book whose BookID equals id and reports
// whether one was found. Later books with the same id are left in place.
func (c *BookCatalog) RemoveByID(id string) bool {
	_, ok := c.removeFirst(id)
	return ok
}

func (c *BookCatalog) removeFirst(id string) (Book, bool) {
	i := c.index(id)
	if i < 0 {
		return Book{}, false
	}
	removed := c.books[i]
	c.books = slices.Delete(c.books, i, i+1)
	return removed, true
}

// FindByID returns the first book whose BookID equals id.
func (c *BookCatalog) FindByID(id string) (Book, bool) {
	i := c.index(id)
	if i < 0 {
		return Book{}, false
	}
	return c.books[i], true
}

func (c *BookCatalog) index(id string) int {
	return slices.IndexFunc(c.books, func(b Book) bool { return b.BookID == id })
}

// SortAndList sorts the catalog by BookID and returns every book in the new
// order. The sort is stable and permanent: later lookups and removals see
// the sorted order.
func (c *BookCatalog) SortAndList() []Book {
	slices.SortStableFunc(c.books, func(a, b Book) int {
		return strings.Compare(a.BookID, b.BookID)
	})
	return c.All()
}

// All returns the books in their current order without reordering them.
func (c *BookCatalog) All() []Book {
	return slices.Clone(c.books)
}

// Len returns the number of books in the catalog.
func (c *BookCatalog) Len() int { return len(c.books) }

// removeKey drops the record with the given key, used to undo a failed add.
func (c *BookCatalog) removeKey(key string) {
	c.books = slices.DeleteFunc(c.books, func(b Book) bool { return b.key == key })
}
