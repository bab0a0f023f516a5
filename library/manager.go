package library

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// LibraryManager is a thin façade over the catalog, the borrower registry
// and the search index, keeping CLI code simple.
type LibraryManager struct {
	catalog   *BookCatalog
	borrowers *BorrowerRegistry
	index     *SearchIndex
	log       *slog.Logger

	checkBorrowed bool
}

// Option configures a LibraryManager.
type Option func(*LibraryManager)

// WithLogger sets the logger used for diagnostics. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(lm *LibraryManager) { lm.log = l }
}

// WithBorrowedCheck makes AddBorrower report identifiers that are malformed
// or missing from the catalog. Borrowers are added either way.
func WithBorrowedCheck(enabled bool) Option {
	return func(lm *LibraryManager) { lm.checkBorrowed = enabled }
}

// NewLibraryManager creates empty collections and an in-memory search index.
func NewLibraryManager(opts ...Option) (*LibraryManager, error) {
	index, err := NewSearchIndex()
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	lm := &LibraryManager{
		catalog:   NewBookCatalog(),
		borrowers: NewBorrowerRegistry(),
		index:     index,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(lm)
	}
	return lm, nil
}

// Close releases the search index. All records are lost.
func (lm *LibraryManager) Close() error { return lm.index.Close() }

// Catalog exposes the underlying book catalog.
func (lm *LibraryManager) Catalog() *BookCatalog { return lm.catalog }

// Registry exposes the underlying borrower registry.
func (lm *LibraryManager) Registry() *BorrowerRegistry { return lm.borrowers }

// ------------------ Book helpers ------------------

// AddBook validates id and appends the book to the catalog.
func (lm *LibraryManager) AddBook(title, author, id string) error {
	if !ValidateID(id) {
		return fmt.Errorf("%q: %w", id, ErrInvalidBookID)
	}
	b := lm.catalog.add(title, author, id)
	if err := lm.index.Insert(b); err != nil {
		lm.catalog.removeKey(b.key)
		lm.log.Error("index insert failed", "book_id", id, "err", err)
		return fmt.Errorf("index book %s: %w", id, err)
	}
	lm.log.Debug("book added", "book_id", id, "title", title, "books", lm.catalog.Len())
	return nil
}

// DeleteBook removes the first book with the given id.
func (lm *LibraryManager) DeleteBook(id string) error {
	b, ok := lm.catalog.removeFirst(id)
	if !ok {
		return fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	if err := lm.index.Delete(b); err != nil {
		// Stale rows are filtered out by SearchBooks.
		lm.log.Error("index delete failed", "book_id", id, "err", err)
	}
	lm.log.Debug("book deleted", "book_id", id, "books", lm.catalog.Len())
	return nil
}

func (lm *LibraryManager) FindBook(id string) (Book, error) {
	b, ok := lm.catalog.FindByID(id)
	if !ok {
		return Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	return b, nil
}

// ListBooks sorts the catalog by id and returns it. The new order sticks.
func (lm *LibraryManager) ListBooks() []Book {
	return lm.catalog.SortAndList()
}

// SearchBooks returns books whose title or author contains q, in catalog order.
func (lm *LibraryManager) SearchBooks(q string) ([]Book, error) {
	keys, err := lm.index.Search(q)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q, err)
	}
	var hits []Book
	for _, b := range lm.catalog.books {
		if _, ok := keys[b.key]; ok {
			hits = append(hits, b)
		}
	}
	lm.log.Debug("books searched", "query", q, "hits", len(hits))
	return hits, nil
}

// ------------------ Borrower helpers ------------------

// AddBorrower puts a new borrower at the front of the registry. When the
// borrowed check is enabled it returns the identifiers that are malformed
// or not in the catalog; the borrower is added regardless.
func (lm *LibraryManager) AddBorrower(name string, bookIDs []string) []string {
	lm.borrowers.Add(name, bookIDs)
	lm.log.Debug("borrower added", "name", name, "borrowed", len(bookIDs))
	if !lm.checkBorrowed {
		return nil
	}

	var unknown []string
	for _, id := range bookIDs {
		// Malformed ids can never be in the catalog.
		if _, ok := lm.catalog.FindByID(id); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		lm.log.Warn("borrower holds unknown books", "name", name, "ids", strings.Join(unknown, ","))
	}
	return unknown
}

// DeleteBorrower removes every borrower with the given name and returns the count.
func (lm *LibraryManager) DeleteBorrower(name string) (int, error) {
	n := lm.borrowers.RemoveByName(name)
	if n == 0 {
		return 0, fmt.Errorf("borrower %q: %w", name, ErrNotFound)
	}
	lm.log.Debug("borrowers deleted", "name", name, "removed", n)
	return n, nil
}

func (lm *LibraryManager) FindBorrower(name string) (Borrower, error) {
	b, ok := lm.borrowers.FindByName(name)
	if !ok {
		return Borrower{}, fmt.Errorf("borrower %q: %w", name, ErrNotFound)
	}
	return b, nil
}

func (lm *LibraryManager) ListBorrowers() []Borrower { return lm.borrowers.List() }

// ------------------ Utilities ------------------

// PrettyBook formats a book for lists.
func PrettyBook(b Book) string {
	return fmt.Sprintf("Title: %s, Author: %s, ID: %s", b.Title, b.Author, b.BookID)
}

// PrettyBorrower formats a borrower and the ids they hold.
func PrettyBorrower(b Borrower) string {
	return fmt.Sprintf("Name: %s, Borrowed: %s", b.Name, strings.Join(b.BorrowedBooks, " "))
}

// TruncateString shortens s to at most maxLen runes, marking the cut with "...".
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}
