package library

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, opts ...Option) *LibraryManager {
	t.Helper()
	mgr, err := NewLibraryManager(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestManagerAddBookRejectsInvalidID(t *testing.T) {
	mgr := newManager(t)

	err := mgr.AddBook("Title", "Author", "12345")
	require.ErrorIs(t, err, ErrInvalidBookID)
	assert.Zero(t, mgr.Catalog().Len())

	n, err := mgr.index.count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestManagerBookLifecycle(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, mgr.AddBook("T2", "A2", "B2222"))
	require.NoError(t, mgr.AddBook("T1", "A1", "A1111"))

	b, err := mgr.FindBook("B2222")
	require.NoError(t, err)
	assert.Equal(t, "T2", b.Title)

	assert.Equal(t, []string{"A1111", "B2222"}, bookIDs(mgr.ListBooks()))

	require.NoError(t, mgr.DeleteBook("A1111"))
	assert.ErrorIs(t, mgr.DeleteBook("A1111"), ErrNotFound)

	_, err = mgr.FindBook("A1111")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerSearchBooksFollowsCatalog(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, mgr.AddBook("The Hobbit", "Tolkien", "H1937"))
	require.NoError(t, mgr.AddBook("Silmarillion", "Tolkien", "S1977"))
	require.NoError(t, mgr.AddBook("Emma", "Austen", "E1815"))
	mgr.ListBooks()

	hits, err := mgr.SearchBooks("tolkien")
	require.NoError(t, err)
	assert.Equal(t, []string{"H1937", "S1977"}, bookIDs(hits))

	require.NoError(t, mgr.DeleteBook("H1937"))
	hits, err = mgr.SearchBooks("tolkien")
	require.NoError(t, err)
	assert.Equal(t, []string{"S1977"}, bookIDs(hits))

	hits, err = mgr.SearchBooks("")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestManagerBorrowers(t *testing.T) {
	mgr := newManager(t)
	assert.Nil(t, mgr.AddBorrower("Alice", []string{"A1111"}))
	mgr.AddBorrower("Bob", []string{"B2222"})
	mgr.AddBorrower("Alice", nil)

	assert.Equal(t, []string{"Alice", "Bob", "Alice"}, borrowerNames(mgr.ListBorrowers()))

	b, err := mgr.FindBorrower("Bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"B2222"}, b.BorrowedBooks)

	n, err := mgr.DeleteBorrower("Alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = mgr.DeleteBorrower("Alice")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = mgr.FindBorrower("Alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerBorrowedCheck(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mgr := newManager(t, WithBorrowedCheck(true), WithLogger(logger))
	require.NoError(t, mgr.AddBook("T1", "A1", "A1111"))

	unknown := mgr.AddBorrower("Alice", []string{"A1111", "Z9999", "bogus"})
	assert.Equal(t, []string{"Z9999", "bogus"}, unknown)

	_, err := mgr.FindBorrower("Alice")
	require.NoError(t, err, "borrower is added even with unknown ids")
	assert.Contains(t, logs.String(), "borrower holds unknown books")
	assert.Contains(t, logs.String(), "book added")
}

func TestPrettyHelpers(t *testing.T) {
	assert.Equal(t, "Title: Dune, Author: Herbert, ID: D1965",
		PrettyBook(Book{Title: "Dune", Author: "Herbert", BookID: "D1965"}))
	assert.Equal(t, "Name: Alice, Borrowed: A1111 B2222",
		PrettyBorrower(Borrower{Name: "Alice", BorrowedBooks: []string{"A1111", "B2222"}}))

}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "Short enough", in: "abc", maxLen: 5, want: "abc"},
		{name: "Cut with ellipsis", in: "abcdefgh", maxLen: 5, want: "ab..."},
		{name: "Tiny limit", in: "abcdefgh", maxLen: 2, want: "ab"},
		{name: "CJK fits", in: "三國演義", maxLen: 4, want: "三國演義"},
		{name: "CJK cut on rune boundary", in: strings.Repeat("三國演義", 10), maxLen: 8, want: "三國演義三..."},
		{name: "CJK tiny limit", in: "羅貫中", maxLen: 2, want: "羅貫"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.in, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
