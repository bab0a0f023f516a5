package library

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SearchIndex is an in-memory SQLite table of catalog records used for
// title and author lookups. Nothing is written to disk.
type SearchIndex struct {
	db *sql.DB

	insertStmt *sql.Stmt
	deleteStmt *sql.Stmt
	searchStmt *sql.Stmt
}

// NewSearchIndex opens a private in-memory database and prepares the
// statements used by the catalog.
func NewSearchIndex() (*SearchIndex, error) {
	// The random name keeps separate indexes apart.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The database lives as long as its last connection, so hold exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	idx := &SearchIndex{db: db}
	if err := idx.prepareStatements(); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

// Close releases prepared statements and drops the database.
func (s *SearchIndex) Close() error {
	for _, stmt := range []*sql.Stmt{s.insertStmt, s.deleteStmt, s.searchStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

func applySchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            key TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            book_id TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_books_book_id ON books(book_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *SearchIndex) prepareStatements() error {
	var err error
	if s.insertStmt, err = s.db.Prepare(`INSERT INTO books(key,title,author,book_id) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	if s.deleteStmt, err = s.db.Prepare(`DELETE FROM books WHERE key=?`); err != nil {
		return err
	}
	if s.searchStmt, err = s.db.Prepare(`
        SELECT key FROM books
        WHERE title LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\'`); err != nil {
		return err
	}
	return nil
}

// Insert adds b to the index.
func (s *SearchIndex) Insert(b Book) error {
	_, err := s.insertStmt.Exec(b.key, b.Title, b.Author, b.BookID)
	return err
}

// Delete removes b from the index. Deleting a book that was never indexed is not an error.
func (s *SearchIndex) Delete(b Book) error {
	_, err := s.deleteStmt.Exec(b.key)
	return err
}

// Search returns the keys of books whose title or author contains q,
// ignoring ASCII case. A blank query matches nothing.
func (s *SearchIndex) Search(q string) (map[string]struct{}, error) {
	keys := map[string]struct{}{}
	q = strings.TrimSpace(q)
	if q == "" {
		return keys, nil
	}

	pattern := "%" + escapeLike(q) + "%"
	rows, err := s.searchStmt.Query(pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	return keys, rows.Err()
}

func (s *SearchIndex) count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
