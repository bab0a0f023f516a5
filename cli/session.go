package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"library-records/library"

	"golang.org/x/term"
)

const defaultWidth = 100

// Session runs the numbered menu against a LibraryManager, reading answers
// line by line from in and writing results to out.
type Session struct {
	mgr   *library.LibraryManager
	sc    *bufio.Scanner
	out   io.Writer
	width int

	ctx     context.Context
	lines   chan string
	done    chan struct{}
	scanErr error
}

// NewSession prepares a menu session. When out is a terminal, listing
// separators span its width.
func NewSession(mgr *library.LibraryManager, in io.Reader, out io.Writer) *Session {
	return &Session{
		mgr:   mgr,
		sc:    bufio.NewScanner(in),
		out:   out,
		width: terminalWidth(out),
	}
}

func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// Run shows the menu until the user picks 0, input ends or ctx is cancelled.
// Cancellation interrupts a pending read and is returned as ctx.Err().
func (s *Session) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.startReader(ctx)
	defer close(s.done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printMenu()

		line, ok := s.readLine("Choose an option: ")
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return s.scanErr
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			choice = -1
		}

		switch choice {
		case 1:
			s.handleAddBook()
		case 2:
			s.handleDeleteBook()
		case 3:
			s.handleSearchBook()
		case 4:
			s.handleListBooks()
		case 5:
			s.handleAddBorrower()
		case 6:
			s.handleDeleteBorrower()
		case 7:
			s.handleSearchBorrower()
		case 8:
			s.handleListBorrowers()
		case 9:
			s.handleSearchText()
		case 0:
			s.println("Goodbye!")
			return nil
		default:
			s.println("Invalid option, please try again.")
		}
	}
}

func (s *Session) printMenu() {
	s.println("")
	s.println("=== Library Records ===")
	s.println("1. Add book")
	s.println("2. Delete book")
	s.println("3. Search book")
	s.println("4. List all books")
	s.println("5. Add borrower")
	s.println("6. Delete borrower")
	s.println("7. Search borrower")
	s.println("8. List all borrowers")
	s.println("9. Search books by title or author")
	s.println("0. Exit")
}

func (s *Session) handleAddBook() {
	title, ok := s.readLine("Title: ")
	if !ok {
		return
	}
	author, ok := s.readLine("Author: ")
	if !ok {
		return
	}

	var id string
	for {
		if id, ok = s.readLine("Book ID (one letter + 4 digits): "); !ok {
			return
		}
		if library.ValidateID(id) {
			break
		}
		s.println("Invalid book ID format, please try again.")
	}

	if err := s.mgr.AddBook(title, author, id); err != nil {
		s.printf("Error adding book: %v\n", err)
		return
	}
	s.println("Book added.")
}

func (s *Session) handleDeleteBook() {
	id, ok := s.readLine("Book ID to delete: ")
	if !ok {
		return
	}
	if err := s.mgr.DeleteBook(id); err != nil {
		s.reportMiss("Book ID not found.", err)
		return
	}
	s.println("Book deleted.")
}

func (s *Session) handleSearchBook() {
	id, ok := s.readLine("Book ID to search: ")
	if !ok {
		return
	}
	b, err := s.mgr.FindBook(id)
	if err != nil {
		s.reportMiss("Book ID not found.", err)
		return
	}
	s.println(library.PrettyBook(b))
}

func (s *Session) handleListBooks() {
	books := s.mgr.ListBooks()
	if len(books) == 0 {
		s.println("No books in catalog.")
		return
	}
	s.printBooks(books)
}

func (s *Session) handleSearchText() {
	q, ok := s.readLine("Title or author contains: ")
	if !ok {
		return
	}
	books, err := s.mgr.SearchBooks(q)
	if err != nil {
		s.printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		s.printf("No books found matching '%s'.\n", q)
		return
	}
	s.printf("Found %d book(s) matching '%s':\n", len(books), q)
	s.printBooks(books)
}

func (s *Session) printBooks(books []library.Book) {
	s.println(strings.Repeat("-", s.width))
	for _, b := range books {
		s.println(library.PrettyBook(b))
	}
	s.println(strings.Repeat("-", s.width))
}

func (s *Session) handleAddBorrower() {
	name, ok := s.readLine("Borrower name: ")
	if !ok {
		return
	}
	countStr, ok := s.readLine("Number of borrowed books: ")
	if !ok {
		return
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		s.printf("Invalid count: %s\n", countStr)
		return
	}

	var ids []string
	for i := 0; i < count; i++ {
		id, ok := s.readLine(fmt.Sprintf("Book ID %d/%d: ", i+1, count))
		if !ok {
			return
		}
		ids = append(ids, id)
	}

	unknown := s.mgr.AddBorrower(name, ids)
	s.println("Borrower added.")
	if len(unknown) > 0 {
		s.printf("Warning: not in catalog: %s\n", strings.Join(unknown, " "))
	}
}

func (s *Session) handleDeleteBorrower() {
	name, ok := s.readLine("Borrower name to delete: ")
	if !ok {
		return
	}
	n, err := s.mgr.DeleteBorrower(name)
	if err != nil {
		s.reportMiss("Borrower not found.", err)
		return
	}
	s.printf("Deleted %d borrower(s).\n", n)
}

func (s *Session) handleSearchBorrower() {
	name, ok := s.readLine("Borrower name to search: ")
	if !ok {
		return
	}
	b, err := s.mgr.FindBorrower(name)
	if err != nil {
		s.reportMiss("Borrower not found.", err)
		return
	}
	s.println(library.PrettyBorrower(b))
}

func (s *Session) handleListBorrowers() {
	borrowers := s.mgr.ListBorrowers()
	if len(borrowers) == 0 {
		s.println("No borrowers registered.")
		return
	}
	for _, b := range borrowers {
		s.println(library.PrettyBorrower(b))
	}
}

// reportMiss prints msg for lookup misses and the raw error for anything else.
func (s *Session) reportMiss(msg string, err error) {
	if errors.Is(err, library.ErrNotFound) {
		s.println(msg)
		return
	}
	s.printf("Error: %v\n", err)
}

// startReader scans input on its own goroutine so a blocked read does not
// hold up cancellation.
func (s *Session) startReader(ctx context.Context) {
	s.ctx = ctx
	s.lines = make(chan string)
	s.done = make(chan struct{})
	go func() {
		defer close(s.lines)
		for s.sc.Scan() {
			select {
			case s.lines <- s.sc.Text():
			case <-s.done:
				return
			}
		}
		s.scanErr = s.sc.Err()
	}()
}

func (s *Session) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	select {
	case line, ok := <-s.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	case <-s.ctx.Done():
		fmt.Fprintln(s.out)
		return "", false
	}
}

func (s *Session) println(line string) { fmt.Fprintln(s.out, line) }

func (s *Session) printf(format string, args ...any) { fmt.Fprintf(s.out, format, args...) }
