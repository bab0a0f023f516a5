package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"library-records/library"
)

// Each non-blank, non-comment line holds title, author and book id separated by tabs.
const defaultListFile = "books.tsv"

type importResult struct {
	added   int
	skipped []string
}

func importBooks(r io.Reader, mgr *library.LibraryManager) (importResult, error) {
	var res importResult
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			res.skipped = append(res.skipped, fmt.Sprintf("line %d: want 3 tab-separated fields, got %d", lineNo, len(fields)))
			continue
		}
		title, author, id := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1]), strings.TrimSpace(fields[2])

		if err := mgr.AddBook(title, author, id); err != nil {
			res.skipped = append(res.skipped, fmt.Sprintf("line %d: %v", lineNo, err))
			continue
		}
		res.added++
	}
	return res, sc.Err()
}

func main() {
	path := defaultListFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book list: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	manager, err := library.NewLibraryManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating catalog: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	fmt.Printf("Importing books from %s...\n", path)
	res, err := importBooks(f, manager)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading book list: %v\n", err)
		os.Exit(1)
	}

	for _, msg := range res.skipped {
		fmt.Printf("Skipped %s\n", msg)
	}
	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", res.added)
	fmt.Printf("Errors: %d\n", len(res.skipped))

	if res.added > 0 {
		fmt.Println("\nCatalog sorted by book ID:")
		fmt.Printf("%-5s %-50s %-30s\n", "ID", "Title", "Author")
		fmt.Println(strings.Repeat("-", 87))
		for _, book := range manager.ListBooks() {
			fmt.Printf("%-5s %-50s %-30s\n", book.BookID, library.TruncateString(book.Title, 50), library.TruncateString(book.Author, 30))
		}
	}
}
