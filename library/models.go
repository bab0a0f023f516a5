package library

// Book is a single catalog record. BookID is one letter followed by four
// digits and is not guaranteed to be unique.
type Book struct {
	Title  string
	Author string
	BookID string

	// key tells apart records that share a BookID.
	key string
}

// Borrower is a registered borrower and the identifiers of the books they hold.
// BorrowedBooks is kept in the order it was entered and is never validated.
type Borrower struct {
	Name          string
	BorrowedBooks []string
}

func (b Borrower) clone() Borrower {
	b.BorrowedBooks = append([]string(nil), b.BorrowedBooks...)
	return b
}
