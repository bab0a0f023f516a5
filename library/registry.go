package library

import "slices"

// BorrowerRegistry holds borrowers with the most recently added first.
// It is not safe for concurrent use.
type BorrowerRegistry struct {
	borrowers []Borrower
}

// NewBorrowerRegistry returns an empty registry.
func NewBorrowerRegistry() *BorrowerRegistry {
	return &BorrowerRegistry{}
}

// Add inserts a borrower at the front of the registry. bookIDs is copied
// as given; nothing checks it against a catalog.
func (r *BorrowerRegistry) Add(name string, bookIDs []string) {
	b := Borrower{Name: name, BorrowedBooks: bookIDs}.clone()
	r.borrowers = slices.Insert(r.borrowers, 0, b)
}

// RemoveByName removes every borrower called name and returns how many were removed.
func (r *BorrowerRegistry) RemoveByName(name string) int {
	before := len(r.borrowers)
	r.borrowers = slices.DeleteFunc(r.borrowers, func(b Borrower) bool { return b.Name == name })
	return before - len(r.borrowers)
}

// FindByName returns the first borrower called name in current order.
func (r *BorrowerRegistry) FindByName(name string) (Borrower, bool) {
	i := slices.IndexFunc(r.borrowers, func(b Borrower) bool { return b.Name == name })
	if i < 0 {
		return Borrower{}, false
	}
	return r.borrowers[i].clone(), true
}

// List returns every borrower in current order.
func (r *BorrowerRegistry) List() []Borrower {
	out := make([]Borrower, len(r.borrowers))
	for i, b := range r.borrowers {
		out[i] = b.clone()
	}
	return out
}

// Len returns the number of borrowers.
func (r *BorrowerRegistry) Len() int { return len(r.borrowers) }
