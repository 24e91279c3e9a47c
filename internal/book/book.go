package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when another book already uses the ISBN.
	ErrDuplicateISBN = errors.New("book with this ISBN already exists")
	// ErrInvalidCopies is returned when available copies would exceed total copies.
	ErrInvalidCopies = errors.New("available copies must be between 0 and total copies")
	// ErrHasTransactions is returned when deleting a book that has lending history.
	ErrHasTransactions = errors.New("book has lending transactions")
)

// Book represents a catalog entry and its copy counts.
type Book struct {
	ID              int64     `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Category        string    `json:"category,omitempty"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsAvailable reports whether at least one copy can be lent out.
func (b Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// Input carries the mutable fields of a book for create and update.
// Nil copy counts fall back to defaults.
type Input struct {
	ISBN            string `json:"isbn" validate:"required,isbn"`
	Title           string `json:"title" validate:"required,max=500"`
	Author          string `json:"author" validate:"required,max=255"`
	Category        string `json:"category" validate:"max=100"`
	PublicationYear *int   `json:"publication_year" validate:"omitempty,gte=1000"`
	TotalCopies     *int   `json:"total_copies" validate:"omitempty,gte=1"`
	AvailableCopies *int   `json:"available_copies" validate:"omitempty,gte=0"`
}
