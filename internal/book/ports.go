package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	Search(ctx context.Context, term string) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	Create(ctx context.Context, book *Book) error
	// Update locks the row, lets apply modify it and stores the result.
	Update(ctx context.Context, id int64, apply func(book *Book) error) (Book, error)
	Delete(ctx context.Context, id int64) error
}
