package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service provides book catalog business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every book ordered by title.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// GetByID returns a book by its identifier.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByISBN returns a book by its ISBN.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, strings.TrimSpace(isbn))
}

// Create adds a book to the catalog. Total copies default to 1 and available
// copies default to the total.
func (s *Service) Create(ctx context.Context, in Input) (Book, error) {
	b := Book{
		ISBN:            strings.TrimSpace(in.ISBN),
		Title:           strings.TrimSpace(in.Title),
		Author:          strings.TrimSpace(in.Author),
		Category:        strings.TrimSpace(in.Category),
		PublicationYear: in.PublicationYear,
		TotalCopies:     1,
	}
	if in.TotalCopies != nil {
		b.TotalCopies = *in.TotalCopies
	}
	b.AvailableCopies = b.TotalCopies
	if in.AvailableCopies != nil {
		b.AvailableCopies = *in.AvailableCopies
	}
	if err := checkCopies(b); err != nil {
		return Book{}, err
	}

	if _, err := s.repo.GetByISBN(ctx, b.ISBN); err == nil {
		return Book{}, fmt.Errorf("%w: %s", ErrDuplicateISBN, b.ISBN)
	} else if !errors.Is(err, ErrNotFound) {
		return Book{}, err
	}

	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update replaces the mutable fields of an existing book. Copy counts left
// nil keep the values of the locked row, so lending changes made since the
// client last read the book survive.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Book, error) {
	isbn := strings.TrimSpace(in.ISBN)
	return s.repo.Update(ctx, id, func(b *Book) error {
		if isbn != b.ISBN {
			other, err := s.repo.GetByISBN(ctx, isbn)
			switch {
			case err == nil && other.ID != id:
				return fmt.Errorf("%w: %s", ErrDuplicateISBN, isbn)
			case err != nil && !errors.Is(err, ErrNotFound):
				return err
			}
		}

		b.ISBN = isbn
		b.Title = strings.TrimSpace(in.Title)
		b.Author = strings.TrimSpace(in.Author)
		b.Category = strings.TrimSpace(in.Category)
		b.PublicationYear = in.PublicationYear
		if in.TotalCopies != nil {
			b.TotalCopies = *in.TotalCopies
		}
		if in.AvailableCopies != nil {
			b.AvailableCopies = *in.AvailableCopies
		}
		return checkCopies(*b)
	})
}

// Delete removes a book. Missing books yield ErrNotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Search matches title or author case-insensitively. A blank term lists all
// books.
func (s *Service) Search(ctx context.Context, term string) ([]Book, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, term)
}

// IsAvailable reports whether the book exists and has a copy on the shelf.
func (s *Service) IsAvailable(ctx context.Context, id int64) (bool, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return b.IsAvailable(), nil
}

func checkCopies(b Book) error {
	if b.TotalCopies < 1 || b.AvailableCopies < 0 || b.AvailableCopies > b.TotalCopies {
		return fmt.Errorf("%w (total=%d, available=%d)", ErrInvalidCopies, b.TotalCopies, b.AvailableCopies)
	}
	return nil
}
