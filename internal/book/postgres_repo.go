package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Columns is the select list matching ScanRow.
const Columns = `id, isbn, title, author, category, publication_year,
	total_copies, available_copies, created_at, updated_at`

// ScanRow reads a row selected with Columns.
func ScanRow(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Category, &b.PublicationYear,
		&b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	const query = `SELECT ` + Columns + ` FROM books ORDER BY title, id`
	return r.query(ctx, query)
}

func (r *PostgresRepo) Search(ctx context.Context, term string) ([]Book, error) {
	const query = `
		SELECT ` + Columns + `
		FROM books
		WHERE title ILIKE $1 OR author ILIKE $1
		ORDER BY title, id`
	return r.query(ctx, query, postgres.ContainsPattern(term))
}

func (r *PostgresRepo) query(ctx context.Context, query string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Book, 0)
	for rows.Next() {
		b, err := ScanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `SELECT ` + Columns + ` FROM books WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return ScanRow(r.db.QueryRow(timeoutCtx, query, id))
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	const query = `SELECT ` + Columns + ` FROM books WHERE isbn = $1 LIMIT 1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return ScanRow(r.db.QueryRow(timeoutCtx, query, isbn))
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (isbn, title, author, category, publication_year, total_copies, available_copies)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.ISBN, b.Title, b.Author, b.Category, b.PublicationYear, b.TotalCopies, b.AvailableCopies,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return translateWriteError(err, b.ISBN)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, apply func(*Book) error) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Book{}, err
	}
	defer tx.Rollback(timeoutCtx)

	b, err := ScanRow(tx.QueryRow(timeoutCtx, `SELECT `+Columns+` FROM books WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return Book{}, err
	}
	if err := apply(&b); err != nil {
		return Book{}, err
	}

	const query = `
		UPDATE books
		SET isbn = $1, title = $2, author = $3, category = $4, publication_year = $5,
		    total_copies = $6, available_copies = $7, updated_at = now()
		WHERE id = $8
		RETURNING updated_at`
	err = tx.QueryRow(timeoutCtx, query,
		b.ISBN, b.Title, b.Author, b.Category, b.PublicationYear, b.TotalCopies, b.AvailableCopies, b.ID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		return Book{}, translateWriteError(err, b.ISBN)
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return Book{}, fmt.Errorf("commit book update: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		if postgres.ForeignKeyViolation(err) {
			return fmt.Errorf("%w: book %d", ErrHasTransactions, id)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translateWriteError(err error, isbn string) error {
	if err == nil {
		return nil
	}
	if _, ok := postgres.UniqueViolation(err); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateISBN, isbn)
	}
	if postgres.CheckViolation(err) {
		return ErrInvalidCopies
	}
	return err
}
