package lending

import (
	"context"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/member"
)

// Repository defines the contract for transaction storage.
type Repository interface {
	List(ctx context.Context) ([]Transaction, error)
	GetByID(ctx context.Context, id int64) (Transaction, error)
	ListByMember(ctx context.Context, memberID int64) ([]Transaction, error)
	ListByBook(ctx context.Context, bookID int64) ([]Transaction, error)
	ListActive(ctx context.Context) ([]Transaction, error)
	ListOverdue(ctx context.Context, today time.Time) ([]Transaction, error)

	// WithinTx runs fn inside one database transaction. fn's writes are
	// committed only if it returns nil.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
}

// TxRepository is the set of row-locking reads and writes available inside
// WithinTx.
type TxRepository interface {
	// LockBook reads a book and holds its row until the transaction ends.
	LockBook(ctx context.Context, id int64) (book.Book, error)
	GetMember(ctx context.Context, id int64) (member.Member, error)
	// LockTransaction reads a transaction and holds its row.
	LockTransaction(ctx context.Context, id int64) (Transaction, error)
	Insert(ctx context.Context, t *Transaction) error
	SaveReturn(ctx context.Context, t *Transaction) error
	AdjustAvailableCopies(ctx context.Context, bookID int64, delta int) error
}
