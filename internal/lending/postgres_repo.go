package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/member"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dialectPostgres   = "postgres"
	tableTransactions = "transactions"

	colID        = "id"
	colBookID    = "book_id"
	colMemberID  = "member_id"
	colIssueDate = "issue_date"
	colDueDate   = "due_date"
	colStatus    = "status"
	colCreatedAt = "created_at"
)

const columns = `id, book_id, member_id, issue_date, due_date, return_date, fine_amount, status, created_at`

var columnList = []interface{}{
	colID, colBookID, colMemberID, colIssueDate, colDueDate, "return_date", "fine_amount", colStatus, colCreatedAt,
}

func scanRow(row pgx.Row) (Transaction, error) {
	var (
		t      Transaction
		status string
	)
	err := row.Scan(
		&t.ID, &t.BookID, &t.MemberID, &t.IssueDate, &t.DueDate, &t.ReturnDate, &t.FineAmount, &status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	t.Status = Status(status)
	return t, nil
}

// listQuery describes one of the transaction listings.
type listQuery struct {
	where []exp.Expression
	order []exp.OrderedExpression
}

var newestFirst = []exp.OrderedExpression{goqu.I(colCreatedAt).Desc(), goqu.I(colID).Desc()}

var soonestDue = []exp.OrderedExpression{goqu.I(colDueDate).Asc(), goqu.I(colID).Asc()}

func (q listQuery) toSQL() (string, []interface{}, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(tableTransactions).
		Select(columnList...).
		Order(q.order...)
	if len(q.where) > 0 {
		stmt = stmt.Where(q.where...)
	}
	return stmt.Prepared(true).ToSQL()
}

func allQuery() listQuery {
	return listQuery{order: newestFirst}
}

func byMemberQuery(memberID int64) listQuery {
	return listQuery{where: []exp.Expression{goqu.C(colMemberID).Eq(memberID)}, order: newestFirst}
}

func byBookQuery(bookID int64) listQuery {
	return listQuery{where: []exp.Expression{goqu.C(colBookID).Eq(bookID)}, order: newestFirst}
}

func activeQuery() listQuery {
	return listQuery{where: []exp.Expression{goqu.C(colStatus).Eq(string(StatusIssued))}, order: soonestDue}
}

func overdueQuery(today time.Time) listQuery {
	return listQuery{
		where: []exp.Expression{
			goqu.C(colStatus).Eq(string(StatusIssued)),
			goqu.C(colDueDate).Lt(today),
		},
		order: soonestDue,
	}
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

func (r *PostgresRepo) List(ctx context.Context) ([]Transaction, error) {
	return r.list(ctx, allQuery())
}

func (r *PostgresRepo) ListByMember(ctx context.Context, memberID int64) ([]Transaction, error) {
	return r.list(ctx, byMemberQuery(memberID))
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID int64) ([]Transaction, error) {
	return r.list(ctx, byBookQuery(bookID))
}

func (r *PostgresRepo) ListActive(ctx context.Context) ([]Transaction, error) {
	return r.list(ctx, activeQuery())
}

func (r *PostgresRepo) ListOverdue(ctx context.Context, today time.Time) ([]Transaction, error) {
	return r.list(ctx, overdueQuery(today))
}

func (r *PostgresRepo) list(ctx context.Context, q listQuery) ([]Transaction, error) {
	query, args, err := q.toSQL()
	if err != nil {
		return nil, fmt.Errorf("build transaction query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Transaction, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanRow(r.db.QueryRow(timeoutCtx, `SELECT `+columns+` FROM transactions WHERE id = $1`, id))
}

// WithinTx begins a transaction, hands fn a row-locking repository bound to
// it, and commits when fn succeeds. Any error rolls everything back.
func (r *PostgresRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(timeoutCtx) }()

	if err := fn(timeoutCtx, &pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (p *pgTx) LockBook(ctx context.Context, id int64) (book.Book, error) {
	return book.ScanRow(p.tx.QueryRow(ctx, `SELECT `+book.Columns+` FROM books WHERE id = $1 FOR UPDATE`, id))
}

func (p *pgTx) GetMember(ctx context.Context, id int64) (member.Member, error) {
	return member.ScanRow(p.tx.QueryRow(ctx, `SELECT `+member.Columns+` FROM members WHERE id = $1`, id))
}

func (p *pgTx) LockTransaction(ctx context.Context, id int64) (Transaction, error) {
	return scanRow(p.tx.QueryRow(ctx, `SELECT `+columns+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
}

func (p *pgTx) Insert(ctx context.Context, t *Transaction) error {
	const query = `
		INSERT INTO transactions (book_id, member_id, issue_date, due_date, return_date, fine_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return p.tx.QueryRow(ctx, query,
		t.BookID, t.MemberID, t.IssueDate, t.DueDate, t.ReturnDate, t.FineAmount, string(t.Status),
	).Scan(&t.ID, &t.CreatedAt)
}

func (p *pgTx) SaveReturn(ctx context.Context, t *Transaction) error {
	const query = `
		UPDATE transactions
		SET return_date = $1, fine_amount = $2, status = $3
		WHERE id = $4 AND status = 'ISSUED'`
	tag, err := p.tx.Exec(ctx, query, t.ReturnDate, t.FineAmount, string(t.Status), t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyReturned
	}
	return nil
}

func (p *pgTx) AdjustAvailableCopies(ctx context.Context, bookID int64, delta int) error {
	const query = `
		UPDATE books
		SET available_copies = available_copies + $1, updated_at = now()
		WHERE id = $2 AND available_copies + $1 BETWEEN 0 AND total_copies`
	tag, err := p.tx.Exec(ctx, query, delta, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if delta < 0 {
			return ErrNoCopiesAvailable
		}
		return fmt.Errorf("book %d: available copies would exceed total", bookID)
	}
	return nil
}
