package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/platform/postgres"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dialectPostgres = "postgres"
	tableMembers    = "members"

	constraintMemberID = "members_member_id_key"
	constraintEmail    = "members_email_key"
)

// Columns is the select list matching ScanRow.
const Columns = `id, member_id, first_name, last_name, email, phone, address,
	membership_date, is_active, created_at, updated_at`

var columnList = []interface{}{
	"id", "member_id", "first_name", "last_name", "email", "phone", "address",
	"membership_date", "is_active", "created_at", "updated_at",
}

// ScanRow reads a row selected with Columns.
func ScanRow(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(
		&m.ID, &m.MemberID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Address,
		&m.MembershipDate, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	return m, nil
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

// selectMembers builds the ordered member listing, optionally filtered.
func selectMembers(where ...exp.Expression) (string, []interface{}, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(tableMembers).
		Select(columnList...).
		Order(goqu.I("first_name").Asc(), goqu.I("last_name").Asc(), goqu.I("id").Asc())
	if len(where) > 0 {
		stmt = stmt.Where(where...)
	}
	return stmt.Prepared(true).ToSQL()
}

// searchExpression matches term inside first name, last name or email.
func searchExpression(term string) exp.Expression {
	pattern := postgres.ContainsPattern(term)
	return goqu.Or(
		goqu.C("first_name").ILike(pattern),
		goqu.C("last_name").ILike(pattern),
		goqu.C("email").ILike(pattern),
	)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Member, error) {
	return r.list(ctx)
}

func (r *PostgresRepo) ListActive(ctx context.Context) ([]Member, error) {
	return r.list(ctx, goqu.C("is_active").IsTrue())
}

func (r *PostgresRepo) Search(ctx context.Context, term string) ([]Member, error) {
	return r.list(ctx, searchExpression(term))
}

func (r *PostgresRepo) list(ctx context.Context, where ...exp.Expression) ([]Member, error) {
	query, args, err := selectMembers(where...)
	if err != nil {
		return nil, fmt.Errorf("build member query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Member, 0)
	for rows.Next() {
		m, err := ScanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Member, error) {
	return r.getOne(ctx, `SELECT `+Columns+` FROM members WHERE id = $1`, id)
}

func (r *PostgresRepo) GetByMemberID(ctx context.Context, memberID string) (Member, error) {
	return r.getOne(ctx, `SELECT `+Columns+` FROM members WHERE member_id = $1 LIMIT 1`, memberID)
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (Member, error) {
	return r.getOne(ctx, `SELECT `+Columns+` FROM members WHERE lower(email) = lower($1) LIMIT 1`, email)
}

func (r *PostgresRepo) getOne(ctx context.Context, query string, arg any) (Member, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return ScanRow(r.db.QueryRow(timeoutCtx, query, arg))
}

func (r *PostgresRepo) Create(ctx context.Context, m *Member) error {
	const query = `
		INSERT INTO members (member_id, first_name, last_name, email, phone, address, membership_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		m.MemberID, m.FirstName, m.LastName, m.Email, m.Phone, m.Address, m.MembershipDate, m.IsActive,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return translateWriteError(err, m)
}

func (r *PostgresRepo) Update(ctx context.Context, m *Member) error {
	const query = `
		UPDATE members
		SET member_id = $1, first_name = $2, last_name = $3, email = $4, phone = $5,
		    address = $6, membership_date = $7, is_active = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		m.MemberID, m.FirstName, m.LastName, m.Email, m.Phone, m.Address, m.MembershipDate, m.IsActive, m.ID,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return translateWriteError(err, m)
}

func (r *PostgresRepo) SetActive(ctx context.Context, id int64, active bool) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx,
		`UPDATE members SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		if postgres.ForeignKeyViolation(err) {
			return fmt.Errorf("%w: member %d", ErrHasTransactions, id)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translateWriteError(err error, m *Member) error {
	if err == nil {
		return nil
	}
	constraint, ok := postgres.UniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case constraintEmail:
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, m.Email)
	case constraintMemberID:
		return fmt.Errorf("%w: %s", ErrDuplicateMemberID, m.MemberID)
	}
	return err
}
