package member

import (
	"context"
	"testing"
	"time"

	"libraryapi/internal/testutil"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectMembers(t *testing.T) {
	query, args, err := selectMembers()
	require.NoError(t, err)
	assert.Contains(t, query, `FROM "members"`)
	assert.Contains(t, query, `ORDER BY "first_name" ASC, "last_name" ASC, "id" ASC`)
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)

	query, args, err = selectMembers(searchExpression("o'brien_"))
	require.NoError(t, err)
	assert.Contains(t, query, `"first_name" ILIKE $1`)
	assert.Contains(t, query, `"email" ILIKE $3`)
	assert.Equal(t, []interface{}{`%o'brien\_%`, `%o'brien\_%`, `%o'brien\_%`}, args)

	query, _, err = selectMembers(goqu.C("is_active").IsTrue())
	require.NoError(t, err)
	assert.Contains(t, query, `"is_active" IS TRUE`)
}

func TestPostgresRepo_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()

	m := &Member{
		MemberID: "M-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		MembershipDate: testutil.Date(2024, time.January, 2), IsActive: true,
	}
	require.NoError(t, repo.Create(ctx, m))
	require.NotZero(t, m.ID)

	dup := &Member{MemberID: "M-2", FirstName: "A", LastName: "B", Email: "ada@example.com", MembershipDate: m.MembershipDate}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.MembershipDate, got.MembershipDate)

	hits, err := repo.Search(ctx, "LOVE")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	require.NoError(t, repo.SetActive(ctx, m.ID, false))
	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, repo.SetActive(ctx, 999, true), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
