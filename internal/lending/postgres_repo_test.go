package lending

import (
	"context"
	"sync"
	"testing"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/member"
	"libraryapi/internal/platform/clock"
	"libraryapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListQueries(t *testing.T) {
	query, args, err := allQuery().toSQL()
	require.NoError(t, err)
	assert.Contains(t, query, `FROM "transactions"`)
	assert.Contains(t, query, `ORDER BY "created_at" DESC, "id" DESC`)
	assert.Empty(t, args)

	query, args, err = byMemberQuery(42).toSQL()
	require.NoError(t, err)
	assert.Contains(t, query, `"member_id" = $1`)
	assert.Equal(t, []interface{}{int64(42)}, args)

	query, _, err = activeQuery().toSQL()
	require.NoError(t, err)
	assert.Contains(t, query, `"status" = $1`)
	assert.Contains(t, query, `ORDER BY "due_date" ASC, "id" ASC`)

	today := testutil.Date(2025, time.March, 3)
	query, args, err = overdueQuery(today).toSQL()
	require.NoError(t, err)
	assert.Contains(t, query, `"due_date" < $2`)
	assert.Equal(t, []interface{}{"ISSUED", today}, args)
}

func TestPostgresRepo_Workflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	books := book.NewPostgresRepo(db, 3*time.Second)
	members := member.NewPostgresRepo(db, 3*time.Second)
	repo := NewPostgresRepo(db, 3*time.Second)

	b := &book.Book{ISBN: "9780547928227", Title: "The Hobbit", Author: "J.R.R. Tolkien", TotalCopies: 2, AvailableCopies: 2}
	require.NoError(t, books.Create(ctx, b))
	m := &member.Member{MemberID: "M-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		MembershipDate: testutil.Date(2024, time.January, 1), IsActive: true}
	require.NoError(t, members.Create(ctx, m))

	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, clock.New(func() time.Time { return now }, time.UTC), zap.NewNop())

	var wg sync.WaitGroup
	results := make([]error, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.IssueBook(ctx, b.ID, m.ID, 14)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrNoCopiesAvailable)
	}
	assert.Equal(t, 2, succeeded)

	stored, err := books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableCopies)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)

	now = now.AddDate(0, 0, 34)
	returned, err := svc.ReturnBook(ctx, active[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, returned.Status)
	assert.Equal(t, "100.00", returned.FineAmount.StringFixed(2))

	reloaded, err := repo.GetByID(ctx, returned.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, reloaded.Status)
	assert.Equal(t, "100.00", reloaded.FineAmount.StringFixed(2))
	require.NotNil(t, reloaded.ReturnDate)

	_, err = svc.ReturnBook(ctx, returned.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)

	overdue, err := svc.ListOverdue(ctx)
	require.NoError(t, err)
	assert.Len(t, overdue, 1)

	assert.ErrorIs(t, books.Delete(ctx, b.ID), book.ErrHasTransactions)
}
