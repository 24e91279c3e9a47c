package lending

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/member"
)

// memoryRepo is an in-memory Repository. WithinTx serializes callers and
// restores a snapshot when fn fails.
type memoryRepo struct {
	mu      sync.Mutex
	books   map[int64]book.Book
	members map[int64]member.Member
	txs     map[int64]Transaction
	nextID  int64

	failInsert error
	failAdjust error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		books:   map[int64]book.Book{},
		members: map[int64]member.Member{},
		txs:     map[int64]Transaction{},
	}
}

func (r *memoryRepo) addBook(b book.Book) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[b.ID] = b
}

func (r *memoryRepo) addMember(m member.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[m.ID] = m
}

func (r *memoryRepo) removeBook(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
}

func (r *memoryRepo) book(id int64) book.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.books[id]
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.txs)
}

func (r *memoryRepo) filter(keep func(Transaction) bool, less func(a, b Transaction) int) []Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Transaction, 0)
	for _, t := range r.txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, less)
	return out
}

func newestFirstCmp(a, b Transaction) int {
	return int(b.ID - a.ID)
}

func soonestDueCmp(a, b Transaction) int {
	if c := a.DueDate.Compare(b.DueDate); c != 0 {
		return c
	}
	return int(a.ID - b.ID)
}

func (r *memoryRepo) List(context.Context) ([]Transaction, error) {
	return r.filter(func(Transaction) bool { return true }, newestFirstCmp), nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txs[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return t, nil
}

func (r *memoryRepo) ListByMember(_ context.Context, memberID int64) ([]Transaction, error) {
	return r.filter(func(t Transaction) bool { return t.MemberID == memberID }, newestFirstCmp), nil
}

func (r *memoryRepo) ListByBook(_ context.Context, bookID int64) ([]Transaction, error) {
	return r.filter(func(t Transaction) bool { return t.BookID == bookID }, newestFirstCmp), nil
}

func (r *memoryRepo) ListActive(context.Context) ([]Transaction, error) {
	return r.filter(Transaction.IsOpen, soonestDueCmp), nil
}

func (r *memoryRepo) ListOverdue(_ context.Context, today time.Time) ([]Transaction, error) {
	return r.filter(func(t Transaction) bool { return t.IsOverdueOn(today) }, soonestDueCmp), nil
}

func (r *memoryRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, txs, nextID := maps.Clone(r.books), maps.Clone(r.txs), r.nextID
	if err := fn(ctx, memoryTx{r}); err != nil {
		r.books, r.txs, r.nextID = books, txs, nextID
		return err
	}
	return nil
}

// memoryTx runs with memoryRepo.mu held.
type memoryTx struct {
	r *memoryRepo
}

func (m memoryTx) LockBook(_ context.Context, id int64) (book.Book, error) {
	b, ok := m.r.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

func (m memoryTx) GetMember(_ context.Context, id int64) (member.Member, error) {
	mem, ok := m.r.members[id]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	return mem, nil
}

func (m memoryTx) LockTransaction(_ context.Context, id int64) (Transaction, error) {
	t, ok := m.r.txs[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return t, nil
}

func (m memoryTx) Insert(_ context.Context, t *Transaction) error {
	m.r.nextID++
	t.ID = m.r.nextID
	t.CreatedAt = t.IssueDate
	m.r.txs[t.ID] = *t
	return m.r.failInsert
}

func (m memoryTx) SaveReturn(_ context.Context, t *Transaction) error {
	if stored := m.r.txs[t.ID]; !stored.IsOpen() {
		return ErrAlreadyReturned
	}
	m.r.txs[t.ID] = *t
	return nil
}

func (m memoryTx) AdjustAvailableCopies(_ context.Context, bookID int64, delta int) error {
	if m.r.failAdjust != nil {
		return m.r.failAdjust
	}
	b := m.r.books[bookID]
	next := b.AvailableCopies + delta
	if next < 0 || next > b.TotalCopies {
		return fmt.Errorf("book %d: copies out of range", bookID)
	}
	b.AvailableCopies = next
	m.r.books[bookID] = b
	return nil
}
