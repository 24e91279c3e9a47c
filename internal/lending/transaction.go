package lending

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a transaction, or the book or member it
	// refers to, does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoCopiesAvailable is returned when every copy of a book is lent out.
	ErrNoCopiesAvailable = errors.New("no copies available")
	// ErrMemberInactive is returned when an inactive member tries to borrow.
	ErrMemberInactive = errors.New("member account is inactive")
	// ErrAlreadyReturned is returned when closing a transaction twice.
	ErrAlreadyReturned = errors.New("book has already been returned")
	// ErrInvalidLoanPeriod is returned for loan periods shorter than a day.
	ErrInvalidLoanPeriod = errors.New("loan period must be at least 1 day")
)

// Status is the lifecycle state of a transaction.
type Status string

const (
	StatusIssued   Status = "ISSUED"
	StatusReturned Status = "RETURNED"
	StatusOverdue  Status = "OVERDUE"
)

// DailyFine is charged for each day a book is returned late.
var DailyFine = decimal.NewFromInt(5)

func init() {
	// Fines travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction records one copy of a book lent to one member.
type Transaction struct {
	ID         int64           `json:"id"`
	BookID     int64           `json:"book_id"`
	MemberID   int64           `json:"member_id"`
	IssueDate  time.Time       `json:"issue_date"`
	DueDate    time.Time       `json:"due_date"`
	ReturnDate *time.Time      `json:"return_date"`
	FineAmount decimal.Decimal `json:"fine_amount"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// IsOpen reports whether the copy is still out.
func (t Transaction) IsOpen() bool {
	return t.Status == StatusIssued
}

// IsOverdueOn reports whether an open transaction is past due on day.
func (t Transaction) IsOverdueOn(day time.Time) bool {
	return t.IsOpen() && t.DueDate.Before(day)
}

// FineFor returns the fine owed when returning on a date daysLate days after
// the due date. Early and on-time returns owe nothing.
func FineFor(daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	return DailyFine.Mul(decimal.NewFromInt(int64(daysLate)))
}
