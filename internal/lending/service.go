package lending

import (
	"context"
	"errors"
	"fmt"

	"libraryapi/internal/book"
	"libraryapi/internal/member"
	"libraryapi/internal/platform/clock"

	"go.uber.org/zap"
)

// Service runs the issue and return workflow.
type Service struct {
	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, c clock.Clock, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, clock: c, logger: logger}
}

// IssueBook lends one copy of bookID to memberID for loanPeriodDays days.
// The book row is locked for the duration so concurrent issues of the last
// copy cannot both succeed.
func (s *Service) IssueBook(ctx context.Context, bookID, memberID int64, loanPeriodDays int) (Transaction, error) {
	if loanPeriodDays < 1 {
		return Transaction{}, fmt.Errorf("%w: got %d", ErrInvalidLoanPeriod, loanPeriodDays)
	}
	today := s.clock.Today()

	var issued Transaction
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx TxRepository) error {
		b, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return notFound(err, "book", bookID)
		}
		if !b.IsAvailable() {
			return fmt.Errorf("%w for book: %s", ErrNoCopiesAvailable, b.Title)
		}

		m, err := tx.GetMember(ctx, memberID)
		if err != nil {
			return notFound(err, "member", memberID)
		}
		if !m.IsActive {
			return fmt.Errorf("%w: %s", ErrMemberInactive, m.FullName())
		}

		t := Transaction{
			BookID:     bookID,
			MemberID:   memberID,
			IssueDate:  today,
			DueDate:    today.AddDate(0, 0, loanPeriodDays),
			FineAmount: FineFor(0),
			Status:     StatusIssued,
		}
		if err := tx.Insert(ctx, &t); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		if err := tx.AdjustAvailableCopies(ctx, bookID, -1); err != nil {
			return fmt.Errorf("decrement copies: %w", err)
		}
		issued = t
		return nil
	})
	if err != nil {
		return Transaction{}, err
	}

	s.logger.Info("book issued",
		zap.Int64("transaction_id", issued.ID),
		zap.Int64("book_id", bookID),
		zap.Int64("member_id", memberID),
		zap.Time("due_date", issued.DueDate),
	)
	return issued, nil
}

// ReturnBook closes an open transaction, charging DailyFine for each day
// past the due date, and puts the copy back on the shelf.
func (s *Service) ReturnBook(ctx context.Context, transactionID int64) (Transaction, error) {
	today := s.clock.Today()

	var returned Transaction
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx TxRepository) error {
		t, err := tx.LockTransaction(ctx, transactionID)
		if err != nil {
			return notFound(err, "transaction", transactionID)
		}
		if !t.IsOpen() {
			return fmt.Errorf("%w: transaction %d is %s", ErrAlreadyReturned, t.ID, t.Status)
		}

		returnDate := today
		t.ReturnDate = &returnDate
		daysLate := clock.DaysBetween(t.DueDate, today)
		t.FineAmount = FineFor(daysLate)
		if daysLate > 0 {
			t.Status = StatusOverdue
		} else {
			t.Status = StatusReturned
		}
		if err := tx.SaveReturn(ctx, &t); err != nil {
			return fmt.Errorf("save return: %w", err)
		}

		b, err := tx.LockBook(ctx, t.BookID)
		if err != nil {
			return notFound(err, "book", t.BookID)
		}
		if b.AvailableCopies < b.TotalCopies {
			if err := tx.AdjustAvailableCopies(ctx, b.ID, 1); err != nil {
				return fmt.Errorf("increment copies: %w", err)
			}
		} else {
			s.logger.Warn("book already fully stocked on return",
				zap.Int64("book_id", b.ID),
				zap.Int("total_copies", b.TotalCopies),
			)
		}
		returned = t
		return nil
	})
	if err != nil {
		return Transaction{}, err
	}

	s.logger.Info("book returned",
		zap.Int64("transaction_id", returned.ID),
		zap.Int64("book_id", returned.BookID),
		zap.String("status", string(returned.Status)),
		zap.String("fine", returned.FineAmount.StringFixed(2)),
	)
	return returned, nil
}

func (s *Service) List(ctx context.Context) ([]Transaction, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByMember(ctx context.Context, memberID int64) ([]Transaction, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func (s *Service) ListByBook(ctx context.Context, bookID int64) ([]Transaction, error) {
	return s.repo.ListByBook(ctx, bookID)
}

// ListActive returns every open transaction, soonest due first.
func (s *Service) ListActive(ctx context.Context) ([]Transaction, error) {
	return s.repo.ListActive(ctx)
}

// ListOverdue returns open transactions whose due date has passed.
func (s *Service) ListOverdue(ctx context.Context) ([]Transaction, error) {
	return s.repo.ListOverdue(ctx, s.clock.Today())
}

// notFound folds the entity packages' not-found errors into ErrNotFound.
func notFound(err error, what string, id int64) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, book.ErrNotFound) || errors.Is(err, member.ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	return err
}
