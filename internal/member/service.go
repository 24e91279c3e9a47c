package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"libraryapi/internal/platform/clock"
)

// Service provides member directory business logic.
type Service struct {
	repo  Repository
	clock clock.Clock
}

// NewService creates a member service. c supplies the default membership date.
func NewService(repo Repository, c clock.Clock) *Service {
	return &Service{repo: repo, clock: c}
}

func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListActive(ctx context.Context) ([]Member, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByMemberID(ctx context.Context, memberID string) (Member, error) {
	return s.repo.GetByMemberID(ctx, strings.TrimSpace(memberID))
}

func (s *Service) GetByEmail(ctx context.Context, email string) (Member, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

// Create registers a member. Membership date defaults to today and the
// member starts active unless told otherwise.
func (s *Service) Create(ctx context.Context, in Input) (Member, error) {
	m := Member{
		MembershipDate: s.clock.Today(),
		IsActive:       true,
	}
	apply(&m, in)
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}

	if err := s.checkUnique(ctx, 0, m); err != nil {
		return Member{}, err
	}
	if err := s.repo.Create(ctx, &m); err != nil {
		return Member{}, err
	}
	return m, nil
}

// Update replaces the mutable fields of an existing member. A nil
// membership date or active flag keeps the stored value.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Member{}, err
	}
	apply(&m, in)
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}

	if err := s.checkUnique(ctx, id, m); err != nil {
		return Member{}, err
	}
	if err := s.repo.Update(ctx, &m); err != nil {
		return Member{}, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Deactivate blocks the member from borrowing.
func (s *Service) Deactivate(ctx context.Context, id int64) (Member, error) {
	return s.setActive(ctx, id, false)
}

// Activate re-enables borrowing.
func (s *Service) Activate(ctx context.Context, id int64) (Member, error) {
	return s.setActive(ctx, id, true)
}

func (s *Service) setActive(ctx context.Context, id int64, active bool) (Member, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return Member{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Search matches first name, last name or email case-insensitively. A blank
// term lists all members.
func (s *Service) Search(ctx context.Context, term string) ([]Member, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, term)
}

// checkUnique rejects a member_id or email held by a member other than self.
func (s *Service) checkUnique(ctx context.Context, self int64, m Member) error {
	other, err := s.repo.GetByMemberID(ctx, m.MemberID)
	switch {
	case err == nil && other.ID != self:
		return fmt.Errorf("%w: %s", ErrDuplicateMemberID, m.MemberID)
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}

	other, err = s.repo.GetByEmail(ctx, m.Email)
	switch {
	case err == nil && other.ID != self:
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, m.Email)
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}
	return nil
}

func apply(m *Member, in Input) {
	m.MemberID = strings.TrimSpace(in.MemberID)
	m.FirstName = strings.TrimSpace(in.FirstName)
	m.LastName = strings.TrimSpace(in.LastName)
	m.Email = normalizeEmail(in.Email)
	m.Phone = strings.TrimSpace(in.Phone)
	m.Address = strings.TrimSpace(in.Address)
	if in.MembershipDate != nil {
		m.MembershipDate = clock.Date(*in.MembershipDate)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
