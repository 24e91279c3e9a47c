package member

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=member

// Repository defines the contract for member data storage.
type Repository interface {
	List(ctx context.Context) ([]Member, error)
	ListActive(ctx context.Context) ([]Member, error)
	Search(ctx context.Context, term string) ([]Member, error)
	GetByID(ctx context.Context, id int64) (Member, error)
	GetByMemberID(ctx context.Context, memberID string) (Member, error)
	GetByEmail(ctx context.Context, email string) (Member, error)
	Create(ctx context.Context, mem *Member) error
	Update(ctx context.Context, mem *Member) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}
