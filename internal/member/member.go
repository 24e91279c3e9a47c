package member

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a member is not found.
	ErrNotFound = errors.New("member not found")
	// ErrDuplicateMemberID is returned when the membership number is taken.
	ErrDuplicateMemberID = errors.New("member with this member ID already exists")
	// ErrDuplicateEmail is returned when the email is taken.
	ErrDuplicateEmail = errors.New("member with this email already exists")
	// ErrHasTransactions is returned when deleting a member with lending history.
	ErrHasTransactions = errors.New("member has lending transactions")
)

// Member is a registered library patron.
type Member struct {
	ID             int64     `json:"id"`
	MemberID       string    `json:"member_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	MembershipDate time.Time `json:"membership_date"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName joins first and last name.
func (m Member) FullName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// Input carries the mutable fields of a member for create and update.
type Input struct {
	MemberID       string     `json:"member_id" validate:"required,max=50"`
	FirstName      string     `json:"first_name" validate:"required,max=100"`
	LastName       string     `json:"last_name" validate:"required,max=100"`
	Email          string     `json:"email" validate:"required,email,max=255"`
	Phone          string     `json:"phone" validate:"max=30"`
	Address        string     `json:"address" validate:"max=500"`
	MembershipDate *time.Time `json:"membership_date"`
	IsActive       *bool      `json:"is_active"`
}
