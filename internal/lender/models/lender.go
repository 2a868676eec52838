package models

import (
	"strings"
	"time"

	id "lendmatch/pkg/domain"
	dErrors "lendmatch/pkg/domain-errors"
	"lendmatch/pkg/email"
)

const (
	minNameLength = 2
	maxNameLength = 128
)

// Status of a lender account.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Lender is a registered lending institution.
//
// Invariants:
//   - Name is 2 to 128 characters after trimming
//   - Email is a valid address stored in normalized (lower-case) form
//   - Deleted is terminal; a deleted lender keeps its email reserved
type Lender struct {
	ID        id.LenderID `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	DeletedAt *time.Time  `json:"deleted_at,omitempty"`
}

// NewLender validates the registration fields and builds an active lender.
func NewLender(lenderID id.LenderID, name, address string, now time.Time) (*Lender, error) {
	name = strings.TrimSpace(name)
	if n := len([]rune(name)); n < minNameLength || n > maxNameLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "lender name must be between 2 and 128 characters")
	}
	if !email.Valid(address) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "lender email is invalid")
	}
	return &Lender{
		ID:        lenderID,
		Name:      name,
		Email:     email.Normalize(address),
		Status:    StatusActive,
		CreatedAt: now,
	}, nil
}

func (l *Lender) IsActive() bool {
	return l.Status == StatusActive
}

// MarkDeleted transitions the lender to deleted.
func (l *Lender) MarkDeleted(now time.Time) error {
	if l.Status == StatusDeleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "lender is already deleted")
	}
	l.Status = StatusDeleted
	l.DeletedAt = &now
	return nil
}
