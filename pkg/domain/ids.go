package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "lendmatch/pkg/domain-errors"
)

// Typed identifiers keep lender, borrower and policy version references from
// being mixed up at compile time. Construct them with the Parse* functions at
// trust boundaries; direct conversion skips validation.
type (
	LenderID   uuid.UUID
	BorrowerID uuid.UUID
	VersionID  uuid.UUID
)

func NewLenderID() LenderID     { return LenderID(uuid.New()) }
func NewBorrowerID() BorrowerID { return BorrowerID(uuid.New()) }
func NewVersionID() VersionID   { return VersionID(uuid.New()) }

func ParseLenderID(s string) (LenderID, error) {
	id, err := parseUUID(s, "lender ID")
	return LenderID(id), err
}

func ParseBorrowerID(s string) (BorrowerID, error) {
	id, err := parseUUID(s, "borrower ID")
	return BorrowerID(id), err
}

// ParseVersionID parses a policy version identifier. An empty string is an
// error; callers that treat the version as optional check for "" first.
func ParseVersionID(s string) (VersionID, error) {
	id, err := parseUUID(s, "version ID")
	return VersionID(id), err
}

func (id LenderID) String() string   { return uuid.UUID(id).String() }
func (id BorrowerID) String() string { return uuid.UUID(id).String() }
func (id VersionID) String() string  { return uuid.UUID(id).String() }

func (id LenderID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id BorrowerID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id VersionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

func (id LenderID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id BorrowerID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id VersionID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

// UnmarshalText accepts any UUID including the nil UUID so optional
// references such as a first snapshot's base version round-trip.
func (id *LenderID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid lender ID")
	}
	*id = LenderID(u)
	return nil
}

func (id *BorrowerID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid borrower ID")
	}
	*id = BorrowerID(u)
	return nil
}

func (id *VersionID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid version ID")
	}
	*id = VersionID(u)
	return nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return id, nil
}
