package models

import (
	"time"

	"github.com/shopspring/decimal"

	"lendmatch/internal/fields"
	id "lendmatch/pkg/domain"
	strutil "lendmatch/pkg/platform/strings"
)

// Rule is a single comparison of a borrower attribute against an operand.
type Rule struct {
	FieldKey      string       `json:"field_key"`
	Operator      Operator     `json:"operator"`
	Operand       fields.Value `json:"operand"`
	Strict        bool         `json:"strict"`
	FailureReason string       `json:"failure_reason"`
}

// Program is a named lending product: a loan-amount window plus ordered rules.
//
// Invariants:
//   - MinLoanAmount <= MaxLoanAmount
//   - an empty rule list matches every borrower inside the window
type Program struct {
	Name          string          `json:"name"`
	MinLoanAmount decimal.Decimal `json:"min_loan_amount"`
	MaxLoanAmount decimal.Decimal `json:"max_loan_amount"`
	Rules         []Rule          `json:"rules"`
}

// Covers reports whether amount falls inside the inclusive window.
func (p Program) Covers(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(p.MinLoanAmount) && amount.LessThanOrEqual(p.MaxLoanAmount)
}

// Policy is a lender's complete rule set.
//
// IsActive is derived from the program list when a snapshot is created and
// cannot be set independently.
type Policy struct {
	LenderID           id.LenderID `json:"lender_id"`
	ExcludedIndustries []string    `json:"excluded_industries"`
	RestrictedStates   []string    `json:"restricted_states"`
	Programs           []Program   `json:"programs"`
	IsActive           bool        `json:"is_active"`
}

// Draft is a full policy document submitted for saving. Every save replaces
// the whole document.
type Draft struct {
	ExcludedIndustries []string  `json:"excluded_industries"`
	RestrictedStates   []string  `json:"restricted_states"`
	Programs           []Program `json:"programs"`
}

// Snapshot is one immutable version of a lender's policy.
type Snapshot struct {
	VersionID   id.VersionID `json:"version_id"`
	LenderID    id.LenderID  `json:"lender_id"`
	BaseVersion id.VersionID `json:"base_version"`
	CreatedAt   time.Time    `json:"created_at"`
	Policy      Policy       `json:"policy"`
}

// NewSnapshot freezes a validated draft as the next version for lenderID.
func NewSnapshot(lenderID id.LenderID, base id.VersionID, draft Draft, now time.Time) *Snapshot {
	return &Snapshot{
		VersionID:   id.NewVersionID(),
		LenderID:    lenderID,
		BaseVersion: base,
		CreatedAt:   now,
		Policy: Policy{
			LenderID:           lenderID,
			ExcludedIndustries: cloneStrings(draft.ExcludedIndustries),
			RestrictedStates:   cloneStrings(draft.RestrictedStates),
			Programs:           clonePrograms(draft.Programs),
			IsActive:           len(draft.Programs) > 0,
		},
	}
}

// Draft returns the snapshot's policy as an editable draft.
func (s *Snapshot) Draft() Draft {
	return Draft{
		ExcludedIndustries: cloneStrings(s.Policy.ExcludedIndustries),
		RestrictedStates:   cloneStrings(s.Policy.RestrictedStates),
		Programs:           clonePrograms(s.Policy.Programs),
	}
}

// HistoryEntry summarizes a snapshot for history listings.
type HistoryEntry struct {
	VersionID    id.VersionID `json:"version_id"`
	CreatedAt    time.Time    `json:"created_at"`
	ProgramCount int          `json:"program_count"`
	IsActive     bool         `json:"is_active"`
}

func (s *Snapshot) Summary() HistoryEntry {
	return HistoryEntry{
		VersionID:    s.VersionID,
		CreatedAt:    s.CreatedAt,
		ProgramCount: len(s.Policy.Programs),
		IsActive:     s.Policy.IsActive,
	}
}

// Merge folds an extracted partial policy into the draft: industries and
// states are set-unioned, programs appended.
func (d Draft) Merge(extracted Draft) Draft {
	return Draft{
		ExcludedIndustries: strutil.UnionUpper(d.ExcludedIndustries, extracted.ExcludedIndustries),
		RestrictedStates:   strutil.UnionUpper(d.RestrictedStates, extracted.RestrictedStates),
		Programs:           append(clonePrograms(d.Programs), clonePrograms(extracted.Programs)...),
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func clonePrograms(in []Program) []Program {
	out := make([]Program, len(in))
	for i, p := range in {
		rules := make([]Rule, len(p.Rules))
		copy(rules, p.Rules)
		p.Rules = rules
		out[i] = p
	}
	return out
}
