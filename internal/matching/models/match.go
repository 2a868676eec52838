package models

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	borrowermodels "lendmatch/internal/borrower/models"
	"lendmatch/internal/evaluator"
	id "lendmatch/pkg/domain"
)

// ReasonEvaluationError is recorded when evaluating a pair failed
// unexpectedly; the pair is stored as rejected.
const ReasonEvaluationError = "evaluation error"

// MatchResult is the stored evaluation of one borrower against one lender's
// policy version. A newer result for the same pair replaces the old one.
type MatchResult struct {
	BorrowerID    id.BorrowerID    `json:"borrower_id"`
	LenderID      id.LenderID      `json:"lender_id"`
	PolicyVersion id.VersionID     `json:"policy_version"`
	ProgramName   string           `json:"program_name,omitempty"`
	Status        evaluator.Status `json:"status"`
	Amount        decimal.Decimal  `json:"amount"`
	Reasons       []string         `json:"reasons"`
	EvaluatedAt   time.Time        `json:"evaluated_at"`
}

// FromOutcome records an evaluator outcome for a borrower/lender pair.
func FromOutcome(borrowerID id.BorrowerID, lenderID id.LenderID, version id.VersionID, outcome evaluator.Outcome, now time.Time) *MatchResult {
	reasons := slices.Clone(outcome.Reasons)
	if reasons == nil {
		reasons = []string{}
	}
	return &MatchResult{
		BorrowerID:    borrowerID,
		LenderID:      lenderID,
		PolicyVersion: version,
		ProgramName:   outcome.ProgramName,
		Status:        outcome.Status,
		Amount:        outcome.Amount,
		Reasons:       reasons,
		EvaluatedAt:   now,
	}
}

// IsMatch reports whether a program was selected.
func (r *MatchResult) IsMatch() bool {
	return r.Status != evaluator.StatusRejected
}

// Compare orders results by status rank, then most recent first, then by
// borrower and lender ID so listings are stable.
func Compare(a, b *MatchResult) int {
	if d := a.Status.Rank() - b.Status.Rank(); d != 0 {
		return d
	}
	if c := b.EvaluatedAt.Compare(a.EvaluatedAt); c != 0 {
		return c
	}
	if c := strings.Compare(a.BorrowerID.String(), b.BorrowerID.String()); c != 0 {
		return c
	}
	return strings.Compare(a.LenderID.String(), b.LenderID.String())
}

// Sort orders results in place with Compare.
func Sort(results []*MatchResult) {
	slices.SortFunc(results, Compare)
}

// LenderMatchView is a dashboard row: one borrower's result for a lender.
type LenderMatchView struct {
	BorrowerID   id.BorrowerID    `json:"borrower_id"`
	BorrowerName string           `json:"borrower_name"`
	BusinessName string           `json:"business_name"`
	Amount       decimal.Decimal  `json:"amount"`
	Status       evaluator.Status `json:"status"`
	ProgramName  string           `json:"program_name,omitempty"`
	Reasons      []string         `json:"reasons"`
	EvaluatedAt  time.Time        `json:"evaluated_at"`
}

// MatchedBorrowerView is a borrower's full record as seen by a lender it
// matched, with the result that grants the access.
type MatchedBorrowerView struct {
	Borrower *borrowermodels.Borrower
	Match    *MatchResult
}
