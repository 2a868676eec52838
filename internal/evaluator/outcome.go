package evaluator

import (
	"github.com/shopspring/decimal"
)

// Status classifies a borrower against a program or a whole policy.
type Status string

const (
	StatusPerfect  Status = "perfect"
	StatusHigh     Status = "high"
	StatusPartial  Status = "partial"
	StatusRejected Status = "rejected"
)

// Rank orders statuses best-first. Unknown statuses sort last.
func (s Status) Rank() int {
	switch s {
	case StatusPerfect:
		return 0
	case StatusHigh:
		return 1
	case StatusPartial:
		return 2
	case StatusRejected:
		return 3
	default:
		return 4
	}
}

func (s Status) IsValid() bool { return s.Rank() < 4 }

// Options tunes classification.
type Options struct {
	// HighMaxSoftFailures is the largest soft-failure count still classified
	// as high. Counts above it are partial.
	HighMaxSoftFailures int
}

func DefaultOptions() Options {
	return Options{HighMaxSoftFailures: 1}
}

// Knockout identifies a policy-wide disqualifier.
type Knockout string

const (
	KnockoutNone     Knockout = ""
	KnockoutIndustry Knockout = "excluded_industry"
	KnockoutState    Knockout = "restricted_state"
)

// ProgramResult is the evaluation of one program.
type ProgramResult struct {
	Name     string `json:"name"`
	InWindow bool   `json:"in_window"`
	Status   Status `json:"status"`
	// SoftFailures holds failure reasons of non-strict rules in rule order.
	SoftFailures []string `json:"soft_failures"`
	// StrictFailure is the reason of the strict rule that rejected the program.
	StrictFailure string `json:"strict_failure,omitempty"`
}

// Outcome is the result of evaluating one borrower against one policy.
type Outcome struct {
	ProgramName string          `json:"program_name,omitempty"`
	Status      Status          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Reasons     []string        `json:"reasons"`
	Knockout    Knockout        `json:"knockout,omitempty"`
	Programs    []ProgramResult `json:"programs"`
}

// Matched reports whether a program was selected.
func (o Outcome) Matched() bool { return o.ProgramName != "" }
