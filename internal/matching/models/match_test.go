package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendmatch/internal/evaluator"
	id "lendmatch/pkg/domain"
)

func TestFromOutcome(t *testing.T) {
	now := time.Now()
	outcome := evaluator.Outcome{
		ProgramName: "Core",
		Status:      evaluator.StatusHigh,
		Amount:      decimal.NewFromInt(50000),
		Reasons:     []string{"Revenue below target"},
	}
	r := FromOutcome(id.NewBorrowerID(), id.NewLenderID(), id.NewVersionID(), outcome, now)

	assert.Equal(t, "Core", r.ProgramName)
	assert.True(t, r.IsMatch())
	assert.Equal(t, now, r.EvaluatedAt)

	outcome.Reasons[0] = "mutated"
	assert.Equal(t, "Revenue below target", r.Reasons[0])
}

func TestFromOutcomeNilReasons(t *testing.T) {
	r := FromOutcome(id.NewBorrowerID(), id.NewLenderID(), id.NewVersionID(), evaluator.Outcome{Status: evaluator.StatusRejected}, time.Now())
	assert.NotNil(t, r.Reasons)
	assert.False(t, r.IsMatch())
}

func TestSortByRankThenRecency(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(status evaluator.Status, minutes int) *MatchResult {
		return &MatchResult{
			BorrowerID:  id.NewBorrowerID(),
			LenderID:    id.NewLenderID(),
			Status:      status,
			EvaluatedAt: base.Add(time.Duration(minutes) * time.Minute),
		}
	}
	oldPerfect := mk(evaluator.StatusPerfect, 1)
	newPerfect := mk(evaluator.StatusPerfect, 5)
	partial := mk(evaluator.StatusPartial, 9)
	rejected := mk(evaluator.StatusRejected, 10)
	high := mk(evaluator.StatusHigh, 0)

	results := []*MatchResult{rejected, oldPerfect, partial, high, newPerfect}
	Sort(results)

	require.Len(t, results, 5)
	assert.Equal(t, []*MatchResult{newPerfect, oldPerfect, high, partial, rejected}, results)
}
