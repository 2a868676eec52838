package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendmatch/internal/fields"
	id "lendmatch/pkg/domain"
	dErrors "lendmatch/pkg/domain-errors"
)

func program(name string, min, max int64, rules ...Rule) Program {
	return Program{
		Name:          name,
		MinLoanAmount: decimal.NewFromInt(min),
		MaxLoanAmount: decimal.NewFromInt(max),
		Rules:         rules,
	}
}

func detailsOf(t *testing.T, err error) []string {
	t.Helper()
	var de *dErrors.Error
	require.ErrorAs(t, err, &de)
	return de.Details
}

func TestPrepareNormalizesDraft(t *testing.T) {
	draft := Draft{
		ExcludedIndustries: []string{" 7011", "7011", "", "532"},
		RestrictedStates:   []string{"ca", " NV ", "CA"},
		Programs: []Program{
			program(" Core A ", 10000, 100000,
				Rule{FieldKey: "guarantor_fico", Operator: OpGTE, Operand: fields.String("650"), Strict: true},
				Rule{FieldKey: "business_state", Operator: OpNotIn, Operand: fields.Set("tx", "fl")},
				Rule{FieldKey: "is_homeowner", Operator: OpEQ, Operand: fields.String("true"), FailureReason: " Must own home "},
			),
		},
	}

	got, err := draft.Prepare(fields.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{"7011", "532"}, got.ExcludedIndustries)
	assert.Equal(t, []string{"CA", "NV"}, got.RestrictedStates)
	require.Len(t, got.Programs, 1)
	p := got.Programs[0]
	assert.Equal(t, "Core A", p.Name)
	assert.True(t, fields.Number(650).Equal(p.Rules[0].Operand))
	assert.Equal(t, "Criterion Guarantor FICO not met.", p.Rules[0].FailureReason)
	assert.True(t, fields.Set("TX", "FL").Equal(p.Rules[1].Operand))
	assert.True(t, fields.Bool(true).Equal(p.Rules[2].Operand))
	assert.Equal(t, "Must own home", p.Rules[2].FailureReason)
}

func TestPrepareRejectsInvalidDrafts(t *testing.T) {
	reg := fields.Default()

	tests := []struct {
		name   string
		draft  Draft
		code   dErrors.Code
		detail string
	}{
		{
			name:   "unknown field",
			draft:  Draft{Programs: []Program{program("A", 0, 10, Rule{FieldKey: "shoe_size", Operator: OpGTE, Operand: fields.Number(9)})}},
			code:   dErrors.CodeUnknownField,
			detail: "programs[0].rules[0]",
		},
		{
			name:   "unsupported operator",
			draft:  Draft{Programs: []Program{program("A", 0, 10), program("B", 0, 10, Rule{FieldKey: "guarantor_fico", Operator: "~=", Operand: fields.Number(600)})}},
			code:   dErrors.CodeValidation,
			detail: "programs[1].rules[0]",
		},
		{
			name:   "inverted window",
			draft:  Draft{Programs: []Program{program("A", 500, 100)}},
			code:   dErrors.CodeInvalidProgramWindow,
			detail: "programs[0]",
		},
		{
			name:   "numeric operator on string field",
			draft:  Draft{Programs: []Program{program("A", 0, 10, Rule{FieldKey: "equipment_type", Operator: OpGT, Operand: fields.Number(1)})}},
			code:   dErrors.CodeTypeMismatch,
			detail: "programs[0].rules[0]",
		},
		{
			name:   "string operand on numeric field",
			draft:  Draft{Programs: []Program{program("A", 0, 10, Rule{FieldKey: "guarantor_fico", Operator: OpGTE, Operand: fields.String("good")})}},
			code:   dErrors.CodeTypeMismatch,
			detail: "programs[0].rules[0]",
		},
		{
			name:   "membership on numeric field",
			draft:  Draft{Programs: []Program{program("A", 0, 10, Rule{FieldKey: "nsf_count", Operator: OpIn, Operand: fields.Set("1")})}},
			code:   dErrors.CodeTypeMismatch,
			detail: "programs[0].rules[0]",
		},
		{
			name:   "option outside enumeration",
			draft:  Draft{Programs: []Program{program("A", 0, 10, Rule{FieldKey: "equipment_type", Operator: OpIn, Operand: fields.Set("Yacht")})}},
			code:   dErrors.CodeTypeMismatch,
			detail: "Yacht",
		},
		{
			name:   "missing operand",
			draft:  Draft{Programs: []Program{program("A", 0, 10, Rule{FieldKey: "guarantor_fico", Operator: OpGTE})}},
			code:   dErrors.CodeTypeMismatch,
			detail: "operand is required",
		},
		{
			name:   "missing program name",
			draft:  Draft{Programs: []Program{program(" ", 0, 10)}},
			code:   dErrors.CodeValidation,
			detail: "name is required",
		},
		{
			name:   "duplicate program name",
			draft:  Draft{Programs: []Program{program("Core", 0, 10), program("core", 0, 20)}},
			code:   dErrors.CodeValidation,
			detail: "programs[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.Prepare(reg)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tt.code), "got %v", err)
			details := detailsOf(t, err)
			require.NotEmpty(t, details)
			assert.Contains(t, details[0], tt.detail)
		})
	}
}

func TestPrepareReportsEveryFailure(t *testing.T) {
	draft := Draft{Programs: []Program{
		program("A", 100, 10, Rule{FieldKey: "shoe_size", Operator: OpGTE, Operand: fields.Number(9)}),
		program("B", 0, 10,
			Rule{FieldKey: "guarantor_fico", Operator: OpGTE, Operand: fields.Number(600)},
			Rule{FieldKey: "is_homeowner", Operator: OpIn, Operand: fields.Set("x")},
		),
	}}

	_, err := draft.Prepare(fields.Default())
	require.Error(t, err)
	details := detailsOf(t, err)
	require.Len(t, details, 3)
	assert.Contains(t, details[0], "programs[0]:")
	assert.Contains(t, details[1], "programs[0].rules[0]")
	assert.Contains(t, details[2], "programs[1].rules[1]")
}

func TestEmptyRuleProgramIsValid(t *testing.T) {
	got, err := Draft{Programs: []Program{program("Open", 0, 0)}}.Prepare(fields.Default())
	require.NoError(t, err)
	assert.Empty(t, got.Programs[0].Rules)
}

func TestParseOperatorAliases(t *testing.T) {
	for in, want := range map[string]Operator{"gte": OpGTE, " LT ": OpLT, "=": OpEQ, "not in": OpNotIn, "contains": OpIn} {
		got, err := ParseOperator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseOperator("~=")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestRuleJSONDecodesAliasedOperator(t *testing.T) {
	var r Rule
	require.NoError(t, json.Unmarshal([]byte(`{"field_key":"nsf_count","operator":"lte","operand":2}`), &r))
	assert.Equal(t, OpLTE, r.Operator)
	assert.True(t, fields.Number(2).Equal(r.Operand))
	assert.False(t, r.Strict)
}

func TestRuleJSONKeepsUnknownOperatorForPrepare(t *testing.T) {
	var d Draft
	body := `{"programs":[{"name":"A","min_loan_amount":0,"max_loan_amount":10,` +
		`"rules":[{"field_key":"guarantor_fico","operator":" ~= ","operand":600}]}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	assert.Equal(t, Operator("~="), d.Programs[0].Rules[0].Operator)

	_, err := d.Prepare(fields.Default())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	details := detailsOf(t, err)
	require.Len(t, details, 1)
	assert.Contains(t, details[0], "programs[0].rules[0]")
	assert.Contains(t, details[0], "~=")
}

func TestNewSnapshotDerivesActivation(t *testing.T) {
	lender := id.NewLenderID()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	empty := NewSnapshot(lender, id.VersionID{}, Draft{}, now)
	assert.False(t, empty.Policy.IsActive)
	assert.Equal(t, 0, empty.Summary().ProgramCount)

	withProgram := NewSnapshot(lender, empty.VersionID, Draft{Programs: []Program{program("A", 0, 10)}}, now)
	assert.True(t, withProgram.Policy.IsActive)
	assert.Equal(t, empty.VersionID, withProgram.BaseVersion)
	assert.NotEqual(t, empty.VersionID, withProgram.VersionID)
	assert.Equal(t, lender, withProgram.Policy.LenderID)
}

func TestSnapshotIsIsolatedFromDraft(t *testing.T) {
	draft := Draft{
		RestrictedStates: []string{"CA"},
		Programs:         []Program{program("A", 0, 10, Rule{FieldKey: "nsf_count", Operator: OpLTE, Operand: fields.Number(2)})},
	}
	snap := NewSnapshot(id.NewLenderID(), id.VersionID{}, draft, time.Now())

	draft.RestrictedStates[0] = "TX"
	draft.Programs[0].Rules[0].Strict = true

	assert.Equal(t, "CA", snap.Policy.RestrictedStates[0])
	assert.False(t, snap.Policy.Programs[0].Rules[0].Strict)
}

func TestMergeUnionsAndAppends(t *testing.T) {
	current := Draft{
		ExcludedIndustries: []string{"7011"},
		RestrictedStates:   []string{"CA"},
		Programs:           []Program{program("A", 0, 10)},
	}
	extracted := Draft{
		ExcludedIndustries: []string{"7011", "532"},
		RestrictedStates:   []string{"ca", "nv"},
		Programs:           []Program{program("B", 0, 20)},
	}

	merged := current.Merge(extracted)
	assert.Equal(t, []string{"7011", "532"}, merged.ExcludedIndustries)
	assert.Equal(t, []string{"CA", "NV"}, merged.RestrictedStates)
	require.Len(t, merged.Programs, 2)
	assert.Equal(t, "B", merged.Programs[1].Name)
}

func TestProgramCoversInclusiveWindow(t *testing.T) {
	p := program("A", 10000, 100000)
	assert.True(t, p.Covers(decimal.NewFromInt(10000)))
	assert.True(t, p.Covers(decimal.NewFromInt(100000)))
	assert.False(t, p.Covers(decimal.NewFromInt(9999)))
	assert.False(t, p.Covers(decimal.RequireFromString("100000.01")))
}
