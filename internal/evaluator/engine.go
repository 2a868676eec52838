package evaluator

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"lendmatch/internal/fields"
	"lendmatch/internal/policy/models"
)

// ReasonNoProgram is reported when no program window contains the requested amount.
const ReasonNoProgram = "no program matches requested amount"

// numericTolerance bounds == and != comparisons on numbers.
const numericTolerance = 0.001

// Attributes is a borrower's typed attribute map keyed by field key.
type Attributes map[string]fields.Value

// Evaluate scores a borrower against a lender policy.
// This is pure domain logic - no I/O, no side effects. Identical inputs
// always produce an identical Outcome.
//
// Order of checks:
//  1. Knockout: excluded industry prefix or restricted state rejects outright
//  2. Window: programs whose loan window excludes the amount are dropped
//  3. Rules: strict failures reject a program, soft failures are counted
//  4. Selection: best status, then larger max_loan_amount, then declaration order
func Evaluate(attrs Attributes, policy models.Policy, opts Options) Outcome {
	amount, hasAmount := loanAmount(attrs)
	out := Outcome{
		Status:   StatusRejected,
		Amount:   amount,
		Reasons:  []string{},
		Programs: make([]ProgramResult, 0, len(policy.Programs)),
	}

	if kind, reason := knockout(attrs, policy); kind != KnockoutNone {
		out.Knockout = kind
		out.Reasons = []string{reason}
		return out
	}

	best := -1
	for i, p := range policy.Programs {
		if !hasAmount || !p.Covers(amount) {
			out.Programs = append(out.Programs, ProgramResult{Name: p.Name, Status: StatusRejected, SoftFailures: []string{}})
			continue
		}
		result := evaluateProgram(attrs, p, opts)
		out.Programs = append(out.Programs, result)
		if result.Status == StatusRejected {
			continue
		}
		if best < 0 || better(result, p, out.Programs[best], policy.Programs[best]) {
			best = i
		}
	}

	if best >= 0 {
		winner := out.Programs[best]
		out.ProgramName = winner.Name
		out.Status = winner.Status
		out.Reasons = slices.Clone(winner.SoftFailures)
		return out
	}

	inWindow := false
	for _, r := range out.Programs {
		if !r.InWindow {
			continue
		}
		inWindow = true
		if r.StrictFailure != "" && !slices.Contains(out.Reasons, r.StrictFailure) {
			out.Reasons = append(out.Reasons, r.StrictFailure)
		}
	}
	if !inWindow {
		out.Reasons = []string{ReasonNoProgram}
	}
	return out
}

// better reports whether candidate beats the current best. Declaration order
// wins remaining ties because candidates are visited in order.
func better(candidate ProgramResult, cp models.Program, current ProgramResult, curp models.Program) bool {
	if candidate.Status.Rank() != current.Status.Rank() {
		return candidate.Status.Rank() < current.Status.Rank()
	}
	return cp.MaxLoanAmount.GreaterThan(curp.MaxLoanAmount)
}

func evaluateProgram(attrs Attributes, p models.Program, opts Options) ProgramResult {
	result := ProgramResult{Name: p.Name, InWindow: true, SoftFailures: []string{}}
	for _, rule := range p.Rules {
		if Check(rule, attrs) {
			continue
		}
		if rule.Strict {
			result.Status = StatusRejected
			result.StrictFailure = rule.FailureReason
			return result
		}
		result.SoftFailures = append(result.SoftFailures, rule.FailureReason)
	}
	result.Status = classify(len(result.SoftFailures), opts)
	return result
}

func classify(soft int, opts Options) Status {
	switch {
	case soft == 0:
		return StatusPerfect
	case soft <= opts.HighMaxSoftFailures:
		return StatusHigh
	default:
		return StatusPartial
	}
}

func knockout(attrs Attributes, policy models.Policy) (Knockout, string) {
	if naics, ok := attrs[fields.KeyIndustryNAICS].AsString(); ok && naics != "" {
		code := strings.ToUpper(strings.TrimSpace(naics))
		for _, excluded := range policy.ExcludedIndustries {
			if excluded != "" && strings.HasPrefix(code, strings.ToUpper(excluded)) {
				return KnockoutIndustry, fmt.Sprintf("industry %s is excluded by lender policy", naics)
			}
		}
	}
	for _, key := range []string{fields.KeyBusinessState, fields.KeyEquipmentLocationState} {
		state, ok := attrs[key].AsString()
		if !ok || state == "" {
			continue
		}
		state = strings.ToUpper(strings.TrimSpace(state))
		for _, restricted := range policy.RestrictedStates {
			if strings.EqualFold(state, restricted) {
				return KnockoutState, fmt.Sprintf("state %s is restricted by lender policy", state)
			}
		}
	}
	return KnockoutNone, ""
}

func loanAmount(attrs Attributes) (decimal.Decimal, bool) {
	n, ok := attrs[fields.KeyLoanAmount].AsNumber()
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(n), true
}

// Check applies one rule to the borrower's attributes. A missing attribute or
// a value of the wrong kind fails the rule.
func Check(rule models.Rule, attrs Attributes) bool {
	actual, ok := attrs[rule.FieldKey]
	if !ok || actual.IsZero() {
		return false
	}

	switch {
	case rule.Operator.IsOrdering():
		a, okA := actual.AsNumber()
		b, okB := rule.Operand.AsNumber()
		if !okA || !okB {
			return false
		}
		return compareOrdering(rule.Operator, a, b)

	case rule.Operator.IsEquality():
		eq, ok := equal(actual, rule.Operand)
		if !ok {
			return false
		}
		if rule.Operator == models.OpEQ {
			return eq
		}
		return !eq

	case rule.Operator.IsMembership():
		members := actual.Members()
		allowed := rule.Operand.Members()
		if members == nil || allowed == nil {
			return false
		}
		overlap := false
		for _, m := range members {
			if slices.Contains(allowed, m) {
				overlap = true
				break
			}
		}
		if rule.Operator == models.OpIn {
			return overlap
		}
		return !overlap
	}
	return false
}

func compareOrdering(op models.Operator, a, b float64) bool {
	switch op {
	case models.OpGTE:
		return a >= b
	case models.OpLTE:
		return a <= b
	case models.OpGT:
		return a > b
	case models.OpLT:
		return a < b
	}
	return false
}

// equal compares two scalar values of the same kind. ok is false
// when the kinds differ.
func equal(a, b fields.Value) (eq, ok bool) {
	if a.Kind() != b.Kind() {
		return false, false
	}
	switch a.Kind() {
	case fields.TypeNumber:
		x, _ := a.AsNumber()
		y, _ := b.AsNumber()
		return math.Abs(x-y) < numericTolerance, true
	case fields.TypeString:
		x, _ := a.AsString()
		y, _ := b.AsString()
		return x == y, true
	case fields.TypeBoolean:
		x, _ := a.AsBool()
		y, _ := b.AsBool()
		return x == y, true
	}
	return false, false
}
