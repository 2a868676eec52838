package models

import (
	"fmt"
	"strconv"
	"strings"

	"lendmatch/internal/fields"
	dErrors "lendmatch/pkg/domain-errors"
	strutil "lendmatch/pkg/platform/strings"
)

type issue struct {
	code dErrors.Code
	msg  string
}

type issues []issue

func (is *issues) add(code dErrors.Code, path, format string, args ...any) {
	*is = append(*is, issue{code: code, msg: path + ": " + fmt.Sprintf(format, args...)})
}

// err reports every collected issue. The error code is taken from the first
// issue so callers can branch on the most specific failure.
func (is issues) err() error {
	if len(is) == 0 {
		return nil
	}
	details := make([]string, len(is))
	for i, x := range is {
		details[i] = x.msg
	}
	return dErrors.New(is[0].code, "policy draft is invalid").WithDetails(details...)
}

// Prepare validates the draft against the registry and returns its
// normalized form: trimmed, de-duplicated and upper-cased exclusion lists,
// typed operands and default failure reasons. Every failing program and rule
// is reported; nothing is persisted for an invalid draft.
func (d Draft) Prepare(reg *fields.Registry) (Draft, error) {
	out := Draft{
		ExcludedIndustries: strutil.DedupeAndTrimUpper(d.ExcludedIndustries),
		RestrictedStates:   strutil.DedupeAndTrimUpper(d.RestrictedStates),
		Programs:           make([]Program, 0, len(d.Programs)),
	}

	var problems issues
	names := make(map[string]int, len(d.Programs))
	for i, p := range d.Programs {
		path := fmt.Sprintf("programs[%d]", i)
		p.Name = strings.TrimSpace(p.Name)
		switch {
		case p.Name == "":
			problems.add(dErrors.CodeValidation, path, "name is required")
		default:
			key := strings.ToLower(p.Name)
			if prev, dup := names[key]; dup {
				problems.add(dErrors.CodeValidation, path, "name %q duplicates programs[%d]", p.Name, prev)
			} else {
				names[key] = i
			}
		}
		if p.MinLoanAmount.IsNegative() {
			problems.add(dErrors.CodeInvalidProgramWindow, path, "min_loan_amount cannot be negative")
		}
		if p.MinLoanAmount.GreaterThan(p.MaxLoanAmount) {
			problems.add(dErrors.CodeInvalidProgramWindow, path,
				"min_loan_amount %s exceeds max_loan_amount %s", p.MinLoanAmount, p.MaxLoanAmount)
		}

		rules := make([]Rule, 0, len(p.Rules))
		for j, r := range p.Rules {
			prepared, ok := prepareRule(reg, r, fmt.Sprintf("%s.rules[%d]", path, j), &problems)
			if ok {
				rules = append(rules, prepared)
			}
		}
		p.Rules = rules
		out.Programs = append(out.Programs, p)
	}

	if err := problems.err(); err != nil {
		return Draft{}, err
	}
	return out, nil
}

func prepareRule(reg *fields.Registry, r Rule, path string, problems *issues) (Rule, bool) {
	r.FieldKey = strings.TrimSpace(r.FieldKey)
	desc, err := reg.Describe(r.FieldKey)
	if err != nil {
		problems.add(dErrors.CodeUnknownField, path, "unknown field %q", r.FieldKey)
		return r, false
	}
	op, err := ParseOperator(string(r.Operator))
	if err != nil {
		problems.add(dErrors.CodeValidation, path, "unsupported operator %q", r.Operator)
		return r, false
	}
	r.Operator = op

	operand, msg := prepareOperand(desc, r.Operator, r.Operand)
	if msg != "" {
		problems.add(dErrors.CodeTypeMismatch, path, "%s", msg)
		return r, false
	}
	r.Operand = operand

	r.FailureReason = strings.TrimSpace(r.FailureReason)
	if r.FailureReason == "" {
		label := desc.Label
		if label == "" {
			label = desc.Key
		}
		r.FailureReason = fmt.Sprintf("Criterion %s not met.", label)
	}
	return r, true
}

// prepareOperand checks operand compatibility with the field and returns the
// normalized operand, or a message describing the mismatch.
func prepareOperand(desc fields.Descriptor, op Operator, operand fields.Value) (fields.Value, string) {
	if operand.IsZero() {
		return operand, "operand is required"
	}

	switch desc.ValueType {
	case fields.TypeNumber:
		if op.IsMembership() {
			return operand, fmt.Sprintf("operator %s does not apply to numeric field %s", op, desc.Key)
		}
		if s, ok := operand.AsString(); ok {
			if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return fields.Number(n), ""
			}
		}
		if _, ok := operand.AsNumber(); !ok {
			return operand, fmt.Sprintf("field %s needs a numeric operand, got %s", desc.Key, operand.Kind())
		}
		return operand, ""

	case fields.TypeBoolean:
		if !op.IsEquality() {
			return operand, fmt.Sprintf("operator %s does not apply to boolean field %s", op, desc.Key)
		}
		if s, ok := operand.AsString(); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return fields.Bool(b), ""
			}
		}
		if _, ok := operand.AsBool(); !ok {
			return operand, fmt.Sprintf("field %s needs a boolean operand, got %s", desc.Key, operand.Kind())
		}
		return operand, ""

	case fields.TypeString, fields.TypeSet:
		if op.IsOrdering() {
			return operand, fmt.Sprintf("operator %s needs a numeric field, %s is %s", op, desc.Key, desc.ValueType)
		}
		if op.IsEquality() && desc.ValueType == fields.TypeSet {
			return operand, fmt.Sprintf("operator %s does not apply to set field %s, use in or not_in", op, desc.Key)
		}
		members := operand.Members()
		if members == nil {
			return operand, fmt.Sprintf("field %s needs a string operand, got %s", desc.Key, operand.Kind())
		}
		if op.IsEquality() && operand.Kind() != fields.TypeString {
			return operand, fmt.Sprintf("operator %s needs a single string operand", op)
		}
		for i, m := range members {
			members[i] = desc.Normalize(m)
			if !desc.Allows(members[i]) {
				return operand, fmt.Sprintf("%q is not a valid %s", members[i], desc.Key)
			}
		}
		if op.IsEquality() {
			return fields.String(members[0]), ""
		}
		return fields.Set(members...), ""
	}

	return operand, fmt.Sprintf("field %s has unsupported type %s", desc.Key, desc.ValueType)
}
