package models

import (
	"fmt"
	"strings"

	dErrors "lendmatch/pkg/domain-errors"
)

// Operator is a rule comparison.
type Operator string

const (
	OpGTE   Operator = ">="
	OpLTE   Operator = "<="
	OpEQ    Operator = "=="
	OpNEQ   Operator = "!="
	OpGT    Operator = ">"
	OpLT    Operator = "<"
	OpIn    Operator = "in"
	OpNotIn Operator = "not_in"
)

// operatorAliases accepts the spellings produced by document extraction.
var operatorAliases = map[string]Operator{
	">=": OpGTE, "gte": OpGTE, "greater_than_or_equal": OpGTE,
	"<=": OpLTE, "lte": OpLTE, "less_than_or_equal": OpLTE,
	">": OpGT, "gt": OpGT, "greater_than": OpGT,
	"<": OpLT, "lt": OpLT, "less_than": OpLT,
	"==": OpEQ, "=": OpEQ, "eq": OpEQ, "equal": OpEQ,
	"!=": OpNEQ, "neq": OpNEQ, "not_equal": OpNEQ,
	"in": OpIn, "contains": OpIn,
	"not_in": OpNotIn, "not in": OpNotIn,
}

// ParseOperator normalizes an operator spelling.
func ParseOperator(s string) (Operator, error) {
	op, ok := operatorAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unsupported operator %q", s))
	}
	return op, nil
}

func (o Operator) IsValid() bool {
	switch o {
	case OpGTE, OpLTE, OpEQ, OpNEQ, OpGT, OpLT, OpIn, OpNotIn:
		return true
	}
	return false
}

// IsOrdering reports whether the operator only applies to numbers.
func (o Operator) IsOrdering() bool {
	switch o {
	case OpGTE, OpLTE, OpGT, OpLT:
		return true
	}
	return false
}

func (o Operator) IsEquality() bool   { return o == OpEQ || o == OpNEQ }
func (o Operator) IsMembership() bool { return o == OpIn || o == OpNotIn }

// UnmarshalText normalizes known spellings and keeps anything else verbatim
// so Draft.Prepare can report the offending rule by path.
func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		*o = Operator(strings.TrimSpace(string(text)))
		return nil
	}
	*o = op
	return nil
}
