package fields

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Value is the typed form of a borrower attribute or a rule operand.
// The zero Value has no kind and represents an absent attribute.
type Value struct {
	kind ValueType
	num  float64
	str  string
	flag bool
	set  []string
}

func Number(n float64) Value { return Value{kind: TypeNumber, num: n} }
func String(s string) Value  { return Value{kind: TypeString, str: s} }
func Bool(b bool) Value      { return Value{kind: TypeBoolean, flag: b} }

// Set builds a set value. Duplicates are dropped, order of first occurrence kept.
func Set(items ...string) Value {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return Value{kind: TypeSet, set: out}
}

func (v Value) Kind() ValueType { return v.kind }
func (v Value) IsZero() bool    { return v.kind == "" }

func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == TypeNumber }
func (v Value) AsString() (string, bool)  { return v.str, v.kind == TypeString }
func (v Value) AsBool() (bool, bool)      { return v.flag, v.kind == TypeBoolean }

// AsSet returns a copy of the set members.
func (v Value) AsSet() ([]string, bool) {
	if v.kind != TypeSet {
		return nil, false
	}
	return slices.Clone(v.set), true
}

// Members returns the values a membership test runs against: the string
// itself for a string value, every member for a set.
func (v Value) Members() []string {
	switch v.kind {
	case TypeString:
		return []string{v.str}
	case TypeSet:
		return slices.Clone(v.set)
	default:
		return nil
	}
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case TypeNumber:
		return v.num == other.num
	case TypeString:
		return v.str == other.str
	case TypeBoolean:
		return v.flag == other.flag
	case TypeSet:
		return slices.Equal(v.set, other.set)
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case TypeNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case TypeString:
		return v.str
	case TypeBoolean:
		return strconv.FormatBool(v.flag)
	case TypeSet:
		return "[" + strings.Join(v.set, ", ") + "]"
	default:
		return "<none>"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case TypeNumber:
		return json.Marshal(v.num)
	case TypeString:
		return json.Marshal(v.str)
	case TypeBoolean:
		return json.Marshal(v.flag)
	case TypeSet:
		if v.set == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.set)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON infers the kind from the JSON token: numbers, strings,
// booleans and arrays of strings. null leaves the zero Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// FromAny converts a JSON-decoded value into a Value without consulting a
// descriptor. Registry.Coerce is the descriptor-aware variant.
func FromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t, nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Number(n), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case []string:
		return Set(t...), nil
	case []any:
		items := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return Value{}, fmt.Errorf("set member %d is %T, expected string", i, item)
			}
			items = append(items, s)
		}
		return Set(items...), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}
