package fields

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	dErrors "lendmatch/pkg/domain-errors"
)

// Registry is the immutable lookup table of evaluable fields.
// It is built once at startup and shared read-only afterwards.
type Registry struct {
	byKey map[string]Descriptor
	order []string
}

// NewRegistry builds a registry from descriptors in declaration order.
// A later descriptor with the same key replaces the earlier one in place.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{byKey: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := validateDescriptor(d); err != nil {
			return nil, err
		}
		d.Options = slices.Clone(d.Options)
		if _, exists := r.byKey[d.Key]; !exists {
			r.order = append(r.order, d.Key)
		}
		r.byKey[d.Key] = d
	}
	return r, nil
}

func validateDescriptor(d Descriptor) error {
	switch {
	case strings.TrimSpace(d.Key) == "":
		return dErrors.New(dErrors.CodeValidation, "field key is required")
	case !d.Category.IsValid():
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %s: unknown category %q", d.Key, d.Category))
	case !d.ValueType.IsValid():
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %s: unknown value type %q", d.Key, d.ValueType))
	case d.Tier != "" && !d.Tier.IsValid():
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %s: unknown tier %q", d.Key, d.Tier))
	case d.Min != nil && d.Max != nil && *d.Min > *d.Max:
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %s: min exceeds max", d.Key))
	}
	return nil
}

// Describe returns the descriptor for key or an unknown_field error.
func (r *Registry) Describe(key string) (Descriptor, error) {
	d, ok := r.byKey[key]
	if !ok {
		return Descriptor{}, dErrors.New(dErrors.CodeUnknownField, fmt.Sprintf("unknown field %q", key))
	}
	return d, nil
}

// All lists descriptors in declaration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// Groups lists descriptors grouped by category, categories in display order.
func (r *Registry) Groups() []Group {
	grouped := make(map[Category][]Descriptor)
	for _, d := range r.All() {
		grouped[d.Category] = append(grouped[d.Category], d)
	}
	groups := make([]Group, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		if len(grouped[c]) == 0 {
			continue
		}
		groups = append(groups, Group{Category: c, Label: c.Label(), Fields: grouped[c]})
	}
	return groups
}

// Coerce converts a JSON-decoded value into the field's typed Value.
// Numeric and boolean fields also accept their string spellings since form
// layers commonly post everything as text.
func (r *Registry) Coerce(key string, raw any) (Value, error) {
	d, err := r.Describe(key)
	if err != nil {
		return Value{}, err
	}
	if raw == nil {
		return Value{}, nil
	}
	v, ok := coerce(d, raw)
	if !ok {
		return Value{}, dErrors.New(dErrors.CodeTypeMismatch,
			fmt.Sprintf("%s: expected %s, got %s", key, d.ValueType, describeRaw(raw)))
	}
	if err := d.check(v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// CoerceAll coerces every attribute and reports every failing key at once.
// Keys are visited in sorted order so the details are stable.
func (r *Registry) CoerceAll(raw map[string]any) (map[string]Value, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]Value, len(raw))
	var details []string
	for _, key := range keys {
		v, err := r.Coerce(key, raw[key])
		if err != nil {
			details = append(details, errorMessage(err))
			continue
		}
		if !v.IsZero() {
			out[key] = v
		}
	}
	if len(details) > 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid borrower attributes").WithDetails(details...)
	}
	return out, nil
}

// Normalize applies the field's string normalization.
func (d Descriptor) Normalize(s string) string {
	s = strings.TrimSpace(s)
	if d.Upper {
		return strings.ToUpper(s)
	}
	return s
}

// Allows reports whether s is an accepted member for enumerated fields.
func (d Descriptor) Allows(s string) bool {
	return len(d.Options) == 0 || slices.Contains(d.Options, s)
}

func coerce(d Descriptor, raw any) (Value, bool) {
	switch d.ValueType {
	case TypeNumber:
		return coerceNumber(raw)
	case TypeBoolean:
		switch t := raw.(type) {
		case bool:
			return Bool(t), true
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(t))
			return Bool(b), err == nil
		}
	case TypeString:
		switch t := raw.(type) {
		case string:
			return String(d.Normalize(t)), true
		case json.Number:
			return String(t.String()), true
		}
	case TypeSet:
		v, err := FromAny(raw)
		if err != nil {
			return Value{}, false
		}
		members := v.Members()
		if members == nil {
			return Value{}, false
		}
		for i := range members {
			members[i] = d.Normalize(members[i])
		}
		return Set(members...), true
	}
	return Value{}, false
}

func coerceNumber(raw any) (Value, bool) {
	var n float64
	switch t := raw.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return Value{}, false
		}
		n = f
	default:
		return Value{}, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Value{}, false
	}
	return Number(n), true
}

// check enforces bounds and enumerated options.
func (d Descriptor) check(v Value) error {
	if n, ok := v.AsNumber(); ok {
		if d.Min != nil && n < *d.Min {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s: %s is below minimum %s", d.Key, v, Number(*d.Min)))
		}
		if d.Max != nil && n > *d.Max {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s: %s is above maximum %s", d.Key, v, Number(*d.Max)))
		}
		return nil
	}
	if len(d.Options) == 0 {
		return nil
	}
	for _, m := range v.Members() {
		if !d.Allows(m) {
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("%s: %q is not one of %s", d.Key, m, strings.Join(d.Options, ", ")))
		}
	}
	return nil
}

func describeRaw(raw any) string {
	switch raw.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", raw)
	}
}

func errorMessage(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
