package fields

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lendmatch/pkg/domain-errors"
)

func TestDescribe(t *testing.T) {
	r := Default()

	t.Run("known field", func(t *testing.T) {
		d, err := r.Describe("guarantor_fico")
		require.NoError(t, err)
		assert.Equal(t, TypeNumber, d.ValueType)
		assert.Equal(t, CategoryCreditIdentity, d.Category)
		assert.Equal(t, TierSignificant, d.Tier)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := r.Describe("favourite_colour")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownField))
	})
}

func TestGroupsFollowCategoryOrder(t *testing.T) {
	groups := Default().Groups()
	require.Len(t, groups, 4)
	assert.Equal(t, CategoryCreditIdentity, groups[0].Category)
	assert.Equal(t, "Credit & Identity", groups[0].Label)
	assert.Equal(t, CategoryLoanAsset, groups[3].Category)

	total := 0
	for _, g := range groups {
		total += len(g.Fields)
	}
	assert.Equal(t, len(Default().All()), total)
}

func TestCoerce(t *testing.T) {
	r := Default()

	tests := []struct {
		name     string
		key      string
		raw      any
		expected Value
		code     dErrors.Code
	}{
		{name: "json number", key: "guarantor_fico", raw: float64(700), expected: Number(700)},
		{name: "json.Number", key: "nsf_count", raw: json.Number("2"), expected: Number(2)},
		{name: "numeric string", key: "annual_revenue", raw: "250000.50", expected: Number(250000.5)},
		{name: "non numeric string for number", key: "guarantor_fico", raw: "excellent", code: dErrors.CodeTypeMismatch},
		{name: "boolean", key: "is_homeowner", raw: true, expected: Bool(true)},
		{name: "boolean string", key: "has_active_bankruptcy", raw: "false", expected: Bool(false)},
		{name: "number for boolean", key: "is_homeowner", raw: float64(1), code: dErrors.CodeTypeMismatch},
		{name: "state upper-cased", key: "business_state", raw: " ca ", expected: String("CA")},
		{name: "enumerated option", key: "equipment_type", raw: "Medical", expected: String("Medical")},
		{name: "option outside list", key: "equipment_type", raw: "Spaceship", code: dErrors.CodeValidation},
		{name: "below minimum", key: "guarantor_fico", raw: float64(100), code: dErrors.CodeValidation},
		{name: "unknown key", key: "shoe_size", raw: float64(10), code: dErrors.CodeUnknownField},
		{name: "nil is absent", key: "paynet_score", raw: nil, expected: Value{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Coerce(tt.key, tt.raw)
			if tt.code != "" {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestCoerceSetField(t *testing.T) {
	r, err := NewRegistry(Descriptor{
		Key: "operating_states", Category: CategoryLoanAsset, ValueType: TypeSet, Upper: true,
	})
	require.NoError(t, err)

	v, err := r.Coerce("operating_states", []any{"ca", "NV", "ca"})
	require.NoError(t, err)
	members, ok := v.AsSet()
	require.True(t, ok)
	assert.Equal(t, []string{"CA", "NV"}, members)

	_, err = r.Coerce("operating_states", []any{"CA", float64(3)})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTypeMismatch))
}

func TestCoerceAllReportsEveryBadField(t *testing.T) {
	r := Default()

	_, err := r.CoerceAll(map[string]any{
		"guarantor_fico": "abc",
		"shoe_size":      float64(9),
		"nsf_count":      float64(1),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	var de *dErrors.Error
	require.ErrorAs(t, err, &de)
	assert.Len(t, de.Details, 2)
	assert.Contains(t, de.Details[0], "guarantor_fico")
	assert.Contains(t, de.Details[1], "shoe_size")
}

func TestCoerceAllDropsNulls(t *testing.T) {
	got, err := Default().CoerceAll(map[string]any{
		"guarantor_fico": float64(720),
		"paynet_score":   nil,
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.True(t, Number(720).Equal(got["guarantor_fico"]))
}

func TestNewRegistryRejectsInvalidDescriptors(t *testing.T) {
	_, err := NewRegistry(Descriptor{Key: "x", Category: "misc", ValueType: TypeNumber})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewRegistry(Descriptor{Key: "x", Category: CategoryFinancials, ValueType: "decimal"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewRegistry(Descriptor{Key: "x", Category: CategoryFinancials, ValueType: TypeNumber, Min: bound(5), Max: bound(1)})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestLoadExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	content := `version: 1
fields:
  - key: time_at_address
    label: Years at Address
    category: credit_identity
    value_type: number
    tier: experiential
    min: 0
  - key: guarantor_fico
    label: Guarantor FICO (mid)
    category: credit_identity
    value_type: number
    tier: significant
    min: 350
    max: 850
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := Load(path)
	require.NoError(t, err)

	d, err := r.Describe("time_at_address")
	require.NoError(t, err)
	assert.Equal(t, "Years at Address", d.Label)

	fico, err := r.Describe("guarantor_fico")
	require.NoError(t, err)
	require.NotNil(t, fico.Min)
	assert.Equal(t, float64(350), *fico.Min)
	assert.Equal(t, "guarantor_fico", r.All()[0].Key, "override keeps the original position")
	assert.Equal(t, len(DefaultDescriptors())+1, len(r.All()))
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte("version: 2\nfields: []\n"))
	assert.Error(t, err)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, len(DefaultDescriptors()), len(r.All()))
}
