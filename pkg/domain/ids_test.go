package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lendmatch/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseLenderID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseLenderID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseLenderID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseLenderID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, LenderID(validUUID), id)
		assert.Equal(t, validUUID.String(), id.String())
		assert.False(t, id.IsNil())
	})
}

func TestTypeDistinction(t *testing.T) {
	lenderID := NewLenderID()
	borrowerID := NewBorrowerID()

	// var _ LenderID = borrowerID would not compile.
	assert.NotEqual(t, uuid.UUID(lenderID), uuid.UUID(borrowerID))
	assert.True(t, LenderID{}.IsNil())
	assert.True(t, VersionID{}.IsNil())
}

func TestParseID_RejectsHostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE lenders;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBorrowerID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()
	invalidInputs := []string{"", "invalid", uuid.Nil.String()}

	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errLender := ParseLenderID(validUUID)
		_, errBorrower := ParseBorrowerID(validUUID)
		_, errVersion := ParseVersionID(validUUID)

		require.NoError(t, errLender)
		require.NoError(t, errBorrower)
		require.NoError(t, errVersion)
	})

	for _, input := range invalidInputs {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errLender := ParseLenderID(input)
			_, errBorrower := ParseBorrowerID(input)
			_, errVersion := ParseVersionID(input)

			require.Error(t, errLender)
			require.Error(t, errBorrower)
			require.Error(t, errVersion)
		})
	}
}

func TestIDsMarshalAsStrings(t *testing.T) {
	lender := NewLenderID()
	b, err := json.Marshal(struct {
		Lender  LenderID  `json:"lender"`
		Version VersionID `json:"version"`
	}{Lender: lender})
	require.NoError(t, err)
	assert.JSONEq(t, `{"lender":"`+lender.String()+`","version":"`+uuid.Nil.String()+`"}`, string(b))

	var decoded struct {
		Lender  LenderID  `json:"lender"`
		Version VersionID `json:"version"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, lender, decoded.Lender)
	assert.True(t, decoded.Version.IsNil())
}
