package handler

import (
	"time"

	"lendmatch/internal/policy/models"
)

// PolicyResponse is one policy version.
type PolicyResponse struct {
	VersionID          string           `json:"version_id"`
	LenderID           string           `json:"lender_id"`
	BaseVersion        string           `json:"base_version,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	IsActive           bool             `json:"is_active"`
	ExcludedIndustries []string         `json:"excluded_industries"`
	RestrictedStates   []string         `json:"restricted_states"`
	Programs           []models.Program `json:"programs"`
}

func FromSnapshot(snap *models.Snapshot) *PolicyResponse {
	resp := &PolicyResponse{
		VersionID:          snap.VersionID.String(),
		LenderID:           snap.LenderID.String(),
		CreatedAt:          snap.CreatedAt,
		IsActive:           snap.Policy.IsActive,
		ExcludedIndustries: nonNil(snap.Policy.ExcludedIndustries),
		RestrictedStates:   nonNil(snap.Policy.RestrictedStates),
		Programs:           snap.Policy.Programs,
	}
	if !snap.BaseVersion.IsNil() {
		resp.BaseVersion = snap.BaseVersion.String()
	}
	if resp.Programs == nil {
		resp.Programs = []models.Program{}
	}
	return resp
}

// HistoryResponse lists version summaries, most recent first.
type HistoryResponse struct {
	Versions []models.HistoryEntry `json:"versions"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
