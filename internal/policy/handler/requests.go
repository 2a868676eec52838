package handler

import (
	"strings"

	"lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
)

// PolicyRequest is the body of PUT /lenders/{id}/policy and
// POST /lenders/{id}/policy/extraction. The draft replaces the whole
// document; base_version optionally pins the version it was edited from.
type PolicyRequest struct {
	BaseVersion string `json:"base_version,omitempty"`
	models.Draft

	parsedBase id.VersionID
}

// Validate implements httputil.Validatable.
func (r *PolicyRequest) Validate() error {
	r.BaseVersion = strings.TrimSpace(r.BaseVersion)
	if r.BaseVersion == "" {
		return nil
	}
	base, err := id.ParseVersionID(r.BaseVersion)
	if err != nil {
		return err
	}
	r.parsedBase = base
	return nil
}

// ParsedBase returns the pinned base version, zero when none was sent.
func (r *PolicyRequest) ParsedBase() id.VersionID {
	return r.parsedBase
}
