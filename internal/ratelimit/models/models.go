package models

import (
	"strings"
	"time"
)

// Class groups routes that share one limit.
type Class string

const (
	// ClassIntake covers borrower submissions.
	ClassIntake Class = "intake"
	// ClassPolicyWrite covers lender registration, policy saves and deletes.
	ClassPolicyWrite Class = "policy_write"
)

// Limit is the request budget of one class per window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result is the outcome of a single check.
type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when denied
}

// ExceededResponse is the 429 body.
type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// SanitizeKeySegment escapes the key delimiter so a crafted segment cannot
// address a neighbouring bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// Key builds the bucket key for one client and class.
func Key(class Class, client string) string {
	return "ratelimit:" + string(class) + ":" + SanitizeKeySegment(client)
}
