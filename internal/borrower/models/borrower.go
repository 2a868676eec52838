package models

import (
	"strings"
	"time"

	"lendmatch/internal/fields"
	id "lendmatch/pkg/domain"
	"lendmatch/pkg/email"
)

// Contact is the borrower's identity and business contact data.
type Contact struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BusinessName string `json:"business_name"`
	DBAName      string `json:"dba_name,omitempty"`
	ZipCode      string `json:"zip_code,omitempty"`
}

// Normalize trims every field and lower-cases the email.
func (c *Contact) Normalize() {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Email = email.Normalize(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.BusinessName = strings.TrimSpace(c.BusinessName)
	c.DBAName = strings.TrimSpace(c.DBAName)
	c.ZipCode = strings.TrimSpace(c.ZipCode)
}

// Problems lists every invalid contact field as "field: reason".
func (c Contact) Problems() []string {
	var problems []string
	if c.FullName == "" {
		problems = append(problems, "full_name: is required")
	}
	if !email.Valid(c.Email) {
		problems = append(problems, "email: must be a valid email address")
	}
	if c.Phone == "" {
		problems = append(problems, "phone: is required")
	}
	if c.BusinessName == "" {
		problems = append(problems, "business_name: is required")
	}
	return problems
}

// Borrower is one immutable intake submission. A resubmission with the same
// email creates a new record that supersedes earlier ones for matching.
type Borrower struct {
	ID         id.BorrowerID           `json:"id"`
	CreatedAt  time.Time               `json:"created_at"`
	Contact    Contact                 `json:"contact"`
	Attributes map[string]fields.Value `json:"attributes"`
}

// DisplayName is the contact name shown on lender dashboards.
func (b *Borrower) DisplayName() string {
	return b.Contact.FullName
}
