// Package email normalizes and checks contact addresses for lenders and
// borrowers.
package email

import (
	"net/mail"
	"strings"
)

const maxLength = 254

// Normalize trims whitespace and lower-cases the address. Uniqueness and
// "latest record per email" comparisons use this form.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Valid reports whether address is a single bare RFC 5322 address without a
// display name.
func Valid(address string) bool {
	address = strings.TrimSpace(address)
	if address == "" || len(address) > maxLength {
		return false
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return false
	}
	if parsed.Address != address {
		return false
	}
	at := strings.LastIndexByte(address, '@')
	return at > 0 && strings.Contains(address[at+1:], ".")
}
