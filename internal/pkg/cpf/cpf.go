// Package cpf validates and normalizes Brazilian CPF numbers (the national
// tax id used as the stable customer identifier).
package cpf

import (
	"errors"
	"strings"
)

var (
	ErrInvalidLength = errors.New("cpf must have 11 digits")
	ErrInvalidDigits = errors.New("cpf check digits do not match")
)

// Normalize strips formatting characters and returns the digits-only CPF,
// validating the mod-11 check digits.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == ' ':
			// formatting, ignore
		default:
			return "", ErrInvalidLength
		}
	}

	digits := b.String()
	if len(digits) != 11 {
		return "", ErrInvalidLength
	}
	if !Valid(digits) {
		return "", ErrInvalidDigits
	}
	return digits, nil
}

// Valid reports whether an 11-digit string passes the CPF checksum.
// Sequences of a single repeated digit pass the formula but are not
// issuable CPFs, so they are rejected.
func Valid(digits string) bool {
	if len(digits) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return checkDigit(digits, 9) == int(digits[9]-'0') &&
		checkDigit(digits, 10) == int(digits[10]-'0')
}

// checkDigit computes the verification digit over the first n digits:
// weighted sum with weights n+1..2, then 11 - (sum mod 11), clamped to 0.
func checkDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}
