package registration

import (
	"strings"
	"unicode/utf8"
)

const PasswordMinLength = 8

// passwordSymbols is the fixed punctuation set a strong password must draw from.
const passwordSymbols = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?~`"

type PasswordIssue string

const (
	PasswordTooShort         PasswordIssue = "too_short"
	PasswordMissingLowercase PasswordIssue = "missing_lowercase"
	PasswordMissingUppercase PasswordIssue = "missing_uppercase"
	PasswordMissingDigit     PasswordIssue = "missing_digit"
	PasswordMissingSymbol    PasswordIssue = "missing_symbol"
)

// PasswordIssues lists every unmet strength rule, in a stable order.
func PasswordIssues(p string) []PasswordIssue {
	var lower, upper, digit, symbol bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	var issues []PasswordIssue
	if utf8.RuneCountInString(p) < PasswordMinLength {
		issues = append(issues, PasswordTooShort)
	}
	if !lower {
		issues = append(issues, PasswordMissingLowercase)
	}
	if !upper {
		issues = append(issues, PasswordMissingUppercase)
	}
	if !digit {
		issues = append(issues, PasswordMissingDigit)
	}
	if !symbol {
		issues = append(issues, PasswordMissingSymbol)
	}
	return issues
}

func PasswordStrong(p string) bool {
	return len(PasswordIssues(p)) == 0
}
