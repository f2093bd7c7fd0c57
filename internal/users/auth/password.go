// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package auth

import "strings"

// # Password Policy

const (
	// PasswordMinLength is the minimum number of characters a password must have.
	PasswordMinLength = 12

	// passwordSymbols is the set of special characters accepted by the policy.
	passwordSymbols = "@$!%*?&"
)

/*
CheckPasswordPolicy validates a candidate password against the account policy.

Description: A valid password contains at least [PasswordMinLength] characters
and includes at least one uppercase letter, one lowercase letter, one digit,
and one symbol from the accepted set.

Parameters:
  - password: string

Returns:
  - string: A human-readable violation message, empty when the password is acceptable
*/
func CheckPasswordPolicy(password string) string {
	if len(password) < PasswordMinLength {
		return "must be at least 12 characters long"
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, character := range password {
		switch {
		case character >= 'A' && character <= 'Z':
			hasUpper = true
		case character >= 'a' && character <= 'z':
			hasLower = true
		case character >= '0' && character <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, character):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return "must contain at least one uppercase letter"
	case !hasLower:
		return "must contain at least one lowercase letter"
	case !hasDigit:
		return "must contain at least one digit"
	case !hasSymbol:
		return "must contain at least one special character (@$!%*?&)"
	}

	return ""
}
