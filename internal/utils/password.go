package utils

import "regexp"

const (
	MinPasswordLength = 8
	// bcrypt rejects longer inputs
	MaxPasswordBytes = 72

	PasswordPolicy = "password must be 8 to 72 bytes long and contain at least one special character"
)

var specialChar = regexp.MustCompile(`[!@#\$%\^&\*\(\)\-_=\+\[\]\{\}\\|;:'",<>\./\?~` + "`" + `]`)

// IsPasswordValid enforces the password policy (8 to 72 bytes, at least one
// special character).
func IsPasswordValid(p string) bool {
	if len(p) < MinPasswordLength || len(p) > MaxPasswordBytes {
		return false
	}
	return specialChar.MatchString(p)
}
