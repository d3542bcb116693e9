package utils

import "strings"

// MaskToken redacts the middle of an access token so it can be logged for
// correlation without exposing the credential. Tokens of 12 characters or
// fewer are fully masked; anything longer keeps only four characters at each
// end, so at most half of a token is ever revealed.
func MaskToken(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// MaskSecret fully redacts a secret value, preserving only its length.
func MaskSecret(secret string) string {
	return strings.Repeat("*", len(secret))
}
