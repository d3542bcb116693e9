package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "eyJh...X9qw", MaskToken("eyJhbGciOiJIUzI1NiJ9.X9qw"))
	assert.Equal(t, "abcd...wxyz", MaskToken("abcd12345wxyz"))
	assert.Equal(t, "", MaskToken(""))
}

func TestMaskToken_ShortTokensFullyMasked(t *testing.T) {
	// Up to 12 characters nothing of the token may leak.
	for _, token := range []string{"short-ok", "nine-char", "twelve-chars"} {
		got := MaskToken(token)
		assert.Equal(t, strings.Repeat("*", len(token)), got, token)
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "*******", MaskSecret("hunter2"))
	assert.Equal(t, "", MaskSecret(""))
}
