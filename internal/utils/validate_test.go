package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("alice"))
	assert.True(t, ValidateUsername("Alice_99"))
	assert.False(t, ValidateUsername(""))
	assert.False(t, ValidateUsername("alice smith"))
	assert.False(t, ValidateUsername("alice-smith"))
	assert.False(t, ValidateUsername("álvaro"))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("alice@example.com"))
	assert.False(t, ValidateEmail("alice.example.com"))
	assert.False(t, ValidateEmail("alice@example"))
	assert.False(t, ValidateEmail("@example.com"))
}

func TestValidateTitle(t *testing.T) {
	assert.True(t, ValidateTitle("Story A"))
	assert.True(t, ValidateTitle("Hello, world! Really?"))
	assert.False(t, ValidateTitle(""))
	assert.False(t, ValidateTitle("<script>alert(1)</script>"))
	assert.False(t, ValidateTitle("A *bold* title"))
}

func TestValidateUnicodeWhitespace(t *testing.T) {
	for _, sep := range []string{"\u00a0", "\v", "\u2003", "\u3000", "\u2028", "\u0085", "\x1f"} {
		assert.True(t, ValidateTitle("Kind"+sep+"words"), "title %q", sep)
		assert.True(t, ValidateStory("Kind"+sep+"*words*"), "story %q", sep)
		assert.True(t, ValidateComment("Kind"+sep+"words"), "comment %q", sep)
	}
	assert.False(t, ValidateTitle("Kind\u200bwords"))
	assert.False(t, ValidateComment("caf\u00e9"))
}

func TestValidateStory(t *testing.T) {
	assert.True(t, ValidateStory("A neighbour shovelled my *whole* driveway."))
	assert.True(t, ValidateStory("line one\nline two"))
	assert.False(t, ValidateStory(""))
	assert.False(t, ValidateStory("<script>"))
	assert.False(t, ValidateStory("it's"))

	atCap := strings.TrimSpace(strings.Repeat("word ", MaxStoryWords))
	assert.True(t, ValidateStory(atCap))
	assert.False(t, ValidateStory(atCap+" extra"))
}

func TestValidateComment(t *testing.T) {
	assert.True(t, ValidateComment("So kind, thank you!"))
	assert.False(t, ValidateComment("so *kind*"))
	assert.False(t, ValidateComment(""))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 3, WordCount(" one\ttwo\n three "))
}
