package utils

import (
	"regexp"
	"strings"
)

// MaxStoryWords 故事正文最大词数
const MaxStoryWords = 20000

// space is every Unicode whitespace rune. RE2's \s alone is ASCII only
// and misses \v, the separator controls, NEL and the Z categories.
const space = `\s\v\x{1c}-\x{1f}\x{85}\p{Z}`

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)
	titlePattern    = regexp.MustCompile(`^[A-Za-z0-9` + space + `.,!?]+$`)
	storyPattern    = regexp.MustCompile(`^[A-Za-z0-9` + space + `.,!?*]+$`)
	commentPattern  = regexp.MustCompile(`^[A-Za-z0-9` + space + `.,!?]+$`)
)

// The validators below are pure predicates. Callers trim before validating
// if they want trimming.

func ValidateUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func ValidateTitle(s string) bool {
	return titlePattern.MatchString(s)
}

// ValidateStory checks the character set (letters, digits, whitespace,
// `.,!?*`) and the MaxStoryWords cap.
func ValidateStory(s string) bool {
	if !storyPattern.MatchString(s) {
		return false
	}
	return WordCount(s) <= MaxStoryWords
}

func ValidateComment(s string) bool {
	return commentPattern.MatchString(s)
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
