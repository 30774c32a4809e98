// Package moderation implements the content checks every memo write must
// pass: the length cap, banned-word matching over normalized text, and the
// digit filter. The same package backs the authoritative server check and
// the advisory client check; only the server verdict is trusted.
package moderation

import (
	"strings"
	"unicode"
)

// MaxContentLength is the memo length cap, counted in runes.
const MaxContentLength = 500

// Reason is the stable code consumers branch on when content is rejected.
type Reason string

const (
	ReasonInvalidContent    Reason = "INVALID_CONTENT"
	ReasonContentTooLong    Reason = "CONTENT_TOO_LONG"
	ReasonBannedWords       Reason = "BANNED_WORDS"
	ReasonNumbersNotAllowed Reason = "NUMBERS_NOT_ALLOWED"
)

type Result struct {
	Valid  bool
	Reason Reason
}

// Validate runs the checks in a fixed order: presence, length, banned
// words, digits. The first failing check's reason is reported and later
// checks do not run, so a rejected input maps to exactly one reason.
// Pure function: same input, same result, no side effects.
func Validate(content string) Result {
	if content == "" {
		return Result{Reason: ReasonInvalidContent}
	}
	if len([]rune(content)) > MaxContentLength {
		return Result{Reason: ReasonContentTooLong}
	}
	normalized := Normalize(content)
	for _, word := range normalizedBannedWords {
		if strings.Contains(normalized, word) {
			return Result{Reason: ReasonBannedWords}
		}
	}
	for _, r := range content {
		if r >= '0' && r <= '9' {
			return Result{Reason: ReasonNumbersNotAllowed}
		}
	}
	return Result{Valid: true}
}

// Normalize lower-cases the text and strips whitespace, the punctuation
// set -_.,!? and isolated Hangul jamo, so spacing a banned word out or
// decomposing its syllables does not get it past the substring match.
func Normalize(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	for _, r := range strings.ToLower(content) {
		if stripped(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripped(r rune) bool {
	switch r {
	case '-', '_', '.', ',', '!', '?':
		return true
	}
	if unicode.IsSpace(r) {
		return true
	}
	// Hangul compatibility jamo: standalone consonants U+3131..U+314E and
	// vowels U+314F..U+3163.
	return r >= 0x3131 && r <= 0x3163
}
