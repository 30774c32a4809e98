package moderation

import (
	"strings"
	"testing"
)

func TestValidateAcceptsCleanContent(t *testing.T) {
	inputs := []string{
		"좋은 하루 되세요",
		"hello world",
		"오늘 날씨가 참 좋네요!",
		strings.Repeat("가", MaxContentLength),
	}
	for _, input := range inputs {
		result := Validate(input)
		if !result.Valid {
			t.Errorf("Validate(%q) rejected with %s, want valid", input, result.Reason)
		}
	}
}

func TestValidateRejectsEmptyContent(t *testing.T) {
	result := Validate("")
	if result.Valid || result.Reason != ReasonInvalidContent {
		t.Fatalf("Validate(\"\") = %+v, want INVALID_CONTENT", result)
	}
}

func TestValidateRejectsLongContent(t *testing.T) {
	// Length is counted in runes, not bytes.
	input := strings.Repeat("한", MaxContentLength+1)
	result := Validate(input)
	if result.Valid || result.Reason != ReasonContentTooLong {
		t.Fatalf("Validate(501 runes) = %+v, want CONTENT_TOO_LONG", result)
	}
}

func TestValidateRejectsBannedWords(t *testing.T) {
	inputs := []string{
		"너 진짜 바보",
		"바보",
		"바 보",      // spaced out
		"바-보",      // punctuation between syllables
		"바ㅋ보",     // isolated jamo stripped before matching
		"BA바보BO",   // embedded in longer text
		"쓰레기 같은 날", // substring match, over-inclusive on purpose
	}
	for _, input := range inputs {
		result := Validate(input)
		if result.Valid || result.Reason != ReasonBannedWords {
			t.Errorf("Validate(%q) = %+v, want BANNED_WORDS", input, result)
		}
	}
}

func TestValidateRejectsDigits(t *testing.T) {
	inputs := []string{
		"hello 2",
		"010 으로 전화주세요",
		"내 점수는 100점",
	}
	for _, input := range inputs {
		result := Validate(input)
		if result.Valid || result.Reason != ReasonNumbersNotAllowed {
			t.Errorf("Validate(%q) = %+v, want NUMBERS_NOT_ALLOWED", input, result)
		}
	}
}

func TestValidateCheckOrder(t *testing.T) {
	// Length beats banned words and digits.
	long := strings.Repeat("바보1", MaxContentLength)
	if result := Validate(long); result.Reason != ReasonContentTooLong {
		t.Errorf("long banned content = %+v, want CONTENT_TOO_LONG", result)
	}

	// Banned words beat digits.
	if result := Validate("바보 1호"); result.Reason != ReasonBannedWords {
		t.Errorf("banned content with digit = %+v, want BANNED_WORDS", result)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	inputs := []string{"", "좋은 하루 되세요", "너 진짜 바보", "hello 2"}
	for _, input := range inputs {
		first := Validate(input)
		second := Validate(input)
		if first != second {
			t.Errorf("Validate(%q) differed across calls: %+v vs %+v", input, first, second)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello, World!", "helloworld"},
		{"바 보", "바보"},
		{"바-보_멍.청,이!?", "바보멍청이"},
		{"ㅂㅏㅂㅗ", ""}, // isolated jamo stripped entirely
		{"바\t보\n", "바보"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
