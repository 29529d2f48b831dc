package trends

import (
	"strings"
	"testing"
)

func TestCleanForAnalysis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Moody Concrete Walls", "moody concrete walls"},
		{"strips urls", "great shot https://imgur.com/abc here", "great shot"},
		{"strips punctuation and digits", "top-10 looks, 2024 edition!", "top looks edition"},
		{"drops stopwords", "i think the lighting is really nice", "lighting nice"},
		{"drops short words", "an og fit in la", "fit"},
		{"drops single char runs", "wow aaaa zzz good", "wow good"},
		{"drops reddit noise", "edit deleted comment lol", ""},
		{"empty in empty out", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanForAnalysis(tt.in); got != tt.want {
				t.Errorf("CleanForAnalysis(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "a b c", 5, "a b c"},
		{"exactly max", "a b c", 3, "a b c"},
		{"truncated", "a b c d e", 3, "a b c"},
		{"zero max", "a b", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWords(tt.in, tt.max); got != tt.want {
				t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty text estimate = %d, want 0", got)
	}

	prose := strings.Repeat("warm golden light over brick walls ", 20)
	got := EstimateTokens(prose)
	if got < len(prose)/5 || got > len(prose)/3 {
		t.Errorf("prose estimate = %d chars=%d, outside plausible range", got, len(prose))
	}

	// Many short words: the word bound dominates the character bound.
	short := strings.TrimSpace(strings.Repeat("a b ", 100))
	if got := EstimateTokens(short); got < 200 {
		t.Errorf("short-word estimate = %d, want at least one token per word", got)
	}
}
