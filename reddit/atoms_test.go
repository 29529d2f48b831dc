package reddit

import "testing"

func TestHasRelevantKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty text", "", false},
		{"no keywords", "bought these yesterday, fit is great", false},
		{"direct keyword", "love the lighting in this shot", true},
		{"case insensitive", "MOODY vibes all around", true},
		{"keyword inside word", "great backlighting here", true}, // substring match on "light"
		{"multi word keyword", "shot during golden hour downtown", true},
		{"material keyword", "concrete and glass everywhere", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasRelevantKeywords(tt.text); got != tt.want {
				t.Errorf("HasRelevantKeywords(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text untouched", "nice warm tones", "nice warm tones"},
		{"strips markdown link", "see [this album](https://imgur.com/a/x) for more", "see  for more"},
		{"strips bare url", "source: https://example.com/post trailing", "source:  trailing"},
		{"trims whitespace", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPostIsRelevant(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want bool
	}{
		{"relevant title", Post{Title: "soft natural light"}, true},
		{"relevant description", Post{Title: "fit check", Description: "shot in my studio"}, true},
		{"relevant comment only", Post{Title: "fit check", Comments: []string{"the texture on that jacket"}}, true},
		{"nothing relevant", Post{Title: "fit check", Description: "new pickup", Comments: []string{"nice"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.IsRelevant(); got != tt.want {
				t.Errorf("IsRelevant() = %v, want %v", got, tt.want)
			}
		})
	}
}
