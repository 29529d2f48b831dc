package trends

import (
	"encoding/json"
	"fmt"
	"sort"

	"vibey_backend/reddit"
)

// Analysis limits. Posts beyond MaxPosts or words beyond the per-field caps
// are dropped so the prompt stays inside the token budget.
const (
	MaxPromptTokens = 5000
	MaxPosts        = 50
	MaxTitleWords   = 15
	MaxDescWords    = 30
	MaxCommentWords = 20
	MaxComments     = 3
)

// PromptPost is a cleaned, truncated post as it appears in the analysis
// prompt. Same compact keys as the collected snapshot.
type PromptPost struct {
	Title       string   `json:"t"`
	Description string   `json:"d,omitempty"`
	Comments    []string `json:"c,omitempty"`
}

// PreparePosts sorts posts by engagement (score plus comment count), keeps
// the top MaxPosts, and cleans and truncates their text. Posts whose title
// cleans down to nothing are dropped entirely.
func PreparePosts(posts []reddit.Post) []PromptPost {
	sorted := make([]reddit.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score+sorted[i].NumComments > sorted[j].Score+sorted[j].NumComments
	})
	if len(sorted) > MaxPosts {
		sorted = sorted[:MaxPosts]
	}

	prepared := make([]PromptPost, 0, len(sorted))
	for _, post := range sorted {
		title := CleanForAnalysis(post.Title)
		if title == "" {
			continue
		}
		out := PromptPost{Title: TruncateWords(title, MaxTitleWords)}

		if desc := CleanForAnalysis(post.Description); desc != "" {
			out.Description = TruncateWords(desc, MaxDescWords)
		}

		comments := post.Comments
		if len(comments) > MaxComments {
			comments = comments[:MaxComments]
		}
		for _, comment := range comments {
			if cleaned := CleanForAnalysis(comment); cleaned != "" {
				out.Comments = append(out.Comments, TruncateWords(cleaned, MaxCommentWords))
			}
		}

		prepared = append(prepared, out)
	}
	return prepared
}

// EncodePosts serializes prepared posts as compact JSON for the prompt.
func EncodePosts(posts []PromptPost) (string, error) {
	data, err := json.Marshal(posts)
	if err != nil {
		return "", fmt.Errorf("trends: encoding prepared posts: %w", err)
	}
	return string(data), nil
}

// EstimateTokens approximates the token count of text. Roughly four
// characters per token holds for English prose; for pathological inputs the
// word-based bound keeps the estimate from undershooting.
func EstimateTokens(text string) int {
	byChars := (len(text) + 3) / 4
	byWords := 0
	inWord := false
	for i := 0; i < len(text); i++ {
		isSpace := text[i] == ' ' || text[i] == '\n' || text[i] == '\t'
		if !isSpace && !inWord {
			byWords++
		}
		inWord = !isSpace
	}
	byWords = byWords * 13 / 10
	if byWords > byChars {
		return byWords
	}
	return byChars
}
