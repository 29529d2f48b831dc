package reddit

import "time"

// Post is a collected Reddit post with compact JSON keys. The short keys
// keep the snapshot files and the prompt payloads built from them small.
type Post struct {
	// Title is the post title. Always present.
	Title string `json:"t"`

	// Description is the self-text body, empty for link posts.
	Description string `json:"d,omitempty"`

	// Comments holds up to MaxComments cleaned, non-stickied top comments.
	Comments []string `json:"c,omitempty"`

	// Score is the post's net upvote count.
	Score int `json:"s"`

	// NumComments is the total comment count, including comments that were
	// not collected.
	NumComments int `json:"nc"`
}

// Snapshot is one collection run: a timestamp plus every relevant post
// gathered across the monitored subreddits.
type Snapshot struct {
	Timestamp time.Time `json:"ts"`
	Posts     []Post    `json:"p"`
}

// IsRelevant reports whether any collected text of the post contains a
// visual keyword.
func (p Post) IsRelevant() bool {
	if HasRelevantKeywords(p.Title) || HasRelevantKeywords(p.Description) {
		return true
	}
	for _, comment := range p.Comments {
		if HasRelevantKeywords(comment) {
			return true
		}
	}
	return false
}
