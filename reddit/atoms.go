// Package reddit collects trending fashion and design posts from Reddit
// for downstream trend analysis.
//
// atoms.go holds the pure text helpers: relevance keyword matching and
// markdown cleanup. Everything here is side-effect free.
package reddit

import (
	"regexp"
	"strings"
)

// VisualKeywords is the vocabulary that marks a post as visually relevant.
// A post survives collection only when its title, body, or one of its
// comments contains at least one of these terms.
var VisualKeywords = []string{
	// Physical environments
	"background", "light", "space", "room", "street", "environment",
	"studio", "outdoor", "indoor", "natural", "artificial", "urban",
	"architecture", "interior", "exterior",

	// Lighting conditions
	"lighting", "sunlight", "shadow", "bright", "dark", "moody", "dramatic",
	"soft", "harsh", "warm", "cool", "ambient", "golden hour",

	// Style elements
	"aesthetic", "mood", "vibe", "atmosphere", "texture", "pattern", "color",
	"minimalist", "modern", "vintage", "retro", "contemporary", "classic",

	// Visual composition
	"composition", "perspective", "depth", "focus", "sharp", "contrast",
	"balance", "symmetry", "proportion", "detail", "silhouette", "shape",

	// Materials and textures
	"wood", "metal", "glass", "concrete", "brick", "stone", "leather",
	"smooth", "rough", "matte", "glossy", "textured", "patterned",
}

var (
	markdownLinkPattern = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	urlPattern          = regexp.MustCompile(`http\S+`)
)

// HasRelevantKeywords reports whether text contains any visual keyword.
// Matching is case-insensitive substring matching, so "Moody lighting"
// matches both "moody" and "lighting".
func HasRelevantKeywords(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, keyword := range VisualKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// CleanText strips markdown links and bare URLs from comment text and trims
// surrounding whitespace.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = markdownLinkPattern.ReplaceAllString(text, "")
	text = urlPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
