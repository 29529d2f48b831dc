// Package trends turns collected Reddit posts into a scene description and
// an image-generation prompt via the Groq chat API.
//
// clean.go holds the text normalization atoms applied to post text before it
// is packed into the analysis prompt.
package trends

import (
	"regexp"
	"strings"
)

// englishStopwords is the standard English stopword list.
var englishStopwords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
	"your", "yours", "yourself", "yourselves", "he", "him", "his",
	"himself", "she", "her", "hers", "herself", "it", "its", "itself",
	"they", "them", "their", "theirs", "themselves", "what", "which",
	"who", "whom", "this", "that", "these", "those", "am", "is", "are",
	"was", "were", "be", "been", "being", "have", "has", "had", "having",
	"do", "does", "did", "doing", "a", "an", "the", "and", "but", "if",
	"or", "because", "as", "until", "while", "of", "at", "by", "for",
	"with", "about", "against", "between", "into", "through", "during",
	"before", "after", "above", "below", "to", "from", "up", "down", "in",
	"out", "on", "off", "over", "under", "again", "further", "then",
	"once", "here", "there", "when", "where", "why", "how", "all", "any",
	"both", "each", "few", "more", "most", "other", "some", "such", "no",
	"nor", "not", "only", "own", "same", "so", "than", "too", "very",
	"can", "will", "don", "now",
}

// domainStopwords extends the standard list with Reddit noise and words too
// generic to signal a visual trend.
var domainStopwords = []string{
	"http", "https", "www", "com", "reddit", "imgur",
	"edit", "deleted", "removed", "comment", "post",
	"think", "know", "like", "just", "want", "got",
	"really", "would", "could", "should", "much",
	"lol", "lmao", "tbh", "imo", "imho", "til",
	"today", "yesterday", "tomorrow", "week", "month",
}

var stopwords = func() map[string]struct{} {
	set := make(map[string]struct{}, len(englishStopwords)+len(domainStopwords))
	for _, w := range englishStopwords {
		set[w] = struct{}{}
	}
	for _, w := range domainStopwords {
		set[w] = struct{}{}
	}
	return set
}()

var (
	cleanURLPattern = regexp.MustCompile(`http\S+|www\S+|https\S+`)
	nonWordPattern  = regexp.MustCompile(`[^\w\s]`)
	digitPattern    = regexp.MustCompile(`\d+`)
	nonASCIIPattern = regexp.MustCompile(`[^\x00-\x7F]+`)
)

// CleanForAnalysis normalizes post text for the trend prompt: lowercase,
// URLs, punctuation, digits, and non-ASCII runs removed, stopwords and
// words of two characters or fewer dropped. Words that are a single
// repeated character ("aaaa", "!!!!") are dropped as noise.
func CleanForAnalysis(text string) string {
	text = strings.ToLower(text)
	text = cleanURLPattern.ReplaceAllString(text, "")
	text = nonWordPattern.ReplaceAllString(text, "")
	text = digitPattern.ReplaceAllString(text, "")
	text = nonASCIIPattern.ReplaceAllString(text, "")

	var kept []string
	for _, word := range strings.Fields(text) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if isSingleCharRun(word) {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

func isSingleCharRun(word string) bool {
	for i := 1; i < len(word); i++ {
		if word[i] != word[0] {
			return false
		}
	}
	return true
}

// TruncateWords keeps at most max words of s.
func TruncateWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:max], " ")
}
