package ranking

import (
	"strings"
)

// Field weights for keyword search. Title matches dominate, code content
// barely registers.
const (
	weightTitle       = 10
	weightTag         = 5
	weightExplanation = 3
	weightCode        = 1
)

// Document is the searchable projection of a post or code template.
type Document struct {
	Title       string
	Tags        []string
	Explanation string
	Code        string
}

// RelevanceScore computes a weighted keyword-match score for doc against the
// query. Each whitespace-separated term scores independently, case
// insensitively; a zero result means no term matched anywhere. Relevance is
// meaningless without a query, so callers fall back to SortNew when the query
// is empty.
func RelevanceScore(query string, doc Document) int {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	title := strings.ToLower(doc.Title)
	explanation := strings.ToLower(doc.Explanation)
	code := strings.ToLower(doc.Code)

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += weightTitle
		}
		for _, tag := range doc.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				score += weightTag
			}
		}
		if strings.Contains(explanation, term) {
			score += weightExplanation
		}
		if strings.Contains(code, term) {
			score += weightCode
		}
	}
	return score
}
