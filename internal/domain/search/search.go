package search

import (
	"strings"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
)

type Result struct {
	Type    string       `json:"type"`
	Section string       `json:"section"`
	Score   int          `json:"score"`
	Item    content.Item `json:"item"`
}

// Terms lowercases the query and splits it on whitespace.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Score counts how many terms occur in the item's searchable text. Projects match on
// title, description and technologies; certifications on title, description and skills.
func Score(c content.Collection, it content.Item, terms []string) int {
	text := strings.ToLower(Text(c, it))
	score := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			score++
		}
	}
	return score
}

func Text(c content.Collection, it content.Item) string {
	parts := []string{it.Title, it.Description}
	switch c {
	case content.CollectionProjects:
		parts = append(parts, it.Technologies...)
	case content.CollectionCertifications:
		parts = append(parts, it.Skills...)
	}
	return strings.Join(parts, " ")
}
