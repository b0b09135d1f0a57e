package search

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/internal/domain/search"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type DocumentSource interface {
	Document() *content.Document
}

type SearchUseCase struct {
	store  DocumentSource
	logger logger.Logger
}

func NewSearchUseCase(store DocumentSource, log logger.Logger) *SearchUseCase {
	return &SearchUseCase{
		store:  store,
		logger: log,
	}
}

type SearchInput struct {
	Query string
	// IsPublic restricts results to active items.
	IsPublic bool
	Limit    int
}

type SearchOutput struct {
	Results []search.Result `json:"results"`
}

func (uc *SearchUseCase) Execute(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	terms := search.Terms(input.Query)
	if len(terms) == 0 {
		return &SearchOutput{Results: []search.Result{}}, nil
	}
	if input.Limit <= 0 {
		input.Limit = 10
	}

	doc := uc.store.Document()
	results := []search.Result{}
	for _, c := range []content.Collection{content.CollectionProjects, content.CollectionCertifications} {
		items := doc.Items(c)
		if input.IsPublic {
			items = content.ActiveOnly(items)
		}
		for _, it := range items {
			if score := search.Score(c, it, terms); score > 0 {
				results = append(results, search.Result{Type: c.Kind(), Section: string(c), Score: score, Item: it})
			}
		}
	}

	slices.SortStableFunc(results, func(a, b search.Result) int {
		return b.Score - a.Score
	})
	if len(results) > input.Limit {
		results = results[:input.Limit]
	}

	uc.logger.Debug("Content search executed",
		zap.String("query", input.Query),
		zap.Bool("public", input.IsPublic),
		zap.Int("result_count", len(results)))
	return &SearchOutput{Results: results}, nil
}
