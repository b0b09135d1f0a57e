package feed

import (
	"context"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type DocumentSource interface {
	Document() *content.Document
}

type RSSUseCase struct {
	store   DocumentSource
	siteURL string
	now     func() time.Time
	logger  logger.Logger
}

func NewRSSUseCase(store DocumentSource, siteURL string, log logger.Logger) *RSSUseCase {
	return &RSSUseCase{
		store:   store,
		siteURL: strings.TrimRight(siteURL, "/"),
		now:     time.Now,
		logger:  log,
	}
}

// Execute builds a feed of the active projects in stored order.
func (uc *RSSUseCase) Execute(ctx context.Context) (*feeds.Feed, error) {
	doc := uc.store.Document()

	feed := &feeds.Feed{
		Title:       "Portfolio - Projects",
		Link:        &feeds.Link{Href: uc.siteURL + "/"},
		Description: "Latest projects.",
		Created:     uc.now(),
	}
	if doc != nil && doc.Site != nil {
		if doc.Site.Title != "" {
			feed.Title = doc.Site.Title
		}
		if doc.Site.Description != "" {
			feed.Description = doc.Site.Description
		}
		if doc.Site.Author != "" {
			feed.Author = &feeds.Author{Name: doc.Site.Author}
		}
	}

	var feedItems []*feeds.Item
	for _, p := range doc.ActiveItems(content.CollectionProjects) {
		link := uc.siteURL + "/#" + p.ID
		if p.Links != nil && p.Links.Demo != "" {
			link = p.Links.Demo
		}
		item := &feeds.Item{
			Id:          p.ID,
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Description: p.Description,
			Created:     feed.Created,
		}
		feedItems = append(feedItems, item)
	}

	feed.Items = feedItems
	uc.logger.Info("RSS feed generated successfully", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
