package http

import (
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/internal/domain/search"
)

// Item DTOs

type CreateItemRequest = content.ItemDraft

type UpdateItemRequest = content.ItemPatch

type ItemListDTO struct {
	Collection content.Collection `json:"collection"`
	Items      []content.Item     `json:"items"`
	Total      int                `json:"total"`
}

func ToItemListDTO(c content.Collection, items []content.Item) ItemListDTO {
	if items == nil {
		items = []content.Item{}
	}
	return ItemListDTO{Collection: c, Items: items, Total: len(items)}
}

// Search DTOs

type SearchResultDTO struct {
	Type        string `json:"type"`
	Section     string `json:"section"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	Score       int    `json:"score"`
}

func ToSearchResultDTO(r search.Result) SearchResultDTO {
	return SearchResultDTO{
		Type:        r.Type,
		Section:     r.Section,
		ID:          r.Item.ID,
		Title:       r.Item.Title,
		Description: r.Item.Description,
		IsActive:    r.Item.IsActive,
		Score:       r.Score,
	}
}

// Contact DTOs

type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}
