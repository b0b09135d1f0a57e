package admin

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// DocumentEditor applies a whole-document edit as one persisted mutation.
type DocumentEditor interface {
	Edit(ctx context.Context, operation string, fn func(doc *content.Document) error) error
}

// ContentForm is the "content" editor page. Nil fields were not on the submitted form and
// keep their stored value.
type ContentForm struct {
	HeroTitle       *string `json:"heroTitle"`
	HeroSubtitle    *string `json:"heroSubtitle"`
	HeroDescription *string `json:"heroDescription"`
	// AboutContent holds one paragraph per line.
	AboutContent    *string `json:"aboutContent"`
	ContactEmail    *string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone    *string `json:"contactPhone"`
	ContactLocation *string `json:"contactLocation"`
}

type SettingsForm struct {
	SiteTitle         *string `json:"siteTitle"`
	SiteDescription   *string `json:"siteDescription"`
	ThemeColor        *string `json:"themeColor" validate:"omitempty,hexcolor"`
	AnimationsEnabled *bool   `json:"animationsEnabled"`
	LazyLoadImages    *bool   `json:"lazyLoadImages"`
	ShowBackToTop     *bool   `json:"showBackToTop"`
}

type ContentEditor struct {
	store    DocumentEditor
	validate *validator.Validate
	logger   logger.Logger
}

func NewContentEditor(store DocumentEditor, log logger.Logger) *ContentEditor {
	return &ContentEditor{store: store, validate: newValidator(), logger: log}
}

func (e *ContentEditor) SaveContent(ctx context.Context, form ContentForm) error {
	if err := e.validate.Struct(form); err != nil {
		return validationError(err)
	}
	return e.store.Edit(ctx, "SaveContent", func(doc *content.Document) error {
		if form.HeroTitle != nil || form.HeroSubtitle != nil || form.HeroDescription != nil {
			if doc.Hero == nil {
				doc.Hero = &content.Hero{Buttons: []content.Button{}}
			}
			assign(&doc.Hero.Title, form.HeroTitle)
			assign(&doc.Hero.Subtitle, form.HeroSubtitle)
			assign(&doc.Hero.Description, form.HeroDescription)
		}
		if form.AboutContent != nil {
			if doc.About == nil {
				doc.About = &content.About{Skills: []content.Skill{}}
			}
			doc.About.Content = paragraphs(*form.AboutContent)
		}
		if form.ContactEmail != nil {
			doc.UpsertContactInfo("email", *form.ContactEmail)
		}
		if form.ContactPhone != nil {
			doc.UpsertContactInfo("phone", *form.ContactPhone)
		}
		if form.ContactLocation != nil {
			doc.UpsertContactInfo("location", *form.ContactLocation)
		}
		return nil
	})
}

func (e *ContentEditor) SaveSettings(ctx context.Context, form SettingsForm) error {
	if err := e.validate.Struct(form); err != nil {
		return validationError(err)
	}
	return e.store.Edit(ctx, "SaveSettings", func(doc *content.Document) error {
		if form.SiteTitle != nil || form.SiteDescription != nil || form.ThemeColor != nil {
			if doc.Site == nil {
				doc.Site = &content.Site{}
			}
			assign(&doc.Site.Title, form.SiteTitle)
			assign(&doc.Site.Description, form.SiteDescription)
			assign(&doc.Site.ThemeColor, form.ThemeColor)
		}
		if form.AnimationsEnabled != nil || form.LazyLoadImages != nil || form.ShowBackToTop != nil {
			if doc.Settings == nil {
				doc.Settings = &content.Settings{}
			}
			assign(&doc.Settings.AnimationsEnabled, form.AnimationsEnabled)
			assign(&doc.Settings.LazyLoadImages, form.LazyLoadImages)
			assign(&doc.Settings.ShowBackToTop, form.ShowBackToTop)
		}
		return nil
	})
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// paragraphs splits text on newlines and drops blank lines.
func paragraphs(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
