package content

import (
	"errors"
	"slices"
	"strings"
)

type Collection string

const (
	CollectionProjects       Collection = "projects"
	CollectionCertifications Collection = "certifications"
)

var ErrUnknownCollection = errors.New("unknown collection")

// ParseCollection accepts either the collection name or its item kind ("project").
func ParseCollection(s string) (Collection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "projects", "project":
		return CollectionProjects, nil
	case "certifications", "certification":
		return CollectionCertifications, nil
	}
	return "", ErrUnknownCollection
}

// Kind is the singular item kind used as the id prefix.
func (c Collection) Kind() string {
	switch c {
	case CollectionProjects:
		return "project"
	case CollectionCertifications:
		return "certification"
	}
	return string(c)
}

type ItemStatus string

const (
	StatusVerified   ItemStatus = "verified"
	StatusInProgress ItemStatus = "in-progress"
)

// Item is a project or a certification. Kind specific fields are left empty on the other kind.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	Featured    bool   `json:"featured,omitempty"`

	// projects
	Image        string   `json:"image,omitempty"`
	Category     string   `json:"category,omitempty"`
	Technologies []string `json:"technologies"`
	Links        *Links   `json:"links,omitempty"`

	// certifications
	Institution   string     `json:"institution,omitempty"`
	Icon          string     `json:"icon,omitempty"`
	Skills        []string   `json:"skills"`
	Date          string     `json:"date,omitempty"`
	Duration      string     `json:"duration,omitempty"`
	Status        ItemStatus `json:"status,omitempty"`
	CredentialURL string     `json:"credentialUrl,omitempty"`
}

type Links struct {
	Demo   string `json:"demo"`
	Github string `json:"github"`
}

// ItemPatch is a shallow overwrite: nil fields leave the item untouched. There is no ID
// field, ids never change after assignment.
type ItemPatch struct {
	Title         *string     `json:"title,omitempty"`
	Description   *string     `json:"description,omitempty"`
	IsActive      *bool       `json:"isActive,omitempty"`
	Featured      *bool       `json:"featured,omitempty"`
	Image         *string     `json:"image,omitempty"`
	Category      *string     `json:"category,omitempty"`
	Technologies  *[]string   `json:"technologies,omitempty"`
	Links         *Links      `json:"links,omitempty"`
	Institution   *string     `json:"institution,omitempty"`
	Icon          *string     `json:"icon,omitempty"`
	Skills        *[]string   `json:"skills,omitempty"`
	Date          *string     `json:"date,omitempty"`
	Duration      *string     `json:"duration,omitempty"`
	Status        *ItemStatus `json:"status,omitempty"`
	CredentialURL *string     `json:"credentialUrl,omitempty"`
}

func (p ItemPatch) ApplyTo(it *Item) {
	setIf(&it.Title, p.Title)
	setIf(&it.Description, p.Description)
	setIf(&it.IsActive, p.IsActive)
	setIf(&it.Featured, p.Featured)
	setIf(&it.Image, p.Image)
	setIf(&it.Category, p.Category)
	if p.Technologies != nil {
		it.Technologies = slices.Clone(*p.Technologies)
	}
	if p.Links != nil {
		l := *p.Links
		it.Links = &l
	}
	setIf(&it.Institution, p.Institution)
	setIf(&it.Icon, p.Icon)
	if p.Skills != nil {
		it.Skills = slices.Clone(*p.Skills)
	}
	setIf(&it.Date, p.Date)
	setIf(&it.Duration, p.Duration)
	setIf(&it.Status, p.Status)
	setIf(&it.CredentialURL, p.CredentialURL)
}

func (p ItemPatch) IsEmpty() bool {
	return p == ItemPatch{}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T {
	return &v
}
