package admin

import (
	"encoding/json"
	"strings"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
)

// Checkbox follows HTML form semantics: any submitted value other than an explicit false
// means checked, and an absent field means unchecked.
type Checkbox bool

func (c *Checkbox) UnmarshalParam(param string) error {
	*c = Checkbox(checked(param))
	return nil
}

func (c *Checkbox) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*c = Checkbox(t)
	case string:
		*c = Checkbox(checked(t))
	default:
		*c = false
	}
	return nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "off":
		return false
	}
	return true
}

// ItemForm is the flat editor form for a project or a certification. List fields are
// comma separated.
type ItemForm struct {
	Kind string `json:"-" form:"-"`

	Title       string   `json:"title" form:"title" validate:"required"`
	Description string   `json:"description" form:"description" validate:"required"`
	IsActive    Checkbox `json:"isActive" form:"isActive"`
	Featured    Checkbox `json:"featured" form:"featured"`

	Image        string `json:"image" form:"image"`
	Category     string `json:"category" form:"category"`
	Technologies string `json:"technologies" form:"technologies"`
	DemoLink     string `json:"demoLink" form:"demoLink"`
	GithubLink   string `json:"githubLink" form:"githubLink"`

	Institution   string `json:"institution" form:"institution" validate:"required_if=Kind certification"`
	Icon          string `json:"icon" form:"icon"`
	Skills        string `json:"skills" form:"skills"`
	Date          string `json:"date" form:"date"`
	Duration      string `json:"duration" form:"duration"`
	Status        string `json:"status" form:"status" validate:"omitempty,oneof=verified in-progress"`
	CredentialURL string `json:"credentialUrl" form:"credentialUrl"`
}

// SplitList turns "a, b,, c" into [a b c].
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// blankForm is what a new item form starts with: active, everything else empty.
func blankForm(c content.Collection) ItemForm {
	f := ItemForm{Kind: c.Kind(), IsActive: true}
	if c == content.CollectionCertifications {
		f.Status = string(content.StatusVerified)
	}
	return f
}

// formFromItem prefills the editor from a stored item.
func formFromItem(c content.Collection, it content.Item) ItemForm {
	f := ItemForm{
		Kind:        c.Kind(),
		Title:       it.Title,
		Description: it.Description,
		IsActive:    Checkbox(it.IsActive),
		Featured:    Checkbox(it.Featured),
	}
	switch c {
	case content.CollectionProjects:
		f.Image = it.Image
		f.Category = it.Category
		f.Technologies = strings.Join(it.Technologies, ", ")
		if it.Links != nil {
			f.DemoLink = it.Links.Demo
			f.GithubLink = it.Links.Github
		}
	case content.CollectionCertifications:
		f.Institution = it.Institution
		f.Icon = it.Icon
		f.Skills = strings.Join(it.Skills, ", ")
		f.Date = it.Date
		f.Duration = it.Duration
		f.Status = string(it.Status)
		f.CredentialURL = it.CredentialURL
	}
	return f
}

// trimmed strips surrounding blanks from the text fields that validation checks, so a
// whitespace-only title counts as missing.
func (f ItemForm) trimmed() ItemForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Institution = strings.TrimSpace(f.Institution)
	f.Status = strings.TrimSpace(f.Status)
	return f
}

// patch converts the form into an overwrite of every field the form of that kind shows.
func (f ItemForm) patch(c content.Collection) content.ItemPatch {
	p := content.ItemPatch{
		Title:       content.Ptr(f.Title),
		Description: content.Ptr(f.Description),
		IsActive:    content.Ptr(bool(f.IsActive)),
	}
	switch c {
	case content.CollectionProjects:
		p.Featured = content.Ptr(bool(f.Featured))
		p.Image = content.Ptr(f.Image)
		p.Category = content.Ptr(f.Category)
		p.Technologies = content.Ptr(SplitList(f.Technologies))
		p.Links = &content.Links{Demo: f.DemoLink, Github: f.GithubLink}
	case content.CollectionCertifications:
		p.Institution = content.Ptr(f.Institution)
		p.Icon = content.Ptr(f.Icon)
		p.Skills = content.Ptr(SplitList(f.Skills))
		p.Date = content.Ptr(f.Date)
		p.Duration = content.Ptr(f.Duration)
		p.Status = content.Ptr(content.ItemStatus(f.Status))
		p.CredentialURL = content.Ptr(f.CredentialURL)
	}
	return p
}
