package content

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

type SectionName string

const (
	SectionHero           SectionName = "hero"
	SectionAbout          SectionName = "about"
	SectionProjects       SectionName = "projects"
	SectionCertifications SectionName = "certifications"
	SectionContact        SectionName = "contact"
	SectionNavigation     SectionName = "navigation"
	SectionSite           SectionName = "site"
	SectionSettings       SectionName = "settings"
	SectionFooter         SectionName = "footer"
	SectionSEO            SectionName = "seo"
)

// AllSections lists every section in render order, SEO last.
var AllSections = []SectionName{
	SectionNavigation, SectionHero, SectionAbout, SectionCertifications, SectionProjects,
	SectionContact, SectionFooter, SectionSite, SectionSettings, SectionSEO,
}

var ErrUnknownSection = errors.New("unknown section")

func ParseSectionName(s string) (SectionName, error) {
	name := SectionName(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllSections {
		if known == name {
			return name, nil
		}
	}
	return "", ErrUnknownSection
}

// Document is the whole content tree backing the rendered site. A nil section means the
// section is absent from the source document.
type Document struct {
	Site           *Site           `json:"site,omitempty"`
	SEO            *SEO            `json:"seo,omitempty"`
	Navigation     *Navigation     `json:"navigation,omitempty"`
	Hero           *Hero           `json:"hero,omitempty"`
	About          *About          `json:"about,omitempty"`
	Certifications *Certifications `json:"certifications,omitempty"`
	Projects       *Projects       `json:"projects,omitempty"`
	Contact        *Contact        `json:"contact,omitempty"`
	Footer         *Footer         `json:"footer,omitempty"`
	Settings       *Settings       `json:"settings,omitempty"`
}

type Site struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	ThemeColor  string `json:"themeColor,omitempty"`
	Language    string `json:"language,omitempty"`
}

type SEO struct {
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords"`
	OGImage     string   `json:"ogImage,omitempty"`
	TwitterCard string   `json:"twitterCard,omitempty"`
}

type Navigation struct {
	Logo *Logo      `json:"logo,omitempty"`
	Menu []MenuItem `json:"menu"`
}

type Logo struct {
	Text string `json:"text,omitempty"`
}

type MenuItem struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

type Hero struct {
	// Title may carry inline markup (e.g. a highlight span); it is sanitised on render.
	Title        string   `json:"title,omitempty"`
	Subtitle     string   `json:"subtitle,omitempty"`
	Description  string   `json:"description,omitempty"`
	ProfileImage string   `json:"profileImage,omitempty"`
	Buttons      []Button `json:"buttons"`
}

type Button struct {
	Text string `json:"text"`
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

type About struct {
	Title    string   `json:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	Content  []string `json:"content"`
	Skills   []Skill  `json:"skills"`
}

type Skill struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type Certifications struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Stats    []Stat `json:"stats"`
	Items    []Item `json:"items"`
}

type Stat struct {
	Icon   string     `json:"icon,omitempty"`
	Number FlexString `json:"number"`
	Label  string     `json:"label"`
}

type Projects struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Items    []Item `json:"items"`
}

type Contact struct {
	Title       string        `json:"title,omitempty"`
	Subtitle    string        `json:"subtitle,omitempty"`
	Greeting    string        `json:"greeting,omitempty"`
	Description string        `json:"description,omitempty"`
	Info        []ContactInfo `json:"info"`
	Social      []SocialLink  `json:"social"`
	Form        *ContactForm  `json:"form,omitempty"`
}

type ContactInfo struct {
	Type  string `json:"type,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
	Link  string `json:"link,omitempty"`
}

type SocialLink struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	Icon     string `json:"icon,omitempty"`
	IsActive bool   `json:"isActive"`
}

type ContactForm struct {
	Fields     []FormField `json:"fields"`
	SubmitText string      `json:"submitText,omitempty"`
}

type FormField struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Placeholder string `json:"placeholder,omitempty"`
	Rows        int    `json:"rows,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

type Footer struct {
	Copyright string `json:"copyright,omitempty"`
	MadeWith  string `json:"madeWith,omitempty"`
}

type Settings struct {
	AnimationsEnabled bool `json:"animationsEnabled"`
	LazyLoadImages    bool `json:"lazyLoadImages"`
	ShowBackToTop     bool `json:"showBackToTop"`
}

// FlexString accepts either a JSON string or a JSON number ("10+" and 10 are both valid
// stat numbers in hand-written content files).
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) Int() (int, bool) {
	n, err := strconv.Atoi(string(f))
	return n, err == nil
}

// Section returns the record for name, or false when the section is absent.
func (d *Document) Section(name SectionName) (any, bool) {
	if d == nil {
		return nil, false
	}
	var v any
	switch name {
	case SectionHero:
		v = d.Hero
	case SectionAbout:
		v = d.About
	case SectionProjects:
		v = d.Projects
	case SectionCertifications:
		v = d.Certifications
	case SectionContact:
		v = d.Contact
	case SectionNavigation:
		v = d.Navigation
	case SectionSite:
		v = d.Site
	case SectionSettings:
		v = d.Settings
	case SectionFooter:
		v = d.Footer
	case SectionSEO:
		v = d.SEO
	default:
		return nil, false
	}
	if isNilSection(v) {
		return nil, false
	}
	return v, true
}

func isNilSection(v any) bool {
	switch s := v.(type) {
	case *Hero:
		return s == nil
	case *About:
		return s == nil
	case *Projects:
		return s == nil
	case *Certifications:
		return s == nil
	case *Contact:
		return s == nil
	case *Navigation:
		return s == nil
	case *Site:
		return s == nil
	case *Settings:
		return s == nil
	case *Footer:
		return s == nil
	case *SEO:
		return s == nil
	}
	return v == nil
}

// Clone returns a deep copy. Documents are plain JSON trees so a JSON round-trip is exact.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil
	}
	out := &Document{}
	if err := json.Unmarshal(b, out); err != nil {
		return nil
	}
	return out
}

// Items returns the stored items of a collection, nil when the section is absent.
func (d *Document) Items(c Collection) []Item {
	if d == nil {
		return nil
	}
	switch c {
	case CollectionProjects:
		if d.Projects != nil {
			return d.Projects.Items
		}
	case CollectionCertifications:
		if d.Certifications != nil {
			return d.Certifications.Items
		}
	}
	return nil
}

// ActiveItems filters Items to those with IsActive set, keeping stored order.
func (d *Document) ActiveItems(c Collection) []Item {
	return ActiveOnly(d.Items(c))
}

func ActiveOnly(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.IsActive {
			out = append(out, it)
		}
	}
	return out
}

// itemsRef returns a pointer to the collection slice, creating the section when missing.
func (d *Document) itemsRef(c Collection) *[]Item {
	switch c {
	case CollectionProjects:
		if d.Projects == nil {
			d.Projects = &Projects{}
		}
		return &d.Projects.Items
	case CollectionCertifications:
		if d.Certifications == nil {
			d.Certifications = &Certifications{}
		}
		return &d.Certifications.Items
	}
	return nil
}

// AppendItem adds item at the end of the collection.
func (d *Document) AppendItem(c Collection, item Item) {
	ref := d.itemsRef(c)
	*ref = append(*ref, item)
}

// UpdateItem applies patch to the first item with id. It reports whether one was found.
func (d *Document) UpdateItem(c Collection, id string, patch ItemPatch) bool {
	items := d.Items(c)
	for i := range items {
		if items[i].ID == id {
			patch.ApplyTo(&items[i])
			return true
		}
	}
	return false
}

// RemoveItem deletes the first item with id. It reports whether one was found.
func (d *Document) RemoveItem(c Collection, id string) bool {
	items := d.Items(c)
	for i := range items {
		if items[i].ID == id {
			ref := d.itemsRef(c)
			*ref = append(items[:i:i], items[i+1:]...)
			return true
		}
	}
	return false
}

// FindItem returns the item with id in the collection.
func (d *Document) FindItem(c Collection, id string) (Item, bool) {
	for _, it := range d.Items(c) {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (d *Document) HasItem(c Collection, id string) bool {
	_, ok := d.FindItem(c, id)
	return ok
}

// SectionError reports a section left out while decoding because its shape did not match.
type SectionError struct {
	Section SectionName
	Err     error
}

func (e *SectionError) Error() string {
	return "section " + string(e.Section) + ": " + e.Err.Error()
}

func (e *SectionError) Unwrap() error { return e.Err }

var ErrNotObject = errors.New("content document must be a JSON object")

// Decode reads a document one section at a time. A section that does not decode is left
// out and reported; the other sections are kept. Only a top level that is not an object
// is an error.
func Decode(b []byte) (*Document, []*SectionError, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, nil, err
	}
	if raw == nil {
		return nil, nil, ErrNotObject
	}
	doc := &Document{}
	var dropped []*SectionError
	for _, name := range AllSections {
		msg, ok := raw[string(name)]
		if !ok || string(msg) == "null" {
			continue
		}
		if err := doc.setSectionJSON(name, msg); err != nil {
			dropped = append(dropped, &SectionError{Section: name, Err: err})
		}
	}
	return doc, dropped, nil
}

// Parse is Decode without the report of dropped sections.
func Parse(b []byte) (*Document, error) {
	doc, _, err := Decode(b)
	return doc, err
}

func (d *Document) UnmarshalJSON(b []byte) error {
	doc, _, err := Decode(b)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}
