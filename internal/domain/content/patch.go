package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ItemDraft is the input for creating an item. ID may be empty, IsActive defaults to true.
type ItemDraft struct {
	ID string `json:"id,omitempty"`
	ItemPatch
}

func (d ItemDraft) ToItem() Item {
	it := Item{ID: d.ID, IsActive: true}
	d.ItemPatch.ApplyTo(&it)
	return it
}

var ErrItemsNotPatchable = errors.New("collection items can only be changed through the item API")

// PatchSection overwrites the given top level fields of a section, creating the section when
// it is absent. Fields not named in the patch keep their values.
func (d *Document) PatchSection(name SectionName, fields map[string]json.RawMessage) error {
	if _, ok := fields["items"]; ok && (name == SectionProjects || name == SectionCertifications) {
		return ErrItemsNotPatchable
	}

	current := map[string]json.RawMessage{}
	if sec, ok := d.Section(name); ok {
		b, err := json.Marshal(sec)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(b, &current); err != nil {
			return err
		}
	}
	for k, v := range fields {
		current[k] = v
	}
	merged, err := json.Marshal(current)
	if err != nil {
		return err
	}
	return d.setSectionJSON(name, merged)
}

func (d *Document) setSectionJSON(name SectionName, raw []byte) error {
	var err error
	switch name {
	case SectionHero:
		v := &Hero{}
		err = json.Unmarshal(raw, v)
		d.Hero = pick(v, d.Hero, err)
	case SectionAbout:
		v := &About{}
		err = json.Unmarshal(raw, v)
		d.About = pick(v, d.About, err)
	case SectionProjects:
		v := &Projects{}
		err = json.Unmarshal(raw, v)
		d.Projects = pick(v, d.Projects, err)
	case SectionCertifications:
		v := &Certifications{}
		err = json.Unmarshal(raw, v)
		d.Certifications = pick(v, d.Certifications, err)
	case SectionContact:
		v := &Contact{}
		err = json.Unmarshal(raw, v)
		d.Contact = pick(v, d.Contact, err)
	case SectionNavigation:
		v := &Navigation{}
		err = json.Unmarshal(raw, v)
		d.Navigation = pick(v, d.Navigation, err)
	case SectionSite:
		v := &Site{}
		err = json.Unmarshal(raw, v)
		d.Site = pick(v, d.Site, err)
	case SectionSettings:
		v := &Settings{}
		err = json.Unmarshal(raw, v)
		d.Settings = pick(v, d.Settings, err)
	case SectionFooter:
		v := &Footer{}
		err = json.Unmarshal(raw, v)
		d.Footer = pick(v, d.Footer, err)
	case SectionSEO:
		v := &SEO{}
		err = json.Unmarshal(raw, v)
		d.SEO = pick(v, d.SEO, err)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
	return err
}

func pick[T any](next, prev *T, err error) *T {
	if err != nil {
		return prev
	}
	return next
}

// UpsertContactInfo sets the value of the contact entry of the given type, adding it with
// the default icon and label when it does not exist yet.
func (d *Document) UpsertContactInfo(infoType, value string) {
	if d.Contact == nil {
		d.Contact = &Contact{Info: []ContactInfo{}, Social: []SocialLink{}}
	}
	for i := range d.Contact.Info {
		if d.Contact.Info[i].Type == infoType {
			d.Contact.Info[i].Value = value
			d.Contact.Info[i].Link = contactLink(infoType, value)
			return
		}
	}
	entry := ContactInfo{Type: infoType, Value: value, Link: contactLink(infoType, value)}
	switch infoType {
	case "email":
		entry.Icon, entry.Label = "fas fa-envelope", "Email"
	case "phone":
		entry.Icon, entry.Label = "fas fa-phone", "Phone"
	case "location":
		entry.Icon, entry.Label = "fas fa-map-marker-alt", "Location"
	}
	d.Contact.Info = append(d.Contact.Info, entry)
}

func contactLink(infoType, value string) string {
	switch infoType {
	case "email":
		return "mailto:" + value
	case "phone":
		digits := make([]rune, 0, len(value))
		for _, r := range value {
			if r >= '0' && r <= '9' {
				digits = append(digits, r)
			}
		}
		return "tel:" + string(digits)
	}
	return ""
}
