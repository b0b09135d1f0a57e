package render

import (
	"html/template"
	"strings"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
)

// Render projects doc onto targets: navigation, hero, about, certifications, projects,
// contact, footer and settings, then document metadata. Every region writes whole values so
// rendering the same document twice yields the same page. Regions whose section or target
// is missing are left untouched.
func Render(doc *content.Document, t Targets) []error {
	if doc == nil || t == nil {
		return nil
	}
	var errs []error
	for _, region := range []func(*content.Document, Targets) error{
		renderNavigation,
		renderHero,
		renderAbout,
		renderCertifications,
		renderProjects,
		renderContact,
		renderFooter,
		renderSettings,
		renderSEO,
	} {
		if err := region(doc, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func setText(t Targets, selector, text string) {
	if r, ok := t.Region(selector); ok {
		r.SetText(text)
	}
}

func setFragment(t Targets, selector, name string, data any) error {
	r, ok := t.Region(selector)
	if !ok {
		return nil
	}
	html, err := execute(name, data)
	if err != nil {
		return err
	}
	r.SetHTML(html)
	return nil
}

func renderNavigation(doc *content.Document, t Targets) error {
	nav := doc.Navigation
	if nav == nil {
		return nil
	}
	if nav.Logo != nil {
		setText(t, ".nav-logo h2", nav.Logo.Text)
	}
	if nav.Menu == nil {
		return nil
	}
	active := make([]content.MenuItem, 0, len(nav.Menu))
	for _, item := range nav.Menu {
		if item.Active {
			active = append(active, item)
		}
	}
	return setFragment(t, ".nav-menu", "nav", active)
}

func renderHero(doc *content.Document, t Targets) error {
	hero := doc.Hero
	if hero == nil {
		return nil
	}
	if r, ok := t.Region(".hero-title"); ok {
		r.SetHTML(inlinePolicy.Sanitize(hero.Title))
	}
	setText(t, ".hero-subtitle", hero.Subtitle)
	setText(t, ".hero-description", hero.Description)
	if hero.ProfileImage != "" {
		if r, ok := t.Region(".profile-img img"); ok {
			r.SetAttr("src", string(safeLink(hero.ProfileImage)))
		}
	}
	if hero.Buttons == nil {
		return nil
	}
	return setFragment(t, ".hero-buttons", "buttons", hero.Buttons)
}

func renderAbout(doc *content.Document, t Targets) error {
	about := doc.About
	if about == nil {
		return nil
	}
	setText(t, "#about .section-title", about.Title)
	setText(t, "#about .section-subtitle", about.Subtitle)
	if about.Content == nil {
		return nil
	}
	paragraphs := make([]template.HTML, 0, len(about.Content))
	for _, p := range about.Content {
		paragraphs = append(paragraphs, paragraphHTML(p))
	}
	return setFragment(t, ".about-text", "about", struct {
		Paragraphs []template.HTML
		Skills     []content.Skill
	}{paragraphs, about.Skills})
}

func renderCertifications(doc *content.Document, t Targets) error {
	certs := doc.Certifications
	if certs == nil {
		return nil
	}
	setText(t, "#certifications .section-title", certs.Title)
	setText(t, "#certifications .section-subtitle", certs.Subtitle)
	if certs.Stats != nil {
		if err := setFragment(t, ".certifications-stats", "stats", certs.Stats); err != nil {
			return err
		}
	}
	if certs.Items == nil {
		return nil
	}
	return setFragment(t, ".certifications-grid", "certifications", content.ActiveOnly(certs.Items))
}

func renderProjects(doc *content.Document, t Targets) error {
	projects := doc.Projects
	if projects == nil {
		return nil
	}
	setText(t, "#projects .section-title", projects.Title)
	setText(t, "#projects .section-subtitle", projects.Subtitle)
	return setFragment(t, ".projects-grid", "projects", struct {
		Items      []content.Item
		LazyImages bool
	}{content.ActiveOnly(projects.Items), doc.Settings == nil || doc.Settings.LazyLoadImages})
}

func renderContact(doc *content.Document, t Targets) error {
	contact := doc.Contact
	if contact == nil {
		return nil
	}
	setText(t, "#contact .section-title", contact.Title)
	setText(t, "#contact .section-subtitle", contact.Subtitle)

	if info, ok := t.Region(".contact-info"); ok {
		if r, ok := info.Find("h3"); ok {
			r.SetText(contact.Greeting)
		}
		if r, ok := info.Find("p"); ok {
			r.SetText(contact.Description)
		}
		if r, ok := info.Find(".contact-items"); ok && contact.Info != nil {
			html, err := execute("contact-items", contact.Info)
			if err != nil {
				return err
			}
			r.SetHTML(html)
		}
		if r, ok := info.Find(".social-links"); ok && contact.Social != nil {
			active := make([]content.SocialLink, 0, len(contact.Social))
			for _, s := range contact.Social {
				if s.IsActive {
					active = append(active, s)
				}
			}
			html, err := execute("social", active)
			if err != nil {
				return err
			}
			r.SetHTML(html)
		}
	}

	if contact.Form == nil {
		return nil
	}
	return setFragment(t, ".contact-form", "form", contact.Form)
}

func renderFooter(doc *content.Document, t Targets) error {
	if doc.Footer == nil {
		return nil
	}
	return setFragment(t, ".footer-content", "footer", doc.Footer)
}

func renderSettings(doc *content.Document, t Targets) error {
	s := doc.Settings
	if s == nil {
		return nil
	}
	body, ok := t.Region("body")
	if !ok {
		return nil
	}
	body.SetAttr("data-animations", onOff(s.AnimationsEnabled))
	body.SetAttr("data-back-to-top", onOff(s.ShowBackToTop))
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func renderSEO(doc *content.Document, t Targets) error {
	site, seo := doc.Site, doc.SEO
	if site == nil && seo == nil {
		return nil
	}
	if site == nil {
		site = &content.Site{}
	}
	if seo == nil {
		seo = &content.SEO{}
	}

	if site.Title != "" {
		t.SetTitle(site.Title)
	}
	description := seo.Description
	if description == "" {
		description = site.Description
	}
	setMeta(t, "name", "description", description)
	setMeta(t, "name", "keywords", strings.Join(seo.Keywords, ", "))
	setMeta(t, "name", "author", site.Author)
	setMeta(t, "name", "theme-color", site.ThemeColor)

	if seo.OGImage != "" {
		setMeta(t, "property", "og:image", seo.OGImage)
		setMeta(t, "property", "og:title", site.Title)
		setMeta(t, "property", "og:description", seo.Description)
	}
	if seo.TwitterCard != "" {
		setMeta(t, "name", "twitter:card", seo.TwitterCard)
		setMeta(t, "name", "twitter:image", seo.OGImage)
	}
	return nil
}

func setMeta(t Targets, attr, key, value string) {
	if value == "" {
		return
	}
	t.SetMeta(attr, key, value)
}
