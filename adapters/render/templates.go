package render

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"link": safeLink,
}).Parse(`
{{define "nav"}}{{range .}}<li><a href="{{link .Href}}" class="nav-link">{{.Label}}</a></li>{{end}}{{end}}

{{define "buttons"}}{{range .}}<a href="{{link .Href}}" class="btn btn-{{.Type}}">{{.Text}}</a>{{end}}{{end}}

{{define "about"}}{{range .Paragraphs}}{{.}}{{end}}{{if .Skills}}
<div class="skills">
  <h3>Key Skills</h3>
  <div class="skills-grid">{{range .Skills}}
    <div class="skill-item"><i class="{{.Icon}}"></i><span>{{.Name}}</span></div>{{end}}
  </div>
</div>{{end}}{{end}}

{{define "stats"}}{{range .}}<div class="stat-card">
  <div class="stat-icon"><i class="{{.Icon}}"></i></div>
  <div class="stat-info"><span class="stat-number">{{.Number}}</span><span class="stat-label">{{.Label}}</span></div>
</div>{{end}}{{end}}

{{define "certifications"}}{{range .}}<div class="certification-card" data-cert-id="{{.ID}}">
  <div class="cert-header">
    <div class="cert-icon"><i class="{{.Icon}}"></i></div>
    <div class="cert-info"><h3 class="cert-title">{{.Title}}</h3><p class="cert-institution">{{.Institution}}</p></div>
    <div class="cert-status {{.Status}}"><i class="fas fa-{{if eq .Status "verified"}}check-circle{{else}}clock{{end}}"></i></div>
  </div>
  <div class="cert-details">
    <p class="cert-description">{{.Description}}</p>
    <div class="cert-skills">{{range .Skills}}<span class="cert-skill">{{.}}</span>{{end}}</div>
    <div class="cert-meta">
      <span class="cert-date"><i class="fas fa-calendar"></i> {{.Date}}</span>
      <span class="cert-duration"><i class="fas fa-clock"></i> {{.Duration}}</span>
    </div>
  </div>
</div>{{end}}{{end}}

{{define "projects"}}{{range .Items}}<div class="project-card" data-project-id="{{.ID}}" data-category="{{.Category}}">
  <div class="project-image">{{if .Image}}<img src="{{link .Image}}" alt="{{.Title}}"{{if $.LazyImages}} loading="lazy"{{end}}>{{else}}<div class="project-fallback"><i class="fas fa-laptop-code"></i></div>{{end}}</div>
  <div class="project-content">
    <h3 class="project-title">{{.Title}}</h3>
    <p class="project-description">{{.Description}}</p>
    <div class="project-tags">{{range .Technologies}}<span class="tag">{{.}}</span>{{end}}</div>
    <div class="project-links">{{with .Links}}{{if .Demo}}<a href="{{link .Demo}}" class="project-link" target="_blank" rel="noopener noreferrer"><i class="fas fa-external-link-alt"></i>Demo</a>{{end}}{{if .Github}}<a href="{{link .Github}}" class="project-link" target="_blank" rel="noopener noreferrer"><i class="fab fa-github"></i>Code</a>{{end}}{{end}}</div>
  </div>
</div>{{end}}{{end}}

{{define "contact-items"}}{{range .}}<div class="contact-item">
  <i class="{{.Icon}}"></i>
  <div><span>{{.Label}}</span>{{if .Link}}<a href="{{link .Link}}">{{.Value}}</a>{{else}}<span>{{.Value}}</span>{{end}}</div>
</div>{{end}}{{end}}

{{define "social"}}{{range .}}<a href="{{link .URL}}" class="social-link" target="_blank" rel="noopener noreferrer" title="{{.Label}}"><i class="{{.Icon}}"></i></a>{{end}}{{end}}

{{define "form"}}{{range .Fields}}<div class="form-group">{{if eq .Type "textarea"}}<textarea name="{{.Name}}" placeholder="{{.Placeholder}}" rows="{{.Rows}}"{{if .Required}} required{{end}}></textarea>{{else}}<input type="{{.Type}}" name="{{.Name}}" placeholder="{{.Placeholder}}"{{if .Required}} required{{end}}>{{end}}</div>{{end}}
<button type="submit" class="btn btn-primary">{{.SubmitText}}</button>{{end}}

{{define "footer"}}<p>{{.Copyright}}</p>
<p>{{.MadeWith}}</p>{{end}}

{{define "indicator"}}<div class="local-changes-indicator">
  <i class="fas fa-exclamation-triangle"></i>
  <span>Viewing local changes</span>
  <a href="/admin#restore" class="local-changes-restore">Restore original</a>
</div>{{end}}
`))

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var allowedSchemes = map[string]bool{"http": true, "https": true, "mailto": true, "tel": true}

// safeLink lets relative links, anchors and the schemes in allowedSchemes through untouched.
// Anything else collapses to "#".
func safeLink(raw string) template.URL {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "#"
	}
	if u.Scheme != "" && !allowedSchemes[strings.ToLower(u.Scheme)] {
		return "#"
	}
	return template.URL(raw)
}

// inlinePolicy is used for short rich text like the hero title, which may carry a
// highlight span.
var inlinePolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AllowElements("span", "strong", "em", "b", "i", "br")
	p.AllowAttrs("class").OnElements("span", "i")
	return p
}()

var blockPolicy = bluemonday.UGCPolicy()

var markdown = goldmark.New()

// paragraphHTML converts one markdown paragraph of the about section into sanitised HTML.
func paragraphHTML(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(blockPolicy.Sanitize(buf.String()))
}
