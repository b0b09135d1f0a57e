package render

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// HTMLTargets implements Targets over a parsed HTML document.
type HTMLTargets struct {
	doc *goquery.Document
}

func NewHTMLTargets(shell []byte) (*HTMLTargets, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(shell))
	if err != nil {
		return nil, fmt.Errorf("parse page shell: %w", err)
	}
	return &HTMLTargets{doc: doc}, nil
}

type selection struct {
	s *goquery.Selection
}

func (r selection) SetText(text string)        { r.s.SetText(text) }
func (r selection) SetHTML(html string)        { r.s.SetHtml(html) }
func (r selection) SetAttr(name, value string) { r.s.SetAttr(name, value) }

func (r selection) Find(selector string) (Region, bool) {
	found := r.s.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return selection{s: found}, true
}

func (h *HTMLTargets) Region(selector string) (Region, bool) {
	found := h.doc.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return selection{s: found}, true
}

func (h *HTMLTargets) SetTitle(title string) {
	head := h.doc.Find("head").First()
	t := head.Find("title").First()
	if t.Length() == 0 {
		head.AppendHtml("<title></title>")
		t = head.Find("title").First()
	}
	t.SetText(title)
}

func (h *HTMLTargets) SetMeta(attr, key, value string) {
	head := h.doc.Find("head").First()
	sel := fmt.Sprintf("meta[%s=%q]", attr, key)
	meta := head.Find(sel).First()
	if meta.Length() == 0 {
		head.AppendHtml("<meta>")
		meta = head.Find("meta").Last()
		meta.SetAttr(attr, key)
	}
	meta.SetAttr("content", value)
}

// SetLocalChangesIndicator adds or removes the banner shown while a local override is live.
func (h *HTMLTargets) SetLocalChangesIndicator(show bool) error {
	h.doc.Find(".local-changes-indicator").Remove()
	if !show {
		return nil
	}
	html, err := execute("indicator", nil)
	if err != nil {
		return err
	}
	h.doc.Find("body").First().PrependHtml(html)
	return nil
}

func (h *HTMLTargets) HTML() (string, error) {
	return h.doc.Html()
}
