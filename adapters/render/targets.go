package render

// Region is a single element of the page, addressed by a CSS selector.
type Region interface {
	SetText(text string)
	SetHTML(html string)
	SetAttr(name, value string)
	// Find looks up the first descendant matching selector.
	Find(selector string) (Region, bool)
}

// Targets is the page the dispatcher writes into. A missing selector means the page has no
// such region and the dispatcher skips it.
type Targets interface {
	Region(selector string) (Region, bool)
	SetTitle(title string)
	// SetMeta updates or creates <meta attr="key" content="...">, attr being "name" or "property".
	SetMeta(attr, key, content string)
}
