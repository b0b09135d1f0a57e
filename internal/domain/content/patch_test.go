package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemDraftDefaultsActive(t *testing.T) {
	it := ItemDraft{ItemPatch: ItemPatch{Title: Ptr("X")}}.ToItem()
	assert.True(t, it.IsActive)
	assert.Equal(t, "X", it.Title)

	off := ItemDraft{ItemPatch: ItemPatch{IsActive: Ptr(false)}}.ToItem()
	assert.False(t, off.IsActive)
}

func TestItemDraftJSON(t *testing.T) {
	var d ItemDraft
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","title":"T","technologies":["Go"]}`), &d))
	it := d.ToItem()
	assert.Equal(t, "p1", it.ID)
	assert.Equal(t, []string{"Go"}, it.Technologies)
	assert.True(t, it.IsActive)
}

func TestPatchSectionShallowOverwrite(t *testing.T) {
	doc := &Document{Hero: &Hero{Title: "old", Subtitle: "keep"}}
	err := doc.PatchSection(SectionHero, map[string]json.RawMessage{"title": json.RawMessage(`"new"`)})
	require.NoError(t, err)
	assert.Equal(t, "new", doc.Hero.Title)
	assert.Equal(t, "keep", doc.Hero.Subtitle)
}

func TestPatchSectionCreatesMissing(t *testing.T) {
	doc := &Document{}
	require.NoError(t, doc.PatchSection(SectionSite, map[string]json.RawMessage{"title": json.RawMessage(`"Site"`)}))
	require.NotNil(t, doc.Site)
	assert.Equal(t, "Site", doc.Site.Title)
}

func TestPatchSectionRejectsItems(t *testing.T) {
	doc := Fallback()
	err := doc.PatchSection(SectionProjects, map[string]json.RawMessage{"items": json.RawMessage(`[]`)})
	assert.ErrorIs(t, err, ErrItemsNotPatchable)
}

func TestPatchSectionBadTypeKeepsPrevious(t *testing.T) {
	doc := &Document{Hero: &Hero{Title: "old"}}
	err := doc.PatchSection(SectionHero, map[string]json.RawMessage{"title": json.RawMessage(`42`)})
	assert.Error(t, err)
	assert.Equal(t, "old", doc.Hero.Title)
}

func TestUpsertContactInfo(t *testing.T) {
	doc := &Document{}
	doc.UpsertContactInfo("phone", "+1 (555) 010-2000")
	doc.UpsertContactInfo("email", "me@example.com")
	doc.UpsertContactInfo("email", "you@example.com")

	require.Len(t, doc.Contact.Info, 2)
	assert.Equal(t, "tel:15550102000", doc.Contact.Info[0].Link)
	assert.Equal(t, "you@example.com", doc.Contact.Info[1].Value)
	assert.Equal(t, "mailto:you@example.com", doc.Contact.Info[1].Link)
	assert.Equal(t, "fas fa-envelope", doc.Contact.Info[1].Icon)
}
