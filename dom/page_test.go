package dom

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlist/model"
	"shortlist/shortlist"
)

func TestNewPage(t *testing.T) {
	doc := NewPage([]*model.Studio{
		{ID: "1", Name: "Lamsa", Rating: 4.5, Projects: 57, Years: 8, Price: "$$", Phones: []string{"+91-111"}},
		{ID: "2", Name: "Studio Pixel"},
		{ID: "1", Name: "duplicate"},
		nil,
		{ID: ""},
	})

	assert.Equal(t, []string{"1", "2"}, doc.CardIDs())
	assert.Equal(t, []string{"1", "2"}, doc.ToggleIDs())

	shortlisted, glyph := doc.ToggleState("1")
	assert.False(t, shortlisted)
	assert.Equal(t, GlyphDefault, glyph)

	out := doc.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `id="shortlist-filter"`)
	assert.Contains(t, out, "★ 4.5 · 57 projects · 8 years · $$")
	assert.Contains(t, out, `href="tel:+91-111"`)
	assert.NotContains(t, out, "duplicate")

	// 生成的页面可以重新解析
	reparsed, err := ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, doc.CardIDs(), reparsed.CardIDs())
}

func TestNewPage_DrivenByController(t *testing.T) {
	doc := NewPage([]*model.Studio{{ID: "1", Name: "Lamsa"}, {ID: "2", Name: "Studio Pixel"}})
	h := &recorder{}
	doc.Bind(h)

	assert.True(t, doc.ClickStudio(context.Background(), "2"))
	assert.True(t, doc.ClickFilter(context.Background()))
	assert.Equal(t, []shortlist.Event{
		{Kind: shortlist.EventToggle, ID: "2"},
		{Kind: shortlist.EventFilter},
	}, h.events)

	doc.SetFilterActive(true)
	assert.Contains(t, doc.String(), "color: #FF6B35")
}
