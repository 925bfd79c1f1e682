package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestSetClass_RoundTripKeepsRawAttribute(t *testing.T) {
	cases := map[string]string{
		"irregular spaces": "shortlist-btn  x",
		"tabs":             "shortlist-btn\tx\n",
		"leading space":    "  shortlist-btn",
		"trailing space":   "shortlist-btn ",
		"single":           "shortlist-btn",
		"empty":            "",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			n := &html.Node{Type: html.ElementNode, Data: "button"}
			if raw != "" {
				n.Attr = []html.Attribute{{Key: "class", Val: raw}}
			}

			assert.True(t, setClass(n, PendingClass, true))
			assert.True(t, hasClass(n, PendingClass))
			assert.False(t, setClass(n, PendingClass, true))

			assert.True(t, setClass(n, PendingClass, false))
			assert.False(t, hasClass(n, PendingClass))
			assert.Equal(t, raw, attr(n, "class"))
		})
	}
}

func TestSetClass_RemovesWholeTokensOnly(t *testing.T) {
	n := &html.Node{Type: html.ElementNode, Data: "div", Attr: []html.Attribute{
		{Key: "class", Val: "hidden-card  hidden studio-card hidden"},
	}}
	assert.True(t, setClass(n, HiddenClass, false))
	assert.Equal(t, "hidden-card  studio-card", attr(n, "class"))

	n.Attr[0].Val = "hidden  studio-card"
	assert.True(t, setClass(n, HiddenClass, false))
	assert.Equal(t, "studio-card", attr(n, "class"))
}

func TestDocument_PendingRoundTripIrregularMarkup(t *testing.T) {
	const page = `<html><body>
<div class=" studio-card   featured" data-studio="a"><button class="shortlist-btn  x" data-studio="a"><span class="icon">🤍</span></button></div>
</body></html>`
	doc, err := ParseString(page)
	require.NoError(t, err)
	before := doc.String()

	doc.SetTogglePending("a", true)
	assert.NotEqual(t, before, doc.String())
	doc.SetTogglePending("a", false)
	assert.Equal(t, before, doc.String())

	doc.SetCardHidden("a", true)
	doc.SetCardHidden("a", false)
	assert.Equal(t, before, doc.String())
}
