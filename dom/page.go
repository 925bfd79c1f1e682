package dom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"shortlist/model"
)

const pageStyle = `.hidden{display:none}
.studio-card{border-bottom:1px solid #eee;padding:12px 0}
.shortlist-btn{background:none;border:none;cursor:pointer;font-size:20px}
.shortlist-btn.pending{opacity:.5}
#shortlist-filter{color:#666}`

// NewPage 根据工作室列表生成带收藏按钮和筛选按钮的页面
func NewPage(studios []*model.Studio) *Document {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html, nil)
	doc.AppendChild(root)

	head := element(atom.Head, nil)
	head.AppendChild(withText(element(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}), ""))
	head.AppendChild(withText(element(atom.Title, nil), "Studios"))
	head.AppendChild(withText(element(atom.Style, nil), pageStyle))
	root.AppendChild(head)

	body := element(atom.Body, nil)
	root.AppendChild(body)

	filter := element(atom.Button, []html.Attribute{
		{Key: "id", Val: FilterID},
		{Key: "type", Val: "button"},
	})
	body.AppendChild(withText(filter, "Shortlisted"))

	list := element(atom.Div, []html.Attribute{{Key: "class", Val: "studio-list"}})
	body.AppendChild(list)

	seen := make(map[string]bool, len(studios))
	for _, s := range studios {
		if s == nil || s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		list.AppendChild(card(s))
	}

	return &Document{root: doc}
}

func card(s *model.Studio) *html.Node {
	n := element(atom.Div, []html.Attribute{
		{Key: "class", Val: CardClass},
		{Key: StudioAttr, Val: s.ID},
	})

	header := element(atom.Div, []html.Attribute{{Key: "class", Val: "studio-header"}})
	header.AppendChild(withText(element(atom.H3, nil), s.Name))

	toggle := element(atom.Button, []html.Attribute{
		{Key: "class", Val: ToggleClass},
		{Key: StudioAttr, Val: s.ID},
		{Key: "type", Val: "button"},
	})
	toggle.AppendChild(withText(element(atom.Span, []html.Attribute{{Key: "class", Val: IconClass}}), GlyphDefault))
	header.AppendChild(toggle)
	n.AppendChild(header)

	if details := details(s); details != "" {
		n.AppendChild(withText(element(atom.P, []html.Attribute{{Key: "class", Val: "studio-details"}}), details))
	}
	if s.Description != "" {
		n.AppendChild(withText(element(atom.P, nil), s.Description))
	}
	for _, phone := range s.Phones {
		a := element(atom.A, []html.Attribute{{Key: "href", Val: "tel:" + phone}})
		n.AppendChild(withText(a, phone))
	}
	return n
}

func details(s *model.Studio) string {
	var parts []string
	if s.Rating > 0 {
		parts = append(parts, "★ "+strconv.FormatFloat(s.Rating, 'f', 1, 64))
	}
	if s.Projects > 0 {
		parts = append(parts, fmt.Sprintf("%d projects", s.Projects))
	}
	if s.Years > 0 {
		parts = append(parts, fmt.Sprintf("%d years", s.Years))
	}
	if s.Price != "" {
		parts = append(parts, s.Price)
	}
	return strings.Join(parts, " · ")
}

func element(a atom.Atom, attrs []html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func withText(n *html.Node, text string) *html.Node {
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}
