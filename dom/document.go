// Package dom 把带 data-studio 标记的 HTML 页面作为收藏控制器的视图。
package dom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"shortlist/shortlist"
)

const (
	StudioAttr        = "data-studio"
	CardClass         = "studio-card"
	ToggleClass       = "shortlist-btn"
	IconClass         = "icon"
	HiddenClass       = "hidden"
	ShortlistedClass  = "shortlisted"
	PendingClass      = "pending"
	FilterID          = "shortlist-filter"
	FilterActiveClass = "shortlist-active"

	GlyphShortlisted = "❤️"
	GlyphDefault     = "🤍"

	ColorFilterActive   = "#FF6B35"
	ColorFilterInactive = "#666"
)

// Document 可被控制器驱动的 HTML 文档
type Document struct {
	mu        sync.Mutex
	root      *html.Node
	handler   shortlist.EventHandler
	mutations int
}

var _ shortlist.View = (*Document)(nil)

// Parse 解析 HTML 页面
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析页面失败: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString 解析 HTML 字符串
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Open 读取并解析页面文件
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Bind 注册唯一的事件处理器（事件委托）
func (d *Document) Bind(h shortlist.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = h
}

// Dispatch 模拟在 target 上的一次点击：向上查找最近的收藏按钮或筛选按钮，
// 把对应事件交给已绑定的处理器。没有匹配元素或未绑定时返回 false。
func (d *Document) Dispatch(ctx context.Context, target *html.Node) bool {
	d.mu.Lock()
	h := d.handler
	ev, ok := eventFor(target)
	d.mu.Unlock()

	if !ok || h == nil {
		return false
	}
	h.HandleEvent(ctx, ev)
	return true
}

// ClickStudio 点击指定工作室的收藏按钮
func (d *Document) ClickStudio(ctx context.Context, id string) bool {
	d.mu.Lock()
	nodes := d.find(isToggle, id)
	d.mu.Unlock()
	if len(nodes) == 0 {
		return false
	}
	return d.Dispatch(ctx, nodes[0])
}

// ClickFilter 点击筛选按钮
func (d *Document) ClickFilter(ctx context.Context) bool {
	d.mu.Lock()
	n := d.filter()
	d.mu.Unlock()
	if n == nil {
		return false
	}
	return d.Dispatch(ctx, n)
}

func (d *Document) CardIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ids(isCard)
}

func (d *Document) ToggleIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ids(isToggle)
}

func (d *Document) SetCardHidden(id string, hidden bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.find(isCard, id) {
		d.count(setClass(n, HiddenClass, hidden))
	}
}

func (d *Document) SetToggleShortlisted(id string, shortlisted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	glyph := GlyphDefault
	if shortlisted {
		glyph = GlyphShortlisted
	}
	for _, n := range d.find(isToggle, id) {
		d.count(setClass(n, ShortlistedClass, shortlisted))
		if icon := findFirst(n, func(c *html.Node) bool { return hasClass(c, IconClass) }); icon != nil {
			d.count(setText(icon, glyph))
		}
	}
}

func (d *Document) SetTogglePending(id string, pending bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.find(isToggle, id) {
		d.count(setClass(n, PendingClass, pending))
	}
}

func (d *Document) SetFilterActive(active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.filter()
	if n == nil {
		return
	}
	color := ColorFilterInactive
	if active {
		color = ColorFilterActive
	}
	d.count(setClass(n, FilterActiveClass, active))
	d.count(setStyle(n, "color", color))
}

// Mutations 到目前为止实际发生的属性或文本写入次数
func (d *Document) Mutations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutations
}

// CardHidden 卡片当前是否带 hidden 类
func (d *Document) CardHidden(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes := d.find(isCard, id)
	return len(nodes) > 0 && hasClass(nodes[0], HiddenClass)
}

// ToggleState 收藏按钮当前的样式和图标
func (d *Document) ToggleState(id string) (shortlisted bool, glyph string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes := d.find(isToggle, id)
	if len(nodes) == 0 {
		return false, ""
	}
	if icon := findFirst(nodes[0], func(c *html.Node) bool { return hasClass(c, IconClass) }); icon != nil {
		glyph = textOf(icon)
	}
	return hasClass(nodes[0], ShortlistedClass), glyph
}

// Render 输出当前文档
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// WriteFile 把当前文档写入文件
func (d *Document) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func (d *Document) count(changed bool) {
	if changed {
		d.mutations++
	}
}

func (d *Document) filter() *html.Node {
	return findFirst(d.root, func(n *html.Node) bool { return attr(n, "id") == FilterID })
}

func (d *Document) find(match func(*html.Node) bool, id string) []*html.Node {
	var out []*html.Node
	walk(d.root, func(n *html.Node) {
		if match(n) && attr(n, StudioAttr) == id {
			out = append(out, n)
		}
	})
	return out
}

// 按文档顺序去重返回ID
func (d *Document) ids(match func(*html.Node) bool) []string {
	seen := make(map[string]struct{})
	var ids []string
	walk(d.root, func(n *html.Node) {
		if !match(n) {
			return
		}
		id := attr(n, StudioAttr)
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	})
	return ids
}

func eventFor(target *html.Node) (shortlist.Event, bool) {
	for n := target; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if isToggle(n) {
			return shortlist.Event{Kind: shortlist.EventToggle, ID: attr(n, StudioAttr)}, true
		}
		if attr(n, "id") == FilterID {
			return shortlist.Event{Kind: shortlist.EventFilter}, true
		}
	}
	return shortlist.Event{}, false
}

func isCard(n *html.Node) bool {
	return hasStudio(n) && hasClass(n, CardClass)
}

func isToggle(n *html.Node) bool {
	return hasStudio(n) && hasClass(n, ToggleClass)
}

func hasStudio(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == StudioAttr && a.Val != "" {
			return true
		}
	}
	return false
}
