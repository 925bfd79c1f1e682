package dom

import (
	"strings"

	"golang.org/x/net/html"
)

func walk(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// setAttr 值为空时删除属性；返回是否发生改变
func setAttr(n *html.Node, key, val string) bool {
	for i, a := range n.Attr {
		if a.Key != key {
			continue
		}
		if val == "" {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return true
		}
		if a.Val == val {
			return false
		}
		n.Attr[i].Val = val
		return true
	}
	if val == "" {
		return false
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return true
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// setClass 添加或移除类名，已是目标状态时不写属性。
// 直接编辑原属性串：添加时追加 " "+class，移除时连同前面的一个空白一起删掉，
// 因此先加后删能还原原来的字节。
func setClass(n *html.Node, class string, on bool) bool {
	if hasClass(n, class) == on {
		return false
	}
	raw := attr(n, "class")
	if on {
		if raw == "" {
			return setAttr(n, "class", class)
		}
		return setAttr(n, "class", raw+" "+class)
	}
	for {
		start := classIndex(raw, class)
		if start < 0 {
			break
		}
		end := start + len(class)
		if start > 0 {
			start--
		} else {
			for end < len(raw) && isHTMLSpace(raw[end]) {
				end++
			}
		}
		raw = raw[:start] + raw[end:]
	}
	return setAttr(n, "class", raw)
}

// classIndex 返回 class 作为完整类名在 raw 中的位置
func classIndex(raw, class string) int {
	for off := 0; off < len(raw); {
		i := strings.Index(raw[off:], class)
		if i < 0 {
			return -1
		}
		start := off + i
		end := start + len(class)
		if (start == 0 || isHTMLSpace(raw[start-1])) && (end == len(raw) || isHTMLSpace(raw[end])) {
			return start
		}
		off = start + 1
	}
	return -1
}

func isHTMLSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// setStyle 设置内联样式中的单个属性
func setStyle(n *html.Node, prop, val string) bool {
	var decls []string
	found := false
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, value, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			if strings.TrimSpace(value) == val {
				return false
			}
			decl = prop + ": " + val
			found = true
		}
		decls = append(decls, decl)
	}
	if !found {
		decls = append(decls, prop+": "+val)
	}
	return setAttr(n, "style", strings.Join(decls, "; ")+";")
}

func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

// setText 等同于 textContent 赋值
func setText(n *html.Node, text string) bool {
	if textOf(n) == text {
		return false
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return true
}
