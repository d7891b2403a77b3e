package crawlers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TableRows 读取表格内所有tr的td文本(包括表头行,由调用方决定是否跳过)
func TableRows(table *goquery.Selection) [][]string {
	rows := make([][]string, 0)
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := make([]string, 0, 8)
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, CellText(td))
		})
		rows = append(rows, cells)
	})
	return rows
}

// CellText 单元格的可见文本,按innerText的规则生成:
// 文本中的连续空白合并为一个空格,<br>和块级元素边界变为换行,每行及整体去除首尾空白。
func CellText(td *goquery.Selection) string {
	var w renderedText
	for _, n := range td.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c)
		}
	}

	lines := strings.Split(string(w.buf), "\n")
	for i, line := range lines {
		lines[i] = strings.Trim(collapseSpaces(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// blockElements 在渲染时独占一行的元素
var blockElements = map[string]bool{
	"address": true, "blockquote": true, "div": true, "dl": true, "dt": true, "dd": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

type renderedText struct {
	buf []byte
}

func (w *renderedText) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// 文本节点内的换行和制表符与空格等价
		w.buf = append(w.buf, strings.Map(func(r rune) rune {
			switch r {
			case '\n', '\r', '\t', '\f':
				return ' '
			}
			return r
		}, n.Data)...)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.Data {
	case "br":
		w.buf = append(w.buf, '\n')
		return
	case "script", "style", "template":
		return
	}

	block := blockElements[n.Data]
	if block {
		w.lineBreak()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if block {
		w.lineBreak()
	}
}

// lineBreak 块级边界: 已在行首时不重复换行
func (w *renderedText) lineBreak() {
	trimmed := strings.TrimRight(string(w.buf), " ")
	if trimmed == "" || strings.HasSuffix(trimmed, "\n") {
		return
	}
	w.buf = append(w.buf, '\n')
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

// SelectState 分页下拉框的状态
type SelectState struct {
	Options []string // 全部选项的值
	Value   string   // 当前选中的值
}

// ParseSelect 读取select元素的选项和当前值
// 与浏览器行为一致: 没有selected选项时取第一个选项。
func ParseSelect(sel *goquery.Selection) SelectState {
	state := SelectState{Options: make([]string, 0)}
	hasSelected := false
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		value, ok := opt.Attr("value")
		if !ok {
			value = strings.TrimSpace(opt.Text())
		}
		state.Options = append(state.Options, value)
		if _, selected := opt.Attr("selected"); selected {
			state.Value = value
			hasSelected = true
		}
	})
	if !hasSelected && len(state.Options) > 0 {
		state.Value = state.Options[0]
	}
	return state
}
