package docs

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// quoteIndentPt is the indentation of block quote paragraphs.
const quoteIndentPt = 36

var (
	parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()
	strict = bluemonday.StrictPolicy()
)

// Translate converts Markdown into a Plan.
//
// Headings, paragraphs, block quotes, lists, code, thematic breaks, images
// and GFM tables are supported. Nested lists are flattened into their
// outer list. Raw HTML is reduced to its text.
func Translate(markdown string) *Plan {
	src := []byte(markdown)
	t := &translator{src: src, plan: &Plan{}}
	t.blocks(parser.Parse(text.NewReader(src)), false)
	t.plan.Text = t.buf.String()
	return t.plan
}

type pendingImage struct {
	source string
	alt    string
}

type translator struct {
	src    []byte
	buf    strings.Builder
	pos    int64
	plan   *Plan
	images []pendingImage
	// listDepth is the number of enclosing lists.
	listDepth int
}

func (t *translator) write(s string, style Style) {
	if s == "" {
		return
	}
	start := t.pos
	t.buf.WriteString(s)
	t.pos += utf16Len(s)
	if style.IsZero() {
		return
	}

	styles := t.plan.TextStyles
	if n := len(styles); n > 0 && styles[n-1].End == start && styles[n-1].Style == style {
		styles[n-1].End = t.pos
		return
	}
	t.plan.TextStyles = append(styles, TextStyleRange{Range: Range{Start: start, End: t.pos}, Style: style})
}

func (t *translator) newline() {
	t.write("\n", Style{})
}

// paragraph records the style of the paragraphs written since start.
func (t *translator) paragraph(start int64, named string, quote bool) {
	if t.pos == start {
		return
	}
	p := ParagraphRange{Range: Range{Start: start, End: t.pos}, NamedStyle: named}
	if quote {
		p.IndentPt = quoteIndentPt
	}
	t.plan.Paragraphs = append(t.plan.Paragraphs, p)
}

// flushImages places the images collected from a paragraph, each on its own
// empty paragraph.
func (t *translator) flushImages() {
	for _, img := range t.images {
		t.plan.Images = append(t.plan.Images, Image{Index: t.pos, Source: img.source, Alt: img.alt})
		t.newline()
	}
	t.images = nil
}

func (t *translator) blocks(n ast.Node, quote bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t.block(c, quote)
	}
}

func (t *translator) block(n ast.Node, quote bool) {
	start := t.pos

	switch n := n.(type) {
	case *ast.Heading:
		t.inlines(n, Style{})
		t.newline()
		t.paragraph(start, StyleHeading+strconv.Itoa(n.Level), quote)
		t.flushImages()

	case *ast.Paragraph, *ast.TextBlock:
		t.inlines(n, Style{})
		if t.pos > start {
			t.newline()
			t.paragraph(start, StyleNormal, quote)
		}
		t.flushImages()

	case *ast.Blockquote:
		t.blocks(n, true)

	case *ast.List:
		t.listDepth++
		t.blocks(n, quote)
		t.listDepth--
		if t.listDepth == 0 && t.pos > start {
			t.plan.Bullets = append(t.plan.Bullets, BulletRange{
				Range:   Range{Start: start, End: t.pos},
				Ordered: n.IsOrdered(),
			})
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line := strings.TrimRight(string(seg.Value(t.src)), "\r\n")
			t.write(line, Style{Code: true})
			t.newline()
		}
		t.paragraph(start, StyleNormal, quote)

	case *ast.ThematicBreak:
		t.newline()
		t.plan.Rules = append(t.plan.Rules, Range{Start: start, End: t.pos})

	case *east.Table:
		t.plan.Tables = append(t.plan.Tables, Table{Index: start, Rows: t.tableRows(n)})
		t.newline()

	case *ast.HTMLBlock:
		var raw strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			raw.Write(seg.Value(t.src))
		}
		if n.HasClosure() {
			raw.Write(n.ClosureLine.Value(t.src))
		}
		if s := strings.TrimSpace(stripHTML(raw.String())); s != "" {
			t.write(s, Style{})
			t.newline()
			t.paragraph(start, StyleNormal, quote)
		}

	default:
		t.blocks(n, quote)
	}
}

func (t *translator) inlines(n ast.Node, style Style) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t.inline(c, style)
	}
}

func (t *translator) inline(n ast.Node, style Style) {
	switch n := n.(type) {
	case *ast.Text:
		t.write(textValue(n.Segment.Value(t.src), style.Code), style)
		switch {
		case n.HardLineBreak():
			t.newline()
		case n.SoftLineBreak():
			t.write(" ", style)
		}

	case *ast.String:
		t.write(string(n.Value), style)

	case *ast.Emphasis:
		if n.Level >= 2 {
			style.Bold = true
		} else {
			style.Italic = true
		}
		t.inlines(n, style)

	case *east.Strikethrough:
		style.Strikethrough = true
		t.inlines(n, style)

	case *ast.CodeSpan:
		style.Code = true
		t.inlines(n, style)

	case *ast.Link:
		style.Link = string(n.Destination)
		t.inlines(n, style)

	case *ast.AutoLink:
		style.Link = string(n.URL(t.src))
		t.write(string(n.Label(t.src)), style)

	case *ast.Image:
		t.images = append(t.images, pendingImage{source: string(n.Destination), alt: plainText(n, t.src)})

	case *ast.RawHTML:
		var raw strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			raw.Write(seg.Value(t.src))
		}
		t.write(stripHTML(raw.String()), style)

	case *east.TaskCheckBox:
		if n.IsChecked {
			t.write("☑ ", style)
		} else {
			t.write("☐ ", style)
		}

	default:
		t.inlines(n, style)
	}
}

func (t *translator) tableRows(table *east.Table) [][]string {
	var rows [][]string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, plainText(cell, t.src))
		}
		rows = append(rows, cells)
	}
	return rows
}

// plainText collects the text under n without styling.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.WriteString(textValue(c.Segment.Value(src), false))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.RawHTML:
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				b.WriteString(stripHTML(string(seg.Value(src))))
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// textValue resolves backslash escapes and entities outside code.
func textValue(raw []byte, code bool) string {
	if code {
		return string(raw)
	}
	v := util.UnescapePunctuations(raw)
	v = util.ResolveNumericReferences(v)
	return string(util.ResolveEntityNames(v))
}

// stripHTML reduces markup to its text.
func stripHTML(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}
