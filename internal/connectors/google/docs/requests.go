package docs

import (
	"sort"
	"strings"

	"google.golang.org/api/docs/v1"
)

// resetFields clears the character styles inherited from the insertion point.
const resetFields = "bold,italic,strikethrough,link,weightedFontFamily"

// TextRequests returns the first batch: the text inserted at base followed
// by every paragraph, character, rule and bullet style.
func (p *Plan) TextRequests(base int64) []*docs.Request {
	if p.Text == "" {
		return nil
	}
	whole := docRange(Range{Start: 0, End: p.Len()}, base)

	reqs := []*docs.Request{
		{InsertText: &docs.InsertTextRequest{Location: &docs.Location{Index: base}, Text: p.Text}},
		{UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          whole,
			ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: StyleNormal},
			Fields:         "namedStyleType",
		}},
		{UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     whole,
			TextStyle: &docs.TextStyle{},
			Fields:    resetFields,
		}},
	}

	for _, para := range p.Paragraphs {
		if para.NamedStyle == StyleNormal && para.IndentPt == 0 {
			continue
		}
		style := &docs.ParagraphStyle{NamedStyleType: para.NamedStyle}
		fields := []string{"namedStyleType"}
		if para.IndentPt > 0 {
			style.IndentStart = points(para.IndentPt)
			style.IndentFirstLine = points(para.IndentPt)
			fields = append(fields, "indentStart", "indentFirstLine")
		}
		reqs = append(reqs, &docs.Request{UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          docRange(para.Range, base),
			ParagraphStyle: style,
			Fields:         strings.Join(fields, ","),
		}})
	}

	for _, ts := range p.TextStyles {
		style, fields := textStyle(ts.Style)
		reqs = append(reqs, &docs.Request{UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     docRange(ts.Range, base),
			TextStyle: style,
			Fields:    fields,
		}})
	}

	for _, rule := range p.Rules {
		reqs = append(reqs, &docs.Request{UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          docRange(rule, base),
			ParagraphStyle: &docs.ParagraphStyle{BorderBottom: ruleBorder()},
			Fields:         "borderBottom",
		}})
	}

	for _, b := range p.Bullets {
		preset := BulletUnordered
		if b.Ordered {
			preset = BulletOrdered
		}
		reqs = append(reqs, &docs.Request{CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
			Range:        docRange(b.Range, base),
			BulletPreset: preset,
		}})
	}
	return reqs
}

type indexedRequest struct {
	index int64
	req   *docs.Request
}

// StructuralRequests returns the second batch: images and tables, ordered
// by descending index. uris maps each image source to the URI Docs fetches.
func (p *Plan) StructuralRequests(base int64, uris map[string]string) []*docs.Request {
	var items []indexedRequest
	for _, img := range p.Images {
		uri := uris[img.Source]
		if uri == "" {
			uri = img.Source
		}
		items = append(items, indexedRequest{index: base + img.Index, req: &docs.Request{
			InsertInlineImage: &docs.InsertInlineImageRequest{
				Location: &docs.Location{Index: base + img.Index},
				Uri:      uri,
			},
		}})
	}
	for _, tbl := range p.Tables {
		if len(tbl.Rows) == 0 || tbl.Columns() == 0 {
			continue
		}
		items = append(items, indexedRequest{index: base + tbl.Index, req: &docs.Request{
			InsertTable: &docs.InsertTableRequest{
				Location: &docs.Location{Index: base + tbl.Index},
				Rows:     int64(len(tbl.Rows)),
				Columns:  int64(tbl.Columns()),
			},
		}})
	}
	return descending(items)
}

// CellRequests returns the third batch: the text of every table cell,
// ordered by descending index. Tables in doc that start before base were
// there beforehand and are skipped; the rest are matched to tables in
// document order. Header cells are bold.
func CellRequests(doc *docs.Document, base int64, tables []Table) []*docs.Request {
	if doc == nil || doc.Body == nil {
		return nil
	}

	var items []indexedRequest
	next := 0
	for _, el := range doc.Body.Content {
		if el.Table == nil || el.StartIndex < base {
			continue
		}
		if next >= len(tables) {
			break
		}
		planned := tables[next]
		next++

		for r, row := range el.Table.TableRows {
			if r >= len(planned.Rows) {
				break
			}
			for c, cell := range row.TableCells {
				if c >= len(planned.Rows[r]) || len(cell.Content) == 0 {
					continue
				}
				content := planned.Rows[r][c]
				if content == "" {
					continue
				}
				index := cell.Content[0].StartIndex
				items = append(items, indexedRequest{index: index, req: &docs.Request{
					InsertText: &docs.InsertTextRequest{Location: &docs.Location{Index: index}, Text: content},
				}})
				if r == 0 {
					items = append(items, indexedRequest{index: index, req: &docs.Request{
						UpdateTextStyle: &docs.UpdateTextStyleRequest{
							Range:     &docs.Range{StartIndex: index, EndIndex: index + utf16Len(content)},
							TextStyle: &docs.TextStyle{Bold: true},
							Fields:    "bold",
						},
					}})
				}
			}
		}
	}
	return descending(items)
}

// descending orders requests by index, highest first. Requests sharing an
// index keep their relative order.
func descending(items []indexedRequest) []*docs.Request {
	sort.SliceStable(items, func(i, j int) bool { return items[i].index > items[j].index })
	reqs := make([]*docs.Request, len(items))
	for i, it := range items {
		reqs[i] = it.req
	}
	return reqs
}

func textStyle(s Style) (*docs.TextStyle, string) {
	style := &docs.TextStyle{}
	var fields []string
	if s.Bold {
		style.Bold = true
		fields = append(fields, "bold")
	}
	if s.Italic {
		style.Italic = true
		fields = append(fields, "italic")
	}
	if s.Strikethrough {
		style.Strikethrough = true
		fields = append(fields, "strikethrough")
	}
	if s.Code {
		style.WeightedFontFamily = &docs.WeightedFontFamily{FontFamily: MonospaceFont}
		fields = append(fields, "weightedFontFamily")
	}
	if s.Link != "" {
		style.Link = &docs.Link{Url: s.Link}
		fields = append(fields, "link")
	}
	return style, strings.Join(fields, ",")
}

func ruleBorder() *docs.ParagraphBorder {
	return &docs.ParagraphBorder{
		Color: &docs.OptionalColor{Color: &docs.Color{
			RgbColor: &docs.RgbColor{Red: 0.6, Green: 0.6, Blue: 0.6},
		}},
		Width:     points(1),
		Padding:   points(1),
		DashStyle: "SOLID",
	}
}

func points(pt float64) *docs.Dimension {
	return &docs.Dimension{Magnitude: pt, Unit: "PT"}
}

func docRange(r Range, base int64) *docs.Range {
	return &docs.Range{StartIndex: base + r.Start, EndIndex: base + r.End}
}
