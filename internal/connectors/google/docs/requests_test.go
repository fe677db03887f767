package docs

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/docs/v1"
)

func TestPlan_TextRequests(t *testing.T) {
	plan := Translate("# Title\n\nSee [docs](https://go.dev)\n\n---\n\n- item\n")
	reqs := plan.TextRequests(1)
	require.NotEmpty(t, reqs)

	insert := reqs[0].InsertText
	require.NotNil(t, insert)
	assert.Equal(t, int64(1), insert.Location.Index)
	assert.Equal(t, plan.Text, insert.Text)

	reset := reqs[1].UpdateParagraphStyle
	require.NotNil(t, reset)
	assert.Equal(t, StyleNormal, reset.ParagraphStyle.NamedStyleType)
	assert.Equal(t, &docs.Range{StartIndex: 1, EndIndex: 1 + plan.Len()}, reset.Range)
	assert.Equal(t, resetFields, reqs[2].UpdateTextStyle.Fields)

	var heading, link, rule, bullet *docs.Request
	for _, r := range reqs[3:] {
		switch {
		case r.UpdateParagraphStyle != nil && r.UpdateParagraphStyle.Fields == "namedStyleType":
			heading = r
		case r.UpdateTextStyle != nil:
			link = r
		case r.UpdateParagraphStyle != nil && r.UpdateParagraphStyle.Fields == "borderBottom":
			rule = r
		case r.CreateParagraphBullets != nil:
			bullet = r
		}
	}

	require.NotNil(t, heading)
	assert.Equal(t, "HEADING_1", heading.UpdateParagraphStyle.ParagraphStyle.NamedStyleType)
	assert.Equal(t, &docs.Range{StartIndex: 1, EndIndex: 7}, heading.UpdateParagraphStyle.Range)

	require.NotNil(t, link)
	assert.Equal(t, "link", link.UpdateTextStyle.Fields)
	assert.Equal(t, "https://go.dev", link.UpdateTextStyle.TextStyle.Link.Url)
	assert.Equal(t, &docs.Range{StartIndex: 11, EndIndex: 15}, link.UpdateTextStyle.Range)

	require.NotNil(t, rule)
	assert.Equal(t, "SOLID", rule.UpdateParagraphStyle.ParagraphStyle.BorderBottom.DashStyle)
	assert.Equal(t, &docs.Range{StartIndex: 16, EndIndex: 17}, rule.UpdateParagraphStyle.Range)

	require.NotNil(t, bullet)
	assert.Equal(t, BulletUnordered, bullet.CreateParagraphBullets.BulletPreset)
	assert.Equal(t, &docs.Range{StartIndex: 17, EndIndex: 22}, bullet.CreateParagraphBullets.Range)
}

func TestTextStyle_Fields(t *testing.T) {
	style, fields := textStyle(Style{Bold: true, Code: true, Link: "https://go.dev"})

	assert.Equal(t, "bold,weightedFontFamily,link", fields)
	assert.True(t, style.Bold)
	assert.Equal(t, MonospaceFont, style.WeightedFontFamily.FontFamily)
}

func TestPlan_StructuralRequests_Descending(t *testing.T) {
	plan := &Plan{
		Text: "0123456789012345678901234\n",
		Images: []Image{
			{Index: 5, Source: "a.png"},
			{Index: 20, Source: "https://example.com/b.png"},
		},
		Tables: []Table{
			{Index: 10, Rows: [][]string{{"h1", "h2", "h3"}, {"x"}}},
			{Index: 15},
		},
	}

	reqs := plan.StructuralRequests(1, map[string]string{"a.png": "https://drive.example/a"})
	require.Len(t, reqs, 3)

	require.NotNil(t, reqs[0].InsertInlineImage)
	assert.Equal(t, int64(21), reqs[0].InsertInlineImage.Location.Index)
	assert.Equal(t, "https://example.com/b.png", reqs[0].InsertInlineImage.Uri)

	require.NotNil(t, reqs[1].InsertTable)
	assert.Equal(t, int64(11), reqs[1].InsertTable.Location.Index)
	assert.Equal(t, int64(2), reqs[1].InsertTable.Rows)
	assert.Equal(t, int64(3), reqs[1].InsertTable.Columns)

	require.NotNil(t, reqs[2].InsertInlineImage)
	assert.Equal(t, int64(6), reqs[2].InsertInlineImage.Location.Index)
	assert.Equal(t, "https://drive.example/a", reqs[2].InsertInlineImage.Uri)
}

func cell(start int64) *docs.TableCell {
	return &docs.TableCell{Content: []*docs.StructuralElement{{StartIndex: start}}}
}

func TestCellRequests(t *testing.T) {
	doc := &docs.Document{Body: &docs.Body{Content: []*docs.StructuralElement{
		{StartIndex: 1, EndIndex: 3, Table: &docs.Table{TableRows: []*docs.TableRow{
			{TableCells: []*docs.TableCell{cell(2)}},
		}}},
		{StartIndex: 10, EndIndex: 11, Paragraph: &docs.Paragraph{}},
		{StartIndex: 11, EndIndex: 30, Table: &docs.Table{TableRows: []*docs.TableRow{
			{TableCells: []*docs.TableCell{cell(13), cell(15)}},
			{TableCells: []*docs.TableCell{cell(18), cell(20)}},
		}}},
	}}}
	tables := []Table{{Rows: [][]string{{"A", "B"}, {"1", ""}}}}

	reqs := CellRequests(doc, 10, tables)

	var got []string
	for _, r := range reqs {
		switch {
		case r.InsertText != nil:
			got = append(got, "insert "+r.InsertText.Text+"@"+strconv.FormatInt(r.InsertText.Location.Index, 10))
		case r.UpdateTextStyle != nil:
			got = append(got, "bold@"+strconv.FormatInt(r.UpdateTextStyle.Range.StartIndex, 10))
		}
	}
	assert.Equal(t, []string{
		"insert 1@18",
		"insert B@15",
		"bold@15",
		"insert A@13",
		"bold@13",
	}, got)
}

func TestCellRequests_NoBody(t *testing.T) {
	assert.Nil(t, CellRequests(&docs.Document{}, 1, []Table{{Rows: [][]string{{"A"}}}}))
}
