package docs

// Named paragraph styles.
const (
	StyleNormal  = "NORMAL_TEXT"
	StyleHeading = "HEADING_"
)

// Bullet presets.
const (
	BulletUnordered = "BULLET_DISC_CIRCLE_SQUARE"
	BulletOrdered   = "NUMBERED_DECIMAL_ALPHA_ROMAN"
)

// MonospaceFont styles inline code and code blocks.
const MonospaceFont = "Roboto Mono"

// Plan is a translated document. Every index is an offset into Text.
type Plan struct {
	Text       string           `json:"text"`
	TextStyles []TextStyleRange `json:"textStyles,omitempty"`
	Paragraphs []ParagraphRange `json:"paragraphs,omitempty"`
	Bullets    []BulletRange    `json:"bullets,omitempty"`
	Rules      []Range          `json:"rules,omitempty"`
	Images     []Image          `json:"images,omitempty"`
	Tables     []Table          `json:"tables,omitempty"`
}

// Range is a half-open UTF-16 range.
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Style is a set of character styles.
type Style struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Link          string `json:"link,omitempty"`
}

// IsZero reports whether s applies no styling.
func (s Style) IsZero() bool {
	return s == Style{}
}

// TextStyleRange applies a Style to a range.
type TextStyleRange struct {
	Range
	Style
}

// ParagraphRange sets the named style and indentation of paragraphs.
type ParagraphRange struct {
	Range
	NamedStyle string `json:"namedStyle"`
	// IndentPt indents block quotes.
	IndentPt float64 `json:"indentPt,omitempty"`
}

// BulletRange turns paragraphs into a list.
type BulletRange struct {
	Range
	Ordered bool `json:"ordered,omitempty"`
}

// Image is an image placeholder on its own empty paragraph.
type Image struct {
	Index  int64  `json:"index"`
	Source string `json:"source"`
	Alt    string `json:"alt,omitempty"`
}

// Table is a table placeholder on its own empty paragraph. Rows holds the
// plain text of each cell, header row first.
type Table struct {
	Index int64      `json:"index"`
	Rows  [][]string `json:"rows"`
}

// Columns returns the widest row length.
func (t Table) Columns() int {
	n := 0
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	return n
}

// Len returns the length of Text in UTF-16 code units.
func (p *Plan) Len() int64 {
	return utf16Len(p.Text)
}

func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
