package docs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/docs/v1"

	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/logger"
)

// DocumentURL is the edit link of a document.
const DocumentURL = "https://docs.google.com/document/d/%s/edit"

// DefaultUploadConcurrency is how many images upload at once.
const DefaultUploadConcurrency = 4

// ImageUploader makes a local image reachable by the Docs API.
type ImageUploader interface {
	UploadImage(ctx context.Context, path string) (string, error)
}

// Result describes a written document.
type Result struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url"`
	Images     int    `json:"images"`
	Tables     int    `json:"tables"`
}

// Document is a document's plain text.
type Document struct {
	ID    string `json:"documentId"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Writer writes Markdown into Google Docs.
type Writer struct {
	svc         *docs.Service
	uploader    ImageUploader
	concurrency int
}

// NewWriter creates a writer. uploader may be nil when every image is a
// remote URL.
func NewWriter(svc *docs.Service, uploader ImageUploader) *Writer {
	return &Writer{svc: svc, uploader: uploader, concurrency: DefaultUploadConcurrency}
}

// Create creates a document titled title from markdown. Relative image
// paths resolve against baseDir. Images are uploaded before the document
// is created so a failed upload leaves nothing behind.
func (w *Writer) Create(ctx context.Context, title, markdown, baseDir string) (*Result, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	plan := Translate(markdown)
	uris, err := w.resolveImages(ctx, plan, baseDir)
	if err != nil {
		return nil, err
	}

	doc, err := w.svc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create document: %w", google.WrapError(err))
	}
	res := newResult(doc.DocumentId, title, plan)

	// A new document holds a section break then one empty paragraph.
	if err := w.apply(ctx, doc.DocumentId, 1, false, plan, uris); err != nil {
		return res, err
	}
	return res, nil
}

// Append writes markdown at the end of an existing document.
func (w *Writer) Append(ctx context.Context, docID, markdown, baseDir string) (*Result, error) {
	if strings.TrimSpace(docID) == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	plan := Translate(markdown)
	uris, err := w.resolveImages(ctx, plan, baseDir)
	if err != nil {
		return nil, err
	}

	doc, err := w.svc.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", docID, google.WrapError(err))
	}
	base, needsBreak := appendPoint(doc)
	res := newResult(docID, doc.Title, plan)
	if err := w.apply(ctx, docID, base, needsBreak, plan, uris); err != nil {
		return res, err
	}
	return res, nil
}

// ReadText returns the text of a document. Table cells are tab separated.
func (w *Writer) ReadText(ctx context.Context, docID string) (*Document, error) {
	if strings.TrimSpace(docID) == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	doc, err := w.svc.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", docID, google.WrapError(err))
	}

	var b strings.Builder
	if doc.Body != nil {
		writeElements(&b, doc.Body.Content)
	}
	return &Document{ID: doc.DocumentId, Title: doc.Title, Text: b.String()}, nil
}

func (w *Writer) apply(ctx context.Context, docID string, base int64, needsBreak bool, plan *Plan, uris map[string]string) error {
	if plan.Text == "" {
		return nil
	}

	var first []*docs.Request
	if needsBreak {
		first = append(first, &docs.Request{InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: base},
			Text:     "\n",
		}})
		base++
	}
	first = append(first, plan.TextRequests(base)...)
	if err := w.batch(ctx, docID, "text", first); err != nil {
		return err
	}

	if err := w.batch(ctx, docID, "images and tables", plan.StructuralRequests(base, uris)); err != nil {
		return err
	}

	if len(plan.Tables) == 0 {
		return nil
	}
	doc, err := w.svc.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("re-read document %s: %w", docID, google.WrapError(err))
	}
	return w.batch(ctx, docID, "table cells", CellRequests(doc, base, plan.Tables))
}

func (w *Writer) batch(ctx context.Context, docID, what string, reqs []*docs.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	logger.Debug("docs: %s: %d requests", what, len(reqs))
	_, err := w.svc.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{Requests: reqs}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s to %s: %w", what, docID, google.WrapError(err))
	}
	return nil
}

// resolveImages uploads local images in parallel and maps every image
// source to a URI. Remote URLs map to themselves.
func (w *Writer) resolveImages(ctx context.Context, plan *Plan, baseDir string) (map[string]string, error) {
	uris := make(map[string]string, len(plan.Images))
	var local []string
	for _, img := range plan.Images {
		if _, seen := uris[img.Source]; seen {
			continue
		}
		if isRemote(img.Source) {
			uris[img.Source] = img.Source
			continue
		}
		uris[img.Source] = ""
		local = append(local, img.Source)
	}
	if len(local) == 0 {
		return uris, nil
	}
	if w.uploader == nil {
		return nil, fmt.Errorf("%w: local image %s needs an uploader", domain.ErrInvalidInput, local[0])
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, src := range local {
		path := src
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		g.Go(func() error {
			uri, err := w.uploader.UploadImage(gctx, path)
			if err != nil {
				return fmt.Errorf("upload image %s: %w", src, err)
			}
			mu.Lock()
			uris[src] = uri
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return uris, nil
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "http://")
}

// appendPoint returns the index before the final newline of doc, and
// whether the last paragraph has text that needs a paragraph break first.
func appendPoint(doc *docs.Document) (int64, bool) {
	if doc.Body == nil || len(doc.Body.Content) == 0 {
		return 1, false
	}
	last := doc.Body.Content[len(doc.Body.Content)-1]
	base := max(last.EndIndex-1, 1)
	if last.Paragraph == nil {
		return base, false
	}
	var b strings.Builder
	writeParagraph(&b, last.Paragraph)
	return base, strings.TrimRight(b.String(), "\n") != ""
}

func writeElements(b *strings.Builder, elements []*docs.StructuralElement) {
	for _, el := range elements {
		switch {
		case el.Paragraph != nil:
			writeParagraph(b, el.Paragraph)
		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				cells := make([]string, 0, len(row.TableCells))
				for _, cell := range row.TableCells {
					var cb strings.Builder
					writeElements(&cb, cell.Content)
					cells = append(cells, strings.TrimSpace(cb.String()))
				}
				b.WriteString(strings.Join(cells, "\t"))
				b.WriteString("\n")
			}
		}
	}
}

func writeParagraph(b *strings.Builder, p *docs.Paragraph) {
	for _, el := range p.Elements {
		if el.TextRun != nil {
			b.WriteString(el.TextRun.Content)
		}
	}
}

func newResult(id, title string, plan *Plan) *Result {
	return &Result{
		DocumentID: id,
		Title:      title,
		URL:        fmt.Sprintf(DocumentURL, id),
		Images:     len(plan.Images),
		Tables:     len(plan.Tables),
	}
}
