package drive

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// fileFields are the fields requested for every file.
const fileFields = "id, name, mimeType, size, modifiedTime, webViewLink, parents"

// PublicImageURL is the download link Docs fetches a shared image from.
const PublicImageURL = "https://drive.google.com/uc?export=download&id="

// File is the subset of Drive file metadata the CLI shows.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
}

// Client wraps a Drive service.
type Client struct {
	svc *drive.Service

	// ImageFolderID is the parent of images uploaded by UploadImage.
	// Empty uploads to the Drive root.
	ImageFolderID string
}

// New wraps svc.
func New(svc *drive.Service) *Client {
	return &Client{svc: svc}
}

// Search lists files matching query. A query containing a Drive operator is
// passed as is; anything else matches file names. Trashed files are skipped.
func (c *Client) Search(ctx context.Context, query string, opts rest.PageOptions) (*rest.Page[File], error) {
	q := BuildQuery(query)
	size := int64(opts.PageSize)
	if size <= 0 || size > 1000 {
		size = 100
	}

	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]File, string, error) {
		call := c.svc.Files.List().
			Q(q).
			PageSize(size).
			Fields("nextPageToken, files(" + fileFields + ")").
			Context(ctx)
		if cursor != "" {
			call = call.PageToken(cursor)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, "", fmt.Errorf("search drive: %w", google.WrapError(err))
		}
		files := make([]File, 0, len(resp.Files))
		for _, f := range resp.Files {
			files = append(files, fromDrive(f))
		}
		return files, resp.NextPageToken, nil
	})
}

// BuildQuery turns user input into a Drive query.
func BuildQuery(query string) string {
	query = strings.TrimSpace(query)
	switch {
	case query == "":
		return "trashed = false"
	case isRawQuery(query):
		return query
	default:
		return fmt.Sprintf("name contains '%s' and trashed = false", escapeQuery(query))
	}
}

func isRawQuery(q string) bool {
	for _, op := range []string{" contains ", "=", " in ", " has ", "<", ">"} {
		if strings.Contains(q, op) {
			return true
		}
	}
	return false
}

// escapeQuery escapes a value for a single-quoted Drive query literal.
func escapeQuery(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

// Upload creates a file from a local path, optionally inside a folder.
func (c *Client) Upload(ctx context.Context, path, parentID string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	meta := &drive.File{Name: filepath.Base(path)}
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		meta.MimeType = mt
	}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	created, err := c.svc.Files.Create(meta).Media(f).Fields(fileFields).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filepath.Base(path), google.WrapError(err))
	}
	file := fromDrive(created)
	return &file, nil
}

// ShareWithAnyone grants read access to anyone with the link.
func (c *Client) ShareWithAnyone(ctx context.Context, fileID string) error {
	if strings.TrimSpace(fileID) == "" {
		return fmt.Errorf("%w: file id is required", domain.ErrInvalidInput)
	}
	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	if _, err := c.svc.Permissions.Create(fileID, perm).Context(ctx).Do(); err != nil {
		return fmt.Errorf("share %s: %w", fileID, google.WrapError(err))
	}
	return nil
}

// Delete permanently deletes a file.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	if strings.TrimSpace(fileID) == "" {
		return fmt.Errorf("%w: file id is required", domain.ErrInvalidInput)
	}
	if err := c.svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete %s: %w", fileID, google.WrapError(err))
	}
	return nil
}

// UploadImage uploads a local image, shares it publicly and returns a URL
// the Docs API can fetch it from.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	file, err := c.Upload(ctx, path, c.ImageFolderID)
	if err != nil {
		return "", err
	}
	if err := c.ShareWithAnyone(ctx, file.ID); err != nil {
		return "", err
	}
	return PublicImageURL + file.ID, nil
}

func fromDrive(f *drive.File) File {
	return File{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		Size:         f.Size,
		ModifiedTime: f.ModifiedTime,
		WebViewLink:  f.WebViewLink,
	}
}
