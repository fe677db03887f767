package x

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// MaxSimpleUploadSize is the largest file the simple upload accepts.
const MaxSimpleUploadSize = 5 << 20

// UploadMedia uploads an image and returns its media ID for PostTweet.
func (c *Client) UploadMedia(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open media: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat media: %w", err)
	}
	if info.Size() > MaxSimpleUploadSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrInvalidInput, filepath.Base(path), info.Size(), MaxSimpleUploadSize)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read media: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	var resp struct {
		MediaIDString string `json:"media_id_string"`
	}
	req := rest.Request{
		Method:      http.MethodPost,
		Path:        c.uploadURL,
		Body:        &buf,
		ContentType: w.FormDataContentType(),
	}
	if _, err := c.api.Do(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	if resp.MediaIDString == "" {
		return "", fmt.Errorf("x: upload of %s returned no media id", filepath.Base(path))
	}
	return resp.MediaIDString, nil
}
