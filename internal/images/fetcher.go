package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// MaxSize caps downloaded images at 10MB, the same limit as uploads.
const MaxSize = 10 * 1024 * 1024

// ErrNotImage is returned when the downloaded body is not a JPEG or PNG image.
var ErrNotImage = errors.New("downloaded content is not a JPEG or PNG image")

// Fetcher downloads images referenced by URL
type Fetcher struct {
	HTTPClient *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads the image at rawURL and returns its bytes together with a
// file name whose extension matches the detected content type.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, "", fmt.Errorf("invalid image URL: %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > MaxSize {
		return nil, "", fmt.Errorf("image too large (max 10MB)")
	}

	var ext string
	switch http.DetectContentType(data) {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	default:
		return nil, "", ErrNotImage
	}

	slog.Info("Image downloaded", "url", rawURL, "size", len(data))
	return data, FilenameFromURL(u, ext), nil
}

// FilenameFromURL uses the last path segment of u, replacing its extension
// with ext. URLs without a usable segment become "image"+ext.
func FilenameFromURL(u *url.URL, ext string) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" {
		base = "image"
	}
	return base + ext
}
