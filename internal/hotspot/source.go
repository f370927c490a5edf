// Package hotspot loads and caches the floorplan hotspot dataset.
package hotspot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Source fetches the raw hotspot dataset bytes.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// maxDatasetSize bounds a single dataset read. The dataset is a short list of
// coordinates; anything larger is a misconfigured source.
const maxDatasetSize = 4 << 20

// HTTPSource fetches the dataset over HTTP GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
	// BypassCache sends no-cache request headers so intermediaries never
	// serve a stale copy of the dataset.
	BypassCache bool
}

// NewHTTPSource creates an HTTP source with a bounded request timeout.
func NewHTTPSource(url string, bypassCache bool) *HTTPSource {
	return &HTTPSource{
		URL:         url,
		Client:      &http.Client{Timeout: 10 * time.Second},
		BypassCache: bypassCache,
	}
}

// Fetch performs the GET request. Any non-2xx status is a failure.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building hotspot request: %w", err)
	}
	if s.BypassCache {
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching hotspots: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching hotspots: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetSize))
	if err != nil {
		return nil, fmt.Errorf("reading hotspot response: %w", err)
	}
	return data, nil
}

// FileSource reads the dataset from a local file.
type FileSource struct {
	Path string
}

// Fetch reads the file. The context is accepted for interface symmetry; local
// reads are not cancellable mid-flight.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading hotspot file: %w", err)
	}
	return data, nil
}
