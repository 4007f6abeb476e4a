// Package fetch is a small helper for retrieving PGN archives from an
// HTTP source, adapted from internal/chesscom's API client. It is not on
// the critical ingestion path: exporter/loader/builder all operate on
// already-downloaded files, and this package exists only to make
// acquiring those files convenient from the CLI.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client downloads PGN archive files over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a Client with a bounded request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// DownloadPGN fetches the raw bytes at url, expected to be a PGN or
// compressed-PGN archive.
func (c *Client) DownloadPGN(url string) ([]byte, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body from %s: %w", url, err)
	}
	return body, nil
}
