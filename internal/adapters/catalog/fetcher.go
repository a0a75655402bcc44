package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"clubconn/internal/domain"
)

const maxCatalogBytes = 10 << 20

type fetcher struct {
	client *http.Client
}

// NewFetcher returns a CatalogFetcher that reads http(s) URLs with client and anything else from the local filesystem.
func NewFetcher(client *http.Client) domain.CatalogFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &fetcher{client: client}
}

func (f *fetcher) Fetch(ctx context.Context, source string) (*domain.Catalog, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return f.fetchURL(ctx, source)
	}
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()
	return decode(file)
}

func (f *fetcher) fetchURL(ctx context.Context, url string) (*domain.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status: %d", resp.StatusCode)
	}
	return decode(resp.Body)
}

func decode(r io.Reader) (*domain.Catalog, error) {
	var data domain.Catalog
	if err := json.NewDecoder(io.LimitReader(r, maxCatalogBytes)).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return &data, nil
}
