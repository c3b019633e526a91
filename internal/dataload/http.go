package dataload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tablescope/tablescope/internal/table"
)

// httpClient mirrors BreachLine's SyncService: a single client with a
// bounded timeout, reused across requests (app/sync/sync.go's
// NewSyncService).
var httpClient = &http.Client{Timeout: 30 * time.Second}

// LoadHTTPQuery fetches url (optionally bearer-authenticated) and loads
// the response body as JSON, applying jsonPath the same way a local
// JSON file would. This is the query-API source named in the system
// overview's data-source list.
func LoadHTTPQuery(ctx context.Context, url, bearerToken, jsonPath string) (string, *table.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("dataload: building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("dataload: requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("dataload: reading response from %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("dataload: %s returned %s", url, resp.Status)
	}

	columns, rows, err := loadJSON(body, jsonPath)
	if err != nil {
		return "", nil, err
	}
	return url, table.New(columns, rows), nil
}
