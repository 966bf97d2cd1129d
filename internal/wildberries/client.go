package wildberries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	searchURL = "https://search.wb.ru/exactmatch/ru/common/v13/search"
	userAgent = "Mozilla/5.0 (compatible; wb-analytics-bot/1.0)"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// RawItem is a single product entry exactly as the search API returned it.
// Items are decoded one by one so a malformed entry cannot poison its page.
type RawItem = json.RawMessage

type searchResponse struct {
	Data struct {
		Products []json.RawMessage `json:"products"`
	} `json:"data"`
}

// FetchError reports a failed request to the search endpoint.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wildberries search: %v", e.Err)
	}
	return fmt.Sprintf("wildberries search: status %d", e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Client struct {
	// BaseURL overrides the search endpoint, for tests.
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	return &Client{BaseURL: searchURL, HTTP: httpClient}
}

// Search fetches one page of search results. A response without the
// data.products envelope yields an empty slice, not an error: the API
// answers that way when a query has no matches.
func (c *Client) Search(ctx context.Context, query string, page, limit int) ([]RawItem, error) {
	params := url.Values{}
	params.Set("ab_testing", "false")
	params.Set("appType", "1")
	params.Set("curr", "rub")
	params.Set("dest", "-1257786")
	params.Set("lang", "ru")
	params.Set("page", strconv.Itoa(page))
	params.Set("query", query)
	params.Set("resultset", "catalog")
	params.Set("sort", "popular")
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{StatusCode: resp.StatusCode}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode response: %w", err)}
	}

	items := make([]RawItem, len(result.Data.Products))
	for i, p := range result.Data.Products {
		items[i] = RawItem(p)
	}
	return items, nil
}
