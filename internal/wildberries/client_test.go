package wildberries

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(ts *httptest.Server) *Client {
	return &Client{BaseURL: ts.URL, HTTP: ts.Client()}
}

func TestSearchRequestShape(t *testing.T) {
	var seen *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		w.Write([]byte(`{"data": {"products": [{"name": "A"}, {"name": "B"}]}}`))
	}))
	defer ts.Close()

	items, err := testClient(ts).Search(context.Background(), "куртка", 2, 50)
	require.NoError(t, err)
	require.Len(t, items, 2)

	q := seen.URL.Query()
	assert.Equal(t, "куртка", q.Get("query"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "50", q.Get("limit"))
	assert.Equal(t, "rub", q.Get("curr"))
	assert.Equal(t, "ru", q.Get("lang"))
	assert.Equal(t, "-1257786", q.Get("dest"))
	assert.Equal(t, "catalog", q.Get("resultset"))
	assert.Equal(t, "popular", q.Get("sort"))
	assert.Contains(t, seen.Header.Get("User-Agent"), "wb-analytics-bot")
}

func TestSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := testClient(ts).Search(context.Background(), "q", 1, 10)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusTooManyRequests, fe.StatusCode)
}

func TestSearchMissingEnvelope(t *testing.T) {
	// tolerant read: an answer without data.products is "no results", not an error
	for _, body := range []string{`{}`, `{"data": {}}`, `{"data": {"products": []}}`} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		items, err := testClient(ts).Search(context.Background(), "q", 1, 10)
		ts.Close()

		require.NoError(t, err, body)
		assert.Empty(t, items, body)
	}
}

func TestSearchMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer ts.Close()

	_, err := testClient(ts).Search(context.Background(), "q", 1, 10)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
}
