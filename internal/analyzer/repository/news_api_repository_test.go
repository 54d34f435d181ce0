package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"smart-invest-api/internal/analyzer/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsTestConfig(apiBase, feedBase, apiKey string) *config.Config {
	return &config.Config{
		NewsAPI: config.NewsAPI{
			BaseURL: apiBase,
			APIKey:  apiKey,
		},
		GoogleNews: config.GoogleNews{
			BaseURL:  feedBase,
			Language: "en-IN",
			Country:  "IN",
		},
	}
}

func TestNewsAPISearchDedupesAndTruncates(t *testing.T) {
	payload := `{
		"status": "ok",
		"articles": [
			{"source": {"name": "Mint"}, "title": "TCS wins deal", "description": "Large contract", "publishedAt": "2026-08-28T10:00:00Z"},
			{"source": {"name": "ET"}, "title": "TCS wins deal", "description": "Duplicate coverage", "publishedAt": "2026-08-28T11:00:00Z"},
			{"source": {"name": "Reuters"}, "title": "IT stocks rally", "description": "", "publishedAt": "2026-08-28T12:00:00Z"},
			{"source": {"name": "BS"}, "title": "TCS hiring update", "description": "", "publishedAt": "2026-08-28T13:00:00Z"}
		]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TCS", r.URL.Query().Get("q"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	repo := NewNewsRepository(newsTestConfig(server.URL, "", "secret"), testLogger(t))
	articles, err := repo.Search(context.Background(), "TCS.NS", "TCS", 2)
	require.NoError(t, err)

	// Duplicate title removed first, then truncated to the max count.
	require.Len(t, articles, 2)
	assert.Equal(t, "TCS wins deal", articles[0].Title)
	assert.Equal(t, "Mint", articles[0].Source)
	assert.Equal(t, "IT stocks rally", articles[1].Title)
	require.NotNil(t, articles[0].PublishedAt)
}

func TestNewsAPISearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
	}))
	defer server.Close()

	repo := NewNewsRepository(newsTestConfig(server.URL, "", "bad"), testLogger(t))
	_, err := repo.Search(context.Background(), "TCS.NS", "TCS", 5)
	assert.Error(t, err)
}

func TestGoogleNewsSearchParsesFeed(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
	<title>Google News</title>
	<item>
		<title>TCS announces results</title>
		<link>https://news.example.com/tcs-results</link>
		<pubDate>Fri, 28 Aug 2026 10:00:00 GMT</pubDate>
		<description>&lt;a href="https://news.example.com/tcs-results"&gt;TCS announces results&lt;/a&gt;</description>
	</item>
	<item>
		<title>TCS announces results</title>
		<link>https://other.example.com/dup</link>
		<pubDate>Fri, 28 Aug 2026 09:00:00 GMT</pubDate>
		<description>duplicate</description>
	</item>
	<item>
		<title>Nifty edges higher</title>
		<link>https://news.example.com/nifty</link>
		<pubDate>Fri, 28 Aug 2026 08:00:00 GMT</pubDate>
		<description>markets</description>
	</item>
</channel></rss>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rss/search", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "when:7d")
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feed)
	}))
	defer server.Close()

	repo := NewNewsRepository(newsTestConfig("", server.URL, ""), testLogger(t))
	articles, err := repo.Search(context.Background(), "TCS.NS", "TCS", 10)
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "TCS announces results", articles[0].Title)
	assert.Equal(t, "TCS announces results", articles[0].Description)
	assert.Equal(t, "news.example.com", articles[0].Source)
	assert.Equal(t, "Nifty edges higher", articles[1].Title)
}

func TestGoogleNewsSearchTruncatesToMax(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Google News</title>
	<item><title>one</title><link>https://a.example.com/1</link></item>
	<item><title>two</title><link>https://a.example.com/2</link></item>
	<item><title>three</title><link>https://a.example.com/3</link></item>
</channel></rss>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feed)
	}))
	defer server.Close()

	repo := NewNewsRepository(newsTestConfig("", server.URL, ""), testLogger(t))
	articles, err := repo.Search(context.Background(), "ABC", "ABC", 2)
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}
