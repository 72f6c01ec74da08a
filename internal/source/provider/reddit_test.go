package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranadkar/polaryx/internal/content"
	"github.com/ranadkar/polaryx/internal/source/types"
)

type redditChild struct {
	Selftext    string
	Author      string
	Subreddit   string
	Score       int
	NumComments int
}

func redditListing(children ...redditChild) string {
	type data map[string]interface{}

	items := make([]data, 0, len(children))
	for i, c := range children {
		items = append(items, data{
			"data": data{
				"id":           fmt.Sprintf("post%d", i),
				"title":        fmt.Sprintf("Post %d", i),
				"selftext":     c.Selftext,
				"author":       c.Author,
				"subreddit":    c.Subreddit,
				"score":        c.Score,
				"num_comments": c.NumComments,
				"created_utc":  1768603015.0,
				"permalink":    fmt.Sprintf("/r/%s/comments/post%d/", c.Subreddit, i),
			},
		})
	}

	body, _ := json.Marshal(data{"data": data{"children": items}})
	return string(body)
}

// newRedditTestServer serves both the token endpoint and the search
// endpoint; auth and API hosts point at the same server in tests.
func newRedditTestServer(t *testing.T, listing string, tokenCalls *int, lastSearch *http.Request) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/access_token":
			*tokenCalls++
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)
			w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer","expires_in":3600}`))
		case strings.HasPrefix(r.URL.Path, "/r/"):
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			if lastSearch != nil {
				*lastSearch = *r
			}
			w.Write([]byte(listing))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
}

func redditConfig(host string) *types.ProviderConfig {
	return &types.ProviderConfig{
		ID:           types.ProviderReddit,
		Name:         "Reddit",
		APIHost:      host,
		AuthHost:     host,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		UserAgent:    "test-agent",
		Timeout:      5,
	}
}

func TestRedditProvider_Search_FiltersAndNormalizes(t *testing.T) {
	long := strings.Repeat("political debate text ", 10) // > 100 chars
	veryLong := strings.Repeat("x", 700)

	listing := redditListing(
		redditChild{Selftext: "", Author: "linkposter", Subreddit: "news"},        // link post, dropped
		redditChild{Selftext: "too short", Author: "briefuser", Subreddit: "news"}, // floor, dropped
		redditChild{Selftext: long, Author: "writer", Subreddit: "politics", Score: 42, NumComments: 7},
		redditChild{Selftext: veryLong, Author: "", Subreddit: "debate"},
		// 40 characters, 120 bytes: the floor counts characters.
		redditChild{Selftext: strings.Repeat("日", 40), Author: "cjkuser", Subreddit: "japan"},
		redditChild{Selftext: strings.Repeat("日", 100), Author: "cjkwriter", Subreddit: "japan"},
	)

	tokenCalls := 0
	var lastSearch http.Request
	server := newRedditTestServer(t, listing, &tokenCalls, &lastSearch)
	defer server.Close()

	p, err := NewRedditProvider(redditConfig(server.URL))
	require.NoError(t, err)

	items, err := p.Search(context.Background(), &types.SearchRequest{
		Query: "election",
		Scope: "all",
		Sort:  "hot",
		Limit: 20,
	})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "/r/all/search", lastSearch.URL.Path)
	assert.Equal(t, "60", lastSearch.URL.Query().Get("limit"), "over-fetch factor of 3")
	assert.Equal(t, "hot", lastSearch.URL.Query().Get("sort"))

	first := items[0]
	assert.Equal(t, content.SourceReddit, first.Source)
	assert.Equal(t, "post2", first.ID)
	assert.Equal(t, "u/writer", first.Author)
	assert.Equal(t, "politics", first.Subreddit)
	assert.Equal(t, 42, first.Score)
	assert.Equal(t, 7, first.NumComments)
	assert.Equal(t, int64(1768603015), first.Date)
	assert.Equal(t, "https://reddit.com/r/politics/comments/post2/", first.URL)

	second := items[1]
	assert.Equal(t, "u/[deleted]", second.Author)
	assert.Len(t, second.Contents, 500, "contents truncated to 500 chars")

	third := items[2]
	assert.Equal(t, "u/cjkwriter", third.Author, "100 multibyte characters meet the floor")
	assert.Equal(t, strings.Repeat("日", 100), third.Contents)
}

func TestRedditProvider_Search_EarlyExit(t *testing.T) {
	long := strings.Repeat("plenty of text here ", 10)

	children := make([]redditChild, 10)
	for i := range children {
		children[i] = redditChild{Selftext: long, Author: "user", Subreddit: "all"}
	}

	tokenCalls := 0
	server := newRedditTestServer(t, redditListing(children...), &tokenCalls, nil)
	defer server.Close()

	p, err := NewRedditProvider(redditConfig(server.URL))
	require.NoError(t, err)

	items, err := p.Search(context.Background(), &types.SearchRequest{Query: "q", Limit: 3})
	require.NoError(t, err)
	assert.Len(t, items, 3, "stops once limit qualifying posts accumulate")
}

func TestRedditProvider_Search_TokenReuse(t *testing.T) {
	tokenCalls := 0
	server := newRedditTestServer(t, redditListing(), &tokenCalls, nil)
	defer server.Close()

	p, err := NewRedditProvider(redditConfig(server.URL))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := p.Search(context.Background(), &types.SearchRequest{Query: "q", Limit: 5})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, tokenCalls, "token fetched once and reused until expiry")
}

func TestRedditProvider_Search_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Unauthorized","error":401}`))
	}))
	defer server.Close()

	p, err := NewRedditProvider(redditConfig(server.URL))
	require.NoError(t, err)

	_, err = p.Search(context.Background(), &types.SearchRequest{Query: "q", Limit: 5})
	assert.ErrorIs(t, err, types.ErrProviderUnauthorized)
}
