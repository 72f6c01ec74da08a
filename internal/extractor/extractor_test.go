package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranadkar/polaryx/internal/content"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestMatch(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name     string
		url      string
		wantName string
		wantBias string
		found    bool
	}{
		{
			name:     "cnn article",
			url:      "https://www.cnn.com/2026/01/16/politics/some-story/index.html",
			wantName: "CNN",
			wantBias: content.BiasLeft,
			found:    true,
		},
		{
			name:     "fox article",
			url:      "https://www.foxnews.com/politics/some-story",
			wantName: "Fox News",
			wantBias: content.BiasRight,
			found:    true,
		},
		{
			name:     "abc uses the go.com domain",
			url:      "https://abcnews.go.com/Politics/story?id=123",
			wantName: "ABC News",
			wantBias: content.BiasLeft,
			found:    true,
		},
		{
			name:  "unknown outlet",
			url:   "https://example.com/news/story",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outlet, ok := r.Match(tt.url)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.wantName, outlet.Name)
				assert.Equal(t, tt.wantBias, outlet.Bias)
			}
		})
	}
}

func TestDomains(t *testing.T) {
	r := NewRegistry()

	domains := r.Domains()
	assert.Len(t, domains, 8)
	assert.Contains(t, domains, "cnn.com")
	assert.Contains(t, domains, "breitbart.com")
	assert.Equal(t, len(r.Outlets()), len(domains))
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	r.Register(Outlet{
		Domain:  "example-news.com",
		Name:    "Example News",
		Bias:    content.BiasLeft,
		Extract: BodyParagraphs("div.story"),
	})

	outlet, ok := r.Match("https://example-news.com/story")
	require.True(t, ok)
	assert.Equal(t, "Example News", outlet.Name)
}

func TestBodyParagraphs(t *testing.T) {
	extract := BodyParagraphs("div.entry-content")

	t.Run("joins paragraphs and strips ads", func(t *testing.T) {
		doc := parseHTML(t, `
			<html><body>
			<div class="entry-content">
				<p>First paragraph.</p>
				<div class="ad-container"><p>Buy things now.</p></div>
				<p>Second paragraph.</p>
				<div class="related-content"><p>Read more.</p></div>
				<p>  </p>
			</div>
			</body></html>`)

		assert.Equal(t, "First paragraph.\nSecond paragraph.", extract(doc))
	})

	t.Run("falls back to article tag", func(t *testing.T) {
		doc := parseHTML(t, `
			<html><body>
			<article>
				<p>Fallback one.</p>
				<p>Fallback two.</p>
			</article>
			</body></html>`)

		assert.Equal(t, "Fallback one.\nFallback two.", extract(doc))
	})

	t.Run("nothing matches", func(t *testing.T) {
		doc := parseHTML(t, `<html><body><div class="unrelated"><p>x</p></div></body></html>`)
		assert.Empty(t, extract(doc))
	})
}

func TestExtractCNN(t *testing.T) {
	doc := parseHTML(t, `
		<html><body>
		<p class="paragraph-elevate">Lead sentence.</p>
		<p>Not part of the story.</p>
		<p class="paragraph-elevate">Closing sentence.</p>
		</body></html>`)

	assert.Equal(t, "Lead sentence.\nClosing sentence.", extractCNN(doc))
}

func TestExtractFox(t *testing.T) {
	doc := parseHTML(t, `
		<html><body>
		<div class="article-content-wrap">
			<p>Opening line.</p>
			<div class="add-container">SPONSORED</div>
			<p>Second line.</p>
		</div>
		</body></html>`)

	got := extractFox(doc)
	assert.Contains(t, got, "Opening line.")
	assert.Contains(t, got, "Second line.")
	assert.NotContains(t, got, "SPONSORED")
}

func TestFetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(`<html><body>
			<div class="entry-content">
				<p>Article body text.</p>
			</div>
		</body></html>`))
	}))
	defer server.Close()

	r := NewRegistry(WithHTTPClient(server.Client()), WithUserAgent("test-agent"))
	r.Register(Outlet{
		Domain:  strings.TrimPrefix(server.URL, "http://"),
		Name:    "Test Outlet",
		Bias:    content.BiasLeft,
		Extract: BodyParagraphs("div.entry-content"),
	})

	text, err := r.FetchText(context.Background(), server.URL+"/story")
	require.NoError(t, err)
	assert.Equal(t, "Article body text.", text)
}

func TestFetchText_UnknownOutlet(t *testing.T) {
	r := NewRegistry()

	_, err := r.FetchText(context.Background(), "https://example.com/story")
	assert.ErrorIs(t, err, ErrUnknownOutlet)
}

func TestFetchText_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	r := NewRegistry(WithHTTPClient(server.Client()))
	r.Register(Outlet{
		Domain:  strings.TrimPrefix(server.URL, "http://"),
		Name:    "Test Outlet",
		Bias:    content.BiasRight,
		Extract: BodyParagraphs("div.entry-content"),
	})

	_, err := r.FetchText(context.Background(), server.URL+"/story")
	assert.ErrorContains(t, err, "unexpected status")
}
