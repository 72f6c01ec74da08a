package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranadkar/polaryx/internal/content"
	"github.com/ranadkar/polaryx/internal/extractor"
	"github.com/ranadkar/polaryx/internal/pkg/logger"
	"github.com/ranadkar/polaryx/internal/search/biz"
)

func newStubLLM(t *testing.T, reply string, lastPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if lastPrompt != nil && len(req.Messages) > 0 {
			*lastPrompt = req.Messages[len(req.Messages)-1].Content
		}
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply}},
			},
		})
	}))
}

func newOpenAIClient(baseURL string) *openai.Client {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = baseURL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func TestSummarize_CacheMiss(t *testing.T) {
	server := newStubLLM(t, "A summary.", nil)
	defer server.Close()

	cache, err := biz.NewResultCache(16)
	require.NoError(t, err)

	s := NewSummarizer(newOpenAIClient(server.URL), "gpt-4o-mini", cache, extractor.NewRegistry(), logger.Nop())

	_, err = s.Summarize(context.Background(), "https://cnn.com/never-searched")
	assert.ErrorIs(t, err, biz.ErrNotFound)
}

func TestSummarize_SocialUsesCachedContents(t *testing.T) {
	var lastPrompt string
	server := newStubLLM(t, "The post argues the policy will pass.", &lastPrompt)
	defer server.Close()

	cache, err := biz.NewResultCache(16)
	require.NoError(t, err)
	cache.Put(&content.Item{
		Source:   content.SourceReddit,
		Title:    "Policy discussion",
		URL:      "https://reddit.com/r/politics/comments/abc/",
		Contents: "A long discussion of the policy and its chances in the senate.",
	})

	s := NewSummarizer(newOpenAIClient(server.URL), "gpt-4o-mini", cache, extractor.NewRegistry(), logger.Nop())

	result, err := s.Summarize(context.Background(), "https://reddit.com/r/politics/comments/abc/")
	require.NoError(t, err)

	assert.Equal(t, "https://reddit.com/r/politics/comments/abc/", result.URL)
	assert.Equal(t, "Policy discussion", result.Title)
	assert.Equal(t, content.SourceReddit, result.Source)
	assert.Equal(t, "The post argues the policy will pass.", result.Summary)
	assert.Contains(t, lastPrompt, "chances in the senate", "prompt built from cached contents")
}

func TestSummarize_NewsReExtractsArticle(t *testing.T) {
	articleServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="entry-content"><p>The full article text recovered from the page.</p></div></body></html>`))
	}))
	defer articleServer.Close()

	var lastPrompt string
	llm := newStubLLM(t, "An article summary.", &lastPrompt)
	defer llm.Close()

	registry := extractor.NewRegistry(extractor.WithHTTPClient(articleServer.Client()))
	registry.Register(extractor.Outlet{
		Domain:  strings.TrimPrefix(articleServer.URL, "http://"),
		Name:    "Test Outlet",
		Bias:    content.BiasLeft,
		Extract: extractor.BodyParagraphs("div.entry-content"),
	})

	cache, err := biz.NewResultCache(16)
	require.NoError(t, err)

	articleURL := articleServer.URL + "/story"
	cache.Put(&content.Item{
		Source:   "Test Outlet",
		Title:    "Headline",
		URL:      articleURL,
		Contents: "Truncated snippet from the search API.",
	})

	s := NewSummarizer(newOpenAIClient(llm.URL), "gpt-4o-mini", cache, registry, logger.Nop())

	result, err := s.Summarize(context.Background(), articleURL)
	require.NoError(t, err)

	assert.Equal(t, "An article summary.", result.Summary)
	assert.Contains(t, lastPrompt, "full article text recovered", "prompt uses re-extracted text")
	assert.NotContains(t, lastPrompt, "Truncated snippet")
}

func TestSummarize_ExtractionFailureFallsBackToCache(t *testing.T) {
	articleServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer articleServer.Close()

	var lastPrompt string
	llm := newStubLLM(t, "A fallback summary.", &lastPrompt)
	defer llm.Close()

	registry := extractor.NewRegistry(extractor.WithHTTPClient(articleServer.Client()))
	registry.Register(extractor.Outlet{
		Domain:  strings.TrimPrefix(articleServer.URL, "http://"),
		Name:    "Test Outlet",
		Bias:    content.BiasRight,
		Extract: extractor.BodyParagraphs("div.entry-content"),
	})

	cache, err := biz.NewResultCache(16)
	require.NoError(t, err)

	articleURL := articleServer.URL + "/story"
	cache.Put(&content.Item{
		Source:   "Test Outlet",
		Title:    "Headline",
		URL:      articleURL,
		Contents: "Cached snippet survives extraction failure.",
	})

	s := NewSummarizer(newOpenAIClient(llm.URL), "gpt-4o-mini", cache, registry, logger.Nop())

	result, err := s.Summarize(context.Background(), articleURL)
	require.NoError(t, err)
	assert.Equal(t, "A fallback summary.", result.Summary)
	assert.Contains(t, lastPrompt, "Cached snippet survives")
}

func TestSummarize_LLMFailure(t *testing.T) {
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer llm.Close()

	cache, err := biz.NewResultCache(16)
	require.NoError(t, err)
	cache.Put(&content.Item{
		Source:   content.SourceBluesky,
		Title:    "Post",
		URL:      "https://bsky.app/profile/x/post/1",
		Contents: "Some post text.",
	})

	s := NewSummarizer(newOpenAIClient(llm.URL), "gpt-4o-mini", cache, extractor.NewRegistry(), logger.Nop())

	_, err = s.Summarize(context.Background(), "https://bsky.app/profile/x/post/1")
	assert.ErrorContains(t, err, "failed to generate summary")
}
