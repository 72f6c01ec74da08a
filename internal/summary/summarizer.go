// Package summary regenerates abstractive summaries for URLs returned by a
// previous search.
package summary

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ranadkar/polaryx/internal/content"
	"github.com/ranadkar/polaryx/internal/extractor"
	"github.com/ranadkar/polaryx/internal/pkg/logger"
	"github.com/ranadkar/polaryx/internal/search/biz"
)

// maxContentLength caps how much article text goes into the prompt.
const maxContentLength = 3000

const promptTemplate = `Provide a concise summary (3-5 sentences) of the following article. The summary MUST be in English, regardless of the original language.

Title: %s

Content:
%s

Summary (in English):`

// Result is the wire shape of a successful summary.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	Summary string `json:"summary"`
}

// Summarizer produces summaries from cached search results. News items get
// their full article text re-extracted through the outlet registry; Reddit
// and Bluesky items are summarized from their cached contents.
type Summarizer struct {
	client   *openai.Client
	model    string
	cache    *biz.ResultCache
	registry *extractor.Registry
	logger   *logger.Logger
}

// NewSummarizer creates a Summarizer.
func NewSummarizer(client *openai.Client, model string, cache *biz.ResultCache, registry *extractor.Registry, log *logger.Logger) *Summarizer {
	return &Summarizer{
		client:   client,
		model:    model,
		cache:    cache,
		registry: registry,
		logger:   log,
	}
}

// Summarize looks the URL up in the result cache and produces a summary.
// A cache miss returns biz.ErrNotFound: there is no independent fetch path,
// callers must search first. Extraction failures fall back to the cached
// (possibly truncated) contents; only the LLM call itself can fail the
// request.
func (s *Summarizer) Summarize(ctx context.Context, url string) (*Result, error) {
	item, err := s.cache.Get(url)
	if err != nil {
		return nil, err
	}

	text := item.Contents
	if !item.Social() {
		full, err := s.registry.FetchText(ctx, url)
		if err != nil || full == "" {
			s.logger.Warn("article re-extraction failed, using cached contents",
				zap.String("url", url),
				zap.Error(err),
			)
		} else {
			text = full
		}
	}

	prompt := fmt.Sprintf(promptTemplate, item.Title, content.Truncate(text, maxContentLength))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("failed to generate summary: empty completion")
	}

	return &Result{
		URL:     url,
		Title:   item.Title,
		Source:  item.Source,
		Summary: strings.TrimSpace(resp.Choices[0].Message.Content),
	}, nil
}
