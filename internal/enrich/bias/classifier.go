// Package bias infers a left/right political-bias label for social posts
// through a chat-completion call. News items never pass through here; they
// keep their outlet's static label.
package bias

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ranadkar/polaryx/internal/content"
	"github.com/ranadkar/polaryx/internal/pkg/logger"
	"github.com/ranadkar/polaryx/internal/pkg/workerpool"
)

const promptTemplate = `Analyze the political bias of this social media post. Classify it as either 'left' (liberal/progressive) or 'right' (conservative).

Title: %s
Content: %s%s

Respond with ONLY one word: either 'left' or 'right'.`

// Classifier labels posts via an OpenAI-compatible chat API. Transport
// errors, timeouts, and off-contract replies all resolve to the fallback
// label. Classification never fails the surrounding batch and is never
// retried within a request.
type Classifier struct {
	client   *openai.Client
	model    string
	fallback string
	pool     *workerpool.Pool
	logger   *logger.Logger
}

// NewClassifier creates a Classifier. An invalid fallback label degrades to
// "left", the canonical endpoint's choice.
func NewClassifier(client *openai.Client, model, fallback string, pool *workerpool.Pool, log *logger.Logger) *Classifier {
	if fallback != content.BiasLeft && fallback != content.BiasRight {
		fallback = content.BiasLeft
	}

	return &Classifier{
		client:   client,
		model:    model,
		fallback: fallback,
		pool:     pool,
		logger:   log,
	}
}

// Classify labels a single post. Content is truncated to 500 characters;
// subreddit is optional community context.
func (c *Classifier) Classify(ctx context.Context, title, contents, subreddit string) string {
	subredditInfo := ""
	if subreddit != "" {
		subredditInfo = fmt.Sprintf("\nSubreddit: r/%s", subreddit)
	}

	prompt := fmt.Sprintf(promptTemplate, title, content.Truncate(contents, 500), subredditInfo)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Warn("bias classification failed",
			zap.String("title", title),
			zap.Error(err),
		)
		return c.fallback
	}

	if len(resp.Choices) == 0 {
		return c.fallback
	}

	label := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	if label != content.BiasLeft && label != content.BiasRight {
		return c.fallback
	}

	return label
}

// ClassifyBatch labels every item concurrently through the worker pool and
// blocks until all labels are assigned. One item's failure does not affect
// the others.
func (c *Classifier) ClassifyBatch(ctx context.Context, items []*content.Item) {
	if len(items) == 0 {
		return
	}

	c.pool.Each(len(items), func(i int) {
		item := items[i]
		item.Bias = c.Classify(ctx, item.Title, item.Contents, item.Subreddit)
	})
}
