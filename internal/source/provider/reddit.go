package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ranadkar/polaryx/internal/content"
	"github.com/ranadkar/polaryx/internal/source/types"
)

// redditOverfetch compensates for link-only submissions that carry no text
// body and get dropped below.
const redditOverfetch = 3

// redditMaxLimit is the listing cap enforced by the Reddit API.
const redditMaxLimit = 100

// RedditProvider implements subreddit search through the app-only OAuth2
// flow (client_credentials grant, no user context).
type RedditProvider struct {
	*BaseProvider

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewRedditProvider creates a new Reddit provider
func NewRedditProvider(config *types.ProviderConfig) (Provider, error) {
	return &RedditProvider{BaseProvider: NewBaseProvider(config)}, nil
}

// token returns a cached app-only access token, fetching a fresh one when
// the cached token is missing or within a minute of expiry.
func (p *RedditProvider) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry.Add(-time.Minute)) {
		return p.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	tokenURL := fmt.Sprintf("%s/api/v1/access_token", p.config.AuthHost)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}

	httpReq.SetBasicAuth(p.config.ClientID, p.config.ClientSecret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if p.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.config.UserAgent)
	}

	resp, err := p.GetHTTPClient().Do(httpReq)
	if err != nil {
		return "", &types.ProviderError{
			Provider: p.GetID(),
			Code:     "AUTH_FAILED",
			Message:  "Failed to obtain access token",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
			Err:      types.ErrProviderUnauthorized,
		}
	}

	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", &types.ProviderError{
			Provider: p.GetID(),
			Code:     "AUTH_FAILED",
			Message:  "token response carried no access_token",
		}
	}

	p.accessToken = token
	p.tokenExpiry = time.Now().Add(time.Duration(gjson.GetBytes(body, "expires_in").Int()) * time.Second)

	return token, nil
}

// Search searches a subreddit (Scope, default "all") and returns up to
// Limit text posts. Link-only submissions and posts under the content
// floor are dropped; the listing is over-fetched to compensate, and the
// scan stops as soon as Limit qualifying posts accumulate.
func (p *RedditProvider) Search(ctx context.Context, req *types.SearchRequest) ([]*content.Item, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, nil
	}

	accessToken, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	scope := req.Scope
	if scope == "" {
		scope = "all"
	}

	sort := req.Sort
	switch sort {
	case "hot", "relevance", "top":
	default:
		sort = "hot"
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	fetch := limit * redditOverfetch
	if fetch > redditMaxLimit {
		fetch = redditMaxLimit
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("sort", sort)
	params.Set("limit", strconv.Itoa(fetch))
	params.Set("raw_json", "1")

	searchURL := fmt.Sprintf("%s/r/%s/search?%s", p.config.APIHost, url.PathEscape(scope), params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	if p.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.config.UserAgent)
	}

	resp, err := p.GetHTTPClient().Do(httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Token may have been revoked; drop it so the next request
		// re-authenticates. This request still fails.
		p.mu.Lock()
		p.accessToken = ""
		p.mu.Unlock()
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	items := make([]*content.Item, 0, limit)
	children := gjson.GetBytes(body, "data.children")
	children.ForEach(func(_, child gjson.Result) bool {
		data := child.Get("data")

		// Link posts carry no text body.
		selftext := data.Get("selftext").String()
		if selftext == "" {
			return true
		}
		if !types.MeetsContentFloor(selftext) {
			return true
		}

		author := data.Get("author").String()
		if author == "" {
			author = "[deleted]"
		}

		subreddit := data.Get("subreddit").String()
		if subreddit == "" {
			subreddit = "unknown"
		}

		items = append(items, &content.Item{
			Source:      content.SourceReddit,
			ID:          data.Get("id").String(),
			Title:       data.Get("title").String(),
			Author:      "u/" + author,
			Contents:    content.Truncate(selftext, 500),
			Date:        int64(data.Get("created_utc").Float()),
			Score:       int(data.Get("score").Int()),
			NumComments: int(data.Get("num_comments").Int()),
			URL:         "https://reddit.com" + data.Get("permalink").String(),
			Subreddit:   subreddit,
		})

		return len(items) < limit
	})

	return items, nil
}
