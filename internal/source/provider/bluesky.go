package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ranadkar/polaryx/internal/content"
	"github.com/ranadkar/polaryx/internal/source/types"
)

// blueskyMaxLimit is the searchPosts cap enforced by the AppView.
const blueskyMaxLimit = 100

// BlueskyProvider implements post search over the atproto XRPC API. The
// session is established lazily, at most once per process; concurrent
// first callers share a single in-flight login instead of racing.
type BlueskyProvider struct {
	*BaseProvider

	loginGroup singleflight.Group
	mu         sync.Mutex
	accessJwt  string
}

// NewBlueskyProvider creates a new Bluesky provider
func NewBlueskyProvider(config *types.ProviderConfig) (Provider, error) {
	return &BlueskyProvider{BaseProvider: NewBaseProvider(config)}, nil
}

type blueskySession struct {
	AccessJwt string `json:"accessJwt"`
	Did       string `json:"did"`
	Handle    string `json:"handle"`
}

type blueskySearchResponse struct {
	Posts []struct {
		URI    string `json:"uri"`
		Author struct {
			Handle      string `json:"handle"`
			DisplayName string `json:"displayName"`
		} `json:"author"`
		Record struct {
			Text      string `json:"text"`
			CreatedAt string `json:"createdAt"`
		} `json:"record"`
		ReplyCount    int `json:"replyCount"`
		RepostCount   int `json:"repostCount"`
		LikeCount     int `json:"likeCount"`
		QuoteCount    int `json:"quoteCount"`
		BookmarkCount int `json:"bookmarkCount"`
	} `json:"posts"`
}

// session returns the cached access token, logging in on first use. All
// concurrent callers of the first login share one XRPC call.
func (p *BlueskyProvider) session(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.accessJwt != "" {
		jwt := p.accessJwt
		p.mu.Unlock()
		return jwt, nil
	}
	p.mu.Unlock()

	v, err, _ := p.loginGroup.Do("login", func() (interface{}, error) {
		return p.login(ctx)
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

func (p *BlueskyProvider) login(ctx context.Context) (string, error) {
	reqBody, err := json.Marshal(map[string]string{
		"identifier": p.config.Handle,
		"password":   p.config.AppPassword,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session request: %w", err)
	}

	sessionURL := fmt.Sprintf("%s/xrpc/com.atproto.server.createSession", p.config.APIHost)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", sessionURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.GetHTTPClient().Do(httpReq)
	if err != nil {
		return "", &types.ProviderError{
			Provider: p.GetID(),
			Code:     "AUTH_FAILED",
			Message:  "Failed to create session",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
			Err:      types.ErrProviderUnauthorized,
		}
	}

	var session blueskySession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("failed to decode session response: %w", err)
	}
	if session.AccessJwt == "" {
		return "", &types.ProviderError{
			Provider: p.GetID(),
			Code:     "AUTH_FAILED",
			Message:  "session response carried no accessJwt",
		}
	}

	p.mu.Lock()
	p.accessJwt = session.AccessJwt
	p.mu.Unlock()

	return session.AccessJwt, nil
}

// Search searches Bluesky posts sorted by "top" or "latest" (anything else
// falls back to "top"). Media-only posts and posts under the content floor
// are dropped.
func (p *BlueskyProvider) Search(ctx context.Context, req *types.SearchRequest) ([]*content.Item, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, nil
	}

	accessJwt, err := p.session(ctx)
	if err != nil {
		return nil, err
	}

	sort := req.Sort
	if sort != "latest" && sort != "top" {
		sort = "top"
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > blueskyMaxLimit {
		limit = blueskyMaxLimit
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("sort", sort)
	params.Set("limit", strconv.Itoa(limit))

	searchURL := fmt.Sprintf("%s/xrpc/app.bsky.feed.searchPosts?%s", p.config.APIHost, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessJwt)

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

	if resp.StatusCode == http.StatusUnauthorized {
		// Session expired; drop it so the next request logs in again.
		p.mu.Lock()
		p.accessJwt = ""
		p.mu.Unlock()
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	var searchResp blueskySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items := make([]*content.Item, 0, len(searchResp.Posts))
	for _, post := range searchResp.Posts {
		if len(items) >= limit {
			break
		}

		if !types.MeetsContentFloor(post.Record.Text) {
			continue
		}

		// at://did:plc:xxx/app.bsky.feed.post/<id>
		uriParts := strings.Split(post.URI, "/")
		postID := uriParts[len(uriParts)-1]

		title := post.Record.Text
		if len([]rune(title)) > 100 {
			title = content.Truncate(title, 100) + "..."
		}

		displayName := post.Author.DisplayName
		if displayName == "" {
			displayName = post.Author.Handle
		}

		items = append(items, &content.Item{
			Source:      content.SourceBluesky,
			ID:          postID,
			Title:       title,
			Author:      "@" + post.Author.Handle,
			DisplayName: displayName,
			Contents:    post.Record.Text,
			Date:        content.ToEpoch(post.Record.CreatedAt),
			Score:       post.LikeCount,
			Reposts:     post.RepostCount,
			Replies:     post.ReplyCount,
			Quotes:      post.QuoteCount,
			Bookmarks:   post.BookmarkCount,
			URL:         fmt.Sprintf("https://bsky.app/profile/%s/post/%s", post.Author.Handle, postID),
		})
	}

	return items, nil
}
