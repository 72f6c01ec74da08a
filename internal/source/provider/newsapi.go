package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ranadkar/polaryx/internal/content"
	"github.com/ranadkar/polaryx/internal/source/types"
)

// NewsAPIProvider implements the NewsAPI "everything" endpoint, restricted
// to a comma-joined domain allow-list. Content-length filtering happens
// downstream, after outlet mapping.
type NewsAPIProvider struct {
	*BaseProvider
}

// NewNewsAPIProvider creates a new NewsAPI provider
func NewNewsAPIProvider(config *types.ProviderConfig) (Provider, error) {
	return &NewsAPIProvider{BaseProvider: NewBaseProvider(config)}, nil
}

// newsAPIResponse represents a NewsAPI response
type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Search executes a search query against NewsAPI.
func (p *NewsAPIProvider) Search(ctx context.Context, req *types.SearchRequest) ([]*content.Item, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", req.Query)
	if len(req.Domains) > 0 {
		params.Set("domains", strings.Join(req.Domains, ","))
	}
	if req.Limit > 0 {
		params.Set("pageSize", strconv.Itoa(req.Limit))
	}

	apiURL := fmt.Sprintf("%s/v2/everything?%s", p.config.APIHost, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("X-Api-Key", p.config.APIKey)

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

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	var newsResp newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&newsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if newsResp.Status != "ok" {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     newsResp.Code,
			Message:  newsResp.Message,
		}
	}

	items := make([]*content.Item, 0, len(newsResp.Articles))
	for _, a := range newsResp.Articles {
		items = append(items, &content.Item{
			// Source stays empty here; the aggregator resolves the outlet
			// display name from the domain table.
			Title:    a.Title,
			URL:      a.URL,
			Contents: content.StripTags(a.Content),
			Author:   a.Author,
			Date:     content.ToEpoch(a.PublishedAt),
		})
	}

	return items, nil
}
