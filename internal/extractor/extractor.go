// Package extractor holds the per-outlet article extraction recipes and the
// static outlet table (display name, political bias, domain). Each recipe is
// one document-structure rule; adding an outlet means adding one registry
// entry.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrUnknownOutlet is returned when no registered outlet domain matches
// the URL.
var ErrUnknownOutlet = errors.New("no outlet registered for URL")

// ExtractorFunc extracts plain article text from a parsed document. An
// empty return value means the recipe found nothing usable.
type ExtractorFunc func(doc *goquery.Document) string

// Outlet is one news publisher: a domain to match against article URLs, a
// display name, a fixed political-bias label, and an extraction recipe.
type Outlet struct {
	Domain  string
	Name    string
	Bias    string
	Extract ExtractorFunc
}

// Registry resolves article URLs to outlets and fetches full article text.
type Registry struct {
	outlets   []Outlet
	client    *http.Client
	userAgent string
}

// Option configures a Registry.
type Option func(*Registry)

// WithHTTPClient overrides the HTTP client used for article fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Registry) { r.client = client }
}

// WithUserAgent sets the User-Agent header for article fetches.
func WithUserAgent(ua string) Option {
	return func(r *Registry) { r.userAgent = ua }
}

// NewRegistry creates a registry pre-populated with the default outlets.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		outlets: defaultOutlets(),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds an outlet. Registered outlets are matched in order.
func (r *Registry) Register(o Outlet) {
	r.outlets = append(r.outlets, o)
}

// Match resolves the outlet for a URL by substring match against the
// registered domains.
func (r *Registry) Match(url string) (*Outlet, bool) {
	for i := range r.outlets {
		if strings.Contains(url, r.outlets[i].Domain) {
			return &r.outlets[i], true
		}
	}
	return nil, false
}

// Outlets returns the registered outlets in match order.
func (r *Registry) Outlets() []Outlet {
	return r.outlets
}

// Domains returns the registered outlet domains in match order, for use as
// a news-search allow-list.
func (r *Registry) Domains() []string {
	domains := make([]string, len(r.outlets))
	for i, o := range r.outlets {
		domains[i] = o.Domain
	}
	return domains
}

// FetchText resolves the outlet for the URL, fetches the page, and runs the
// outlet's extraction recipe. An unknown domain is an error; an article the
// recipe cannot parse yields an empty string and no error.
func (r *Registry) FetchText(ctx context.Context, url string) (string, error) {
	outlet, ok := r.Match(url)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownOutlet, url)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("request creation failed: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse HTML failed: %w", err)
	}

	return outlet.Extract(doc), nil
}
