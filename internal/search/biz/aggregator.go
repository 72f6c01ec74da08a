package biz

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ranadkar/polaryx/internal/content"
	"github.com/ranadkar/polaryx/internal/enrich/bias"
	"github.com/ranadkar/polaryx/internal/enrich/sentiment"
	"github.com/ranadkar/polaryx/internal/extractor"
	"github.com/ranadkar/polaryx/internal/pkg/logger"
	"github.com/ranadkar/polaryx/internal/source/provider"
	"github.com/ranadkar/polaryx/internal/source/types"
)

// Options bound the merged result set.
type Options struct {
	SocialLimit  int    // per social source
	NewsPageSize int    // raw stubs requested from the news provider
	QuotaPerBias int    // news items admitted per bias bucket
	NewsCap      int    // news items admitted in total
	RedditScope  string
	RedditSort   string
	BlueskySort  string
}

// Aggregator fans out a query to the three source connectors, balances the
// news portion under per-bias quotas, enriches every surviving item, and
// records it in the result cache.
type Aggregator struct {
	news    provider.Provider
	reddit  provider.Provider
	bluesky provider.Provider

	registry   *extractor.Registry
	analyzer   *sentiment.Analyzer
	classifier *bias.Classifier
	cache      *ResultCache
	opts       Options
	logger     *logger.Logger
}

// NewAggregator wires the aggregation pipeline.
func NewAggregator(
	news, reddit, bluesky provider.Provider,
	registry *extractor.Registry,
	analyzer *sentiment.Analyzer,
	classifier *bias.Classifier,
	cache *ResultCache,
	opts Options,
	log *logger.Logger,
) *Aggregator {
	return &Aggregator{
		news:       news,
		reddit:     reddit,
		bluesky:    bluesky,
		registry:   registry,
		analyzer:   analyzer,
		classifier: classifier,
		cache:      cache,
		opts:       opts,
		logger:     log,
	}
}

// Search runs the full pipeline for one query. The three connectors run
// concurrently behind an all-or-nothing barrier: one connector's transport
// failure aborts the whole request. The returned list is news first, then
// Reddit, then Bluesky, each in connector-return order.
func (a *Aggregator) Search(ctx context.Context, query string) ([]*content.Item, error) {
	var newsStubs, redditItems, blueskyItems []*content.Item

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		newsStubs, err = a.news.Search(gctx, &types.SearchRequest{
			Query:   query,
			Domains: a.registry.Domains(),
			Limit:   a.opts.NewsPageSize,
		})
		return err
	})

	g.Go(func() error {
		var err error
		redditItems, err = a.reddit.Search(gctx, &types.SearchRequest{
			Query: query,
			Scope: a.opts.RedditScope,
			Sort:  a.opts.RedditSort,
			Limit: a.opts.SocialLimit,
		})
		return err
	})

	g.Go(func() error {
		var err error
		blueskyItems, err = a.bluesky.Search(gctx, &types.SearchRequest{
			Query: query,
			Sort:  a.opts.BlueskySort,
			Limit: a.opts.SocialLimit,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	newsItems := a.admitNews(newsStubs)

	social := make([]*content.Item, 0, len(redditItems)+len(blueskyItems))
	social = append(social, redditItems...)
	social = append(social, blueskyItems...)

	// Bias labels for the whole social batch in one concurrent round;
	// sentiment is cheap and stays inline.
	a.classifier.ClassifyBatch(ctx, social)
	for _, item := range social {
		item.SetSentiment(a.analyzer.Analyze(item.Title, item.Contents))
	}

	results := make([]*content.Item, 0, len(newsItems)+len(social))
	results = append(results, newsItems...)
	results = append(results, social...)

	for _, item := range results {
		a.cache.Put(item)
	}

	a.logger.Info("search aggregated",
		zap.String("query", query),
		zap.Int("news", len(newsItems)),
		zap.Int("reddit", len(redditItems)),
		zap.Int("bluesky", len(blueskyItems)),
	)

	return results, nil
}

// admitNews maps raw stubs to outlets and applies the greedy quota policy:
// stubs are considered in provider-return order, each bias bucket closes at
// QuotaPerBias, and admission stops entirely at NewsCap. Stubs from unknown
// domains and stubs under the content floor are discarded. Admitted items
// get the outlet's display name, static bias label, and their sentiment
// pair.
func (a *Aggregator) admitNews(stubs []*content.Item) []*content.Item {
	admitted := make([]*content.Item, 0, a.opts.NewsCap)
	leftCount, rightCount := 0, 0

	for _, stub := range stubs {
		if len(admitted) >= a.opts.NewsCap {
			break
		}

		outlet, ok := a.registry.Match(stub.URL)
		if !ok {
			continue
		}

		if !types.MeetsContentFloor(stub.Contents) {
			continue
		}

		switch outlet.Bias {
		case content.BiasLeft:
			if leftCount >= a.opts.QuotaPerBias {
				continue
			}
			leftCount++
		default:
			if rightCount >= a.opts.QuotaPerBias {
				continue
			}
			rightCount++
		}

		stub.Source = outlet.Name
		stub.Bias = outlet.Bias
		stub.SetSentiment(a.analyzer.Analyze(stub.Title, stub.Contents))

		admitted = append(admitted, stub)
	}

	return admitted
}
