package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ranadkar/polaryx/internal/content"
	"github.com/ranadkar/polaryx/internal/pkg/logger"
	"github.com/ranadkar/polaryx/internal/pkg/response"
	"github.com/ranadkar/polaryx/internal/search/biz"
	"github.com/ranadkar/polaryx/internal/summary"
)

// notFoundMessage is part of the public contract: it tells callers to
// search before asking for a summary.
const notFoundMessage = "URL not found. Please search for content first."

// SearchService exposes the aggregation pipeline over HTTP.
type SearchService struct {
	aggregator *biz.Aggregator
	summarizer *summary.Summarizer
	logger     *logger.Logger
}

// NewSearchService creates a SearchService.
func NewSearchService(aggregator *biz.Aggregator, summarizer *summary.Summarizer, log *logger.Logger) *SearchService {
	return &SearchService{
		aggregator: aggregator,
		summarizer: summarizer,
		logger:     log,
	}
}

// RegisterRoutes registers the service routes.
func (s *SearchService) RegisterRoutes(r gin.IRouter) {
	r.GET("/search", s.Search)
	r.GET("/summary", s.Summarize)
}

// Search handles GET /search?q=. An empty query yields an empty list, not
// a 4xx: the connectors simply return nothing. A connector transport
// failure aborts the whole request.
func (s *SearchService) Search(c *gin.Context) {
	query := c.Query("q")

	items, err := s.aggregator.Search(c.Request.Context(), query)
	if err != nil {
		s.logger.Error("search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		response.InternalError(c, "search failed")
		return
	}

	if items == nil {
		items = []*content.Item{}
	}
	response.OK(c, items)
}

// Summarize handles GET /summary?url=. Logical failures (unknown URL,
// summarizer error) travel as an error payload with a 200 status; callers
// check the field, not the status code.
func (s *SearchService) Summarize(c *gin.Context) {
	url := c.Query("url")

	result, err := s.summarizer.Summarize(c.Request.Context(), url)
	if err != nil {
		if errors.Is(err, biz.ErrNotFound) {
			response.OKError(c, notFoundMessage)
			return
		}

		s.logger.Error("summary failed",
			zap.String("url", url),
			zap.Error(err),
		)
		response.OKError(c, err.Error())
		return
	}

	response.OK(c, result)
}
