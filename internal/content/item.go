package content

// Source labels for non-news items. News items carry the outlet display
// name ("CNN", "Fox News", ...) from the outlet table instead.
const (
	SourceReddit  = "Reddit"
	SourceBluesky = "Bluesky"
)

// Political bias labels. Outlets carry a fixed label; Reddit and Bluesky
// items get one inferred by the classifier.
const (
	BiasLeft  = "left"
	BiasRight = "right"
)

// Sentiment categories derived from the VADER compound score.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Item is the unified result unit returned by /search. The URL doubles as
// the cache key for /summary.
type Item struct {
	Source   string `json:"source"`
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Contents string `json:"contents"`
	Author   string `json:"author,omitempty"`
	Date     int64  `json:"date"` // epoch seconds

	Bias string `json:"bias,omitempty"`

	// Sentiment and SentimentScore are set together after enrichment,
	// never one without the other.
	Sentiment      string   `json:"sentiment,omitempty"`
	SentimentScore *float64 `json:"sentiment_score,omitempty"`

	// Engagement counters. Always serialized: a zero score is a real
	// observation, not an absent field.
	Score       int `json:"score"`
	NumComments int `json:"num_comments"`
	Reposts     int `json:"reposts"`
	Replies     int `json:"replies"`
	Quotes      int `json:"quotes"`
	Bookmarks   int `json:"bookmarks"`

	Subreddit   string `json:"subreddit,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// SetSentiment records the enrichment result as an atomic pair.
func (i *Item) SetSentiment(category string, score float64) {
	i.Sentiment = category
	i.SentimentScore = &score
}

// Social reports whether the item came from Reddit or Bluesky and therefore
// needs its bias inferred instead of looked up in the outlet table.
func (i *Item) Social() bool {
	return i.Source == SourceReddit || i.Source == SourceBluesky
}
