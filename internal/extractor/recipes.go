package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ranadkar/polaryx/internal/content"
)

// defaultOutlets is the static outlet table. Bias labels are fixed per
// outlet, never inferred.
func defaultOutlets() []Outlet {
	return []Outlet{
		{Domain: "cnn.com", Name: "CNN", Bias: content.BiasLeft, Extract: extractCNN},
		{Domain: "cbsnews.com", Name: "CBS News", Bias: content.BiasLeft, Extract: BodyParagraphs("section.content__body")},
		{Domain: "nbcnews.com", Name: "NBC News", Bias: content.BiasLeft, Extract: BodyParagraphs("div.article-body__content")},
		{Domain: "abcnews.go.com", Name: "ABC News", Bias: content.BiasLeft, Extract: BodyParagraphs("div.FITT_Article_main__body")},
		{Domain: "foxnews.com", Name: "Fox News", Bias: content.BiasRight, Extract: extractFox},
		{Domain: "breitbart.com", Name: "Breitbart", Bias: content.BiasRight, Extract: BodyParagraphs("div.entry-content")},
		{Domain: "nypost.com", Name: "NY Post", Bias: content.BiasRight, Extract: BodyParagraphs("div.single__content")},
		{Domain: "oann.com", Name: "OANN", Bias: content.BiasRight, Extract: BodyParagraphs("div.entry-content")},
	}
}

// unwantedSelectors are stripped from article bodies before text
// extraction.
const unwantedSelectors = ".ad-container, .ad-slot, .advertisement, .related-content"

// BodyParagraphs builds the common extraction recipe for a custom outlet:
// select the article body, drop ad and related-content blocks, and join the
// remaining paragraph texts with newlines. Falls back to paragraphs inside
// an <article> tag when the body selector matches nothing.
func BodyParagraphs(bodySelector string) ExtractorFunc {
	return func(doc *goquery.Document) string {
		body := doc.Find(bodySelector).First()
		if body.Length() > 0 {
			body.Find(unwantedSelectors).Remove()
			return joinParagraphs(body.Find("p"))
		}

		article := doc.Find("article").First()
		if article.Length() > 0 {
			return joinParagraphs(article.Find("p"))
		}

		return ""
	}
}

// extractCNN concatenates CNN's elevated paragraph elements.
func extractCNN(doc *goquery.Document) string {
	return joinParagraphs(doc.Find("p.paragraph-elevate"))
}

// extractFox takes the text of the article content wrap with ad containers
// removed.
func extractFox(doc *goquery.Document) string {
	wrap := doc.Find("div.article-content-wrap").First()
	if wrap.Length() == 0 {
		return ""
	}

	wrap.Find(".add-container").Remove()

	var lines []string
	for _, line := range strings.Split(wrap.Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

func joinParagraphs(sel *goquery.Selection) string {
	var paragraphs []string
	sel.Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n")
}
