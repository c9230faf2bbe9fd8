package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// bylineClasses are tried in order when no structured author metadata exists.
var bylineClasses = []string{"author", "byline", "article-author", "entry-author", "post-author"}

// extractMetadata fills result's title and author fields from the page.
// Malformed HTML is tolerated; goquery parses whatever it can.
func extractMetadata(html string, result *Result) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	jsonLD := parseJSONLD(doc)

	result.Title = extractTitle(doc)
	result.AuthorName = extractAuthorName(doc, jsonLD)
	result.AuthorURL = extractAuthorURL(doc, jsonLD)
}

func extractTitle(doc *goquery.Document) string {
	if content := metaContent(doc, `meta[property="og:title"]`); content != "" {
		return content
	}
	if content := metaContent(doc, `meta[name="twitter:title"]`); content != "" {
		return content
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractAuthorName(doc *goquery.Document, jsonLD *articleAuthor) string {
	// og:author is non-standard but some sites carry it.
	if content := metaContent(doc, `meta[property="og:author"]`); content != "" {
		return content
	}
	if content := metaContent(doc, `meta[name="author"]`); content != "" {
		return content
	}
	if content := metaContent(doc, `meta[name="article:author"]`); content != "" {
		return content
	}
	if jsonLD != nil && jsonLD.Name != "" {
		return jsonLD.Name
	}
	for _, class := range bylineClasses {
		text := strings.TrimSpace(doc.Find("." + class).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

func extractAuthorURL(doc *goquery.Document, jsonLD *articleAuthor) string {
	if jsonLD != nil {
		if jsonLD.URL != "" {
			return jsonLD.URL
		}
		if jsonLD.SameAs != "" {
			return jsonLD.SameAs
		}
	}
	if href, ok := doc.Find(`link[rel="author"]`).First().Attr("href"); ok {
		if href = strings.TrimSpace(href); href != "" {
			return href
		}
	}
	for _, class := range bylineClasses {
		if href, ok := doc.Find("." + class).First().Find("a[href]").First().Attr("href"); ok {
			if href = strings.TrimSpace(href); href != "" {
				return href
			}
		}
	}
	return ""
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// articleAuthor holds the author fields of a schema.org article node.
type articleAuthor struct {
	Name   string
	URL    string
	SameAs string
}

var articleTypes = map[string]bool{
	"Article":     true,
	"NewsArticle": true,
	"BlogPosting": true,
}

// parseJSONLD scans application/ld+json script blocks for an Article,
// NewsArticle, or BlogPosting node and returns its author fields. Only
// string-valued fields are used; nested author arrays are skipped.
func parseJSONLD(doc *goquery.Document) *articleAuthor {
	var found *articleAuthor
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var data map[string]any
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return true
		}

		candidates := []map[string]any{data}
		if graph, ok := data["@graph"].([]any); ok {
			candidates = candidates[:0]
			for _, node := range graph {
				if m, ok := node.(map[string]any); ok {
					candidates = append(candidates, m)
				}
			}
		}

		for _, node := range candidates {
			typ, _ := node["@type"].(string)
			if !articleTypes[typ] {
				continue
			}
			author, ok := node["author"].(map[string]any)
			if !ok {
				continue
			}
			found = &articleAuthor{
				Name:   stringField(author, "name"),
				URL:    stringField(author, "url"),
				SameAs: stringField(author, "sameAs"),
			}
			return false
		}
		return true
	})
	return found
}

func stringField(m map[string]any, key string) string {
	value, _ := m[key].(string)
	return value
}
