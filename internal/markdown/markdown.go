// Package markdown assembles the publishable show notes document from
// episode and item data. Rendering is pure: no storage access, no side
// effects, output depends only on the arguments.
package markdown

import (
	"fmt"
	"strings"

	"shownotes/internal/config"
	"shownotes/internal/store"
)

// Render produces the complete Markdown document for the episode. News
// items are expected in group order: each primary immediately followed by
// its secondaries, as returned by the store.
func Render(show config.Show, episode *store.Episode, items *store.OrderedItems) string {
	var lines []string

	lines = append(lines,
		fmt.Sprintf("# %s for Week %d of %d - %s", show.Title, episode.WeekNumber, episode.Year, show.Tagline),
		"",
		fmt.Sprintf("[youtube %s]", episode.YouTubeURL),
		"")

	// Vulnerability section is a tight bulleted list. The blank line after
	// the heading always appears; the one after the list only when items
	// were emitted.
	lines = append(lines, "### "+show.VulnerabilityLabel, "")
	for _, item := range items.Vulnerability {
		lines = append(lines, fmt.Sprintf("- [%s](%s)", item.Title, item.URL))
	}
	if len(items.Vulnerability) > 0 {
		lines = append(lines, "")
	}

	lines = append(lines, "### "+show.NewsLabel, "")
	lines = append(lines, renderNews(items.News)...)

	return strings.Join(lines, "\n")
}

// renderNews emits one block per top-level item with a single blank line
// between blocks. Secondaries become a Related list under their primary.
func renderNews(news []store.Item) []string {
	var lines []string
	first := true
	for i := 0; i < len(news); i++ {
		item := news[i]
		if !item.TopLevel() {
			// Secondaries are consumed by their primary's block below.
			continue
		}
		if !first {
			lines = append(lines, "")
		}
		first = false

		lines = append(lines,
			"Title: "+item.Title,
			fmt.Sprintf("By: [%s](%s)", item.AuthorName, item.AuthorURL),
			fmt.Sprintf("[%s](%s)", item.URL, item.URL))

		if item.TalkingPoints != "" {
			lines = append(lines, strings.Split(item.TalkingPoints, "\n")...)
		}

		related := secondariesAfter(news, i)
		if len(related) > 0 {
			lines = append(lines, "Related:")
			for _, sec := range related {
				lines = append(lines, fmt.Sprintf("- [%s](%s)", sec.Title, sec.URL))
			}
		}
	}
	return lines
}

// secondariesAfter collects the run of secondaries that group order places
// directly after the primary at index i.
func secondariesAfter(news []store.Item, i int) []store.Item {
	primaryID := news[i].ID
	var secondaries []store.Item
	for j := i + 1; j < len(news); j++ {
		if news[j].ParentID == nil || *news[j].ParentID != primaryID {
			break
		}
		secondaries = append(secondaries, news[j])
	}
	return secondaries
}

// Warnings reports gaps in the episode data that would produce a broken
// document: a missing video URL and items without a title. It does not
// block rendering.
func Warnings(episode *store.Episode, items *store.OrderedItems) []string {
	var warnings []string
	if episode.YouTubeURL == "" {
		warnings = append(warnings, "episode has no YouTube URL")
	}
	for _, item := range items.Vulnerability {
		if item.Title == "" {
			warnings = append(warnings, fmt.Sprintf("vulnerability item %d has no title", item.ID))
		}
	}
	for _, item := range items.News {
		if item.Title == "" {
			warnings = append(warnings, fmt.Sprintf("news item %d has no title", item.ID))
		}
		if item.TopLevel() && item.AuthorName == "" {
			warnings = append(warnings, fmt.Sprintf("news item %d has no author", item.ID))
		}
	}
	return warnings
}
