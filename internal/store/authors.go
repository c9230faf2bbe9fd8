package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	domainSuggestionLimit = 10
	otherSuggestionLimit  = 5
)

// UpsertAuthor records one more use of the (domain, name, url) triple.
func (s *Store) UpsertAuthor(ctx context.Context, domain, authorName, authorURL string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO author_history (domain, author_name, author_url, use_count, last_used_at)
         VALUES (?, ?, ?, 1, ?)
         ON CONFLICT (domain, author_name, author_url)
         DO UPDATE SET use_count = use_count + 1, last_used_at = excluded.last_used_at`,
		domain, authorName, authorURL, now,
	); err != nil {
		return fmt.Errorf("upsert author history: %w", err)
	}
	return nil
}

type authorRow struct {
	name     string
	url      string
	useCount int
	lastUsed string
}

// AuthorSuggestions returns autocomplete candidates: up to 10 entries saved
// for the given domain, then up to 5 from other domains. Entries are filtered
// by a case-insensitive substring match on the name when query is non-empty
// and deduplicated by name, preferring the variant with a non-empty URL and
// summing use counts across variants.
func (s *Store) AuthorSuggestions(ctx context.Context, domain, query string) (*Suggestions, error) {
	ctx = ensureContext(ctx)

	domainRows, err := s.queryAuthorRows(ctx,
		"SELECT author_name, author_url, use_count, last_used_at FROM author_history WHERE domain = ?", domain)
	if err != nil {
		return nil, err
	}
	otherRows, err := s.queryAuthorRows(ctx,
		"SELECT author_name, author_url, use_count, last_used_at FROM author_history WHERE domain <> ?", domain)
	if err != nil {
		return nil, err
	}

	return &Suggestions{
		DomainAuthors: collapseAuthors(domainRows, query, domainSuggestionLimit),
		OtherAuthors:  collapseAuthors(otherRows, query, otherSuggestionLimit),
	}, nil
}

// BestAuthorURL returns the most-used non-empty URL previously recorded for
// the exact (domain, name) pair, or empty when none exists.
func (s *Store) BestAuthorURL(ctx context.Context, domain, authorName string) (string, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT author_url FROM author_history
         WHERE domain = ? AND author_name = ? AND author_url <> ''
         ORDER BY use_count DESC, last_used_at DESC
         LIMIT 1`,
		domain, authorName,
	)
	var url string
	if err := row.Scan(&url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("best author url: %w", err)
	}
	return url, nil
}

func (s *Store) queryAuthorRows(ctx context.Context, query string, args ...any) ([]authorRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query author history: %w", err)
	}
	defer rows.Close()

	var result []authorRow
	for rows.Next() {
		var r authorRow
		if err := rows.Scan(&r.name, &r.url, &r.useCount, &r.lastUsed); err != nil {
			return nil, fmt.Errorf("scan author history: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// collapseAuthors merges URL variants of the same name into one suggestion and
// orders the result by total usage, then recency.
func collapseAuthors(rows []authorRow, query string, limit int) []AuthorSuggestion {
	needle := strings.ToLower(strings.TrimSpace(query))

	type merged struct {
		suggestion AuthorSuggestion
		urlCount   int
		lastUsed   string
	}
	byName := make(map[string]*merged)
	var order []string

	for _, row := range rows {
		if needle != "" && !strings.Contains(strings.ToLower(row.name), needle) {
			continue
		}
		entry, ok := byName[row.name]
		if !ok {
			entry = &merged{suggestion: AuthorSuggestion{AuthorName: row.name}}
			byName[row.name] = entry
			order = append(order, row.name)
		}
		entry.suggestion.UseCount += row.useCount
		if row.lastUsed > entry.lastUsed {
			entry.lastUsed = row.lastUsed
		}
		// The variant with a URL wins; among URL variants, the most used.
		if row.url != "" && (entry.suggestion.AuthorURL == "" || row.useCount > entry.urlCount) {
			entry.suggestion.AuthorURL = row.url
			entry.urlCount = row.useCount
		}
	}

	suggestions := make([]AuthorSuggestion, 0, len(order))
	lastUsed := make(map[string]string, len(order))
	for _, name := range order {
		entry := byName[name]
		suggestions = append(suggestions, entry.suggestion)
		lastUsed[name] = entry.lastUsed
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].UseCount != suggestions[j].UseCount {
			return suggestions[i].UseCount > suggestions[j].UseCount
		}
		return lastUsed[suggestions[i].AuthorName] > lastUsed[suggestions[j].AuthorName]
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
