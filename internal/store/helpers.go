package store

import (
	"context"
	"database/sql"
	"fmt"
)

const itemColumns = "id, section, url, title, author_name, author_url, talking_points, parent_id, sort_order"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id        int64
		section   string
		url       string
		title     string
		author    string
		authorURL string
		talking   string
		parentID  sql.NullInt64
		sortOrder int
	)

	if err := scanner.Scan(&id, &section, &url, &title, &author, &authorURL, &talking, &parentID, &sortOrder); err != nil {
		return nil, err
	}

	item := &Item{
		ID:            id,
		Section:       Section(section),
		URL:           url,
		Title:         title,
		AuthorName:    author,
		AuthorURL:     authorURL,
		TalkingPoints: talking,
		SortOrder:     sortOrder,
	}
	if parentID.Valid {
		parent := parentID.Int64
		item.ParentID = &parent
	}
	return item, nil
}

func getItem(ctx context.Context, q querier, id int64) (*Item, error) {
	row := q.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	item, err := scanItem(row)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func queryItems(ctx context.Context, q querier, query string, args ...any) ([]Item, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func secondariesOf(ctx context.Context, q querier, primaryID int64) ([]Item, error) {
	return queryItems(ctx, q,
		"SELECT "+itemColumns+" FROM items WHERE parent_id = ? ORDER BY sort_order, id", primaryID)
}

func topLevelOf(ctx context.Context, q querier, section Section) ([]Item, error) {
	return queryItems(ctx, q,
		"SELECT "+itemColumns+" FROM items WHERE section = ? AND parent_id IS NULL ORDER BY sort_order, id", section)
}

// applySortOrders rewrites sort_order to the index of each id in ids.
func applySortOrders(ctx context.Context, tx *sql.Tx, ids []int64) error {
	for index, id := range ids {
		if _, err := tx.ExecContext(ctx, "UPDATE items SET sort_order = ? WHERE id = ?", index, id); err != nil {
			return fmt.Errorf("set sort order for item %d: %w", id, err)
		}
	}
	return nil
}

// resequenceTopLevel restores contiguous 0..n-1 ordering for a section's
// top-level items, preserving their relative order.
func resequenceTopLevel(ctx context.Context, tx *sql.Tx, section Section) error {
	items, err := topLevelOf(ctx, tx, section)
	if err != nil {
		return fmt.Errorf("list top-level items: %w", err)
	}
	return applySortOrders(ctx, tx, itemIDs(items))
}

// resequenceSecondaries restores contiguous ordering within one primary's group.
func resequenceSecondaries(ctx context.Context, tx *sql.Tx, primaryID int64) error {
	items, err := secondariesOf(ctx, tx, primaryID)
	if err != nil {
		return fmt.Errorf("list secondaries: %w", err)
	}
	return applySortOrders(ctx, tx, itemIDs(items))
}

func itemIDs(items []Item) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// validateScopeOrder checks that orderedIDs is exactly a permutation of the
// scope's current membership: no foreign ids, no duplicates, nothing missing.
func validateScopeOrder(scope []Item, orderedIDs []int64) error {
	members := make(map[int64]bool, len(scope))
	for _, item := range scope {
		members[item.ID] = false
	}
	if len(orderedIDs) != len(members) {
		return fmt.Errorf("%w: order lists %d ids, scope has %d items", ErrInvalidArgument, len(orderedIDs), len(members))
	}
	for _, id := range orderedIDs {
		seen, ok := members[id]
		if !ok {
			return fmt.Errorf("%w: item %d is not part of the scope", ErrInvalidArgument, id)
		}
		if seen {
			return fmt.Errorf("%w: item %d appears more than once", ErrInvalidArgument, id)
		}
		members[id] = true
	}
	return nil
}
