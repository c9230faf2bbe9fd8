package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddItem appends a new top-level item to the end of its section.
func (s *Store) AddItem(ctx context.Context, section Section, url, title, authorName, authorURL string) (*Item, error) {
	if !section.Valid() {
		return nil, fmt.Errorf("%w: unknown section %q", ErrInvalidArgument, section)
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO items (section, url, title, author_name, author_url, sort_order)
         VALUES (?, ?, ?, ?, ?,
             (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM items WHERE section = ? AND parent_id IS NULL))`,
		section, url, title, authorName, authorURL, section,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(ctx, id)
}

// GetItem fetches one item by id.
func (s *Store) GetItem(ctx context.Context, id int64) (*Item, error) {
	ctx = ensureContext(ctx)
	item, err := getItem(ctx, s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

// UpdateItem replaces the four editable fields in place. Section, parent, sort
// order, and talking points are untouched.
func (s *Store) UpdateItem(ctx context.Context, id int64, url, title, authorName, authorURL string) (*Item, error) {
	res, err := s.execWithRetry(
		ctx,
		"UPDATE items SET url = ?, title = ?, author_name = ?, author_url = ? WHERE id = ?",
		url, title, authorName, authorURL, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return s.GetItem(ctx, id)
}

// UpdateTalkingPoints sets the talking points of a top-level item. Secondaries
// are rejected; their notes live on the primary.
func (s *Store) UpdateTalkingPoints(ctx context.Context, id int64, text string) (*Item, error) {
	var updated *Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		item, err := getItem(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("item %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get item %d: %w", id, err)
		}
		if !item.TopLevel() {
			return fmt.Errorf("%w: item %d is a secondary", ErrInvalidArgument, id)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE items SET talking_points = ? WHERE id = ?", text, id); err != nil {
			return fmt.Errorf("update talking points: %w", err)
		}
		item.TalkingPoints = text
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteItem removes an item. Deleting a primary promotes its first secondary
// in its place (inheriting sort order and talking points) and re-parents the
// rest under the promoted item. Every affected sibling scope is resequenced.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		item, err := getItem(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("item %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get item %d: %w", id, err)
		}

		children, err := secondariesOf(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("list secondaries: %w", err)
		}

		switch {
		case len(children) > 0:
			promoted := children[0]
			if _, err := tx.ExecContext(ctx,
				"UPDATE items SET parent_id = NULL, sort_order = ?, talking_points = ? WHERE id = ?",
				item.SortOrder, item.TalkingPoints, promoted.ID,
			); err != nil {
				return fmt.Errorf("promote secondary %d: %w", promoted.ID, err)
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE items SET parent_id = ? WHERE parent_id = ? AND id <> ?",
				promoted.ID, id, promoted.ID,
			); err != nil {
				return fmt.Errorf("re-parent secondaries: %w", err)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id); err != nil {
				return fmt.Errorf("delete item %d: %w", id, err)
			}
			if err := resequenceSecondaries(ctx, tx, promoted.ID); err != nil {
				return err
			}

		case !item.TopLevel():
			if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id); err != nil {
				return fmt.Errorf("delete item %d: %w", id, err)
			}
			if err := resequenceSecondaries(ctx, tx, *item.ParentID); err != nil {
				return err
			}

		default:
			if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id); err != nil {
				return fmt.Errorf("delete item %d: %w", id, err)
			}
		}

		return resequenceTopLevel(ctx, tx, item.Section)
	})
}

// ReorderItems applies a caller-supplied permutation of a section's top-level
// items. The list must cover the scope exactly; a secondary id anywhere in it
// fails the whole call before any write.
func (s *Store) ReorderItems(ctx context.Context, section Section, orderedIDs []int64) error {
	if !section.Valid() {
		return fmt.Errorf("%w: unknown section %q", ErrInvalidArgument, section)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return reorderTopLevel(ctx, tx, section, orderedIDs)
	})
}

func reorderTopLevel(ctx context.Context, tx *sql.Tx, section Section, orderedIDs []int64) error {
	scope, err := topLevelOf(ctx, tx, section)
	if err != nil {
		return fmt.Errorf("list top-level items: %w", err)
	}
	if err := validateScopeOrder(scope, orderedIDs); err != nil {
		return err
	}
	return applySortOrders(ctx, tx, orderedIDs)
}

// ReorderGroupItems applies a caller-supplied permutation of one primary's
// secondaries.
func (s *Store) ReorderGroupItems(ctx context.Context, primaryID int64, orderedIDs []int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getItem(ctx, tx, primaryID); errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: primary %d does not exist", ErrInvalidArgument, primaryID)
		} else if err != nil {
			return fmt.Errorf("get primary %d: %w", primaryID, err)
		}

		scope, err := secondariesOf(ctx, tx, primaryID)
		if err != nil {
			return fmt.Errorf("list secondaries: %w", err)
		}
		if err := validateScopeOrder(scope, orderedIDs); err != nil {
			return err
		}
		return applySortOrders(ctx, tx, orderedIDs)
	})
}

// NestItem makes itemID a secondary of targetID, appended after the target's
// existing secondaries. If itemID was itself a primary, its secondaries are
// flattened onto targetID first, keeping their relative order, so nesting
// never produces depth greater than one.
func (s *Store) NestItem(ctx context.Context, itemID, targetID int64) (*Group, error) {
	if itemID == targetID {
		return nil, fmt.Errorf("%w: cannot nest item %d under itself", ErrInvalidArgument, itemID)
	}

	var group *Group
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		target, err := getItem(ctx, tx, targetID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: target %d does not exist", ErrInvalidArgument, targetID)
		}
		if err != nil {
			return fmt.Errorf("get target %d: %w", targetID, err)
		}
		if target.Section != SectionNews {
			return fmt.Errorf("%w: target %d is not a news item", ErrInvalidArgument, targetID)
		}
		if !target.TopLevel() {
			return fmt.Errorf("%w: target %d is itself a secondary", ErrInvalidArgument, targetID)
		}

		item, err := getItem(ctx, tx, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: item %d does not exist", ErrInvalidArgument, itemID)
		}
		if err != nil {
			return fmt.Errorf("get item %d: %w", itemID, err)
		}
		if item.Section != SectionNews {
			return fmt.Errorf("%w: item %d is not a news item", ErrInvalidArgument, itemID)
		}
		if !item.TopLevel() {
			return fmt.Errorf("%w: item %d is already nested", ErrInvalidArgument, itemID)
		}

		existing, err := secondariesOf(ctx, tx, targetID)
		if err != nil {
			return fmt.Errorf("list target secondaries: %w", err)
		}
		flattened, err := secondariesOf(ctx, tx, itemID)
		if err != nil {
			return fmt.Errorf("list item secondaries: %w", err)
		}

		if len(flattened) > 0 {
			if _, err := tx.ExecContext(ctx, "UPDATE items SET parent_id = ? WHERE parent_id = ?", targetID, itemID); err != nil {
				return fmt.Errorf("flatten secondaries onto target: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, "UPDATE items SET parent_id = ? WHERE id = ?", targetID, itemID); err != nil {
			return fmt.Errorf("nest item %d: %w", itemID, err)
		}

		// Final group order: the target's own secondaries, then the flattened
		// ones, then the nested item last.
		finalOrder := append(itemIDs(existing), itemIDs(flattened)...)
		finalOrder = append(finalOrder, itemID)
		if err := applySortOrders(ctx, tx, finalOrder); err != nil {
			return err
		}

		// The nested item left the top-level scope; close the gap.
		if err := resequenceTopLevel(ctx, tx, SectionNews); err != nil {
			return err
		}

		primary, err := getItem(ctx, tx, targetID)
		if err != nil {
			return fmt.Errorf("refresh primary %d: %w", targetID, err)
		}
		secondaries, err := secondariesOf(ctx, tx, targetID)
		if err != nil {
			return fmt.Errorf("refresh secondaries: %w", err)
		}
		group = &Group{Primary: *primary, Secondaries: secondaries}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ExtractItem detaches a secondary back to top level, applies the supplied
// full top-level ordering for the section, and closes the gap in the former
// group.
func (s *Store) ExtractItem(ctx context.Context, itemID int64, newTopLevelOrder []int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		item, err := getItem(ctx, tx, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: item %d does not exist", ErrInvalidArgument, itemID)
		}
		if err != nil {
			return fmt.Errorf("get item %d: %w", itemID, err)
		}
		if item.TopLevel() {
			return fmt.Errorf("%w: item %d is not nested", ErrInvalidArgument, itemID)
		}
		formerParent := *item.ParentID

		if _, err := tx.ExecContext(ctx, "UPDATE items SET parent_id = NULL WHERE id = ?", itemID); err != nil {
			return fmt.Errorf("extract item %d: %w", itemID, err)
		}
		if err := reorderTopLevel(ctx, tx, item.Section, newTopLevelOrder); err != nil {
			return err
		}
		return resequenceSecondaries(ctx, tx, formerParent)
	})
}

// OrderedItems returns both sections in display order. Vulnerability is a flat
// list; news interleaves each primary with its secondaries so consumers never
// re-derive grouping.
func (s *Store) OrderedItems(ctx context.Context) (*OrderedItems, error) {
	ctx = ensureContext(ctx)

	vulnerability, err := topLevelOf(ctx, s.db, SectionVulnerability)
	if err != nil {
		return nil, fmt.Errorf("list vulnerability items: %w", err)
	}

	newsRows, err := queryItems(ctx, s.db,
		"SELECT "+itemColumns+" FROM items WHERE section = ? ORDER BY sort_order, id", SectionNews)
	if err != nil {
		return nil, fmt.Errorf("list news items: %w", err)
	}

	byParent := make(map[int64][]Item)
	var tops []Item
	for _, item := range newsRows {
		if item.TopLevel() {
			tops = append(tops, item)
			continue
		}
		byParent[*item.ParentID] = append(byParent[*item.ParentID], item)
	}

	news := make([]Item, 0, len(newsRows))
	for _, top := range tops {
		news = append(news, top)
		news = append(news, byParent[top.ID]...)
	}

	return &OrderedItems{Vulnerability: vulnerability, News: news}, nil
}

// DeleteAllItems removes every item. Used by the episode reset cascade.
func (s *Store) DeleteAllItems(ctx context.Context) error {
	if _, err := s.execWithRetry(ctx, "DELETE FROM items"); err != nil {
		return fmt.Errorf("delete all items: %w", err)
	}
	return nil
}
