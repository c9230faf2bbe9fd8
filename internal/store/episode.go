package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// seedEpisode inserts the singleton episode row on first open, keyed to the
// current ISO week. A no-op when the row already exists.
func (s *Store) seedEpisode(ctx context.Context) error {
	week, year := currentWeek()
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO episodes (id, week_number, year, youtube_url) VALUES (1, ?, ?, '')",
		week, year,
	); err != nil {
		return fmt.Errorf("seed episode: %w", err)
	}
	return nil
}

// Episode returns the single episode record.
func (s *Store) Episode(ctx context.Context) (*Episode, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT week_number, year, youtube_url FROM episodes WHERE id = 1")

	var episode Episode
	if err := row.Scan(&episode.WeekNumber, &episode.Year, &episode.YouTubeURL); err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return &episode, nil
}

// UpdateEpisode replaces the episode fields in place.
func (s *Store) UpdateEpisode(ctx context.Context, week, year int, youtubeURL string) (*Episode, error) {
	if _, err := s.execWithRetry(ctx,
		"UPDATE episodes SET week_number = ?, year = ?, youtube_url = ? WHERE id = 1",
		week, year, youtubeURL,
	); err != nil {
		return nil, fmt.Errorf("update episode: %w", err)
	}
	return s.Episode(ctx)
}

// ResetEpisode deletes every item and reinitializes the episode to the current
// calendar week with an empty youtube URL, in one transaction. The author
// history survives.
func (s *Store) ResetEpisode(ctx context.Context) (*Episode, error) {
	week, year := currentWeek()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE episodes SET week_number = ?, year = ?, youtube_url = '' WHERE id = 1",
			week, year,
		); err != nil {
			return fmt.Errorf("reset episode: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Episode(ctx)
}

func currentWeek() (week, year int) {
	isoYear, isoWeek := time.Now().ISOWeek()
	return isoWeek, isoYear
}
