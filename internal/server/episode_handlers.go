package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shownotes/internal/markdown"
)

type episodeRequest struct {
	WeekNumber int    `json:"week_number"`
	Year       int    `json:"year"`
	YouTubeURL string `json:"youtube_url"`
}

func (s *Server) handleUpdateEpisode(c echo.Context) error {
	var req episodeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.WeekNumber < 1 || req.WeekNumber > 53 {
		return respondError(c, http.StatusBadRequest, "week_number must be an integer between 1 and 53")
	}
	if req.Year < 2020 {
		return respondError(c, http.StatusBadRequest, "year must be an integer >= 2020")
	}

	episode, err := s.store.UpdateEpisode(c.Request().Context(), req.WeekNumber, req.Year, req.YouTubeURL)
	if err != nil {
		return s.storeError(c, err)
	}
	return respond(c, map[string]any{"episode": episode})
}

func (s *Server) handleResetEpisode(c echo.Context) error {
	ctx := c.Request().Context()

	episode, err := s.store.ResetEpisode(ctx)
	if err != nil {
		return s.storeError(c, err)
	}
	items, err := s.store.OrderedItems(ctx)
	if err != nil {
		return s.storeError(c, err)
	}
	return respond(c, map[string]any{"episode": episode, "items": items})
}

func (s *Server) handleMarkdown(c echo.Context) error {
	ctx := c.Request().Context()

	episode, err := s.store.Episode(ctx)
	if err != nil {
		return s.storeError(c, err)
	}
	items, err := s.store.OrderedItems(ctx)
	if err != nil {
		return s.storeError(c, err)
	}

	data := map[string]any{"markdown": markdown.Render(s.cfg.Show, episode, items)}
	if warnings := markdown.Warnings(episode, items); len(warnings) > 0 {
		data["warnings"] = warnings
	}
	return respond(c, data)
}
