package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"shownotes/internal/logging"
	"shownotes/internal/scraper"
	"shownotes/internal/store"
)

type itemRequest struct {
	Section    string `json:"section"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url"`
}

type orderRequest struct {
	Section string  `json:"section"`
	Order   []int64 `json:"order"`
}

type nestRequest struct {
	TargetID int64 `json:"target_id"`
}

type talkingPointsRequest struct {
	TalkingPoints string `json:"talking_points"`
}

func itemID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) handleState(c echo.Context) error {
	ctx := c.Request().Context()

	episode, err := s.store.Episode(ctx)
	if err != nil {
		return s.storeError(c, err)
	}
	items, err := s.store.OrderedItems(ctx)
	if err != nil {
		return s.storeError(c, err)
	}
	return respond(c, map[string]any{"episode": episode, "items": items, "show": s.cfg.Show})
}

func (s *Server) handleAddItem(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	section := store.Section(req.Section)
	if !section.Valid() {
		return respondError(c, http.StatusBadRequest, `section must be "vulnerability" or "news"`)
	}
	if req.URL == "" {
		return respondError(c, http.StatusBadRequest, "url is required")
	}

	ctx := c.Request().Context()
	item, err := s.store.AddItem(ctx, section, req.URL, req.Title, req.AuthorName, req.AuthorURL)
	if err != nil {
		return s.storeError(c, err)
	}

	s.recordAuthor(c, req.URL, req.AuthorName, req.AuthorURL)

	return respond(c, map[string]any{"item": item})
}

func (s *Server) handleUpdateItem(c echo.Context) error {
	id, ok := itemID(c)
	if !ok {
		return respondError(c, http.StatusBadRequest, "id must be a positive integer")
	}
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	item, err := s.store.UpdateItem(ctx, id, req.URL, req.Title, req.AuthorName, req.AuthorURL)
	if err != nil {
		return s.storeError(c, err)
	}

	// The URL provides the domain context, so both must be present before
	// the author lands in the history.
	if req.URL != "" {
		s.recordAuthor(c, req.URL, req.AuthorName, req.AuthorURL)
	}

	return respond(c, map[string]any{"item": item})
}

// recordAuthor upserts the author into the history ledger. History is an
// assist, not part of the operation's contract, so failures are logged and
// swallowed.
func (s *Server) recordAuthor(c echo.Context, url, authorName, authorURL string) {
	if authorName == "" {
		return
	}
	domain := scraper.ExtractDomain(url)
	if domain == "" {
		return
	}
	if err := s.store.UpsertAuthor(c.Request().Context(), domain, authorName, authorURL); err != nil {
		s.logger.Warn("author history upsert failed",
			logging.String("domain", domain),
			logging.Error(err))
	}
}

func (s *Server) handleDeleteItem(c echo.Context) error {
	id, ok := itemID(c)
	if !ok {
		return respondError(c, http.StatusBadRequest, "id must be a positive integer")
	}
	if err := s.store.DeleteItem(c.Request().Context(), id); err != nil {
		return s.storeError(c, err)
	}
	return respond(c, map[string]any{"deleted_id": id})
}

func (s *Server) handleUpdateTalkingPoints(c echo.Context) error {
	id, ok := itemID(c)
	if !ok {
		return respondError(c, http.StatusBadRequest, "id must be a positive integer")
	}
	var req talkingPointsRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	item, err := s.store.UpdateTalkingPoints(c.Request().Context(), id, req.TalkingPoints)
	if err != nil {
		return s.storeError(c, err)
	}
	return respond(c, map[string]any{"item": item})
}

func (s *Server) handleReorderItems(c echo.Context) error {
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	section := store.Section(req.Section)
	if !section.Valid() {
		return respondError(c, http.StatusBadRequest, `section must be "vulnerability" or "news"`)
	}
	if len(req.Order) == 0 {
		return respondError(c, http.StatusBadRequest, "order must be a non-empty array of item ids")
	}

	if err := s.store.ReorderItems(c.Request().Context(), section, req.Order); err != nil {
		return s.storeError(c, err)
	}
	return respond(c, map[string]any{"section": section, "order": req.Order})
}

func (s *Server) handleReorderGroup(c echo.Context) error {
	id, ok := itemID(c)
	if !ok {
		return respondError(c, http.StatusBadRequest, "id must be a positive integer")
	}
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := s.store.ReorderGroupItems(c.Request().Context(), id, req.Order); err != nil {
		return s.storeError(c, err)
	}
	return respond(c, map[string]any{"primary_id": id, "order": req.Order})
}

func (s *Server) handleNestItem(c echo.Context) error {
	id, ok := itemID(c)
	if !ok {
		return respondError(c, http.StatusBadRequest, "id must be a positive integer")
	}
	var req nestRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.TargetID <= 0 {
		return respondError(c, http.StatusBadRequest, "target_id must be a positive integer")
	}
	group, err := s.store.NestItem(c.Request().Context(), id, req.TargetID)
	if err != nil {
		return s.storeError(c, err)
	}
	return respond(c, map[string]any{"group": group})
}

func (s *Server) handleExtractItem(c echo.Context) error {
	id, ok := itemID(c)
	if !ok {
		return respondError(c, http.StatusBadRequest, "id must be a positive integer")
	}
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	if err := s.store.ExtractItem(ctx, id, req.Order); err != nil {
		return s.storeError(c, err)
	}
	items, err := s.store.OrderedItems(ctx)
	if err != nil {
		return s.storeError(c, err)
	}
	return respond(c, map[string]any{"items": items})
}
