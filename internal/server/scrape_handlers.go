package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type scrapeRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleScrape(c echo.Context) error {
	var req scrapeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.URL == "" {
		return respondError(c, http.StatusBadRequest, "url is required")
	}

	ctx := c.Request().Context()
	result := s.scraper.Scrape(ctx, req.URL)

	// A hard failure (rejected URL, timeout, HTTP error) surfaces as an
	// error response. A page that was fetched but lacked author metadata
	// is a success with scrape_error set so the client can prefill the
	// rest and prompt for the author.
	if result.FetchFailed {
		return respondError(c, http.StatusBadRequest, result.Error)
	}

	// When the page names an author without linking one, fall back to the
	// most-used URL previously saved for that author on this domain.
	if result.AuthorName != "" && result.AuthorURL == "" {
		if url, err := s.store.BestAuthorURL(ctx, result.Domain, result.AuthorName); err == nil {
			result.AuthorURL = url
		}
	}

	return respond(c, map[string]any{
		"title":        result.Title,
		"author_name":  result.AuthorName,
		"author_url":   result.AuthorURL,
		"domain":       result.Domain,
		"scrape_error": result.Error,
	})
}

func (s *Server) handleAuthorSuggestions(c echo.Context) error {
	domain := c.QueryParam("domain")
	query := c.QueryParam("query")

	suggestions, err := s.store.AuthorSuggestions(c.Request().Context(), domain, query)
	if err != nil {
		return s.storeError(c, err)
	}
	return respond(c, suggestions)
}
