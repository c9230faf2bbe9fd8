// Package scraper fetches article URLs and extracts metadata for item
// prefilling. Extraction is best-effort: fields that cannot be determined
// come back empty, and failures are reported through the result rather
// than an error so callers can always prefill what was found.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shownotes/internal/config"
	"shownotes/internal/logging"
)

// maxBodyBytes caps how much of a page is read for metadata extraction.
const maxBodyBytes = 5 << 20

// Result carries the metadata extracted from a scraped page. Error holds a
// human-readable message when scraping was incomplete; FetchFailed
// distinguishes a page that could not be fetched at all from one that was
// fetched but lacked author metadata.
type Result struct {
	Title       string `json:"title"`
	AuthorName  string `json:"author_name"`
	AuthorURL   string `json:"author_url"`
	Domain      string `json:"domain"`
	Error       string `json:"error,omitempty"`
	FetchFailed bool   `json:"-"`
}

// Scraper fetches pages within configured limits and extracts metadata.
type Scraper struct {
	client *http.Client
	cfg    config.Scraper
	logger *slog.Logger

	// Set by tests so fixture servers on loopback addresses pass validation.
	allowPrivateHosts bool
}

func New(cfg config.Scraper, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = logging.NewNop()
	}
	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &Scraper{client: client, cfg: cfg, logger: logger}
}

// Scrape validates the URL, fetches the page, and extracts metadata. It
// never returns an error; problems are surfaced via Result.Error.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) *Result {
	result := &Result{}

	if err := s.validateURL(ctx, rawURL); err != nil {
		result.Error = err.Error()
		result.FetchFailed = true
		return result
	}

	result.Domain = ExtractDomain(rawURL)

	html, err := s.fetch(ctx, rawURL)
	if err != nil {
		s.logger.Warn("scrape fetch failed",
			logging.String("url", rawURL),
			logging.Error(err))
		result.Error = fmt.Sprintf("Could not fetch URL: %v", err)
		result.FetchFailed = true
		return result
	}

	extractMetadata(html, result)

	if result.AuthorName == "" {
		result.Error = "Author metadata not found — please enter manually"
	}

	s.logger.Info("scraped page",
		logging.String("url", rawURL),
		logging.String("domain", result.Domain),
		logging.Bool("author_found", result.AuthorName != ""))
	return result
}

func (s *Scraper) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ExtractDomain returns the URL's host with any www. prefix removed. Domains
// key the author history, so the prefix is stripped for cleaner lookups.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := parsed.Hostname()
	if len(host) >= 4 && strings.EqualFold(host[:4], "www.") {
		host = host[4:]
	}
	return host
}
