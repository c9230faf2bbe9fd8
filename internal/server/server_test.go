package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shownotes/internal/scraper"
	"shownotes/internal/server"
	"shownotes/internal/store"
	"shownotes/internal/testsupport"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T) (*server.Server, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	sc := scraper.New(cfg.Scraper, nil)
	return server.New(cfg, st, sc, nil), st
}

func doRequest(t *testing.T, srv *server.Server, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echoHeaderContentType, "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

const echoHeaderContentType = "Content-Type"

func TestStateReturnsEpisodeAndItems(t *testing.T) {
	srv, st := newTestServer(t)
	testsupport.AddItem(t, st, store.SectionNews, "https://n", "N")

	rec, env := doRequest(t, srv, http.MethodGet, "/api/state", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status %d, envelope %+v", rec.Code, env)
	}

	var data struct {
		Episode store.Episode      `json:"episode"`
		Items   store.OrderedItems `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Episode.WeekNumber == 0 {
		t.Fatal("episode not seeded")
	}
	if len(data.Items.News) != 1 {
		t.Fatalf("expected 1 news item, got %+v", data.Items)
	}
}

func TestAddItemValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"bad section", map[string]any{"section": "editorial", "url": "https://x"}},
		{"missing url", map[string]any{"section": "news"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doRequest(t, srv, http.MethodPost, "/api/items", tc.body)
			if rec.Code != http.StatusBadRequest || env.Success {
				t.Fatalf("status %d, envelope %+v", rec.Code, env)
			}
		})
	}
}

func TestAddItemRecordsAuthorHistory(t *testing.T) {
	srv, _ := newTestServer(t)

	_, env := doRequest(t, srv, http.MethodPost, "/api/items", map[string]any{
		"section":     "news",
		"url":         "https://www.example.com/post",
		"title":       "T",
		"author_name": "Ada",
		"author_url":  "https://ada.example",
	})
	if !env.Success {
		t.Fatalf("add failed: %+v", env)
	}

	_, env = doRequest(t, srv, http.MethodGet, "/api/authors/suggestions?domain=example.com", nil)
	if !env.Success {
		t.Fatalf("suggestions failed: %+v", env)
	}
	var sugg store.Suggestions
	if err := json.Unmarshal(env.Data, &sugg); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(sugg.DomainAuthors) != 1 || sugg.DomainAuthors[0].AuthorName != "Ada" {
		t.Fatalf("author not recorded: %+v", sugg)
	}
}

func TestUpdateMissingItemIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := doRequest(t, srv, http.MethodPut, "/api/items/9999", map[string]any{"url": "https://x"})
	if rec.Code != http.StatusNotFound || env.Success {
		t.Fatalf("status %d, envelope %+v", rec.Code, env)
	}
}

func TestNestAndGroupReorderOverHTTP(t *testing.T) {
	srv, st := newTestServer(t)

	primary := testsupport.AddItem(t, st, store.SectionNews, "https://p", "P")
	s1 := testsupport.AddItem(t, st, store.SectionNews, "https://s1", "S1")
	s2 := testsupport.AddItem(t, st, store.SectionNews, "https://s2", "S2")

	for _, id := range []int64{s1.ID, s2.ID} {
		rec, env := doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/items/%d/nest", id),
			map[string]any{"target_id": primary.ID})
		if rec.Code != http.StatusOK || !env.Success {
			t.Fatalf("nest %d: status %d, envelope %+v", id, rec.Code, env)
		}
	}

	rec, env := doRequest(t, srv, http.MethodPut, fmt.Sprintf("/api/groups/%d/reorder", primary.ID),
		map[string]any{"order": []int64{s2.ID, s1.ID}})
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("group reorder: status %d, envelope %+v", rec.Code, env)
	}

	// Self-nesting is a structural violation, not a missing resource.
	rec, env = doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/items/%d/nest", primary.ID),
		map[string]any{"target_id": primary.ID})
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("self nest: status %d, envelope %+v", rec.Code, env)
	}
}

func TestReorderItemsRouteNotShadowedByItemID(t *testing.T) {
	srv, st := newTestServer(t)
	a := testsupport.AddItem(t, st, store.SectionNews, "https://a", "A")
	b := testsupport.AddItem(t, st, store.SectionNews, "https://b", "B")

	rec, env := doRequest(t, srv, http.MethodPut, "/api/items/reorder",
		map[string]any{"section": "news", "order": []int64{b.ID, a.ID}})
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status %d, envelope %+v", rec.Code, env)
	}
}

func TestUpdateEpisodeValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"week too low", map[string]any{"week_number": 0, "year": 2026}},
		{"week too high", map[string]any{"week_number": 54, "year": 2026}},
		{"year too low", map[string]any{"week_number": 1, "year": 2019}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doRequest(t, srv, http.MethodPut, "/api/episode", tc.body)
			if rec.Code != http.StatusBadRequest || env.Success {
				t.Fatalf("status %d, envelope %+v", rec.Code, env)
			}
		})
	}

	rec, env := doRequest(t, srv, http.MethodPut, "/api/episode",
		map[string]any{"week_number": 12, "year": 2026, "youtube_url": "https://youtube.com/watch?v=abc"})
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status %d, envelope %+v", rec.Code, env)
	}
}

func TestResetEpisodeReturnsFreshState(t *testing.T) {
	srv, st := newTestServer(t)
	testsupport.AddItem(t, st, store.SectionNews, "https://n", "N")

	rec, env := doRequest(t, srv, http.MethodPost, "/api/episode/reset", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status %d, envelope %+v", rec.Code, env)
	}

	var data struct {
		Items store.OrderedItems `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Items.News) != 0 {
		t.Fatalf("items survived reset: %+v", data.Items)
	}
}

func TestMarkdownEndpointIncludesWarnings(t *testing.T) {
	srv, st := newTestServer(t)
	testsupport.AddItem(t, st, store.SectionNews, "https://n", "Story")

	rec, env := doRequest(t, srv, http.MethodGet, "/api/markdown", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status %d, envelope %+v", rec.Code, env)
	}

	var data struct {
		Markdown string   `json:"markdown"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !strings.Contains(data.Markdown, "### News") {
		t.Fatalf("markdown missing section heading:\n%s", data.Markdown)
	}
	// Seeded episode has no YouTube URL yet.
	if len(data.Warnings) == 0 {
		t.Fatal("expected warnings for missing YouTube URL")
	}
}

func TestScrapeRequiresURL(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := doRequest(t, srv, http.MethodPost, "/api/scrape", map[string]any{})
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("status %d, envelope %+v", rec.Code, env)
	}
}

func TestScrapeRejectsPrivateTargets(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := doRequest(t, srv, http.MethodPost, "/api/scrape",
		map[string]any{"url": "http://127.0.0.1/admin"})
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("status %d, envelope %+v", rec.Code, env)
	}
	if env.Error == "" {
		t.Fatal("expected a validation message")
	}
}
