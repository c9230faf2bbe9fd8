package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shownotes/internal/config"
)

func testScraper() *Scraper {
	cfg := config.Default().Scraper
	s := New(cfg, nil)
	s.allowPrivateHosts = true
	return s
}

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestScrapeExtractsOpenGraphMetadata(t *testing.T) {
	server := serveHTML(t, `<!DOCTYPE html><html><head>
		<meta property="og:title" content="Kernel Patch Lands">
		<meta name="author" content="Ada Lovelace">
		<link rel="author" href="https://ada.example/about">
		<title>fallback title</title>
	</head><body></body></html>`)

	result := testScraper().Scrape(context.Background(), server.URL+"/post")
	if result.Error != "" {
		t.Fatalf("unexpected error: %q", result.Error)
	}
	if result.Title != "Kernel Patch Lands" {
		t.Fatalf("title = %q", result.Title)
	}
	if result.AuthorName != "Ada Lovelace" {
		t.Fatalf("author name = %q", result.AuthorName)
	}
	if result.AuthorURL != "https://ada.example/about" {
		t.Fatalf("author url = %q", result.AuthorURL)
	}
}

func TestScrapeTitleFallbackChain(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{
			"twitter card beats title element",
			`<head><meta name="twitter:title" content="From Twitter"><title>From Title</title></head>`,
			"From Twitter",
		},
		{
			"title element last",
			`<head><title>  Plain Title  </title></head>`,
			"Plain Title",
		},
		{
			"og:title wins",
			`<head><meta property="og:title" content="From OG"><meta name="twitter:title" content="From Twitter"></head>`,
			"From OG",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := serveHTML(t, tc.html)
			result := testScraper().Scrape(context.Background(), server.URL)
			if result.Title != tc.want {
				t.Fatalf("title = %q, want %q", result.Title, tc.want)
			}
		})
	}
}

func TestScrapeJSONLDAuthor(t *testing.T) {
	server := serveHTML(t, `<head><script type="application/ld+json">
	{"@context":"https://schema.org","@graph":[
		{"@type":"WebSite","name":"ignored"},
		{"@type":"NewsArticle","headline":"h","author":{"@type":"Person","name":"Grace Hopper","url":"https://grace.example"}}
	]}
	</script></head>`)

	result := testScraper().Scrape(context.Background(), server.URL)
	if result.AuthorName != "Grace Hopper" {
		t.Fatalf("author name = %q", result.AuthorName)
	}
	if result.AuthorURL != "https://grace.example" {
		t.Fatalf("author url = %q", result.AuthorURL)
	}
}

func TestScrapeBylineFallback(t *testing.T) {
	server := serveHTML(t, `<body>
		<div class="entry-author">By <a href="/people/linus">Linus</a></div>
	</body>`)

	result := testScraper().Scrape(context.Background(), server.URL)
	if !strings.Contains(result.AuthorName, "Linus") {
		t.Fatalf("author name = %q", result.AuthorName)
	}
	if result.AuthorURL != "/people/linus" {
		t.Fatalf("author url = %q", result.AuthorURL)
	}
}

func TestScrapeMissingAuthorIsSoftError(t *testing.T) {
	server := serveHTML(t, `<head><title>No Author Here</title></head>`)

	result := testScraper().Scrape(context.Background(), server.URL)
	if result.FetchFailed {
		t.Fatal("missing author must not be a fetch failure")
	}
	if result.Error == "" {
		t.Fatal("expected a soft error message")
	}
	if result.Title != "No Author Here" {
		t.Fatalf("partial result lost the title: %q", result.Title)
	}
}

func TestScrapeHTTPErrorIsFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	result := testScraper().Scrape(context.Background(), server.URL)
	if !result.FetchFailed {
		t.Fatal("HTTP 404 should be a fetch failure")
	}
	if !strings.Contains(result.Error, "404") {
		t.Fatalf("error should carry the status: %q", result.Error)
	}
}

func TestValidateURLRejections(t *testing.T) {
	s := New(config.Default().Scraper, nil)
	cases := []struct {
		name string
		url  string
	}{
		{"ftp scheme", "ftp://example.com/file"},
		{"missing host", "https:///path"},
		{"ipv4 literal", "http://192.168.1.1/admin"},
		{"ipv6 literal", "http://[::1]/admin"},
		{"unparseable", "http://%zz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := s.Scrape(context.Background(), tc.url)
			if !result.FetchFailed || result.Error == "" {
				t.Fatalf("expected validation failure, got %+v", result)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/post/1", "example.com"},
		{"https://blog.example.org/x", "blog.example.org"},
		{"http://WWW.Example.com", "Example.com"},
		{"not a url at all ://", ""},
	}
	for _, tc := range cases {
		if got := ExtractDomain(tc.url); got != tc.want {
			t.Fatalf("ExtractDomain(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
