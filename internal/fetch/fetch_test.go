package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeBrowser struct {
	html    string
	err     error
	called  bool
	lastURL string
}

func (f *fakeBrowser) Fetch(ctx context.Context, pageURL string) (string, error) {
	f.called = true
	f.lastURL = pageURL
	return f.html, f.err
}

func TestFetcher_DirectSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("Expected User-Agent 'test-agent', got %q", got)
		}
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	browser := &fakeBrowser{}
	f := New(5*time.Second, "test-agent", browser)

	html, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.Contains(html, "ok") {
		t.Error("Expected fetched HTML to contain body content")
	}
	if browser.called {
		t.Error("Browser fallback should not run when the direct fetch succeeds")
	}
}

func TestFetcher_FallsBackToBrowser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	browser := &fakeBrowser{html: "<html><body>rendered</body></html>"}
	f := New(5*time.Second, "test-agent", browser)

	html, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if html != browser.html {
		t.Error("Expected the browser-rendered HTML to be returned")
	}
	if !browser.called {
		t.Error("Browser fallback should run when the direct fetch is blocked")
	}
	if browser.lastURL != server.URL {
		t.Errorf("Expected browser to fetch %s, got %s", server.URL, browser.lastURL)
	}
}

func TestFetcher_BothPathsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	browser := &fakeBrowser{err: errors.New("browser crashed")}
	f := New(5*time.Second, "", browser)

	_, err := f.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error when both fetch paths fail")
	}
	if !strings.Contains(err.Error(), "both methods") {
		t.Errorf("Expected combined failure error, got: %v", err)
	}
}

func TestFetcher_NoBrowserConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := New(5*time.Second, "", nil)
	_, err := f.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error when direct fetch fails and no browser is configured")
	}
}
