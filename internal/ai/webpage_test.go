package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFetchReadableTextStripsChrome(t *testing.T) {
	page := `<html><head>
		<title>Best Pancakes</title>
		<script>trackVisitor();</script>
		<style>body { color: red; }</style>
	</head><body>
		<nav><a href="/">Home</a><a href="/recipes">Recipes</a></nav>
		<header>SuperRecipes.com</header>
		<h1>Best Pancakes</h1>
		<p>Whisk flour, milk, and eggs.</p>
		<ul><li>2 cups flour</li><li>1 cup milk</li></ul>
		<footer>Copyright SuperRecipes</footer>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	text, err := FetchReadableText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchReadableText: %v", err)
	}

	for _, want := range []string{"Best Pancakes", "Whisk flour", "2 cups flour"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in extracted text", want)
		}
	}
	for _, banned := range []string{"trackVisitor", "color: red", "Copyright SuperRecipes", "SuperRecipes.com"} {
		if strings.Contains(text, banned) {
			t.Errorf("extracted text should not contain %q", banned)
		}
	}
}

func TestFetchReadableTextTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>")
		for range 5000 {
			fmt.Fprint(w, "filler words repeated endlessly ")
		}
		fmt.Fprint(w, "</p></body></html>")
	}))
	defer srv.Close()

	text, err := FetchReadableText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchReadableText: %v", err)
	}
	if len(text) > maxReadableBytes {
		t.Errorf("got %d bytes, want at most %d", len(text), maxReadableBytes)
	}
}

func TestFetchReadableTextTruncatesOnRuneBoundary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>")
		// Multi-byte runes make every byte offset a potential mid-rune cut.
		for range 4000 {
			fmt.Fprint(w, "crème brûlée à la café ")
		}
		fmt.Fprint(w, "</p></body></html>")
	}))
	defer srv.Close()

	text, err := FetchReadableText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchReadableText: %v", err)
	}
	if len(text) > maxReadableBytes {
		t.Errorf("got %d bytes, want at most %d", len(text), maxReadableBytes)
	}
	if !utf8.ValidString(text) {
		t.Error("truncated text is not valid UTF-8")
	}
}

func TestFetchReadableTextErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := FetchReadableText(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestFetchReadableTextEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><script>only();</script></body></html>")
	}))
	defer srv.Close()

	if _, err := FetchReadableText(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for page with no readable text")
	}
}
