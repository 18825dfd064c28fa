package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestBuildQuery(t *testing.T) {
	f := NewFetcher(Config{})

	query, ok := f.BuildQuery([]string{"台積電", "鴻海", "台積電"}, "2024-03-15")
	if !ok {
		t.Fatal("expected query to build")
	}

	if !strings.Contains(query, "台積電 OR 鴻海") {
		t.Errorf("expected deduplicated OR keywords, got %q", query)
	}
	if !strings.Contains(query, "(鉅亨網 OR cnyes)") {
		t.Errorf("expected source filter, got %q", query)
	}
	if !strings.Contains(query, "after:2024-02-14") || !strings.Contains(query, "before:2024-03-16") {
		t.Errorf("expected 30-day window ending the day after target, got %q", query)
	}
}

func TestBuildQueryCapsKeywords(t *testing.T) {
	f := NewFetcher(Config{})

	names := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		names = append(names, fmt.Sprintf("股票%d", i))
	}
	query, ok := f.BuildQuery(names, "2024-03-15")
	if !ok {
		t.Fatal("expected query to build")
	}
	if got := strings.Count(query, " OR ") - 1; got != 14 {
		t.Errorf("expected 15 keywords (14 ORs), got %d extra ORs in %q", got, query)
	}
}

func TestBuildQueryBadDate(t *testing.T) {
	f := NewFetcher(Config{})
	if _, ok := f.BuildQuery([]string{"台積電"}, "not-a-date"); ok {
		t.Error("expected unparsable date to fail query building")
	}
}

func TestFetchEmptyNamesNoNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	f := NewFetcher(Config{Endpoint: srv.URL})
	got := f.Fetch(context.Background(), nil, "2024-03-15")

	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	if hits.Load() != 0 {
		t.Error("expected no network call for empty name list")
	}
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<item><title>台積電法說會亮眼</title><link>https://example.com/a</link><pubDate>Fri, 15 Mar 2024 08:00:00 GMT</pubDate><description>&lt;a href="https://example.com/a"&gt;台積電法說會亮眼&lt;/a&gt;</description></item>
<item><title>鴻海擴產</title><link>https://example.com/b</link></item>
<item><title></title><link>https://example.com/c</link></item>
</channel></rss>`

func TestFetchParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, sampleFeed)
	}))
	defer srv.Close()

	f := NewFetcher(Config{Endpoint: srv.URL})
	got := f.Fetch(context.Background(), []string{"台積電"}, "2024-03-15")

	if len(got) != 2 {
		t.Fatalf("expected 2 items (titleless one dropped), got %d", len(got))
	}
	if got[0].Title != "台積電法說會亮眼" {
		t.Errorf("unexpected title: %q", got[0].Title)
	}
	if got[0].Snippet != "台積電法說會亮眼" {
		t.Errorf("expected description markup stripped, got %q", got[0].Snippet)
	}
	if got[1].Published != unknownTime {
		t.Errorf("expected unknown-time sentinel, got %q", got[1].Published)
	}
}

func TestFetchNetworkFailureYieldsEmpty(t *testing.T) {
	f := NewFetcher(Config{Endpoint: "http://127.0.0.1:1"})

	got := f.Fetch(context.Background(), []string{"台積電"}, "2024-03-15")
	if len(got) != 0 {
		t.Errorf("expected empty result on network failure, got %v", got)
	}
}

func TestFetchCapsItems(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel>`)
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "<item><title>新聞%d</title><link>https://example.com/%d</link></item>", i, i)
	}
	b.WriteString("</channel></rss>")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, b.String())
	}))
	defer srv.Close()

	f := NewFetcher(Config{Endpoint: srv.URL})
	got := f.Fetch(context.Background(), []string{"台積電"}, "2024-03-15")
	if len(got) != 20 {
		t.Errorf("expected 20-item cap, got %d", len(got))
	}
}

func TestFetchMemoizes(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, sampleFeed)
	}))
	defer srv.Close()

	f := NewFetcher(Config{Endpoint: srv.URL})
	f.Fetch(context.Background(), []string{"台積電"}, "2024-03-15")
	f.Fetch(context.Background(), []string{"台積電"}, "2024-03-15")
	if hits.Load() != 1 {
		t.Errorf("expected cached second fetch, got %d requests", hits.Load())
	}
}
