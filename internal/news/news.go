// Package news retrieves recent Google News items for a set of stock
// names via a boolean search over the RSS endpoint.
package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"stock-kite-desk/internal/cache"
	"stock-kite-desk/internal/interfaces"
	"stock-kite-desk/internal/logger"
	"stock-kite-desk/internal/types"
)

const (
	defaultEndpoint = "https://news.google.com/rss/search"
	localeParams    = "hl=zh-TW&gl=TW&ceid=TW:zh-Hant"

	// unknownTime is the sentinel for items without a publish date.
	unknownTime = "未知時間"
)

// Config tunes the fetcher; zero values fall back to the defaults used
// by the original dashboard.
type Config struct {
	Endpoint     string
	Timeout      time.Duration
	UserAgent    string
	MaxKeywords  int
	MaxItems     int
	LookbackDays int
	Sources      []string
	CacheTTL     time.Duration
}

// Fetcher retrieves feed entries with a short-lived memo per
// (names, date) pair.
type Fetcher struct {
	cfg  Config
	memo *cache.TTLCache
}

// NewFetcher creates a news fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.MaxKeywords == 0 {
		cfg.MaxKeywords = 15
	}
	if cfg.MaxItems == 0 {
		cfg.MaxItems = 20
	}
	if cfg.LookbackDays == 0 {
		cfg.LookbackDays = 30
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{"鉅亨網", "cnyes"}
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &Fetcher{cfg: cfg, memo: cache.New(cfg.CacheTTL)}
}

var _ interfaces.NewsProvider = (*Fetcher)(nil)

// Fetch returns up to MaxItems feed entries matching the stock names
// within the lookback window ending the day after the target date. An
// empty name list returns immediately without any network call; any
// network or parse failure yields an empty list, indistinguishable from
// no matching news.
func (f *Fetcher) Fetch(ctx context.Context, names []string, dateStr string) []types.NewsItem {
	if len(names) == 0 {
		return []types.NewsItem{}
	}

	key := cache.Key(names, dateStr)
	if v, ok := f.memo.Get(key); ok {
		return v.([]types.NewsItem)
	}

	query, ok := f.BuildQuery(names, dateStr)
	if !ok {
		return []types.NewsItem{}
	}
	feedURL := fmt.Sprintf("%s?q=%s&%s", f.cfg.Endpoint, url.QueryEscape(query), localeParams)

	items := f.fetchFeed(ctx, feedURL)
	f.memo.Set(key, items)
	return items
}

// BuildQuery assembles the boolean search expression: up to MaxKeywords
// distinct names ORed together, ANDed with the source filter and a date
// window of [date-lookback, date+1d).
func (f *Fetcher) BuildQuery(names []string, dateStr string) (string, bool) {
	target, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return "", false
	}

	seen := make(map[string]struct{}, len(names))
	keywords := make([]string, 0, f.cfg.MaxKeywords)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		keywords = append(keywords, n)
		if len(keywords) == f.cfg.MaxKeywords {
			break
		}
	}
	if len(keywords) == 0 {
		return "", false
	}

	start := target.AddDate(0, 0, -f.cfg.LookbackDays)
	end := target.AddDate(0, 0, 1)

	query := fmt.Sprintf("(%s) AND (%s) after:%s before:%s",
		strings.Join(keywords, " OR "),
		strings.Join(f.cfg.Sources, " OR "),
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))
	return query, true
}

// fetchFeed retrieves and parses the RSS document. Failures are logged
// and surface as an empty slice.
func (f *Fetcher) fetchFeed(ctx context.Context, feedURL string) []types.NewsItem {
	items := []types.NewsItem{}

	c := colly.NewCollector()
	c.SetRequestTimeout(f.cfg.Timeout)

	c.OnRequest(func(r *colly.Request) {
		if f.cfg.UserAgent != "" {
			r.Headers.Set("User-Agent", f.cfg.UserAgent)
		}
	})

	c.OnXML("//item", func(e *colly.XMLElement) {
		if len(items) >= f.cfg.MaxItems {
			return
		}
		title := strings.TrimSpace(e.ChildText("title"))
		link := strings.TrimSpace(e.ChildText("link"))
		if title == "" || link == "" {
			return
		}
		published := strings.TrimSpace(e.ChildText("pubDate"))
		if published == "" {
			published = unknownTime
		}
		items = append(items, types.NewsItem{
			Title:     title,
			Link:      link,
			Published: published,
			Snippet:   htmlToText(e.ChildText("description")),
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Warn(ctx, "News feed retrieval failed", "url", feedURL, "error", err)
	})

	if err := c.Visit(feedURL); err != nil {
		logger.Warn(ctx, "News feed visit failed", "url", feedURL, "error", err)
		return []types.NewsItem{}
	}
	c.Wait()

	return items
}

// htmlToText strips the markup Google News embeds in item descriptions.
func htmlToText(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
