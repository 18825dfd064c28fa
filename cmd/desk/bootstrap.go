package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stock-kite-desk/internal/directory"
	"stock-kite-desk/internal/industry"
	"stock-kite-desk/internal/logger"
	"stock-kite-desk/internal/market"
	"stock-kite-desk/internal/market/marketobs"
	"stock-kite-desk/internal/news"
	"stock-kite-desk/internal/report"
	"stock-kite-desk/internal/store"
	"stock-kite-desk/internal/types"
)

// buildDesk wires the directory, market-data client and news fetcher
// into a view builder. The classifier is returned separately for the
// monthly view's fine-grained industry map.
func buildDesk(ctx context.Context, cfg *store.Config) (*report.Desk, *industry.Classifier) {
	dir, err := directory.Load(cfg.DirectoryCSV)
	if err != nil {
		logger.ErrorWithErr(ctx, "Reference dataset load failed", err, "path", cfg.DirectoryCSV)
		fmt.Fprintln(os.Stderr, "no data available")
		os.Exit(1)
	}
	logger.Info(ctx, "Stock directory built", "entries", dir.Len())

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	md := marketobs.Wrap(market.NewClient(
		market.WithTimeout(timeout),
		market.WithUserAgent(cfg.HTTP.UserAgent),
	))

	quotes := market.NewHistory(md, dir, time.Duration(cfg.Cache.QuoteMinutes)*time.Minute)
	classifier := industry.NewClassifier(md, dir, time.Duration(cfg.Cache.IndustryHours)*time.Hour)
	newsFetcher := news.NewFetcher(news.Config{
		Timeout:      timeout,
		UserAgent:    cfg.HTTP.UserAgent,
		MaxKeywords:  cfg.News.MaxKeywords,
		MaxItems:     cfg.News.MaxItems,
		LookbackDays: cfg.News.LookbackDays,
		Sources:      cfg.News.Sources,
		CacheTTL:     time.Duration(cfg.Cache.NewsMinutes) * time.Minute,
	})

	return report.NewDesk(dir, quotes, classifier, newsFetcher, cfg.TargetKeys), classifier
}

// dailyStockNames collects the distinct stock names shown in a daily
// view, the same set the monthly breakdown refines industries for.
func dailyStockNames(view types.DailyView) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, section := range view.Sections {
		for _, stock := range section.Stocks {
			if _, dup := seen[stock.Name]; dup {
				continue
			}
			seen[stock.Name] = struct{}{}
			names = append(names, stock.Name)
		}
	}
	return names
}
