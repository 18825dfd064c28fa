package market

import (
	"context"
	"strings"
	"time"

	"stock-kite-desk/internal/cache"
	"stock-kite-desk/internal/interfaces"
	"stock-kite-desk/internal/logger"
	"stock-kite-desk/internal/types"
)

// History resolves stock names to tickers and fetches the target day's
// close and volume for each. Results are memoized per (names, date).
type History struct {
	md   interfaces.MarketData
	dir  interfaces.Directory
	memo *cache.TTLCache
	now  func() time.Time
}

// NewHistory creates a historical quote fetcher with the given cache
// window.
func NewHistory(md interfaces.MarketData, dir interfaces.Directory, ttl time.Duration) *History {
	return &History{
		md:   md,
		dir:  dir,
		memo: cache.New(ttl),
		now:  time.Now,
	}
}

var _ interfaces.QuoteFetcher = (*History)(nil)

// Fetch returns one QuoteRecord per resolvable name for the target
// date. A transport failure on any ticker empties the whole result; a
// ticker with no usable record for that day is skipped individually.
func (h *History) Fetch(ctx context.Context, names []string, dateStr string) map[string]types.QuoteRecord {
	if len(names) == 0 {
		return map[string]types.QuoteRecord{}
	}

	key := cache.Key(names, dateStr)
	if v, ok := h.memo.Get(key); ok {
		return v.(map[string]types.QuoteRecord)
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		logger.Warn(ctx, "Unparsable target date", "date", dateStr)
		return map[string]types.QuoteRecord{}
	}

	tickerToName := make(map[string]string)
	var tickers []string
	for _, name := range names {
		clean := strings.TrimSpace(name)
		entry, ok := h.dir.Lookup(clean)
		if !ok {
			continue
		}
		if _, dup := tickerToName[entry.Ticker]; dup {
			continue
		}
		tickerToName[entry.Ticker] = clean
		tickers = append(tickers, entry.Ticker)
	}
	if len(tickers) == 0 {
		h.memo.Set(key, map[string]types.QuoteRecord{})
		return map[string]types.QuoteRecord{}
	}

	results := make(map[string]types.QuoteRecord, len(tickers))
	sameDay := dateStr == h.now().Format("2006-01-02")
	for _, ticker := range tickers {
		bar, ok, err := h.md.DailyBar(ctx, ticker, date)
		if err != nil {
			// No partial-batch recovery: one transport failure empties
			// the entire call.
			logger.ErrorWithErr(ctx, "Quote batch failed", err, "ticker", ticker, "date", dateStr)
			empty := map[string]types.QuoteRecord{}
			h.memo.Set(key, empty)
			return empty
		}
		name := tickerToName[ticker]
		entry, _ := h.dir.Lookup(name)

		if !ok {
			if !sameDay {
				continue
			}
			// Intraday: the chart window may still be empty, try the
			// spot quote (no volume yet).
			price, spotErr := h.md.SpotQuote(ticker)
			if spotErr != nil || price <= 0 {
				continue
			}
			results[name] = types.QuoteRecord{
				Code:     entry.Code,
				Industry: entry.Industry,
				Close:    price,
			}
			continue
		}

		if bar.Close <= 0 || bar.Volume <= 0 {
			continue
		}

		amount := bar.Close * float64(bar.Volume)
		results[name] = types.QuoteRecord{
			Code:      entry.Code,
			Industry:  entry.Industry,
			Close:     bar.Close,
			AmountStr: FormatAmount(amount),
			VolStr:    FormatVolume(float64(bar.Volume)),
		}
	}

	h.memo.Set(key, results)
	return results
}
