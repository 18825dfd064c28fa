package interfaces

import (
	"context"
	"time"

	"stock-kite-desk/internal/types"
)

// MarketData is the external market-data service boundary.
type MarketData interface {
	// DailyBar fetches the single trading bar inside [date, date+1d).
	// ok is false when the ticker or that day's record is absent; err is
	// reserved for transport-level failure.
	DailyBar(ctx context.Context, ticker string, date time.Time) (bar types.Bar, ok bool, err error)
	// AssetIndustry fetches the raw (English) industry label of a ticker.
	AssetIndustry(ctx context.Context, ticker string) (string, error)
	// SpotQuote fetches the current regular-market price.
	SpotQuote(ticker string) (float64, error)
}
