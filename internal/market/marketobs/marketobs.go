package marketobs

import (
	"context"
	"time"

	"stock-kite-desk/internal/interfaces"
	"stock-kite-desk/internal/logger"
	"stock-kite-desk/internal/trace"
	"stock-kite-desk/internal/types"
)

// observableMarketData wraps a MarketData with logging and tracing.
type observableMarketData struct {
	md interfaces.MarketData
}

var _ interfaces.MarketData = (*observableMarketData)(nil)

// Wrap wraps a market-data client with observability middleware.
func Wrap(md interfaces.MarketData) interfaces.MarketData {
	return &observableMarketData{md: md}
}

func (o *observableMarketData) DailyBar(ctx context.Context, ticker string, date time.Time) (types.Bar, bool, error) {
	ctx, span := trace.StartSpan(ctx, "market.DailyBar")
	defer span.End()

	logger.Debug(ctx, "Fetching daily bar", "ticker", ticker, "date", date.Format("2006-01-02"))

	bar, ok, err := o.md.DailyBar(ctx, ticker, date)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch daily bar", err, "ticker", ticker)
		return types.Bar{}, false, err
	}

	logger.Debug(ctx, "Daily bar fetched", "ticker", ticker, "found", ok)
	return bar, ok, nil
}

func (o *observableMarketData) AssetIndustry(ctx context.Context, ticker string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "market.AssetIndustry")
	defer span.End()

	industry, err := o.md.AssetIndustry(ctx, ticker)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch asset industry", err, "ticker", ticker)
		return "", err
	}

	logger.Debug(ctx, "Asset industry fetched", "ticker", ticker, "industry", industry)
	return industry, nil
}

func (o *observableMarketData) SpotQuote(ticker string) (float64, error) {
	price, err := o.md.SpotQuote(ticker)
	if err != nil {
		logger.ErrorWithErr(context.Background(), "Failed to fetch spot quote", err, "ticker", ticker)
		return 0, err
	}
	return price, nil
}
