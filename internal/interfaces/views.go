package interfaces

import (
	"context"

	"stock-kite-desk/internal/types"
)

// QuoteFetcher returns one QuoteRecord per resolvable stock name for the
// target date. Best-effort: failures yield an empty map, never an error.
type QuoteFetcher interface {
	Fetch(ctx context.Context, names []string, dateStr string) map[string]types.QuoteRecord
}

// IndustryResolver maps stock names to fine-grained industry labels.
// Names that cannot be resolved are omitted.
type IndustryResolver interface {
	Classify(ctx context.Context, names []string) map[string]string
}

// NewsProvider returns recent feed entries matching the stock names.
// Best-effort: failures are indistinguishable from no matching news.
type NewsProvider interface {
	Fetch(ctx context.Context, names []string, dateStr string) []types.NewsItem
}
