// Package report assembles the read-only views served to the UI layer:
// the per-day enriched ranking lists, the monthly strategy/industry
// breakdown and the numeric-trend selection.
package report

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"stock-kite-desk/internal/interfaces"
	"stock-kite-desk/internal/logger"
	"stock-kite-desk/internal/sheet"
	"stock-kite-desk/internal/types"
)

// sectionDef is one fixed ranking section of the daily view.
type sectionDef struct {
	Title    string
	Category string
	Sub      string
	TopN     int
	Tone     string
}

var sectionDefs = []sectionDef{
	{"🔥 強勢周 (前3名)", "上班族", "強勢周", 3, "#1565c0"},
	{"📈 周趨勢 (前3名)", "上班族", "周趨勢", 3, "#1565c0"},
	{"📉 周拉回 (前3名)", "老闆", "周拉回", 3, "#e65100"},
	{"💰 廉價收購 (前3名)", "老闆", "廉價收購", 3, "#e65100"},
	{"💵 成交金額 (前6名)", "TOP30", "成交金額", 6, "#2e7d32"},
}

// windTones maps wind-sentiment keywords to display colors.
var windTones = []struct {
	keyword string
	tone    string
}{
	{"強風", "#d32f2f"},
	{"亂流", "#f57c00"},
	{"無風", "#1976d2"},
}

// Desk builds views by combining the normalized table with the
// external enrichment services.
type Desk struct {
	dir        interfaces.Directory
	quotes     interfaces.QuoteFetcher
	classifier interfaces.IndustryResolver
	news       interfaces.NewsProvider
	targetKeys []string
}

// NewDesk wires a view builder. targetKeys select which ranked-column
// categories feed the enrichment calls.
func NewDesk(dir interfaces.Directory, quotes interfaces.QuoteFetcher, classifier interfaces.IndustryResolver, news interfaces.NewsProvider, targetKeys []string) *Desk {
	if len(targetKeys) == 0 {
		targetKeys = []string{"上班族", "老闆", "TOP30"}
	}
	return &Desk{
		dir:        dir,
		quotes:     quotes,
		classifier: classifier,
		news:       news,
		targetKeys: targetKeys,
	}
}

// Directory exposes the desk's name lookup for callers composing the
// monthly view.
func (d *Desk) Directory() interfaces.Directory {
	return d.dir
}

// Daily builds the enriched per-day view. External calls run in turn
// and degrade independently; the outcome field separates "no news
// exists" from "nothing could be fetched at all".
func (d *Desk) Daily(ctx context.Context, t *types.Table, dateStr string) types.DailyView {
	view := types.DailyView{Date: dateStr, Outcome: types.OutcomeNoData}

	row, ok := t.Row(dateStr)
	if !ok {
		return view
	}

	names := d.targetStocks(t, row)

	var quotes map[string]types.QuoteRecord
	var fine map[string]string
	var items []types.NewsItem
	if len(names) > 0 {
		logger.Info(ctx, "Enriching daily view", "date", dateStr, "stocks", len(names))
		quotes = d.quotes.Fetch(ctx, names, dateStr)
		fine = d.classifier.Classify(ctx, names)
		items = d.news.Fetch(ctx, names, dateStr)
	}

	view.Outcome = types.OutcomeOK
	if len(items) == 0 {
		view.Outcome = types.OutcomeNoNews
		if len(quotes) == 0 && len(names) > 0 {
			view.Outcome = types.OutcomeOffline
		}
	}

	view.Wind, view.WindTone = windOf(row)
	view.News = items
	if view.News == nil {
		view.News = []types.NewsItem{}
	}

	for _, def := range sectionDefs {
		view.Sections = append(view.Sections, d.buildSection(t, row, def, quotes, fine))
	}
	return view
}

// targetStocks collects the distinct names filling the ranked slots of
// the configured categories, preserving first-seen order.
func (d *Desk) targetStocks(t *types.Table, row *types.DailyRecord) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, col := range t.RankedColumns() {
		if !containsAny(col, d.targetKeys) {
			continue
		}
		name := strings.TrimSpace(row.Cells[col])
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func (d *Desk) buildSection(t *types.Table, row *types.DailyRecord, def sectionDef, quotes map[string]types.QuoteRecord, fine map[string]string) types.Section {
	section := types.Section{Title: def.Title, Tone: def.Tone}

	cols := rankedColumnsFor(t, def.Category, def.Sub)
	if len(cols) > def.TopN {
		cols = cols[:def.TopN]
	}
	for _, col := range cols {
		name := strings.TrimSpace(row.Cells[col])
		if name == "" {
			continue
		}
		stock := types.RankedStock{Rank: rankOf(col), Name: name}
		if q, ok := quotes[name]; ok {
			quote := q
			if label, ok := fine[name]; ok {
				quote.Industry = label
			}
			stock.Quote = &quote
			stock.Industry = quote.Industry
		} else if label, ok := fine[name]; ok {
			stock.Industry = label
		}
		section.Stocks = append(section.Stocks, stock)
	}
	return section
}

// rankedColumnsFor returns the TOP columns matching a category and
// sub-category, ordered by rank.
func rankedColumnsFor(t *types.Table, category, sub string) []string {
	var cols []string
	for _, c := range t.RankedColumns() {
		if strings.Contains(c, category) && strings.Contains(c, sub) {
			cols = append(cols, c)
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		return rankOf(cols[i]) < rankOf(cols[j])
	})
	return cols
}

func rankOf(col string) int {
	idx := strings.LastIndex(col, "TOP")
	if idx == -1 {
		return 0
	}
	n, _ := strconv.Atoi(col[idx+len("TOP"):])
	return n
}

func windOf(row *types.DailyRecord) (string, string) {
	wind := strings.TrimSpace(row.Cells[sheet.WindColumn])
	if wind == "" {
		return "", ""
	}
	for _, wt := range windTones {
		if strings.Contains(wind, wt.keyword) {
			return wind, wt.tone
		}
	}
	return wind, "gray"
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
