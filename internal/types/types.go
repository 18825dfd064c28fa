package types

import (
	"strings"
	"time"
)

// DailyRecord is one spreadsheet row keyed by flattened column name.
type DailyRecord struct {
	Date  time.Time
	Cells map[string]string
}

// Table is the normalized ranking spreadsheet: flattened unique column
// names plus date-sorted rows.
type Table struct {
	Columns []string
	Rows    []DailyRecord
}

// Row returns the record for a YYYY-MM-DD date string.
func (t *Table) Row(dateStr string) (*DailyRecord, bool) {
	for i := range t.Rows {
		if t.Rows[i].Date.Format("2006-01-02") == dateStr {
			return &t.Rows[i], true
		}
	}
	return nil, false
}

// Dates lists all row dates in ascending order.
func (t *Table) Dates() []string {
	out := make([]string, 0, len(t.Rows))
	for i := range t.Rows {
		out = append(out, t.Rows[i].Date.Format("2006-01-02"))
	}
	return out
}

// RankedColumns returns columns carrying a TOP rank suffix.
func (t *Table) RankedColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if strings.Contains(c, "TOP") {
			out = append(out, c)
		}
	}
	return out
}

// DirectoryEntry maps a display name to its exchange identity.
type DirectoryEntry struct {
	Code     string
	Ticker   string
	Industry string
	Market   string
}

// Bar is a single trading day of a ticker.
type Bar struct {
	Close  float64
	Volume int64
}

// QuoteRecord is the enriched quote for one stock on the target date.
type QuoteRecord struct {
	Code      string  `json:"code"`
	Industry  string  `json:"industry"`
	Close     float64 `json:"price"`
	AmountStr string  `json:"amount_str"`
	VolStr    string  `json:"vol_str"`
}

// NewsItem is one syndication feed entry.
type NewsItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Snippet   string `json:"snippet,omitempty"`
}

// RankedStock is one slot of a daily ranking section.
type RankedStock struct {
	Rank     int          `json:"rank"`
	Name     string       `json:"name"`
	Industry string       `json:"industry,omitempty"`
	Quote    *QuoteRecord `json:"quote,omitempty"`
}

// Section groups ranked stocks under one strategy heading.
type Section struct {
	Title  string        `json:"title"`
	Tone   string        `json:"tone,omitempty"`
	Stocks []RankedStock `json:"stocks"`
}

// Daily view outcomes. Offline means both quotes and news came back
// empty, which signals a connectivity problem rather than quiet markets.
const (
	OutcomeOK      = "ok"
	OutcomeNoNews  = "no-news"
	OutcomeOffline = "offline"
	OutcomeNoData  = "no-data"
)

// DailyView is the per-day enriched ranking view.
type DailyView struct {
	Date     string     `json:"date"`
	Wind     string     `json:"wind,omitempty"`
	WindTone string     `json:"wind_tone,omitempty"`
	Sections []Section  `json:"sections"`
	News     []NewsItem `json:"news"`
	Outcome  string     `json:"outcome"`
}

// StockCount is one stock's occurrence count within a month.
type StockCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// IndustryGroup is the per-industry breakdown of one strategy.
type IndustryGroup struct {
	Industry string       `json:"industry"`
	Total    int          `json:"total"`
	Stocks   []StockCount `json:"stocks"`
}

// StrategyGroup is one strategy's monthly occurrence breakdown,
// industries ordered by total count descending.
type StrategyGroup struct {
	Strategy   string          `json:"strategy"`
	Industries []IndustryGroup `json:"industries"`
}

// TrendCell is one numeric observation; Highlight marks values that
// cross the display emphasis threshold.
type TrendCell struct {
	Value     float64 `json:"value"`
	Highlight bool    `json:"highlight"`
}

// TrendRow is one date of the numeric-trend view.
type TrendRow struct {
	Date  string               `json:"date"`
	Wind  string               `json:"wind,omitempty"`
	Cells map[string]TrendCell `json:"cells"`
}

// TrendView is the raw numeric-trend table selection.
type TrendView struct {
	Columns []string   `json:"columns"`
	Rows    []TrendRow `json:"rows"`
}
