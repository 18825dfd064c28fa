package report

import (
	"strconv"
	"strings"

	"stock-kite-desk/internal/sheet"
	"stock-kite-desk/internal/types"
)

const (
	// trendWindow bounds how many trailing rows the trend view shows.
	trendWindow = 60
	// highlightThreshold marks cells worth visual emphasis.
	highlightThreshold = 30
)

// NumericCandidates lists the columns eligible for the trend view:
// everything that is not a ranked slot, the date or the wind note.
func NumericCandidates(t *types.Table) []string {
	var out []string
	for _, c := range t.Columns {
		if strings.Contains(c, "_TOP") {
			continue
		}
		if strings.Contains(c, sheet.DateColumn) || strings.Contains(c, sheet.WindColumn) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// DefaultTrendColumns picks up to four candidates matching the
// indicator families the dashboard plots by default.
func DefaultTrendColumns(t *types.Table) []string {
	defaults := []string{"強勢周", "打工型", "上班強勢"}
	var out []string
	for _, c := range NumericCandidates(t) {
		if containsAny(c, defaults) {
			out = append(out, c)
			if len(out) == 4 {
				break
			}
		}
	}
	return out
}

// Trend coerces the selected columns to numbers over the trailing
// window. Columns with no parsable value at all are dropped;
// unparsable cells are simply absent from their row.
func Trend(t *types.Table, columns []string) types.TrendView {
	valid := make([]string, 0, len(columns))
	for _, c := range columns {
		if columnHasNumbers(t, c) {
			valid = append(valid, c)
		}
	}

	view := types.TrendView{Columns: valid}
	if len(valid) == 0 {
		return view
	}

	rows := t.Rows
	if len(rows) > trendWindow {
		rows = rows[len(rows)-trendWindow:]
	}
	for i := range rows {
		rec := &rows[i]
		tr := types.TrendRow{
			Date:  rec.Date.Format("2006-01-02"),
			Wind:  strings.TrimSpace(rec.Cells[sheet.WindColumn]),
			Cells: make(map[string]types.TrendCell, len(valid)),
		}
		for _, c := range valid {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec.Cells[c]), 64)
			if err != nil {
				continue
			}
			tr.Cells[c] = types.TrendCell{Value: v, Highlight: v > highlightThreshold}
		}
		view.Rows = append(view.Rows, tr)
	}
	return view
}

func columnHasNumbers(t *types.Table, col string) bool {
	for i := range t.Rows {
		if _, err := strconv.ParseFloat(strings.TrimSpace(t.Rows[i].Cells[col]), 64); err == nil {
			return true
		}
	}
	return false
}
