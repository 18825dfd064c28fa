// Package sheet loads the ranking spreadsheet and flattens its
// three-row hierarchical header into unique column names.
package sheet

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"stock-kite-desk/internal/types"
)

const (
	// DateColumn is the canonical name of the date column after load.
	DateColumn = "日期"
	// WindColumn holds the day's market-sentiment note.
	WindColumn = "風度"

	headerRows = 3
)

// ErrNoDateColumn reports a header with no recognizable date column.
// This is fatal for every downstream view, unlike a table that is
// merely empty after date filtering.
var ErrNoDateColumn = errors.New("no date column found in header")

// Load reads the first worksheet of an xlsx file: three header rows
// followed by data rows.
func Load(path string) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no worksheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	if len(rows) < headerRows {
		return nil, fmt.Errorf("header block incomplete: %d rows", len(rows))
	}

	names := FlattenHeader(rows[:headerRows])
	return BuildTable(names, rows[headerRows:])
}

// FlattenHeader resolves a 3-row hierarchical header block into one flat
// name per column. Blank cells in the category and sub-category rows
// inherit the nearest non-blank value to their left; a rank cell that
// parses as a non-negative integer appends a TOP suffix.
func FlattenHeader(header [][]string) []string {
	width := 0
	for _, row := range header {
		if len(row) > width {
			width = len(row)
		}
	}

	names := make([]string, 0, width)
	lastCat, lastSub := "", ""
	for i := 0; i < width; i++ {
		cat := cleanCell(cellAt(header, 0, i))
		sub := cleanCell(cellAt(header, 1, i))
		rank := cleanCell(cellAt(header, 2, i))

		if cat == "" {
			cat = lastCat
		} else {
			lastCat = cat
		}
		if sub == "" {
			sub = lastSub
		} else {
			lastSub = sub
		}

		if n, ok := parseRank(rank); ok {
			names = append(names, fmt.Sprintf("%s_%s_TOP%d", cat, sub, n))
		} else if sub != "" {
			names = append(names, sub)
		} else {
			names = append(names, cat)
		}
	}
	return names
}

// BuildTable pairs flattened column names with data rows, dropping
// duplicate columns (first occurrence wins), renaming the date column,
// filtering unparsable dates and sorting ascending.
func BuildTable(names []string, data [][]string) (*types.Table, error) {
	// Dedupe column names, keeping the column index of each first hit.
	seen := make(map[string]struct{}, len(names))
	keepNames := make([]string, 0, len(names))
	keepIdx := make([]int, 0, len(names))
	for i, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		keepNames = append(keepNames, n)
		keepIdx = append(keepIdx, i)
	}

	dateIdx := -1
	for i, n := range keepNames {
		if strings.Contains(n, DateColumn) {
			keepNames[i] = DateColumn
			dateIdx = i
			break
		}
	}
	if dateIdx == -1 {
		return nil, ErrNoDateColumn
	}

	records := make([]types.DailyRecord, 0, len(data))
	seenDates := make(map[string]struct{}, len(data))
	for _, row := range data {
		date, ok := parseDate(cleanCell(cellValue(row, keepIdx[dateIdx])))
		if !ok {
			continue
		}
		dayKey := date.Format("2006-01-02")
		if _, dup := seenDates[dayKey]; dup {
			continue
		}
		seenDates[dayKey] = struct{}{}

		cells := make(map[string]string, len(keepNames))
		for i, n := range keepNames {
			if i == dateIdx {
				continue
			}
			cells[n] = cleanCell(cellValue(row, keepIdx[i]))
		}
		records = append(records, types.DailyRecord{Date: date, Cells: cells})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return &types.Table{Columns: keepNames, Rows: records}, nil
}

// cleanCell trims whitespace and line breaks and maps the missing-value
// sentinel to the empty string.
func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSpace(s)
	if s == "nan" {
		return ""
	}
	return s
}

// parseRank accepts non-negative integers in plain or float notation
// ("3", "3.0"); anything else yields no rank.
func parseRank(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06",
	"2006年1月2日",
}

// parseDate tries the accepted textual layouts, then an Excel serial
// number (days since 1899-12-30).
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Truncate(24 * time.Hour), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		return epoch.AddDate(0, 0, int(serial)), true
	}
	return time.Time{}, false
}

func cellAt(rows [][]string, r, c int) string {
	if r >= len(rows) {
		return ""
	}
	return cellValue(rows[r], c)
}

func cellValue(row []string, c int) string {
	if c >= len(row) {
		return ""
	}
	return row[c]
}
