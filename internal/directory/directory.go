// Package directory builds the name-to-ticker lookup from the reference
// dataset of listed Taiwanese equities and funds.
package directory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"stock-kite-desk/internal/types"
)

// Exchange suffixes by market tier.
const (
	suffixTWSE = ".TW"  // 上市
	suffixTPEx = ".TWO" // 上櫃
)

// Reference entry types that produce a directory entry.
var includedTypes = map[string]struct{}{
	"股票": {},
	"ETF": {},
}

// manualFixes overrides entries whose reference data is stale or
// ambiguous, mostly cross-listed KY stocks. Industry is a placeholder
// the classifier refines later.
var manualFixes = map[string]struct {
	Code   string
	Market string
}{
	"IET-KY":  {"4971", "上櫃"},
	"ITE-KY":  {"4971", "上櫃"},
	"AES-KY":  {"6781", "上市"},
	"jpp-KY":  {"5284", "上櫃"},
	"世芯-KY":  {"3661", "上市"},
	"矽力*-KY": {"6415", "上市"},
	"譜瑞-KY":  {"4966", "上櫃"},
}

const placeholderIndustry = "其他電子"

// Directory is an immutable name-keyed lookup built once at startup.
type Directory struct {
	entries map[string]types.DirectoryEntry
}

// Load builds the directory from the reference CSV
// (code,name,type,group,market) and applies the manual fixes on top.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference dataset: %w", err)
	}
	defer f.Close()

	entries, err := parseReference(f)
	if err != nil {
		return nil, fmt.Errorf("parse reference dataset: %w", err)
	}

	applyManualFixes(entries)

	return &Directory{entries: entries}, nil
}

func applyManualFixes(entries map[string]types.DirectoryEntry) {
	for name, fix := range manualFixes {
		entries[name] = types.DirectoryEntry{
			Code:     fix.Code,
			Ticker:   fix.Code + marketSuffix(fix.Market),
			Industry: placeholderIndustry,
			Market:   fix.Market,
		}
	}
}

func parseReference(r io.Reader) (map[string]types.DirectoryEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5

	entries := make(map[string]types.DirectoryEntry)
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			if record[0] == "code" {
				continue
			}
		}

		code, name, typ, group, market := record[0], record[1], record[2], record[3], record[4]
		if _, ok := includedTypes[typ]; !ok {
			continue
		}
		industry := group
		if industry == "" {
			industry = typ
		}
		entries[name] = types.DirectoryEntry{
			Code:     code,
			Ticker:   code + marketSuffix(market),
			Industry: industry,
			Market:   market,
		}
	}
	return entries, nil
}

func marketSuffix(market string) string {
	if market == "上市" {
		return suffixTWSE
	}
	return suffixTPEx
}

// Lookup returns the entry for the exact display name used in the
// spreadsheet, or not-found. Entries are always complete.
func (d *Directory) Lookup(name string) (types.DirectoryEntry, bool) {
	e, ok := d.entries[strings.TrimSpace(name)]
	return e, ok
}

// Len reports how many names resolve.
func (d *Directory) Len() int {
	return len(d.entries)
}
