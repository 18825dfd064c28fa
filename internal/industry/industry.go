// Package industry resolves fine-grained industry labels by querying
// the market-data service and translating the raw English
// classification into the labels Taiwanese traders use.
package industry

import (
	"context"
	"strings"
	"time"

	"stock-kite-desk/internal/cache"
	"stock-kite-desk/internal/interfaces"
	"stock-kite-desk/internal/logger"
)

// translation maps Yahoo Finance industry labels to the customary
// Taiwanese sub-industry names. A dictionary hit wins outright.
var translation = map[string]string{
	// PCB / substrates
	"Printed Circuit Boards": "PCB-印刷電路板",
	"Electronic Components":  "電子零組件",

	// Semiconductors
	"Semiconductors":                      "半導體製造/IC設計",
	"Semiconductor Equipment & Materials": "半導體設備&材料",

	// Computers and peripherals
	"Computer Hardware":       "電腦硬體/伺服器",
	"Consumer Electronics":    "消費電子",
	"Communication Equipment": "網通設備",
	"Computer Systems":        "電腦系統/系統整合",

	// Traditional and others
	"Auto Parts":                          "汽車零組件",
	"Specialty Chemicals":                 "特用化學",
	"Electrical Equipment & Parts":        "電機機械",
	"Farm & Heavy Construction Machinery": "重電/機械",
	"Engineering & Construction":          "工程營造",
	"Marine Shipping":                     "航運",
	"Aerospace & Defense":                 "航太軍工",
	"Solar":                               "太陽能",
	"Packaging & Containers":              "包材",
}

// substitutions is the heuristic fallback for labels the dictionary
// doesn't know: replace the common English tokens and accept the rest.
var substitutions = [][2]string{
	{"Equipment", "設備"},
	{"Parts", "零組件"},
	{"Services", "服務"},
}

// Classifier resolves industry labels with a per-name-set memo.
type Classifier struct {
	md   interfaces.MarketData
	dir  interfaces.Directory
	memo *cache.TTLCache
}

// NewClassifier creates a classifier whose results are cached for ttl
// (a day in production; industries rarely change).
func NewClassifier(md interfaces.MarketData, dir interfaces.Directory, ttl time.Duration) *Classifier {
	return &Classifier{
		md:   md,
		dir:  dir,
		memo: cache.New(ttl),
	}
}

var _ interfaces.IndustryResolver = (*Classifier)(nil)

// Classify maps each resolvable stock name to a fine-grained industry
// label. Lookups are independent per stock: a failed or empty lookup
// omits that name only, never aborting the batch. No retries.
func (c *Classifier) Classify(ctx context.Context, names []string) map[string]string {
	if len(names) == 0 {
		return map[string]string{}
	}

	key := cache.Key(names)
	if v, ok := c.memo.Get(key); ok {
		return v.(map[string]string)
	}

	out := make(map[string]string)
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		clean := strings.TrimSpace(name)
		if clean == "" {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}

		entry, ok := c.dir.Lookup(clean)
		if !ok {
			continue
		}

		raw, err := c.md.AssetIndustry(ctx, entry.Ticker)
		if err != nil {
			logger.Debug(ctx, "Industry lookup failed", "name", clean, "ticker", entry.Ticker, "error", err)
			continue
		}
		if raw == "" {
			continue
		}
		out[clean] = Translate(raw)
	}

	c.memo.Set(key, out)
	return out
}

// Translate converts a raw industry label: dictionary hit first, then
// literal token substitution, accepted even when nothing changed.
func Translate(raw string) string {
	if tw, ok := translation[raw]; ok {
		return tw
	}
	s := raw
	for _, sub := range substitutions {
		s = strings.ReplaceAll(s, sub[0], sub[1])
	}
	return s
}
