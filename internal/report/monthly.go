package report

import (
	"sort"
	"strings"
	"time"

	"stock-kite-desk/internal/interfaces"
	"stock-kite-desk/internal/types"
)

const fallbackIndustry = "其他"

// orderedCounter counts occurrences while remembering insertion order,
// so ties keep first-encountered order when sorted.
type orderedCounter struct {
	keys   []string
	counts map[string]int
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

func (c *orderedCounter) total() int {
	sum := 0
	for _, n := range c.counts {
		sum += n
	}
	return sum
}

// sorted returns (key, count) pairs by count descending, ties in
// insertion order.
func (c *orderedCounter) sorted() []types.StockCount {
	out := make([]types.StockCount, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, types.StockCount{Name: k, Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Monthly groups every ranked-slot appearance of the target date's
// month (up to and including the target date) by strategy and industry.
// Fine-grained industry labels win over the directory's coarse group,
// which wins over the literal fallback.
func Monthly(t *types.Table, dateStr string, dir interfaces.Directory, fine map[string]string) []types.StrategyGroup {
	target, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil
	}

	var stratOrder []string
	tree := make(map[string]map[string]*orderedCounter)
	indOrder := make(map[string][]string)

	rankedCols := t.RankedColumns()
	for _, rec := range t.Rows {
		if rec.Date.Year() != target.Year() || rec.Date.Month() != target.Month() {
			continue
		}
		if rec.Date.After(target) {
			continue
		}
		for _, col := range rankedCols {
			name := strings.TrimSpace(rec.Cells[col])
			if name == "" {
				continue
			}
			strat := StrategyName(col)
			if strat == "" {
				continue
			}

			industry := fallbackIndustry
			if label, ok := fine[name]; ok {
				industry = label
			} else if entry, ok := dir.Lookup(name); ok {
				industry = entry.Industry
			}

			if _, ok := tree[strat]; !ok {
				tree[strat] = make(map[string]*orderedCounter)
				stratOrder = append(stratOrder, strat)
			}
			if _, ok := tree[strat][industry]; !ok {
				tree[strat][industry] = newOrderedCounter()
				indOrder[strat] = append(indOrder[strat], industry)
			}
			tree[strat][industry].add(name)
		}
	}

	groups := make([]types.StrategyGroup, 0, len(stratOrder))
	for _, strat := range stratOrder {
		group := types.StrategyGroup{Strategy: strat}
		for _, industry := range indOrder[strat] {
			counter := tree[strat][industry]
			group.Industries = append(group.Industries, types.IndustryGroup{
				Industry: industry,
				Total:    counter.total(),
				Stocks:   counter.sorted(),
			})
		}
		// Industries by total occurrences descending, ties keeping
		// first-encountered order.
		sort.SliceStable(group.Industries, func(i, j int) bool {
			return group.Industries[i].Total > group.Industries[j].Total
		})
		groups = append(groups, group)
	}
	return groups
}

// StrategyName derives a strategy label from a ranked column's tokens:
// the sub-category when the column carries all three levels, else the
// category, with rank and suffix tokens stripped.
func StrategyName(col string) string {
	parts := strings.Split(col, "_")
	if len(parts) < 2 {
		return ""
	}
	raw := parts[0]
	if len(parts) >= 3 {
		raw = parts[1]
	}
	raw = strings.ReplaceAll(raw, "TOP", "")
	raw = strings.ReplaceAll(raw, "排名", "")
	return raw
}
