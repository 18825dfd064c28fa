package report

import (
	"context"
	"testing"
	"time"

	"stock-kite-desk/internal/types"
)

type fakeDirectory map[string]types.DirectoryEntry

func (d fakeDirectory) Lookup(name string) (types.DirectoryEntry, bool) {
	e, ok := d[name]
	return e, ok
}

type fakeQuotes map[string]types.QuoteRecord

func (q fakeQuotes) Fetch(ctx context.Context, names []string, dateStr string) map[string]types.QuoteRecord {
	return q
}

type fakeClassifier map[string]string

func (c fakeClassifier) Classify(ctx context.Context, names []string) map[string]string {
	return c
}

type fakeNews []types.NewsItem

func (n fakeNews) Fetch(ctx context.Context, names []string, dateStr string) []types.NewsItem {
	return n
}

var testDir = fakeDirectory{
	"台積電": {Code: "2330", Ticker: "2330.TW", Industry: "半導體業"},
	"長榮":  {Code: "2603", Ticker: "2603.TW", Industry: "航運業"},
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rankingTable() *types.Table {
	cols := []string{"日期", "風度", "上班族_強勢周_TOP1", "上班族_強勢周_TOP2", "老闆_周拉回_TOP1", "TOP30_成交金額_TOP1", "上班強勢指標"}
	return &types.Table{
		Columns: cols,
		Rows: []types.DailyRecord{
			{Date: day("2024-03-01"), Cells: map[string]string{
				"風度":            "強風",
				"上班族_強勢周_TOP1": "台積電",
				"上班族_強勢周_TOP2": "長榮",
				"老闆_周拉回_TOP1":  "台積電",
				"上班強勢指標":        "42",
			}},
			{Date: day("2024-03-04"), Cells: map[string]string{
				"風度":            "無風",
				"上班族_強勢周_TOP1": "台積電",
				"上班強勢指標":        "12",
			}},
			{Date: day("2024-03-20"), Cells: map[string]string{
				"上班族_強勢周_TOP1": "長榮",
				"上班強勢指標":        "7",
			}},
			{Date: day("2024-04-01"), Cells: map[string]string{
				"上班族_強勢周_TOP1": "台積電",
				"上班強勢指標":        "55",
			}},
		},
	}
}

func TestMonthlyCounts(t *testing.T) {
	table := rankingTable()

	groups := Monthly(table, "2024-03-31", testDir, nil)

	var strong *types.StrategyGroup
	for i := range groups {
		if groups[i].Strategy == "強勢周" {
			strong = &groups[i]
		}
	}
	if strong == nil {
		t.Fatal("expected 強勢周 strategy group")
	}

	found := false
	for _, ig := range strong.Industries {
		if ig.Industry != "半導體業" {
			continue
		}
		found = true
		if len(ig.Stocks) != 1 || ig.Stocks[0].Name != "台積電" || ig.Stocks[0].Count != 2 {
			t.Errorf("expected 台積電 counted twice in March, got %v", ig.Stocks)
		}
	}
	if !found {
		t.Error("expected 半導體業 industry group")
	}
}

func TestMonthlyCutoffAndMonthFilter(t *testing.T) {
	table := rankingTable()

	// Cutoff at March 4: the March 20 row and the April row are excluded.
	groups := Monthly(table, "2024-03-04", testDir, nil)
	for _, g := range groups {
		for _, ig := range g.Industries {
			for _, sc := range ig.Stocks {
				if sc.Name == "長榮" && g.Strategy == "強勢周" && sc.Count != 1 {
					t.Errorf("expected 長榮 counted once up to cutoff, got %d", sc.Count)
				}
			}
		}
	}
}

func TestMonthlyFineMapWinsOverCoarse(t *testing.T) {
	table := rankingTable()
	fine := map[string]string{"台積電": "半導體製造/IC設計"}

	groups := Monthly(table, "2024-03-31", testDir, fine)
	for _, g := range groups {
		for _, ig := range g.Industries {
			for _, sc := range ig.Stocks {
				if sc.Name == "台積電" && ig.Industry != "半導體製造/IC設計" {
					t.Errorf("expected fine-grained industry, got %q", ig.Industry)
				}
			}
		}
	}
}

func TestMonthlyIndustriesOrderedByTotal(t *testing.T) {
	table := rankingTable()

	groups := Monthly(table, "2024-03-31", testDir, nil)
	for _, g := range groups {
		for i := 1; i < len(g.Industries); i++ {
			if g.Industries[i-1].Total < g.Industries[i].Total {
				t.Errorf("industries not ordered by total: %v", g.Industries)
			}
		}
	}
}

func TestStrategyName(t *testing.T) {
	cases := []struct {
		col  string
		want string
	}{
		{"上班族_強勢周_TOP1", "強勢周"},
		{"TOP30_成交金額_TOP1", "成交金額"},
		{"強勢周排名_TOP3", "強勢周"},
		{"單獨欄位", ""},
	}
	for _, tc := range cases {
		if got := StrategyName(tc.col); got != tc.want {
			t.Errorf("StrategyName(%q): expected %q, got %q", tc.col, tc.want, got)
		}
	}
}

func TestDailyViewEnrichment(t *testing.T) {
	table := rankingTable()
	quotes := fakeQuotes{
		"台積電": {Code: "2330", Industry: "半導體業", Close: 105, AmountStr: "2.1億", VolStr: "2000張"},
	}
	fine := fakeClassifier{"台積電": "半導體製造/IC設計"}
	news := fakeNews{{Title: "頭條", Link: "https://example.com"}}

	desk := NewDesk(testDir, quotes, fine, news, nil)
	view := desk.Daily(context.Background(), table, "2024-03-01")

	if view.Outcome != types.OutcomeOK {
		t.Errorf("expected ok outcome, got %q", view.Outcome)
	}
	if view.Wind != "強風" || view.WindTone != "#d32f2f" {
		t.Errorf("unexpected wind: %q tone %q", view.Wind, view.WindTone)
	}
	if len(view.Sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(view.Sections))
	}

	strong := view.Sections[0]
	if len(strong.Stocks) != 2 {
		t.Fatalf("expected 2 stocks in 強勢周, got %d", len(strong.Stocks))
	}
	if strong.Stocks[0].Rank != 1 || strong.Stocks[0].Name != "台積電" {
		t.Errorf("unexpected first slot: %+v", strong.Stocks[0])
	}
	// Fine-grained industry overrides the quote's coarse label.
	if strong.Stocks[0].Industry != "半導體製造/IC設計" {
		t.Errorf("expected fine industry on display, got %q", strong.Stocks[0].Industry)
	}
	if strong.Stocks[1].Quote != nil {
		t.Error("expected no quote for stock without data")
	}
}

func TestDailyViewOutcomes(t *testing.T) {
	table := rankingTable()

	desk := NewDesk(testDir, fakeQuotes{}, fakeClassifier{}, fakeNews{}, nil)
	view := desk.Daily(context.Background(), table, "2024-03-01")
	if view.Outcome != types.OutcomeOffline {
		t.Errorf("expected offline when both quotes and news empty, got %q", view.Outcome)
	}

	desk = NewDesk(testDir, fakeQuotes{"台積電": {Code: "2330"}}, fakeClassifier{}, fakeNews{}, nil)
	view = desk.Daily(context.Background(), table, "2024-03-01")
	if view.Outcome != types.OutcomeNoNews {
		t.Errorf("expected no-news when quotes exist, got %q", view.Outcome)
	}

	view = desk.Daily(context.Background(), table, "2030-01-01")
	if view.Outcome != types.OutcomeNoData {
		t.Errorf("expected no-data for missing date, got %q", view.Outcome)
	}
}

func TestDailyViewNewsIndependentOfQuotes(t *testing.T) {
	table := rankingTable()

	// A failed quote batch surfaces as an empty map; the news fetch for
	// the same stocks still runs and its items are still shown.
	news := fakeNews{{Title: "頭條", Link: "https://example.com"}}
	desk := NewDesk(testDir, fakeQuotes{}, fakeClassifier{}, news, nil)

	view := desk.Daily(context.Background(), table, "2024-03-01")
	if len(view.News) != 1 {
		t.Fatalf("expected news despite empty quotes, got %v", view.News)
	}
	if view.Outcome != types.OutcomeOK {
		t.Errorf("expected ok outcome with news present, got %q", view.Outcome)
	}
}

func TestTrendView(t *testing.T) {
	table := rankingTable()

	candidates := NumericCandidates(table)
	if len(candidates) != 1 || candidates[0] != "上班強勢指標" {
		t.Fatalf("unexpected candidates: %v", candidates)
	}

	view := Trend(table, candidates)
	if len(view.Columns) != 1 {
		t.Fatalf("expected 1 valid column, got %v", view.Columns)
	}
	if len(view.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(view.Rows))
	}

	first := view.Rows[0].Cells["上班強勢指標"]
	if first.Value != 42 || !first.Highlight {
		t.Errorf("expected 42 highlighted, got %+v", first)
	}
	second := view.Rows[1].Cells["上班強勢指標"]
	if second.Value != 12 || second.Highlight {
		t.Errorf("expected 12 not highlighted, got %+v", second)
	}
}

func TestTrendDropsNonNumericColumns(t *testing.T) {
	table := rankingTable()

	view := Trend(table, []string{"風度"})
	if len(view.Columns) != 0 {
		t.Errorf("expected non-numeric column dropped, got %v", view.Columns)
	}
}

func TestDefaultTrendColumns(t *testing.T) {
	table := rankingTable()

	got := DefaultTrendColumns(table)
	if len(got) != 1 || got[0] != "上班強勢指標" {
		t.Errorf("unexpected defaults: %v", got)
	}
}
