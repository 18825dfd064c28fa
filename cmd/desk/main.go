package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"stock-kite-desk/internal/logger"
	"stock-kite-desk/internal/report"
	"stock-kite-desk/internal/sheet"
	"stock-kite-desk/internal/store"
	"stock-kite-desk/internal/trace"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	dateStr := flag.String("date", "", "target date YYYY-MM-DD (default: latest in the spreadsheet)")
	view := flag.String("view", "daily", "view to render: daily | monthly | trend | dates")
	flag.Parse()

	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx := context.Background()
	defer trace.Shutdown(ctx)

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	table, err := sheet.Load(cfg.SpreadsheetPath)
	if err != nil {
		// Missing file and missing date column end the same way for
		// the operator: there is nothing to show.
		logger.ErrorWithErr(ctx, "Spreadsheet load failed", err, "path", cfg.SpreadsheetPath)
		fmt.Fprintln(os.Stderr, "no data available")
		os.Exit(1)
	}
	if len(table.Rows) == 0 {
		fmt.Fprintln(os.Stderr, "no data available")
		os.Exit(1)
	}

	target := *dateStr
	if target == "" {
		dates := table.Dates()
		target = dates[len(dates)-1]
	}

	desk, classifier := buildDesk(ctx, cfg)

	var out any
	switch *view {
	case "daily":
		out = desk.Daily(ctx, table, target)
	case "monthly":
		daily := desk.Daily(ctx, table, target)
		fine := classifier.Classify(ctx, dailyStockNames(daily))
		out = report.Monthly(table, target, desk.Directory(), fine)
	case "trend":
		out = report.Trend(table, report.DefaultTrendColumns(table))
	case "dates":
		out = table.Dates()
	default:
		fmt.Fprintf(os.Stderr, "Unknown view %q\n", *view)
		os.Exit(1)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode view: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(b))
}
