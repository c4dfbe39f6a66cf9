package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/tally/internal/app"
	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/fx"
	"github.com/bobmcallan/tally/internal/models"
	"github.com/bobmcallan/tally/internal/services/debt"
	"github.com/bobmcallan/tally/internal/services/networth"
)

func main() {
	configPath := flag.String("config", "", "path to tally.toml (default: TALLY_CONFIG, then binary dir)")
	ratesPath := flag.String("rates", "", "path to a JSON rate table (currency code -> pivot rate)")
	asOfArg := flag.String("asof", "", "evaluation date YYYY-MM-DD (default: today)")
	flag.Parse()

	report := flag.Arg(0)
	if report == "" {
		report = "summary"
	}

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	common.PrintBanner(a.Config, a.Logger)

	asOf := time.Now()
	if *asOfArg != "" {
		asOf, err = time.Parse("2006-01-02", *asOfArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -asof date %q: %v\n", *asOfArg, err)
			os.Exit(1)
		}
	}

	rates, err := loadRates(*ratesPath, a.Config.DisplayCurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load rate table: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	rows, err := buildReport(ctx, a, report, asOf, rates)
	if err != nil {
		a.Logger.Error().Err(err).Str("report", report).Msg("Report failed")
		fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
		os.Exit(1)
	}

	printRows(rows)
}

func buildReport(ctx context.Context, a *app.App, report string, asOf time.Time, rates models.RateTable) ([]models.ExportRow, error) {
	display := a.Config.DisplayCurrency

	switch report {
	case "summary":
		summary, err := a.DebtService.Summarize(ctx, asOf, display, rates)
		if err != nil {
			return nil, err
		}
		return debt.ExportRows(summary), nil

	case "networth":
		stats, err := a.NetWorthService.Stats(ctx, asOf, display, rates, models.CashFlowSnapshot{})
		if err != nil {
			return nil, err
		}
		return networth.ExportRows(stats), nil

	case "debts":
		evaluated, err := a.DebtService.EvaluateAll(ctx, asOf)
		if err != nil {
			return nil, err
		}
		rows := make([]models.ExportRow, 0, len(evaluated))
		for _, ed := range evaluated {
			rows = append(rows, models.ExportRow{
				Label:   ed.Debt.BorrowerName,
				Value:   fx.FormatMoney(ed.Accrual.RemainingAmount, ed.Debt.Currency),
				Percent: string(ed.Accrual.EffectiveStatus),
			})
		}
		return rows, nil

	default:
		return nil, fmt.Errorf("unknown report %q (supported: summary, networth, debts)", report)
	}
}

// loadRates reads a JSON rate table. Without a file the table holds only
// the display currency at rate 1, which is enough when every record is
// already recorded in the display currency.
func loadRates(path, displayCurrency string) (models.RateTable, error) {
	if path == "" {
		return models.NewRateTable(map[string]decimal.Decimal{
			displayCurrency: decimal.NewFromInt(1),
		}), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]decimal.Decimal
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rate table %s: %w", path, err)
	}
	return models.NewRateTable(raw), nil
}

func printRows(rows []models.ExportRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.Label, row.Value, row.Percent)
	}
	w.Flush()
}
