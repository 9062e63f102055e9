package main

import (
	"fmt"
	"os"
	"path/filepath"

	"battery-arbitrage/internal/analysis"
	"battery-arbitrage/internal/backtest"
	"battery-arbitrage/internal/config"
	"battery-arbitrage/internal/logging"
	"battery-arbitrage/internal/model"
	"battery-arbitrage/internal/session"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cli",
		Short: "Battery arbitrage profitability on a price spreadsheet",
		Long: `Runs the daily two-trade arbitrage analysis against a local xlsx or csv
price file and reports daily, monthly and yearly profit with ROI figures.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute profit and ROI for one battery",
		Example: `  cli analyze --data prices.xlsx --capacity 10 --price 5500
  cli analyze --data prices.csv --battery examples/batteries/home_10kwh.yaml --out results/daily.csv`,
		RunE: runAnalyze,
	}
	analyzeCmd.Flags().String("data", "", "Path to the xlsx or csv price file")
	analyzeCmd.Flags().String("battery", "", "Optional battery preset YAML")
	analyzeCmd.Flags().Int("capacity", 0, "Battery capacity in kWh (overrides the preset)")
	analyzeCmd.Flags().String("price", "", "Battery purchase price (overrides the preset)")
	analyzeCmd.Flags().String("out", "", "Optional path for the per-day CSV")
	analyzeCmd.Flags().Int("top", 5, "Number of best days to print")
	_ = analyzeCmd.MarkFlagRequired("data")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print price statistics for a spreadsheet",
		RunE:  runStats,
	}
	statsCmd.Flags().String("data", "", "Path to the xlsx or csv price file")
	_ = statsCmd.MarkFlagRequired("data")

	root.AddCommand(analyzeCmd, statsCmd)
	return root
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadSession(cmd *cobra.Command, path string) (*session.Session, *model.Dataset, error) {
	level, _ := cmd.Flags().GetString("log-level")
	log, err := logging.NewWithOutput(cmd.ErrOrStderr(), level, "text")
	if err != nil {
		return nil, nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	s := session.New(session.Options{
		MaxUploadBytes: int64(len(raw)) + 1,
		Logger:         log,
	})
	ds, err := s.Upload(raw, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	return s, ds, nil
}

func batteryFromFlags(cmd *cobra.Command) (config.BatteryConfig, error) {
	var base config.BatteryConfig
	if path, _ := cmd.Flags().GetString("battery"); path != "" {
		b, err := config.LoadBatteryFile(path)
		if err != nil {
			return config.BatteryConfig{}, err
		}
		base = b
	}

	var override config.BatteryConfig
	override.CapacityKWh, _ = cmd.Flags().GetInt("capacity")
	if raw, _ := cmd.Flags().GetString("price"); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return config.BatteryConfig{}, fmt.Errorf("--price: %w", err)
		}
		override.Price = p
	}
	return config.MergeBattery(base, override), nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	dataPath, _ := cmd.Flags().GetString("data")
	outPath, _ := cmd.Flags().GetString("out")
	top, _ := cmd.Flags().GetInt("top")

	battery, err := batteryFromFlags(cmd)
	if err != nil {
		return err
	}
	params, err := battery.ToModelParams()
	if err != nil {
		return err
	}

	s, ds, err := loadSession(cmd, dataPath)
	if err != nil {
		return err
	}
	res, err := s.Analyze(params.Capacity, params.Price)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Dataset %s: %d records\n", ds.Source, len(ds.Records))
	fmt.Fprintf(w, "Battery: %d kWh, price %s\n\n", params.Capacity, params.Price.StringFixed(model.MoneyPlaces))

	fmt.Fprintf(w, "%-8s %-12s %-12s %-12s %-12s %-6s\n", "month", "total", "avg/day", "max", "min", "days")
	for _, m := range res.Monthly {
		fmt.Fprintf(w, "%-8s %-12s %-12s %-12s %-12s %-6d\n",
			m.Month,
			m.TotalProfit.StringFixed(2),
			m.AvgProfit.StringFixed(2),
			m.MaxProfit.StringFixed(2),
			m.MinProfit.StringFixed(2),
			m.TradingDayCount,
		)
	}

	y := res.Yearly
	fmt.Fprintf(w, "\nTotal profit:   %s\n", y.TotalProfit.StringFixed(2))
	fmt.Fprintf(w, "Annual return:  %s%%\n", y.AnnualReturnPercentage.StringFixed(2))
	fmt.Fprintf(w, "Monthly avg:    %s\n", y.MonthlyAverage.StringFixed(2))
	if y.Unbounded {
		fmt.Fprintln(w, "ROI:            never (no positive yearly profit)")
	} else {
		fmt.Fprintf(w, "ROI:            %s years (break-even %s)\n", y.ROIYears.StringFixed(2), y.BreakevenDate.Format(model.DateLayout))
	}

	if top > 0 {
		fmt.Fprintf(w, "\nBest days:\n")
		for i, d := range analysis.TopDays(res.Daily, top) {
			fmt.Fprintf(w, "%2d. %s  %s  (%d trades)\n", i+1, d.Date.Format(model.DateLayout), d.TotalProfit.StringFixed(2), d.OpportunityCount)
		}
	}

	if outPath != "" {
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		if err := backtest.WriteDailyCSV(outPath, res.Daily); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nWrote %d days to %s\n", len(res.Daily), outPath)
	}
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	dataPath, _ := cmd.Flags().GetString("data")
	_, ds, err := loadSession(cmd, dataPath)
	if err != nil {
		return err
	}
	st := analysis.ComputePriceStats(ds)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "records: %d\n", st.Count)
	fmt.Fprintf(w, "days:    %d\n", st.Days)
	fmt.Fprintf(w, "range:   %s .. %s\n", st.First.Format("2006-01-02 15:04"), st.Last.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "min/max: %s / %s\n", st.Min.StringFixed(4), st.Max.StringFixed(4))
	fmt.Fprintf(w, "mean:    %s\n", st.Mean.StringFixed(4))
	fmt.Fprintf(w, "p05/p95: %s / %s (spread %s)\n", st.P05.StringFixed(4), st.P95.StringFixed(4), st.SpreadP95P05.StringFixed(4))
	return nil
}
