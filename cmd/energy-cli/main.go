// energy-cli inspects the calculator's reference data and remote store, and
// runs one-off solar estimates.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thatsimonsguy/energy-calculator/db"
	"github.com/thatsimonsguy/energy-calculator/internal/catalog"
	"github.com/thatsimonsguy/energy-calculator/internal/config"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
	"github.com/thatsimonsguy/energy-calculator/internal/solar"
	"github.com/thatsimonsguy/energy-calculator/internal/tariff"
)

var (
	dbDriver string
	dbDSN    string
	userID   string
	limit    int

	category string
	search   string

	mode     string
	bill     float64
	bills    []float64
	rate     float64
	state    string
	sunHours float64

	rootCmd = &cobra.Command{
		Use:          "energy-cli",
		Short:        "Energy calculator CLI",
		Long:         "Command-line tool for the household energy calculator: tariffs, appliance catalog, solar sizing and the bill history store.",
		SilenceUsage: true,
	}

	tariffsCmd = &cobra.Command{
		Use:   "tariffs",
		Short: "List per-unit rates and average sun hours by state",
		RunE:  listTariffs,
	}

	catalogCmd = &cobra.Command{
		Use:   "catalog",
		Short: "List catalog appliances",
		RunE:  listCatalog,
	}

	estimateCmd = &cobra.Command{
		Use:   "estimate",
		Short: "Size a rooftop solar system from monthly bills",
		RunE:  runEstimate,
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Inspect saved bill snapshots",
	}

	historyListCmd = &cobra.Command{
		Use:   "list",
		Short: "List bill snapshots, newest first",
		RunE:  listHistory,
	}

	historyDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a bill snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteHistory,
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show row counts in the remote store",
		RunE:  showStats,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", envOr("ENERGY_DB_DRIVER", config.DriverSQLite), "Database driver (sqlite3 or postgres)")
	rootCmd.PersistentFlags().StringVarP(&dbDSN, "database", "d", envOr("ENERGY_DB_DSN", "data/energy.db"), "Database path or DSN")

	catalogCmd.Flags().StringVarP(&category, "category", "c", "", "Only show this category")
	catalogCmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name or brand")

	estimateCmd.Flags().StringVarP(&mode, "mode", "m", string(solar.ModeAverage), "Bill mode: average, three_months or twelve_months")
	estimateCmd.Flags().Float64VarP(&bill, "bill", "b", 0, "Average monthly bill (average mode)")
	estimateCmd.Flags().Float64SliceVar(&bills, "bills", nil, "Comma separated monthly bills (list modes)")
	estimateCmd.Flags().Float64VarP(&rate, "rate", "r", 0, "Rate per unit; defaults to the state's tariff")
	estimateCmd.Flags().StringVar(&state, "state", "", "State used for the tariff and sun hours")
	estimateCmd.Flags().Float64Var(&sunHours, "sun-hours", 0, "Override the state's average sun hours")

	historyCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "Only this user's records")
	historyListCmd.Flags().IntVarP(&limit, "limit", "n", 12, "Number of records to show")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	rootCmd.AddCommand(tariffsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newTable(out io.Writer, headers ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	rule := make([]string, len(headers))
	for i, h := range headers {
		rule[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(rule, "\t"))
	return w
}

func listTariffs(cmd *cobra.Command, args []string) error {
	w := newTable(cmd.OutOrStdout(), "STATE", "RATE/UNIT", "SUN HOURS")
	for _, r := range tariff.Rates() {
		fmt.Fprintf(w, "%s\t%.2f\t%.1f\n", r.State, r.RatePerUnit, tariff.SunHoursFor(r.State))
	}
	return w.Flush()
}

func listCatalog(cmd *cobra.Command, args []string) error {
	entries, err := catalog.Filter(search, model.Category(category))
	if err != nil {
		return err
	}

	w := newTable(cmd.OutOrStdout(), "NAME", "BRAND", "CATEGORY", "WATTS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\n", e.Name, e.Brand, e.Category, e.Wattage)
	}
	return w.Flush()
}

func runEstimate(cmd *cobra.Command, args []string) error {
	in := solar.Input{
		Mode:        solar.Mode(mode),
		AverageBill: bill,
		Bills:       bills,
		RatePerUnit: rate,
		State:       state,
	}
	if cmd.Flags().Changed("sun-hours") {
		in.ManualSunHours = true
		in.SunHours = sunHours
	}
	if in.RatePerUnit == 0 {
		if r, ok := tariff.RateFor(state); ok {
			in.RatePerUnit = r
		}
	}

	est, err := solar.Calculate(in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Monthly bill:    %.2f\n", est.MonthlyBill)
	fmt.Fprintf(out, "Monthly units:   %.1f kWh\n", est.MonthlyKWh)
	fmt.Fprintf(out, "Sun hours:       %.1f\n", est.SunHours)
	fmt.Fprintf(out, "System size:     %.2f kW\n", est.RequiredKW)
	fmt.Fprintf(out, "Panels (400 Wp): %d\n", est.Panels)
	fmt.Fprintf(out, "Cost:            %.0f - %.0f\n", est.CostLow, est.CostHigh)
	fmt.Fprintf(out, "Payback (years): %s - %s\n", est.PaybackLow, est.PaybackHigh)
	return nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	records, err := db.ListBillHistoryCLI(dbDriver, dbDSN, userID, limit)
	if err != nil {
		return err
	}

	w := newTable(cmd.OutOrStdout(), "ID", "SAVED", "MONTH", "STATE", "DEVICES", "UNITS", "COST", "CO2")
	for _, r := range records {
		saved := time.UnixMilli(r.Timestamp).Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\t%.2f\n",
			r.ID, saved, r.Month, r.State, r.DeviceCount, r.TotalUnits, r.TotalCost, r.TotalCO2)
	}
	return w.Flush()
}

func deleteHistory(cmd *cobra.Command, args []string) error {
	removed, err := db.DeleteBillHistoryCLI(dbDriver, dbDSN, userID, args[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(cmd.OutOrStdout(), "No record %s\n", args[0])
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func showStats(cmd *cobra.Command, args []string) error {
	stats, err := db.StatsCLI(dbDriver, dbDSN)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Users:          %d\n", stats.Users)
	fmt.Fprintf(out, "Rooms:          %d\n", stats.Rooms)
	fmt.Fprintf(out, "Devices:        %d\n", stats.Devices)
	fmt.Fprintf(out, "Bill snapshots: %d\n", stats.BillHistory)
	return nil
}
