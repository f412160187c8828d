package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/ipotrak/ipotrak/pkg/config"
	"github.com/ipotrak/ipotrak/pkg/export"
	"github.com/ipotrak/ipotrak/pkg/models"
	"github.com/ipotrak/ipotrak/pkg/parser"
	"github.com/ipotrak/ipotrak/pkg/registrar"
	"github.com/ipotrak/ipotrak/pkg/report"
	"github.com/ipotrak/ipotrak/pkg/server"
	"github.com/ipotrak/ipotrak/pkg/service"
	"github.com/ipotrak/ipotrak/pkg/store"
)

var (
	cfgFile    string
	debugMode  bool
	cliFilters filters
)

var rootCmd = &cobra.Command{
	Use:   "ipotrak",
	Short: "Track IPO applications across brokerage accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

func newLogger() *log.Logger {
	level := log.InfoLevel
	if debugMode {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ipotrak",
		Level:           level,
	})
}

// setup wires config, store and tracker the same way for every subcommand.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, *service.Tracker, error) {
	logger := newLogger()
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}
	st := store.Open(cfg.DataFile, logger)
	return cfg, logger, service.NewTracker(st, logger), nil
}

// readInput reads the argument file, or stdin when the argument is missing
// or "-".
func readInput(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		return data, "", err
	}
	data, err := os.ReadFile(args[0])
	return data, args[0], err
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a single account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _, tracker, err := setup(cmd)
		if err != nil {
			return err
		}

		account := models.New()
		account.Name = mustString(cmd, "name")
		account.Phone = mustString(cmd, "phone")
		account.PAN = strings.ToUpper(mustString(cmd, "pan"))
		account.Email = mustString(cmd, "email")
		account.Login = mustString(cmd, "login")
		account.PIN = mustString(cmd, "pin")
		account.TPIN = mustString(cmd, "tpin")
		account.Year = mustString(cmd, "year")
		account.Notes = mustString(cmd, "notes")
		if broker := mustString(cmd, "broker"); broker != "" {
			account.Broker = models.Broker(strings.ToUpper(broker))
		}

		if err := tracker.Add(account); err != nil {
			return err
		}
		fmt.Println("New account added successfully!")
		return nil
	},
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

var statusCmd = &cobra.Command{
	Use:   "status <id> <pending|applied|allotted>",
	Short: "Move one account to a new application stage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, tracker, err := setup(cmd)
		if err != nil {
			return err
		}

		status := models.ApplicationStatus(strings.ToUpper(args[1]))
		switch status {
		case models.StatusPending, models.StatusApplied, models.StatusAllotted:
		default:
			return fmt.Errorf("unknown status %q, use pending, applied or allotted", args[1])
		}

		if err := tracker.SetStatus(args[0], status); err != nil {
			return err
		}
		account, err := tracker.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(renderAccountLine(account))
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a stored account's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, tracker, err := setup(cmd)
		if err != nil {
			return err
		}

		existing, err := tracker.Get(args[0])
		if err != nil {
			return err
		}

		// Only flags the user actually passed overwrite stored fields.
		updated := *existing
		apply := func(name string, dst *string) {
			if cmd.Flags().Changed(name) {
				*dst = mustString(cmd, name)
			}
		}
		apply("name", &updated.Name)
		apply("phone", &updated.Phone)
		apply("email", &updated.Email)
		apply("login", &updated.Login)
		apply("pin", &updated.PIN)
		apply("tpin", &updated.TPIN)
		apply("year", &updated.Year)
		apply("notes", &updated.Notes)
		apply("sold-value", &updated.SoldValue)
		if cmd.Flags().Changed("pan") {
			updated.PAN = strings.ToUpper(mustString(cmd, "pan"))
		}
		if cmd.Flags().Changed("broker") {
			updated.Broker = models.Broker(strings.ToUpper(mustString(cmd, "broker")))
		}
		if cmd.Flags().Changed("sold") {
			updated.SharesSold, _ = cmd.Flags().GetBool("sold")
		}
		if cmd.Flags().Changed("withdrawn") {
			updated.AmountWithdrawn, _ = cmd.Flags().GetBool("withdrawn")
		}

		if err := tracker.Update(&updated); err != nil {
			return err
		}
		fmt.Println(renderAccountLine(&updated))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Bulk-import accounts from pasted text or an .xls sheet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, tracker, err := setup(cmd)
		if err != nil {
			return err
		}

		data, name, err := readInput(args)
		if err != nil {
			return err
		}

		var message string
		if strings.HasSuffix(strings.ToLower(name), ".xls") {
			message, err = tracker.BulkAddXLS(data)
			if err != nil {
				return err
			}
		} else {
			if debugMode {
				// Show what the reconstructor made of the paste before merging.
				pp.Println(parser.New(logger).ParseAccounts(string(data)))
			}
			message = tracker.BulkAdd(string(data))
		}

		fmt.Println(message)
		return nil
	},
}

var pasteCmd = &cobra.Command{
	Use:   "paste [file|-]",
	Short: "Apply a pasted status/financial summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, tracker, err := setup(cmd)
		if err != nil {
			return err
		}

		data, _, err := readInput(args)
		if err != nil {
			return err
		}

		markAsAllotted, _ := cmd.Flags().GetBool("allotted")
		result := tracker.ImportSummary(string(data), markAsAllotted)
		fmt.Println(result.Message)
		if result.SwitchToAllotted {
			fmt.Println("💰 Allotments landed! Switching to the allotted view.")
			printAllotted(tracker)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _, tracker, err := setup(cmd)
		if err != nil {
			return err
		}

		filter := cliFilters.toFilterFunc()

		asCSV, _ := cmd.Flags().GetBool("csv")
		if asCSV {
			return export.WriteCSV(os.Stdout, tracker.Accounts(), filter)
		}

		shown := 0
		for _, a := range tracker.Accounts() {
			if !filter(a) {
				continue
			}
			fmt.Println(renderAccountLine(a))
			shown++
		}
		if shown == 0 {
			fmt.Println("No accounts found.")
		}
		return nil
	},
}

var (
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	appliedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	allottedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
)

func renderAccountLine(a *models.Account) string {
	pan := a.PAN
	if pan == "" {
		pan = "-"
	}
	line := fmt.Sprintf("%-25s | %-9s | %s | %-10s | %s", a.Name, a.Broker, a.Phone, pan, a.Status)
	switch a.Status {
	case models.StatusAllotted:
		return allottedStyle.Render("+ " + line)
	case models.StatusApplied:
		return appliedStyle.Render("* " + line)
	default:
		return pendingStyle.Render("  " + line)
	}
}

func printAllotted(tracker *service.Tracker) {
	for _, a := range tracker.Allotted() {
		fmt.Println(renderAccountLine(a))
	}
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the applied-accounts summary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _, tracker, err := setup(cmd)
		if err != nil {
			return err
		}
		text := report.AppliedSummary(tracker.Accounts())
		if text == "" {
			fmt.Println("No accounts have been marked as applied.")
			return nil
		}
		fmt.Println(text)
		return nil
	},
}

var financialsCmd = &cobra.Command{
	Use:   "financials",
	Short: "Print the per-account financial report for allotted accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _, tracker, err := setup(cmd)
		if err != nil {
			return err
		}

		if investment, _ := cmd.Flags().GetString("investment"); investment != "" {
			tracker.SetTotalInvestment(investment)
		}

		text := report.FinancialReport(tracker.Allotted(), tracker.TotalInvestment())
		if text == "" {
			fmt.Println("No allotted accounts to copy.")
			return nil
		}
		fmt.Println(text)

		perAccount, realized := tracker.Totals()
		fmt.Printf("\nCost per application: %srs | Realized profit: %srs\n",
			report.FormatINR(perAccount.Round(0)), report.FormatINR(realized.Round(0)))
		return nil
	},
}

var registrarCmd = &cobra.Command{
	Use:   "registrar <ipo name>",
	Short: "Look up which registrar handles an IPO's allotment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, _, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		client, err := registrar.New(ctx, cfg.Model)
		if err != nil {
			return err
		}

		info, err := client.Find(ctx, strings.Join(args, " "))
		if errors.Is(err, registrar.ErrNotFound) {
			fmt.Println("Registrar not found for this IPO.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not reach the registrar lookup service, please try again later: %w", err)
		}

		fmt.Printf("Registrar: %s\nAllotment status: %s\n", info.RegistrarName, info.AllotmentURL)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Mark all accounts as pending and clear financial tracking",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _, tracker, err := setup(cmd)
		if err != nil {
			return err
		}
		tracker.ResetAll()
		fmt.Println("All accounts have been reset.")
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracker over a JSON HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, tracker, err := setup(cmd)
		if err != nil {
			return err
		}
		logger.Info("starting server", "addr", cfg.Addr)
		return server.New(cfg, logger, tracker).Start(cfg.Addr)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Verbose logging and candidate dumps")
	rootCmd.PersistentFlags().String("data-file", "", "Path of the account store")
	rootCmd.PersistentFlags().String("model", "", "Gemini model for registrar lookups")

	addCmd.Flags().String("name", "", "Display name")
	addCmd.Flags().String("broker", "", "Broker (upstox, zerodha, groww, angle one)")
	addCmd.Flags().String("phone", "", "10-digit phone number")
	addCmd.Flags().String("pan", "", "PAN")
	addCmd.Flags().String("email", "", "Email address")
	addCmd.Flags().String("login", "", "Login ID")
	addCmd.Flags().String("pin", "", "PIN")
	addCmd.Flags().String("tpin", "", "TPIN")
	addCmd.Flags().String("year", "", "Year of birth")
	addCmd.Flags().String("notes", "", "Free-form notes")

	editCmd.Flags().String("name", "", "Display name")
	editCmd.Flags().String("broker", "", "Broker (upstox, zerodha, groww, angle one)")
	editCmd.Flags().String("phone", "", "10-digit phone number")
	editCmd.Flags().String("pan", "", "PAN")
	editCmd.Flags().String("email", "", "Email address")
	editCmd.Flags().String("login", "", "Login ID")
	editCmd.Flags().String("pin", "", "PIN")
	editCmd.Flags().String("tpin", "", "TPIN")
	editCmd.Flags().String("year", "", "Year of birth")
	editCmd.Flags().String("notes", "", "Free-form notes")
	editCmd.Flags().Bool("sold", false, "Whether the allotted shares were sold")
	editCmd.Flags().Bool("withdrawn", false, "Whether the proceeds reached the bank")
	editCmd.Flags().String("sold-value", "", "Sale proceeds")

	pasteCmd.Flags().Bool("allotted", false, "Promote matched PANs to allotted instead of applied")

	listCmd.Flags().Bool("csv", false, "Emit CSV instead of the styled listing")
	listCmd.Flags().StringVar(&cliFilters.status, "status", "", "Filter by status (pending, applied, allotted)")
	listCmd.Flags().StringVar(&cliFilters.broker, "broker", "", "Filter by broker")
	listCmd.Flags().StringVar(&cliFilters.term, "q", "", "Search over name, PAN and phone")

	financialsCmd.Flags().String("investment", "", "Total batch investment (stored for later runs)")

	serveCmd.Flags().String("addr", "", "Listen address")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(pasteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(financialsCmd)
	rootCmd.AddCommand(registrarCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	// Pick up GEMINI_API_KEY and friends from a local .env when present.
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
