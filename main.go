package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-expenses/internal/buildinfo"
	"github.com/insightdelivered/statement-expenses/internal/config"
	"github.com/insightdelivered/statement-expenses/internal/logging"
	"github.com/insightdelivered/statement-expenses/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "statement-expenses",
		Short: "Extract debit transactions from bank statements",
		Long: `Reads bank statement PDFs (or their extracted text), finds every debit
(DR) transaction, and keeps the ones you confirm as expenses.

Examples:
  # Print the debits of a statement
  statement-expenses extract statement.pdf

  # Write them to a spreadsheet
  statement-expenses extract --output debits.xlsx jan.pdf feb.pdf

  # Run the HTTP API
  statement-expenses serve --addr :9000`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default ./config.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("storage", "csv", "expense store: csv or sqlite")
	pf.String("storage-path", "expenses.csv", "expense store location")

	rootCmd.AddCommand(newExtractCmd(), newServeCmd(), newExpensesCmd())
	return rootCmd
}

// setup loads configuration for cmd and builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.Log.Level), nil
}

// openService opens the configured expense store. The returned func releases
// it.
func openService(cfg *config.Config, logger *log.Logger) (*store.Service, func(), error) {
	st, err := store.Open(cfg.Storage.Driver, cfg.Storage.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening expense store: %w", err)
	}
	closeFn := func() {}
	if c, ok := st.(io.Closer); ok {
		closeFn = func() {
			if err := c.Close(); err != nil {
				logger.Warn("closing expense store", "error", err)
			}
		}
	}
	return store.NewService(st, logger), closeFn, nil
}
