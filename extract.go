package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-expenses/internal/config"
	"github.com/insightdelivered/statement-expenses/internal/extractor"
	"github.com/insightdelivered/statement-expenses/internal/models"
	"github.com/insightdelivered/statement-expenses/internal/parser"
	"github.com/insightdelivered/statement-expenses/internal/store"
	"github.com/insightdelivered/statement-expenses/internal/writer"
)

type extractOptions struct {
	format string
	output string
	debug  bool
	save   bool
}

func newExtractCmd() *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract <statement.pdf|statement.txt> [more...]",
		Short: "Extract debit transactions from statements",
		Long: `Extracts debit transactions from one or more statements. PDF files go
through text extraction first; .txt files are read as already-extracted text.
Transactions from all inputs are written together in input order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", string(writer.FormatTable),
		"output format: "+strings.Join(formatNames(), ", "))
	f.StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout (format inferred from extension)")
	f.BoolVar(&opts.debug, "debug", false, "print how each line was classified")
	f.BoolVar(&opts.save, "save", false, "store the extracted debits as expenses")
	f.Bool("flush-untyped", false, "emit a trailing transaction that never saw DR/CR as a debit")
	f.Bool("pdftotext", true, "fall back to the pdftotext command for hard PDFs")

	return cmd
}

func formatNames() []string {
	names := make([]string, len(writer.Formats))
	for i, f := range writer.Formats {
		names[i] = string(f)
	}
	return names
}

func runExtract(cmd *cobra.Command, args []string, opts extractOptions) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	format := writer.Format(opts.format)
	if opts.output != "" && !cmd.Flags().Changed("format") {
		format = writer.FormatForPath(opts.output, format)
	}
	w, err := writer.New(format)
	if err != nil {
		return err
	}
	if format == writer.FormatXLSX && opts.output == "" {
		return errors.New("xlsx output needs --output")
	}

	pdfSource := extractor.NewPDFExtractor(logger)
	pdfSource.UsePdftotext = cfg.Extract.Pdftotext
	pdfSource.Timeout = cfg.Extract.Timeout

	popts := parser.Options{FlushUntyped: cfg.Parser.FlushUntyped}
	pdfs := parser.New(pdfSource, popts, logger)
	texts := parser.New(extractor.PlainText{}, popts, logger)

	all := []models.Transaction{}
	for _, path := range args {
		ex := pdfs
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".pdf":
		case ".txt":
			ex = texts
		default:
			return fmt.Errorf("%s: expected .pdf or .txt file, got %q", path, ext)
		}

		document, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		res, err := ex.ExtractDebug(cmd.Context(), document)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		logger.Info("extracted transactions", "file", path, "count", len(res.Transactions))
		if len(res.Transactions) == 0 {
			logger.Warn("no debits found, rerun with --debug to see how lines were read", "file", path)
		}
		if opts.debug {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", path)
			writer.WriteDebugTable(cmd.ErrOrStderr(), res.DebugLines)
		}
		all = append(all, res.Transactions...)
	}

	if opts.save {
		if err := saveDebits(cfg, logger, all); err != nil {
			return err
		}
	}

	if opts.output != "" {
		if err := writer.WriteToFile(w, opts.output, all); err != nil {
			return err
		}
		logger.Info("wrote output", "path", opts.output, "format", format, "count", len(all))
		return nil
	}
	return w.Write(cmd.OutOrStdout(), all)
}

// saveDebits stores every transaction that carries an amount. Transactions
// without one cannot be confirmed and are skipped.
func saveDebits(cfg *config.Config, logger *log.Logger, txns []models.Transaction) error {
	svc, closeStore, err := openService(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var inputs []store.NewExpense
	for _, t := range txns {
		if t.Amount == "" {
			logger.Warn("skipping transaction without amount", "date", t.Date, "description", t.Description)
			continue
		}
		inputs = append(inputs, store.FromTransaction(t))
	}
	if len(inputs) == 0 {
		return nil
	}

	added, err := svc.Add(inputs...)
	if err != nil {
		return fmt.Errorf("saving expenses: %w", err)
	}
	logger.Info("saved expenses", "count", len(added), "store", cfg.Storage.Path)
	return nil
}
