package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-expenses/internal/api"
	"github.com/insightdelivered/statement-expenses/internal/extractor"
	"github.com/insightdelivered/statement-expenses/internal/parser"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Bool("flush-untyped", false, "emit a trailing transaction that never saw DR/CR as a debit")
	cmd.Flags().Bool("pdftotext", true, "fall back to the pdftotext command for hard PDFs")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	svc, closeStore, err := openService(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	pdfSource := extractor.NewPDFExtractor(logger)
	pdfSource.UsePdftotext = cfg.Extract.Pdftotext
	pdfSource.Timeout = cfg.Extract.Timeout

	popts := parser.Options{FlushUntyped: cfg.Parser.FlushUntyped}
	app := api.NewApp(&api.Handler{
		PDF:      parser.New(pdfSource, popts, logger),
		Text:     parser.New(extractor.PlainText{}, popts, logger),
		Expenses: svc,
		Logger:   logger,
	}, cfg.Server.MaxUploadMB)

	errc := make(chan error, 1)
	go func() {
		errc <- app.Listen(cfg.Server.Addr)
	}()
	logger.Info("server listening", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver)

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sc)

	select {
	case err := <-errc:
		return err
	case sig := <-sc:
		logger.Info("shutting down", "signal", sig.String())
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
