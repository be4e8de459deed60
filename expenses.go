package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-expenses/internal/store"
	"github.com/insightdelivered/statement-expenses/internal/writer"
)

func newExpensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Manage confirmed expenses",
	}
	cmd.AddCommand(newExpensesListCmd(), newExpensesAddCmd(), newExpensesDeleteCmd())
	return cmd
}

func newExpensesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			svc, closeStore, err := openService(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			expenses, err := svc.List()
			if err != nil {
				return err
			}
			writer.WriteExpensesTable(cmd.OutOrStdout(), expenses)
			return nil
		},
	}
}

func newExpensesAddCmd() *cobra.Command {
	var in store.NewExpense

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store one expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			svc, closeStore, err := openService(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			added, err := svc.Add(in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), added[0].ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Date, "date", "", "date as DD-MM-YYYY")
	f.StringVar(&in.Description, "description", "", "what the money was spent on")
	f.StringVar(&in.Amount, "amount", "", "amount, e.g. 45.50")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newExpensesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			svc, closeStore, err := openService(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.Delete(args[0]); err != nil {
				return err
			}
			logger.Info("deleted expense", "id", args[0])
			return nil
		},
	}
}
