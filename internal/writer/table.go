package writer

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

// TableWriter renders transactions as a terminal table with a total footer.
type TableWriter struct{}

func (TableWriter) Write(out io.Writer, txns []models.Transaction) error {
	t := table.NewWriter()
	t.SetOutputMirror(out)

	header := table.Row{}
	for _, c := range columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for _, txn := range txns {
		t.AppendRow(table.Row{txn.Date, txn.Description, txn.Amount, txn.Type})
	}

	t.AppendFooter(table.Row{"", "Total", TotalAmount(txns).StringFixed(2), ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// WriteExpensesTable renders stored expenses with a total footer.
func WriteExpensesTable(out io.Writer, expenses []models.Expense) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Date", "Description", "Amount"})

	total := decimal.Zero
	for _, e := range expenses {
		t.AppendRow(table.Row{e.ID, e.Date, e.Description, e.Amount.StringFixed(2)})
		total = total.Add(e.Amount)
	}

	t.AppendFooter(table.Row{"", "", "Total", total.StringFixed(2)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// WriteDebugTable renders a per-line extraction trace.
func WriteDebugTable(out io.Writer, lines []models.DebugLine) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Kind", "Result", "Text"})
	for _, l := range lines {
		t.AppendRow(table.Row{l.LineNum, l.Kind, l.Result, l.Text})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
