package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-expenses/internal/buildinfo"
	"github.com/insightdelivered/statement-expenses/internal/extractor"
	"github.com/insightdelivered/statement-expenses/internal/models"
	"github.com/insightdelivered/statement-expenses/internal/parser"
	"github.com/insightdelivered/statement-expenses/internal/store"
	"github.com/insightdelivered/statement-expenses/internal/writer"
)

// ExtractResponse is the JSON response from the /api/extract endpoint.
type ExtractResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
	TotalDebit   string               `json:"totalDebit"`
	CSV          string               `json:"csv,omitempty"`
	RawText      string               `json:"rawText,omitempty"`
	DebugLines   []models.DebugLine   `json:"debugLines,omitempty"`
}

// ExpensesResponse is the JSON response from the /api/expenses endpoints.
type ExpensesResponse struct {
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Expenses []models.Expense `json:"expenses"`
	Count    int              `json:"count"`
	Total    string           `json:"total"`
}

// addExpensesRequest accepts either one expense or a batch of confirmed
// transactions.
type addExpensesRequest struct {
	store.NewExpense
	Transactions []models.Transaction `json:"transactions"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	PDF      *parser.Extractor // reads uploaded PDFs
	Text     *parser.Extractor // reads uploaded .txt files and pasted text
	Expenses *store.Service
	Logger   *log.Logger
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Post("/extract", h.HandleExtract)
	api.Get("/expenses", h.HandleListExpenses)
	api.Post("/expenses", h.HandleAddExpenses)
	api.Delete("/expenses/:id", h.HandleDeleteExpense)
}

// HandleHealth reports liveness and the build version.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// HandleExtract accepts a statement as multipart field "file" (PDF or .txt)
// or as pre-extracted text in field "text", and returns its debits.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	debug := c.FormValue("debug") == "true"

	var (
		res *parser.Result
		err error
	)
	if text := c.FormValue("text"); text != "" {
		res, err = h.Text.ExtractDebug(c.UserContext(), []byte(text))
	} else {
		header, ferr := c.FormFile("file")
		if ferr != nil {
			return writeError(c, fiber.StatusBadRequest, "No statement uploaded. Use form field 'file' or 'text'.")
		}

		source := h.PDF
		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".pdf":
		case ".txt":
			source = h.Text
		default:
			return writeError(c, fiber.StatusBadRequest, "Only PDF and TXT files are supported.")
		}

		document, rerr := readUpload(header)
		if rerr != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
		}
		res, err = source.ExtractDebug(c.UserContext(), document)
	}

	if err != nil {
		h.Logger.Warn("extraction failed", "error", err)
		if extractor.IsExtractionError(err) {
			return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: true}
	if err := csvWriter.Write(&csvBuf, res.Transactions); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	resp := ExtractResponse{
		Success:      true,
		Transactions: res.Transactions,
		Count:        len(res.Transactions),
		TotalDebit:   writer.TotalAmount(res.Transactions).StringFixed(2),
		CSV:          csvBuf.String(),
	}
	if debug {
		resp.RawText = res.Text
		resp.DebugLines = res.DebugLines
	}

	h.Logger.Info("extracted statement", "count", resp.Count, "total", resp.TotalDebit)
	return c.JSON(resp)
}

// HandleListExpenses returns every stored expense.
func (h *Handler) HandleListExpenses(c *fiber.Ctx) error {
	expenses, err := h.Expenses.List()
	if err != nil {
		h.Logger.Error("listing expenses", "error", err)
		return writeExpensesError(c, fiber.StatusInternalServerError, "Failed to load expenses.")
	}
	return c.JSON(expensesResponse(expenses))
}

// HandleAddExpenses stores one expense or a batch of confirmed transactions.
func (h *Handler) HandleAddExpenses(c *fiber.Ctx) error {
	var req addExpensesRequest
	if err := c.BodyParser(&req); err != nil {
		return writeExpensesError(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	inputs := []store.NewExpense{req.NewExpense}
	if len(req.Transactions) > 0 {
		inputs = inputs[:0]
		for _, t := range req.Transactions {
			inputs = append(inputs, store.FromTransaction(t))
		}
	}

	added, err := h.Expenses.Add(inputs...)
	if err != nil {
		var ve *store.ValidationError
		if errors.As(err, &ve) {
			return writeExpensesError(c, fiber.StatusBadRequest, err.Error())
		}
		h.Logger.Error("adding expenses", "error", err)
		return writeExpensesError(c, fiber.StatusInternalServerError, "Failed to save expenses.")
	}

	return c.Status(fiber.StatusCreated).JSON(expensesResponse(added))
}

// HandleDeleteExpense removes one expense by ID.
func (h *Handler) HandleDeleteExpense(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Expenses.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return writeExpensesError(c, fiber.StatusNotFound, err.Error())
		}
		h.Logger.Error("deleting expense", "id", id, "error", err)
		return writeExpensesError(c, fiber.StatusInternalServerError, "Failed to delete expense.")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func expensesResponse(expenses []models.Expense) ExpensesResponse {
	return ExpensesResponse{
		Success:  true,
		Expenses: expenses,
		Count:    len(expenses),
		Total:    store.Total(expenses).StringFixed(2),
	}
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
		TotalDebit:   "0.00",
	})
}

func writeExpensesError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExpensesResponse{
		Success:  false,
		Error:    msg,
		Expenses: []models.Expense{},
		Total:    "0.00",
	})
}
