package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

const statementText = "01-02-2023 GROCERY STORE\n45.50\nDR\n02-02-2023 SALARY\n1000.00\nCR\n03-02-2023 SHOP B\nLONDON\n20.00\nDR\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func writeStatement(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "statement.txt")
	require.NoError(t, os.WriteFile(path, []byte(statementText), 0o644))
	return path
}

func TestExtractCommandJSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeStatement(t, dir)

	out, err := run(t, "extract", "--format", "json", input)
	require.NoError(t, err)

	var got []models.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "GROCERY STORE", got[0].Description)
	assert.Equal(t, "SHOP B LONDON", got[1].Description)
	assert.Equal(t, "20.00", got[1].Amount)
}

func TestExtractCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeStatement(t, dir)
	output := filepath.Join(dir, "debits.csv")

	_, err := run(t, "extract", "--output", output, input)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,Description,Amount,Type\n"))
	assert.Contains(t, string(data), "03-02-2023,SHOP B LONDON,20.00,DR")
}

func TestExtractCommandRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "statement.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := run(t, "extract", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".docx")
}

func TestExtractCommandXLSXNeedsOutput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeStatement(t, dir)

	_, err := run(t, "extract", "--format", "xlsx", input)
	require.Error(t, err)
}

func TestExtractSaveAndExpensesCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeStatement(t, dir)
	storePath := filepath.Join(dir, "expenses.csv")

	_, err := run(t, "extract", "--save", "--storage-path", storePath, input)
	require.NoError(t, err)

	out, err := run(t, "expenses", "add", "--storage-path", storePath,
		"--date", "04-02-2023", "--description", "CAFE", "--amount", "3.25")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = run(t, "expenses", "list", "--storage-path", storePath)
	require.NoError(t, err)
	assert.Contains(t, out, "GROCERY STORE")
	assert.Contains(t, out, "CAFE")
	assert.Contains(t, out, "68.75")

	_, err = run(t, "expenses", "delete", "--storage-path", storePath, id)
	require.NoError(t, err)

	out, err = run(t, "expenses", "list", "--storage-path", storePath)
	require.NoError(t, err)
	assert.NotContains(t, out, "CAFE")
	assert.Contains(t, out, "65.50")

	_, err = run(t, "expenses", "delete", "--storage-path", storePath, id)
	require.Error(t, err)
}

func TestExpensesAddValidation(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := run(t, "expenses", "add", "--date", "2023-02-04", "--description", "CAFE", "--amount", "1")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "expenses.csv"))
	assert.True(t, os.IsNotExist(statErr))
}
