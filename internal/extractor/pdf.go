package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/ledongthuc/pdf"
)

// PDFExtractor recovers the text layer of a PDF statement.
//
// It reads the document with the ledongthuc/pdf library and, when that
// fails or yields unreadable text, falls back to the external pdftotext
// command (poppler-utils) if enabled.
type PDFExtractor struct {
	// UsePdftotext enables the pdftotext fallback.
	UsePdftotext bool
	// Timeout bounds the pdftotext process. Zero means no limit beyond ctx.
	Timeout time.Duration
	Logger  *log.Logger
}

// NewPDFExtractor returns a PDFExtractor with the pdftotext fallback enabled.
func NewPDFExtractor(logger *log.Logger) *PDFExtractor {
	if logger == nil {
		logger = log.Default()
	}
	return &PDFExtractor{UsePdftotext: true, Timeout: 30 * time.Second, Logger: logger}
}

// ExtractText returns the text of every page joined by newlines.
func (x *PDFExtractor) ExtractText(ctx context.Context, document []byte) (string, error) {
	pages, err := x.ExtractPages(ctx, document)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}

// ExtractPages returns the text content of each page.
func (x *PDFExtractor) ExtractPages(ctx context.Context, document []byte) ([]string, error) {
	if len(document) == 0 {
		return nil, &ExtractionError{Op: "open", Err: ErrNoText}
	}

	pages, libErr := extractWithLibrary(document)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}
	if libErr != nil {
		x.logger().Debug("pdf library extraction failed", "error", libErr)
	}

	if x.UsePdftotext {
		popplerPages, popplerErr := x.extractWithPdftotext(ctx, document)
		if popplerErr == nil && isReadableText(popplerPages) {
			return popplerPages, nil
		}
		if popplerErr != nil {
			x.logger().Debug("pdftotext extraction failed", "error", popplerErr)
		}
	}

	// Never return garbage text
	if libErr != nil {
		return nil, &ExtractionError{Op: "open", Err: libErr}
	}
	return nil, &ExtractionError{Op: "decode", Err: ErrNoText}
}

func (x *PDFExtractor) logger() *log.Logger {
	if x.Logger == nil {
		return log.Default()
	}
	return x.Logger
}

// extractWithLibrary reads the document with ledongthuc/pdf, trying
// row-based extraction first and coordinate-based reconstruction second.
func extractWithLibrary(document []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return nil, err
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, ErrNoPages
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	if plain := extractByReaderPlainText(r); isReadableText([]string{plain}) {
		return []string{plain}, nil
	}

	return pages, nil
}

// extractByRow uses GetTextByRow, which keeps the line layout of
// well-structured PDFs.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent groups text pieces by Y coordinate to rebuild rows,
// then orders each row by X.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type textItem struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		// PDF Y grows bottom-to-top
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					parts = append(parts, " ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			if line := strings.TrimSpace(strings.Join(parts, "")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext runs "pdftotext -layout" on a temporary copy of the
// document.
func (x *PDFExtractor) extractWithPdftotext(ctx context.Context, document []byte) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(document); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	if x.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.Timeout)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, "pdftotext", "-layout", tmp.Name(), "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	// pdftotext separates pages with form feeds
	var pages []string
	for _, page := range strings.Split(string(out), "\f") {
		if page = strings.TrimSpace(page); page != "" {
			pages = append(pages, page)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

// textQuality returns the share of runes that are printable ASCII, whitespace
// or currency signs. Garbage from identity-encoded fonts scores low.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			switch {
			case r < unicode.MaxASCII && (unicode.IsPrint(r) || unicode.IsSpace(r)):
				readable++
			case r == '£' || r == '€' || r == '\u00A0':
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// isReadableText requires some text and more than 60% readable characters.
func isReadableText(pages []string) bool {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	if n == 0 {
		return false
	}
	return textQuality(pages) > 0.6
}
