package extractor

import (
	"context"
	"unicode/utf8"
)

// PlainText is a TextSource for documents that are already text, such as
// pdftotext output saved to a .txt file or text pasted into the web form.
type PlainText struct{}

// ExtractText returns document as a string. It fails only for input that is
// not UTF-8.
func (PlainText) ExtractText(_ context.Context, document []byte) (string, error) {
	if !utf8.Valid(document) {
		return "", &ExtractionError{Op: "decode", Err: ErrNoText}
	}
	return string(document), nil
}
