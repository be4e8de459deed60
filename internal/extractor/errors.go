package extractor

import "errors"

var (
	// ErrNoPages indicates a PDF that opened but holds no pages.
	ErrNoPages = errors.New("document has no pages")
	// ErrNoText indicates no readable text could be recovered. The document
	// may be scanned, encrypted or use fonts that cannot be decoded.
	ErrNoText = errors.New("no readable text in document")
)

// ExtractionError reports that a document could not be turned into text.
type ExtractionError struct {
	Op  string // step that failed, e.g. "open", "pdftotext"
	Err error
}

func (e *ExtractionError) Error() string {
	return "text extraction failed: " + e.Op + ": " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsExtractionError reports whether err is or wraps an *ExtractionError.
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
