package port

import (
	"context"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
)

// RecognizeInput carries the scan bytes for document recognition.
type RecognizeInput struct {
	FileBytes   []byte
	ContentType string
}

// DocumentRecognizer abstracts the OCR/extraction engine that turns a scanned
// delivery note into structured shipping documents.
type DocumentRecognizer interface {
	Recognize(ctx context.Context, input RecognizeInput) (domain.RecognizedData, error)
}
