package analysis

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/pathway"
)

// KeywordAnalyzer is a deterministic stand-in for the real OCR service.
// It classifies uploads by filename keywords and pre-fills a small set of
// answer paths per recognised document type. Used by examples and tests;
// production wires a real collaborator behind the Analyzer interface.
type KeywordAnalyzer struct {
	Requirements []pathway.DocumentRequirement

	// Fields maps a document type to the answer paths it pre-fills.
	Fields map[string]map[string]any

	// Confidence is reported on every successful extraction; defaults to
	// 0.5 when zero. Confidence is advisory, never a gate.
	Confidence float64
}

// Analyze classifies the upload and returns its canned form fields. It
// fails only when the upload carries no content to inspect.
func (a *KeywordAnalyzer) Analyze(ctx context.Context, upload document.Upload) (document.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return document.ExtractionResult{}, err
	}
	if len(upload.Content) == 0 && strings.TrimSpace(upload.Name) == "" {
		return document.ExtractionResult{}, eris.New("analysis: upload has no content or name")
	}

	docType := document.DetectType(upload.Name, a.Requirements)

	confidence := a.Confidence
	if confidence == 0 {
		confidence = 0.5
	}
	if docType == document.GenericType {
		// Still a successful extraction; the caller decides what a weak
		// classification is worth.
		confidence = confidence / 2
	}

	fields := make(map[string]any, len(a.Fields[docType]))
	for path, value := range a.Fields[docType] {
		fields[path] = value
	}

	return document.ExtractionResult{
		Confidence:   confidence,
		DocumentType: docType,
		FormFields:   fields,
	}, nil
}
