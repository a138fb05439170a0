package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/goliatone/go-intake/pkg/document"
)

// Analyzer is the external document-analysis collaborator. Implementations
// must treat low extraction confidence as advisory (a low-confidence result
// is still a successful result) and may fail only for unreadable or corrupt
// input.
type Analyzer interface {
	Analyze(ctx context.Context, upload document.Upload) (document.ExtractionResult, error)
}

// AnalyzerFunc adapts a function into an Analyzer.
type AnalyzerFunc func(ctx context.Context, upload document.Upload) (document.ExtractionResult, error)

// Analyze delegates to the underlying function.
func (fn AnalyzerFunc) Analyze(ctx context.Context, upload document.Upload) (document.ExtractionResult, error) {
	return fn(ctx, upload)
}

// WithTimeout bounds an analyzer with a caller-supplied timeout. When the
// deadline passes, the document is treated as having no extraction output
// so the user falls back to manual entry. It is not an analysis failure.
func WithTimeout(analyzer Analyzer, timeout time.Duration) Analyzer {
	if timeout <= 0 {
		return analyzer
	}
	return AnalyzerFunc(func(ctx context.Context, upload document.Upload) (document.ExtractionResult, error) {
		bounded, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		result, err := analyzer.Analyze(bounded, upload)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return document.ExtractionResult{}, nil
		}
		return document.ExtractionResult{}, eris.Wrapf(err, "analysis: analyze %s", upload.Name)
	})
}
