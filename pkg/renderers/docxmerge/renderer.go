// Package docxmerge produces the financial disclosure by replacing
// placeholders in a DOCX template with merged answer values.
package docxmerge

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/lukasjarosch/go-docx"

	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/assembly"
	"github.com/goliatone/go-intake/pkg/document"
)

// Renderer performs a mail merge over a DOCX template. Placeholders are
// dotted answer paths in braces, "{marriageInfo.date}".
type Renderer struct{}

// New creates a DOCX merge renderer.
func New() *Renderer { return &Renderer{} }

// Name implements assembly.FormRenderer.
func (r *Renderer) Name() string { return assembly.RendererDOCXMerge }

// ContentType implements assembly.FormRenderer.
func (r *Renderer) ContentType() string { return document.MimeDOCX }

// Render replaces every flattened answer path that appears as a placeholder
// in the template. Paths the template does not reference are ignored, and
// placeholders with no answer stay in place for the clerk to spot.
func (r *Renderer) Render(ctx context.Context, job assembly.Job) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(job.Template) == 0 {
		return nil, fmt.Errorf("docxmerge: template is required")
	}

	doc, err := docx.OpenBytes(job.Template)
	if err != nil {
		return nil, fmt.Errorf("docxmerge: opening template: %w", err)
	}

	for path, value := range job.Flat {
		text := assembly.SanitizeText(answers.CoerceString(value))
		if err := doc.Replace(path, text); err != nil {
			if errors.Is(err, docx.ErrPlaceholderNotFound) {
				continue
			}
			// A placeholder the library cannot substitute is that field's
			// problem alone; the rest of the disclosure still merges.
			job.ReportWarning(path, err.Error())
		}
	}

	var out bytes.Buffer
	if err := doc.Write(&out); err != nil {
		return nil, fmt.Errorf("docxmerge: writing document: %w", err)
	}
	return out.Bytes(), nil
}
