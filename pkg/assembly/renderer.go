package assembly

import (
	"context"

	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/pathway"
)

// Job carries everything a renderer may need for one document. Renderers
// pick the parts they consume: the PDF form renderer reads Template and
// Values, the DOCX merge and HTML preview read Flat.
type Job struct {
	Pathway pathway.Config

	// Template holds the raw template bytes loaded through the cache; nil
	// for renderers that carry their own embedded layout.
	Template []byte

	// Values are the prepared (resolved, formatted, sanitised) values keyed
	// by PDF template field name.
	Values map[string]PreparedValue

	// Flat is the flattened answer model keyed by dotted path.
	Flat map[string]any

	Answers answers.Model
	Uploads []document.Upload

	// Warn reports a recoverable per-field problem (unmatched dropdown
	// option, malformed value). The field is left blank and rendering
	// continues; a single bad mapping must not prevent filing the rest of a
	// legal document.
	Warn func(field, reason string)
}

// ReportWarning invokes the warning hook when one is set.
func (j Job) ReportWarning(field, reason string) {
	if j.Warn != nil {
		j.Warn(field, reason)
	}
}

// FormRenderer converts a Job into one document artifact's bytes.
type FormRenderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, job Job) ([]byte, error)
}
