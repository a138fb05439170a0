package assembly

import "fmt"

// Step identifies which pipeline stage a fatal assembly error came from.
// Only three stages abort a run: template acquisition, supporting-document
// watermarking, and the financial disclosure. Per-field resolution or
// formatting problems are contained and never surface as an Error.
type Step string

const (
	StepTemplate   Step = "template"
	StepMainForm   Step = "main-form"
	StepWatermark  Step = "watermark"
	StepDisclosure Step = "financial-disclosure"
	StepPreview    Step = "preview"
)

// Error is the typed, pipeline-level assembly failure. When it is returned
// no artifacts are: assembly is all-or-nothing at the run level, best-effort
// at the individual-field level.
type Error struct {
	Step Step
	Doc  string
	Err  error
}

func (e *Error) Error() string {
	if e.Doc != "" {
		return fmt.Sprintf("assembly: %s failed for %q: %v", e.Step, e.Doc, e.Err)
	}
	return fmt.Sprintf("assembly: %s failed: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func stepError(step Step, doc string, err error) *Error {
	return &Error{Step: step, Doc: doc, Err: err}
}
