package document

import "time"

// Mime types the assembly pipeline understands.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeHTML = "text/html"
)

// GenericType is the fallback document type used when neither extraction nor
// filename heuristics can match an upload to a requirement.
const GenericType = "generic-document"

// Verification carries the external verification signal for an upload. The
// engine never computes verification locally; it arrives on the upload and is
// only read here.
type Verification string

const (
	VerificationNone     Verification = ""
	VerificationVerified Verification = "verified"
	VerificationRejected Verification = "rejected"
)

// Upload is a user-supplied supporting document. Once analysis has been
// attached the value is treated as immutable; replacing a document means a
// new Upload.
type Upload struct {
	// Type matches a DocumentRequirement id, or GenericType when the upload
	// could not be classified.
	Type         string
	Name         string
	Content      []byte
	Size         int64
	MimeType     string
	UploadedAt   time.Time
	Verification Verification

	// Pages is the page count when the intake layer could determine it, zero
	// when unknown. Zero skips the minimum-page compliance check.
	Pages int

	// Analysis is the extraction output attached by the document-analysis
	// collaborator, nil when analysis has not run or timed out.
	Analysis *ExtractionResult
}

// ExtractionResult is the flat output of the external OCR/text-extraction
// collaborator. Confidence is advisory, never a gate.
type ExtractionResult struct {
	// Confidence is in [0,1].
	Confidence float64

	// DocumentType is the collaborator's best guess at the requirement id
	// this document satisfies, empty when unknown.
	DocumentType string

	// FormFields maps dotted answer paths to pre-resolved values, ready for
	// the answer merge.
	FormFields map[string]any
}

// Generated is one court-ready artifact produced by an assembly run.
// Artifacts are immutable; a new assembly run produces wholly new ones.
type Generated struct {
	Name       string
	Content    []byte
	MimeType   string
	PreviewURL string
	Size       int64
	CreatedAt  time.Time
}
