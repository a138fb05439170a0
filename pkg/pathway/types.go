package pathway

import "github.com/getkin/kin-openapi/openapi3"

// FieldType is the closed set of widget kinds a pathway form can declare.
// Consumers dispatch exhaustively on it (population, formatting, prompting)
// instead of inspecting runtime types.
type FieldType string

const (
	FieldText       FieldType = "text"
	FieldTextarea   FieldType = "textarea"
	FieldDate       FieldType = "date"
	FieldDropdown   FieldType = "dropdown"
	FieldCheckbox   FieldType = "checkbox"
	FieldNumber     FieldType = "number"
	FieldCurrency   FieldType = "currency"
	FieldPercentage FieldType = "percentage"
)

// MaxDocumentSize is the hard ceiling for any document requirement,
// enforced at config-validation time.
const MaxDocumentSize = 20 * 1024 * 1024

// Config is the immutable, validated description of one legal pathway:
// which documents it requires, which form sections it asks, how template
// fields map to answer paths, and what gates submission. Loaded wholesale
// from a versioned JSON/YAML payload; partial updates are not supported.
type Config struct {
	ID            string
	Title         string
	Description   string
	EstimatedTime string

	// Steps orders the wizard step ids. Must be non-empty.
	Steps []string

	DocumentRequirements []DocumentRequirement
	FormSections         []FormSection

	// FieldMappings maps PDF template field names to dotted answer paths.
	// Used only during PDF assembly.
	FieldMappings map[string]string

	Templates Templates

	ConfirmationRequirements []ConfirmationRequirement
	DescriptionRequirements  *DescriptionRequirements
	VerificationSteps        []string
	SubmissionText           SubmissionText
}

// Templates names the document templates an assembly run compiles.
type Templates struct {
	// MainForm is the template id of the fillable PDF court form.
	MainForm string

	// RequiresFinancialDisclosure switches the DOCX mail-merge step on.
	RequiresFinancialDisclosure bool

	// FinancialDisclosure is the DOCX template id, required when the flag is
	// set.
	FinancialDisclosure string
}

// DocumentRequirement describes one supporting document a pathway expects.
type DocumentRequirement struct {
	ID              string
	Title           string
	Description     string
	AcceptedFormats []string
	MaxSize         int64
	MinPages        int
	Optional        bool

	// FileNameKeywords feed the clearly-labelled best-effort filename
	// fallback used when extraction reports no document type.
	FileNameKeywords []string
}

// FormSection groups related fields on one wizard step.
type FormSection struct {
	ID          string
	Title       string
	Description string
	Fields      []Field
}

// Field is a single question. Its ID is the dotted answer path the value
// lives at ("marriageInfo.date").
type Field struct {
	ID       string
	Label    string
	Type     FieldType
	Required bool
	Options  []Option

	// VisibleWhen is an optional condition rule evaluated against the merged
	// answers; an empty rule means always visible.
	VisibleWhen string

	// Constraints optionally carries a JSON-schema fragment (pattern,
	// length/number bounds, enum) checked at submission time.
	Constraints *openapi3.Schema
}

// Option is one dropdown choice.
type Option struct {
	Value string
	Label string
}

// ConfirmationRequirement is a checkbox the user must tick before
// submission. Its answer lives at "confirmations.{id}".
type ConfirmationRequirement struct {
	ID          string
	Label       string
	Description string
}

// DescriptionRequirements bounds the free-text case description.
type DescriptionRequirements struct {
	// Path is the answer path of the description value; defaults to
	// "description" when omitted in config.
	Path      string
	MinChars  int
	CharLimit int
	Optional  bool
	Guidance  string
}

// SubmissionText carries the submit-button copy for the UI layer.
type SubmissionText struct {
	Default    string
	Processing string
}

// Requirement returns the document requirement with the given id.
func (c Config) Requirement(id string) (DocumentRequirement, bool) {
	for _, requirement := range c.DocumentRequirements {
		if requirement.ID == id {
			return requirement, true
		}
	}
	return DocumentRequirement{}, false
}

// FieldByPath returns the field whose id equals the given answer path,
// searching every section. Used by assembly to pick the widget kind for a
// mapped value.
func (c Config) FieldByPath(path string) (Field, FormSection, bool) {
	for _, section := range c.FormSections {
		for _, field := range section.Fields {
			if field.ID == path {
				return field, section, true
			}
		}
	}
	return Field{}, FormSection{}, false
}

// HasOption reports whether value matches one of the field's declared
// dropdown options.
func (f Field) HasOption(value string) bool {
	for _, option := range f.Options {
		if option.Value == value {
			return true
		}
	}
	return false
}
