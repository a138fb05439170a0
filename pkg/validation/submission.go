// Package validation checks a wizard submission against its pathway before
// documents are assembled. Every rule runs; problems accumulate rather than
// short-circuiting, so the filer sees the complete list at once.
package validation

import (
	"fmt"

	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/condition"
	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/pathway"
)

// Result is the outcome of validating one submission. Errors block
// submission; warnings are surfaced but never block.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate runs every submission rule for the pathway: required visible
// fields, per-field constraint schemas, dropdown option membership,
// document requirements, upload compliance, confirmations, and the case
// description bounds.
func Validate(cfg pathway.Config, model answers.Model, uploads []document.Upload) Result {
	result := Result{}

	validateFields(cfg, model, &result)
	validateDocuments(cfg, uploads, &result)
	validateConfirmations(cfg, model, &result)
	validateDescription(cfg, model, &result)

	result.Valid = len(result.Errors) == 0
	return result
}

func validateFields(cfg pathway.Config, model answers.Model, result *Result) {
	for _, section := range cfg.FormSections {
		for _, field := range section.Fields {
			if !condition.Visible(field.VisibleWhen, model) {
				continue
			}
			label := fmt.Sprintf("%s (%s)", field.Label, section.Title)

			value, ok := answers.Resolve(model, field.ID)
			if !ok || answers.IsEmpty(value) {
				if field.Required {
					result.addError("%s is required", label)
				}
				continue
			}

			if field.Type == pathway.FieldDropdown && !field.HasOption(answers.CoerceString(value)) {
				result.addError("%s has an invalid selection", label)
				continue
			}

			if field.Constraints != nil {
				if err := field.Constraints.VisitJSON(constraintValue(field.Type, value)); err != nil {
					result.addError("%s: %v", label, err)
				}
			}
		}
	}
}

// constraintValue normalises an answer into the JSON value shape the
// field's schema expects. Numeric widgets hold numbers even when the UI
// delivered a string.
func constraintValue(kind pathway.FieldType, value any) any {
	switch kind {
	case pathway.FieldNumber, pathway.FieldCurrency, pathway.FieldPercentage:
		if number, ok := answers.CoerceNumber(value); ok {
			return number
		}
		return value
	case pathway.FieldCheckbox:
		return answers.Truthy(value)
	default:
		return answers.CoerceString(value)
	}
}

func validateDocuments(cfg pathway.Config, uploads []document.Upload, result *Result) {
	statuses := document.ComputeStatus(cfg.DocumentRequirements, uploads)
	for _, requirement := range cfg.DocumentRequirements {
		switch statuses[requirement.ID] {
		case document.StatusMissing:
			if !requirement.Optional {
				result.addError("Please upload: %s", requirement.Title)
			}
		case document.StatusRejected:
			result.addWarning("%s was rejected during verification; replace it before filing", requirement.Title)
		}
	}

	for _, upload := range uploads {
		requirement, ok := cfg.Requirement(document.ClassifyUpload(upload, cfg.DocumentRequirements))
		if !ok {
			continue
		}
		checkCompliance(requirement, upload, result)
	}
}

func checkCompliance(requirement pathway.DocumentRequirement, upload document.Upload, result *Result) {
	maxSize := requirement.MaxSize
	if maxSize <= 0 {
		maxSize = pathway.MaxDocumentSize
	}
	if upload.Size > maxSize {
		result.addWarning("%s is %.1fMB, over the %dMB limit for %s",
			upload.Name, float64(upload.Size)/(1024*1024), maxSize/(1024*1024), requirement.Title)
	}

	if len(requirement.AcceptedFormats) > 0 && upload.MimeType != "" {
		accepted := false
		for _, format := range requirement.AcceptedFormats {
			if format == upload.MimeType {
				accepted = true
				break
			}
		}
		if !accepted {
			result.addWarning("%s is %s; %s accepts %v",
				upload.Name, upload.MimeType, requirement.Title, requirement.AcceptedFormats)
		}
	}

	if requirement.MinPages > 0 && upload.Pages > 0 && upload.Pages < requirement.MinPages {
		result.addWarning("%s has %d pages; %s needs at least %d",
			upload.Name, upload.Pages, requirement.Title, requirement.MinPages)
	}
}

func validateConfirmations(cfg pathway.Config, model answers.Model, result *Result) {
	for _, confirmation := range cfg.ConfirmationRequirements {
		value, _ := answers.Resolve(model, "confirmations."+confirmation.ID)
		if !answers.Truthy(value) {
			result.addError("You must confirm: %s", confirmation.Label)
		}
	}
}

func validateDescription(cfg pathway.Config, model answers.Model, result *Result) {
	requirements := cfg.DescriptionRequirements
	if requirements == nil {
		return
	}
	path := requirements.Path
	if path == "" {
		path = "description"
	}

	value, _ := answers.Resolve(model, path)
	text := answers.CoerceString(value)

	if len(text) == 0 {
		if !requirements.Optional {
			result.addError("A case description is required")
		}
		return
	}
	if requirements.MinChars > 0 && len(text) < requirements.MinChars {
		result.addError("Case description must be at least %d characters", requirements.MinChars)
	}
	if requirements.CharLimit > 0 && len(text) > requirements.CharLimit {
		result.addError("Case description must be at most %d characters", requirements.CharLimit)
	}
}
