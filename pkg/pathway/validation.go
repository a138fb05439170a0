package pathway

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/condition"
)

var idPattern = regexp.MustCompile(`^[a-z-]+$`)

// ValidationError reports every structural problem found in a pathway
// configuration. Checks run to completion rather than stopping at the first
// issue so a pathway author sees the complete list at once; a config that
// fails validation is never partially applied.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "pathway: configuration is invalid"
	}
	return fmt.Sprintf("pathway: invalid configuration: %s", strings.Join(e.Issues, "; "))
}

func validateConfig(config Config) error {
	var issues []string

	if !idPattern.MatchString(config.ID) {
		issues = append(issues, fmt.Sprintf("pathway id %q must be lowercase letters and hyphens", config.ID))
	}
	if len(config.Steps) == 0 {
		issues = append(issues, "steps must not be empty")
	}
	if config.Templates.MainForm == "" {
		issues = append(issues, "templates.mainForm is required")
	}
	if config.Templates.RequiresFinancialDisclosure && config.Templates.FinancialDisclosure == "" {
		issues = append(issues, "templates.financialDisclosure is required when financial disclosure is enabled")
	}

	seenRequirements := make(map[string]bool, len(config.DocumentRequirements))
	for _, requirement := range config.DocumentRequirements {
		if requirement.ID == "" {
			issues = append(issues, "document requirement with an empty id")
			continue
		}
		if seenRequirements[requirement.ID] {
			issues = append(issues, fmt.Sprintf("duplicate document requirement %q", requirement.ID))
		}
		seenRequirements[requirement.ID] = true

		if requirement.MaxSize <= 0 {
			issues = append(issues, fmt.Sprintf("document %q: maxSize must be positive", requirement.ID))
		} else if requirement.MaxSize > MaxDocumentSize {
			issues = append(issues, fmt.Sprintf("document %q: maxSize exceeds the 20MB ceiling", requirement.ID))
		}
	}

	for _, section := range config.FormSections {
		if len(section.Fields) == 0 {
			issues = append(issues, fmt.Sprintf("section %q has no fields", section.ID))
			continue
		}
		seenFields := make(map[string]bool, len(section.Fields))
		for _, field := range section.Fields {
			if field.ID == "" {
				issues = append(issues, fmt.Sprintf("section %q: field with an empty id", section.ID))
				continue
			}
			if seenFields[field.ID] {
				issues = append(issues, fmt.Sprintf("section %q: duplicate field %q", section.ID, field.ID))
			}
			seenFields[field.ID] = true

			if !answers.ValidPath(field.ID) {
				issues = append(issues, fmt.Sprintf("section %q: field id %q is not a valid answer path", section.ID, field.ID))
			}
			if field.Type == FieldDropdown && len(field.Options) == 0 {
				issues = append(issues, fmt.Sprintf("section %q: dropdown %q declares no options", section.ID, field.ID))
			}
			if field.VisibleWhen != "" {
				if _, err := condition.Parse(field.VisibleWhen); err != nil {
					issues = append(issues, fmt.Sprintf("section %q: field %q: invalid visibility rule: %v", section.ID, field.ID, err))
				}
			}
		}
	}

	for name, path := range config.FieldMappings {
		if name == "" {
			issues = append(issues, "field mapping with an empty template field name")
		}
		if !answers.ValidPath(path) {
			issues = append(issues, fmt.Sprintf("field mapping %q: %q is not a valid answer path", name, path))
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
