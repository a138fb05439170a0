package assembly

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/pathway"
)

// PreparedValue is one resolved, formatted, sanitised answer ready to be
// written into a template field widget.
type PreparedValue struct {
	Field   pathway.Field
	Text    string
	Checked bool
}

// PrepareValues resolves every field mapping against the merged answers and
// formats each value for its declared widget kind. A resolution or
// formatting failure for one field is reported through warn and leaves that
// field blank; it never aborts preparation.
func PrepareValues(cfg pathway.Config, model answers.Model, warn func(field, reason string)) map[string]PreparedValue {
	if warn == nil {
		warn = func(string, string) {}
	}

	names := make([]string, 0, len(cfg.FieldMappings))
	for name := range cfg.FieldMappings {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]PreparedValue, len(names))
	for _, name := range names {
		mapping := cfg.FieldMappings[name]

		value, ok := answers.Resolve(model, mapping)
		if !ok {
			warn(name, fmt.Sprintf("no answer at %q", mapping))
			continue
		}

		field, _, known := cfg.FieldByPath(mapping)
		if !known {
			field = pathway.Field{ID: mapping, Type: pathway.FieldText}
		}

		if field.Type == pathway.FieldCheckbox {
			values[name] = PreparedValue{Field: field, Checked: answers.Truthy(value)}
			continue
		}

		text, err := FormatValue(field.Type, value)
		if err != nil {
			warn(name, err.Error())
			text = ""
		}
		values[name] = PreparedValue{Field: field, Text: text}
	}
	return values
}

// FormatValue renders an answer value for a widget of the given kind.
// Dates format as YYYY-MM-DD, currency with two decimal places and a
// symbol, percentages to one decimal place. An unparseable value is that
// field's failure alone: the caller logs it and writes an empty string.
func FormatValue(kind pathway.FieldType, value any) (string, error) {
	switch kind {
	case pathway.FieldDate:
		parsed, err := parseDate(value)
		if err != nil {
			return "", err
		}
		return parsed.Format("2006-01-02"), nil
	case pathway.FieldCurrency:
		number, ok := answers.CoerceNumber(value)
		if !ok {
			return "", fmt.Errorf("assembly: %v is not a currency amount", value)
		}
		return "$" + strconv.FormatFloat(number, 'f', 2, 64), nil
	case pathway.FieldPercentage:
		number, ok := answers.CoerceNumber(value)
		if !ok {
			return "", fmt.Errorf("assembly: %v is not a percentage", value)
		}
		return strconv.FormatFloat(number, 'f', 1, 64) + "%", nil
	case pathway.FieldNumber:
		number, ok := answers.CoerceNumber(value)
		if !ok {
			return "", fmt.Errorf("assembly: %v is not a number", value)
		}
		return strconv.FormatFloat(number, 'f', -1, 64), nil
	case pathway.FieldCheckbox:
		if answers.Truthy(value) {
			return "Yes", nil
		}
		return "No", nil
	default:
		return SanitizeText(answers.CoerceString(value)), nil
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"January 2, 2006",
}

func parseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("assembly: %q is not a recognised date", v)
	default:
		return time.Time{}, fmt.Errorf("assembly: %v is not a date", value)
	}
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText strips any markup from a free-text answer before it reaches
// a document. Court forms carry plain text only.
func SanitizeText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(raw))
}
