package answers

import (
	"fmt"
	"strconv"
	"strings"
)

// Truthy reports whether a resolved answer value counts as "set" for
// checkbox population and visibility rules. Empty strings, zero numbers, and
// empty containers are false; unknown types are true.
func Truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case Model:
		return len(v) > 0
	default:
		return true
	}
}

// CoerceString renders an answer value for a text widget.
func CoerceString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}

// CoerceNumber converts numeric answer values (including numeric strings)
// to a float64. The second return reports success.
func CoerceNumber(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// IsEmpty reports whether an answer value should fail a required-field
// check: nil, blank strings, and empty containers are empty; everything
// else, including false and zero, is a deliberate answer.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case Model:
		return len(v) == 0
	default:
		return false
	}
}
