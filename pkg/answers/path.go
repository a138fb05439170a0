package answers

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is a single step of a parsed mapping path. A segment is either a
// map key or an array index: "childrenInfo[0].name" parses into the key
// "childrenInfo", index 0, and the key "name".
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// ParsePath parses a dotted mapping path into structured segments. Keys may
// contain letters, digits, underscores, and hyphens; bracketed segments must
// hold a non-negative integer index. Bracketed segments are real array
// indices, not opaque key text, so repeating sections of arbitrary size
// resolve without pre-registered flat keys.
func ParsePath(path string) ([]Segment, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("answers: path is empty")
	}

	var segments []Segment
	for _, part := range strings.Split(trimmed, ".") {
		if part == "" {
			return nil, fmt.Errorf("answers: path %q has an empty segment", path)
		}

		key := part
		var brackets string
		if idx := strings.Index(part, "["); idx >= 0 {
			key = part[:idx]
			brackets = part[idx:]
		}
		if key == "" {
			return nil, fmt.Errorf("answers: path %q has a bare index segment", path)
		}
		if !validKey(key) {
			return nil, fmt.Errorf("answers: path %q has an invalid key %q", path, key)
		}
		segments = append(segments, Segment{Key: key})

		for brackets != "" {
			if !strings.HasPrefix(brackets, "[") {
				return nil, fmt.Errorf("answers: path %q has trailing characters after index", path)
			}
			close := strings.Index(brackets, "]")
			if close < 0 {
				return nil, fmt.Errorf("answers: path %q has an unterminated index", path)
			}
			index, err := strconv.Atoi(brackets[1:close])
			if err != nil || index < 0 {
				return nil, fmt.Errorf("answers: path %q has an invalid index %q", path, brackets[1:close])
			}
			segments = append(segments, Segment{Index: index, IsIndex: true})
			brackets = brackets[close+1:]
		}
	}
	return segments, nil
}

// ValidPath reports whether path parses as a mapping path. Used by the
// pathway loader to reject malformed field mappings at config time.
func ValidPath(path string) bool {
	_, err := ParsePath(path)
	return err == nil
}

func validKey(key string) bool {
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
