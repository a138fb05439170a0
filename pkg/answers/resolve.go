package answers

import "strconv"

// Model is the canonical nested answer object for a wizard session. Values
// are addressed with dotted mapping paths ("personalInfo.fullName",
// "childrenInfo[0].name"). Mutation goes through Set, which returns a new
// model; callers never write into a Model in place.
type Model map[string]any

// Resolve descends into the model following path and returns the value found
// there. Missing intermediates are expected and common (a document not yet
// uploaded, a step not yet answered), so any absence returns (nil, false)
// rather than an error. A literal flat-key match is preferred before
// traversal so configs that treat the whole mapping string as an opaque
// identifier keep working.
func Resolve(model Model, path string) (any, bool) {
	if len(model) == 0 {
		return nil, false
	}
	if value, ok := model[path]; ok {
		return value, true
	}

	segments, err := ParsePath(path)
	if err != nil {
		return nil, false
	}

	var current any = map[string]any(model)
	for _, segment := range segments {
		if segment.IsIndex {
			list, ok := current.([]any)
			if !ok || segment.Index >= len(list) {
				return nil, false
			}
			current = list[segment.Index]
			continue
		}

		switch typed := current.(type) {
		case Model:
			next, ok := typed[segment.Key]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]any:
			next, ok := typed[segment.Key]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[segment.Key]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes value at path and returns the resulting model. Every container
// along the path is copied, never mutated, so previous snapshots stay valid
// and change detection by reference comparison works. Index segments extend
// slices with nils as needed.
func Set(model Model, path string, value any) Model {
	segments, err := ParsePath(path)
	if err != nil {
		return model
	}
	updated := setSegments(map[string]any(model), segments, value)
	out, ok := updated.(map[string]any)
	if !ok {
		return model
	}
	return Model(out)
}

func setSegments(current any, segments []Segment, value any) any {
	if len(segments) == 0 {
		return value
	}
	segment := segments[0]

	if segment.IsIndex {
		var src []any
		if typed, ok := current.([]any); ok {
			src = typed
		}
		length := len(src)
		if segment.Index >= length {
			length = segment.Index + 1
		}
		out := make([]any, length)
		copy(out, src)
		out[segment.Index] = setSegments(elementAt(src, segment.Index), segments[1:], value)
		return out
	}

	var src map[string]any
	switch typed := current.(type) {
	case Model:
		src = typed
	case map[string]any:
		src = typed
	}
	out := make(map[string]any, len(src)+1)
	for key, existing := range src {
		out[key] = existing
	}
	out[segment.Key] = setSegments(src[segment.Key], segments[1:], value)
	return out
}

func elementAt(list []any, index int) any {
	if index < len(list) {
		return list[index]
	}
	return nil
}

// Flatten walks the model and returns every leaf keyed by its dotted path.
// Slices flatten with bracketed index segments. Empty containers are dropped.
func Flatten(model Model) map[string]any {
	out := make(map[string]any)
	flattenValue("", map[string]any(model), out)
	return out
}

func flattenValue(prefix string, value any, out map[string]any) {
	switch typed := value.(type) {
	case Model:
		flattenValue(prefix, map[string]any(typed), out)
	case map[string]any:
		for key, nested := range typed {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			flattenValue(path, nested, out)
		}
	case []any:
		for index, nested := range typed {
			flattenValue(prefix+"["+strconv.Itoa(index)+"]", nested, out)
		}
	default:
		if prefix != "" {
			out[prefix] = value
		}
	}
}
