package answers

// Merge combines the three answer sources for a wizard session into one
// model. Precedence, lowest to highest:
//
//  1. saved answers from a prior session (baseline);
//  2. document-extraction outputs, applied in upload order, each a flat map
//     of dotted paths to values; a later document overwrites an earlier one
//     for the same path;
//  3. step answers typed by the user in the current session.
//
// A manual edit always wins over an auto-filled value, even when the
// auto-fill arrived afterwards; auto-fill must never clobber something the
// user has already confirmed. Precedence applies at the leaf-path level, not
// the object level: merging is a deep union and a path present in any source
// survives into the output. Merge performs no validation and never fails.
func Merge(saved Model, step Model, extracted ...map[string]any) Model {
	out := Model{}
	for key, value := range saved {
		out[key] = value
	}

	for _, fields := range extracted {
		for path, value := range fields {
			if !ValidPath(path) {
				// Resolve prefers literal flat keys, so a path the grammar
				// rejects still round-trips instead of vanishing.
				out[path] = value
				continue
			}
			out = Set(out, path, value)
		}
	}

	merged := mergeValue(map[string]any(out), map[string]any(step))
	result, ok := merged.(map[string]any)
	if !ok {
		return out
	}
	return Model(result)
}

// mergeValue unions src over dst. Maps merge key-wise, slices index-wise;
// anything else is a leaf and src wins.
func mergeValue(dst, src any) any {
	srcMap, srcIsMap := asMap(src)
	dstMap, dstIsMap := asMap(dst)
	if srcIsMap && dstIsMap {
		out := make(map[string]any, len(dstMap)+len(srcMap))
		for key, value := range dstMap {
			out[key] = value
		}
		for key, value := range srcMap {
			if existing, ok := out[key]; ok {
				out[key] = mergeValue(existing, value)
				continue
			}
			out[key] = value
		}
		return out
	}

	srcList, srcIsList := src.([]any)
	dstList, dstIsList := dst.([]any)
	if srcIsList && dstIsList {
		length := len(dstList)
		if len(srcList) > length {
			length = len(srcList)
		}
		out := make([]any, length)
		copy(out, dstList)
		for index, value := range srcList {
			if index < len(dstList) {
				out[index] = mergeValue(dstList[index], value)
				continue
			}
			out[index] = value
		}
		return out
	}

	if src == nil && dst != nil {
		return dst
	}
	return src
}

func asMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case Model:
		return map[string]any(typed), true
	case map[string]any:
		return typed, true
	default:
		return nil, false
	}
}
