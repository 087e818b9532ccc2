package values

// Merge recursively merges overlay into base and returns a new tree.
// Where both sides hold a mapping at a key the merge recurses; everywhere
// else the overlay value fully replaces the base value. Sequences and
// scalars are replaced wholesale, never concatenated or merged
// element-wise. Neither input is mutated.
func Merge(base, overlay map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		result[k] = deepCopy(v)
	}

	for key, overlayValue := range overlay {
		baseValue, exists := result[key]
		if !exists {
			result[key] = deepCopy(overlayValue)
			continue
		}

		baseMap, baseIsMap := baseValue.(map[string]any)
		overlayMap, overlayIsMap := overlayValue.(map[string]any)
		if baseIsMap && overlayIsMap {
			result[key] = Merge(baseMap, overlayMap)
			continue
		}

		result[key] = deepCopy(overlayValue)
	}

	return result
}

// deepCopy copies maps and slices so the merged tree shares no mutable
// structure with its inputs. Scalars are immutable and returned as-is.
func deepCopy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = deepCopy(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = deepCopy(val)
		}
		return result
	case []string:
		result := make([]string, len(v))
		copy(result, v)
		return result
	default:
		return value
	}
}
