package gdb

const truncationMarker = " ...[truncated]"

// truncatePayload walks a decoded JSON value and clips every string to
// maxChars runes, appending a marker so the reader knows output was cut.
// maxChars <= 0 disables truncation.
func truncatePayload(value interface{}, maxChars int) interface{} {
	if maxChars <= 0 {
		return value
	}
	switch v := value.(type) {
	case string:
		return truncateString(v, maxChars)
	case map[string]interface{}:
		for key, item := range v {
			v[key] = truncatePayload(item, maxChars)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = truncatePayload(item, maxChars)
		}
		return v
	default:
		return value
	}
}

func truncateString(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + truncationMarker
}
