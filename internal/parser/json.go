package parser

import "strings"

// extractJSONObject locates the first substring that looks like a JSON
// object containing the given top-level key. The scan is permissive about
// leading and trailing prose the model may have added despite instructions:
// it finds the key, backtracks to the nearest opening brace, then walks
// forward balancing braces while honoring string literals and escapes.
// Returns the empty string when no balanced candidate exists.
func extractJSONObject(text, key string) string {
	keyIdx := strings.Index(text, `"`+key+`"`)
	if keyIdx < 0 {
		return ""
	}

	start := strings.LastIndex(text[:keyIdx], "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	// Truncated object, never balanced
	return ""
}
