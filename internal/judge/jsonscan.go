package judge

import "strings"

// firstJSONObject returns the first balanced top-level {...} block in s, or
// "" if none exists. Judgment responses arrive wrapped in prose or markdown
// fencing often enough that naive unmarshalling is not an option. The scanner
// walks bytes and tracks string/escape state so braces inside JSON strings do
// not confuse the depth count; ASCII delimiters never appear inside UTF-8
// multi-byte sequences, so byte iteration is safe.
func firstJSONObject(s string) string {
	var (
		depth    int
		start    = -1
		inString bool
		escape   bool
	)

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

// stripControlChars replaces C0/C1 control characters with spaces. Models
// occasionally emit raw newlines or stray control bytes inside JSON string
// values, which encoding/json rejects.
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
			return ' '
		}
		return r
	}, s)
}
