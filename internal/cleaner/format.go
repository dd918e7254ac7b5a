package cleaner

import (
	"fmt"
	"unicode/utf8"
)

// reprLimit caps captured repr text. Long previews bloat snapshots
// without adding inspection value.
const reprLimit = 120

// formatValue renders any value as text without ever failing: fmt
// absorbs panics from String methods itself.
func formatValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	return truncateRunes(fmt.Sprintf("%v", v), reprLimit)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	out := make([]rune, 0, limit)
	for _, r := range s {
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return string(out)
}
