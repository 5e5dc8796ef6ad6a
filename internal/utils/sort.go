package utils

import "strings"

// SortField is a whitelisted column with its direction.
type SortField struct {
	Column string
	Desc   bool
}

// ParseSort turns "name,-createdAt" into sort fields. Keys missing from allowed
// are dropped; allowed maps the public field name to its column. When nothing
// usable remains the fallback is returned.
func ParseSort(raw string, allowed map[string]string, fallback []SortField) []SortField {
	var out []SortField

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		desc := strings.HasPrefix(part, "-")
		key := strings.TrimPrefix(part, "-")

		col, ok := allowed[key]
		if !ok {
			continue
		}
		out = append(out, SortField{Column: col, Desc: desc})
	}

	if len(out) == 0 {
		return fallback
	}
	return out
}

// OrderBy renders fields as a SQL ORDER BY list. Columns come from a whitelist,
// never from user input.
func OrderBy(fields []SortField) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts = append(parts, f.Column+" "+dir)
	}
	return strings.Join(parts, ", ")
}
