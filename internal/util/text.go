package util

import "strings"

// SanitizeText strips invalid UTF-8 sequences and NUL bytes so
// extracted document text can be stored in Postgres text columns.
func SanitizeText(value string) string {
	if value == "" {
		return value
	}
	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}
