package csv

import "strings"

const (
	utf8BOM = "\uFEFF"

	// latin1BOM is how a UTF-8 BOM reads when the file is decoded as latin1.
	latin1BOM = "\u00ef\u00bb\u00bf"
)

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	headers[0] = strings.TrimPrefix(headers[0], latin1BOM)
	return headers
}
