// Package codecinfo parses codec declarations into capability descriptors
// and validates their internal consistency.
package codecinfo

import "strings"

// Split splits a semicolon-delimited declaration value into its elements.
// Leading, trailing and duplicate delimiters are tolerated; elements are
// trimmed and empty segments dropped. The order of elements is preserved.
func Split(value string) []string {
	var out []string
	for len(value) > 0 {
		value = strings.TrimLeft(value, ";")
		if value == "" {
			break
		}
		end := strings.IndexByte(value, ';')
		if end < 0 {
			end = len(value)
		}
		if element := strings.TrimSpace(value[:end]); element != "" {
			out = append(out, element)
		}
		value = value[end:]
	}
	return out
}
