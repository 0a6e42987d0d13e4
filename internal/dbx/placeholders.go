package dbx

import (
	"strconv"
	"strings"
)

// Placeholders returns "$first, $first+1, ..." with n entries, for building
// "IN (...)" lists.
func Placeholders(first, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(first + i))
	}
	return b.String()
}
