package stats

import (
	"strconv"
	"strings"
)

// ParseSample reads a numeric sample from free text. Values may be separated
// by commas, semicolons or whitespace; tokens that are not numbers are
// returned in skipped.
func ParseSample(text string) (values []float64, skipped []string) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			skipped = append(skipped, f)
			continue
		}
		values = append(values, v)
	}
	return values, skipped
}
