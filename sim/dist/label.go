package dist

import "fmt"

// FormatCode renders a range code the way the lecture tables print it:
// zero-padded to the base's digit count, with the base itself shown as
// all zeros ("00" or "000").
func FormatCode(code, base int) string {
	width := 2
	if base >= BaseThreeDigit {
		width = 3
	}
	if code == base {
		code = 0
	}
	return fmt.Sprintf("%0*d", width, code)
}

// RangeLabel renders the cell's range as "start-end", e.g. "86-00".
func (c Cell) RangeLabel() string {
	return FormatCode(c.RangeStart, c.Base) + "-" + FormatCode(c.RangeEnd, c.Base)
}
