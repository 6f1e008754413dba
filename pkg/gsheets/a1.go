package gsheets

import (
	"fmt"
	"regexp"
)

// LayoutError is a fatal layout failure: a malformed anchor cell or a target
// worksheet that could not be resolved.
type LayoutError struct {
	Reason string
}

func (e *LayoutError) Error() string {
	return "sheet layout error: " + e.Reason
}

// GridRect is a 1-based inclusive cell rectangle.
type GridRect struct {
	R1, C1, R2, C2 int
}

var a1Re = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// parseA1 splits an anchor like "A45" into 1-based (row, col).
func parseA1(a1 string) (row, col int, err error) {
	m := a1Re.FindStringSubmatch(a1)
	if m == nil {
		return 0, 0, &LayoutError{Reason: fmt.Sprintf("bad anchor cell %q", a1)}
	}
	for _, ch := range m[1] {
		c := ch
		if c >= 'a' {
			c -= 'a' - 'A'
		}
		col = col*26 + int(c-'A'+1)
	}
	fmt.Sscanf(m[2], "%d", &row)
	return row, col, nil
}

func colLetters(col int) string {
	letters := make([]byte, 0, 3)
	for n := col; n > 0; {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return string(letters)
}

func cellA1(row, col int) string {
	return fmt.Sprintf("%s%d", colLetters(col), row)
}

func rangeA1(r1, c1, r2, c2 int) string {
	return cellA1(r1, c1) + ":" + cellA1(r2, c2)
}
