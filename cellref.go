package xlprint

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// CellRef addresses a single cell. Row and Col are 1-based, matching the
// cursor rows threaded through the renderers.
type CellRef struct {
	Row int
	Col int
}

// NewCellRef creates a CellRef from 1-based row and column numbers.
func NewCellRef(row, col int) CellRef {
	return CellRef{Row: row, Col: col}
}

// ParseCellRef parses a cell name like "A1" or "$B$5".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		s = s[idx+1:]
	}
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}

	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return CellRef{}, fmt.Errorf("invalid cell reference: %q", s)
	}

	col, err := NameToCol(s[:i])
	if err != nil {
		return CellRef{}, err
	}
	row, err := strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return CellRef{}, fmt.Errorf("invalid row in cell reference: %q", s)
	}
	return CellRef{Row: row, Col: col}, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// CellName returns the A1-style name, e.g. "F12".
func (c CellRef) CellName() string {
	return ColToName(c.Col) + strconv.Itoa(c.Row)
}

// String implements fmt.Stringer.
func (c CellRef) String() string {
	return c.CellName()
}

// ColToName converts a 1-based column number to a column name.
// 1→"A", 26→"Z", 27→"AA"
func ColToName(col int) string {
	name := ""
	for col > 0 {
		rem := (col - 1) % 26
		name = string(rune('A'+rem)) + name
		col = (col - 1) / 26
	}
	return name
}

// NameToCol converts a column name to a 1-based column number.
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col, nil
}

// AreaRef is a rectangular range between two corner cells, inclusive.
type AreaRef struct {
	First CellRef
	Last  CellRef
}

// NewAreaRef builds a normalized AreaRef: First is always the top-left corner.
func NewAreaRef(row1, col1, row2, col2 int) AreaRef {
	if row2 < row1 {
		row1, row2 = row2, row1
	}
	if col2 < col1 {
		col1, col2 = col2, col1
	}
	return AreaRef{First: NewCellRef(row1, col1), Last: NewCellRef(row2, col2)}
}

// ParseAreaRef parses "A1:C5".
func ParseAreaRef(s string) (AreaRef, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return AreaRef{}, fmt.Errorf("invalid area reference (missing ':'): %q", s)
	}
	first, err := ParseCellRef(parts[0])
	if err != nil {
		return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
	}
	last, err := ParseCellRef(parts[1])
	if err != nil {
		return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
	}
	return NewAreaRef(first.Row, first.Col, last.Row, last.Col), nil
}

// String formats the area as "A1:C5".
func (a AreaRef) String() string {
	return a.First.CellName() + ":" + a.Last.CellName()
}

// Absolute formats the area as "$A$1:$C$5", the form used by defined names.
func (a AreaRef) Absolute() string {
	return fmt.Sprintf("$%s$%d:$%s$%d",
		ColToName(a.First.Col), a.First.Row, ColToName(a.Last.Col), a.Last.Row)
}

// Size returns the dimensions of the area.
func (a AreaRef) Size() Size {
	return Size{
		Width:  a.Last.Col - a.First.Col + 1,
		Height: a.Last.Row - a.First.Row + 1,
	}
}

// Size represents width (columns) and height (rows).
type Size struct {
	Width  int
	Height int
}

// String formats the Size as "(WxH)".
func (s Size) String() string {
	return fmt.Sprintf("(%dx%d)", s.Width, s.Height)
}

// SafeSheetName sanitizes a string for use as an Excel sheet name.
// It replaces forbidden characters ([]*?/\:) with underscore, truncates to 31
// chars and strips leading and trailing apostrophes.
func SafeSheetName(name string) string {
	forbidden := []rune{'/', '\\', ':', '*', '?', '[', ']'}
	runes := []rune(name)
	for i, r := range runes {
		for _, f := range forbidden {
			if r == f {
				runes[i] = '_'
				break
			}
		}
	}
	if len(runes) > 31 {
		runes = runes[:31]
	}
	// Excel rejects names that start or end with an apostrophe.
	out := strings.TrimFunc(string(runes), func(r rune) bool {
		return r == '\'' || unicode.IsSpace(r)
	})
	if out == "" {
		return "Sheet"
	}
	return out
}

// uniqueSheetName returns name, or name with a " (n)" suffix when it is
// already taken. Comparison is case-insensitive, as in Excel.
func uniqueSheetName(name string, taken map[string]bool) string {
	candidate := name
	for n := 2; taken[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := []rune(name)
		if len(base)+len([]rune(suffix)) > 31 {
			base = base[:31-len([]rune(suffix))]
		}
		candidate = string(base) + suffix
	}
	taken[strings.ToLower(candidate)] = true
	return candidate
}
