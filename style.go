package xlprint

import "strings"

// Style is a partial style fragment: any of "font", "alignment", "border",
// "fill" and "numFmt". Fragments are merge inputs and are never modified.
type Style map[string]any

// MergeStyles folds fragments left to right; later fragments win field by
// field and nested records are merged key by key. Nil fragments are skipped.
func MergeStyles(styles ...Style) Style {
	out := map[string]any{}
	for _, s := range styles {
		if s == nil {
			continue
		}
		out = MergeDeep(out, s)
	}
	return Style(out)
}

// styleOf reads a fragment from a configuration value.
func styleOf(v any) Style {
	if m, ok := asMap(v); ok {
		return Style(m)
	}
	return nil
}

// Font is a resolved cell font.
type Font struct {
	Name      string
	Size      float64
	Bold      bool
	Italic    bool
	Strike    bool
	Underline string
	Color     string
}

// Alignment is a resolved cell alignment.
type Alignment struct {
	Horizontal   string
	Vertical     string
	WrapText     bool
	ShrinkToFit  bool
	Indent       int
	TextRotation int
}

// BorderSide is one edge of a cell border.
type BorderSide struct {
	Style string
	Color string
}

// Border is a resolved cell border. A nil side is not drawn.
type Border struct {
	Top    *BorderSide
	Left   *BorderSide
	Bottom *BorderSide
	Right  *BorderSide
}

// Fill is a resolved cell fill.
type Fill struct {
	Type    string // "pattern" or "gradient"
	Pattern string // e.g. "solid"
	FgColor string
	BgColor string
}

// ThinBorder returns a full-perimeter thin border.
func ThinBorder() *Border {
	return &Border{
		Top:    &BorderSide{Style: "thin"},
		Left:   &BorderSide{Style: "thin"},
		Bottom: &BorderSide{Style: "thin"},
		Right:  &BorderSide{Style: "thin"},
	}
}

// applyCellStyle writes the fields present in s onto cell; absent fields keep
// whatever the renderer already set. Each present field replaces the cell's
// value for that field.
func applyCellStyle(cell *Cell, s Style) {
	if s == nil {
		return
	}
	if m, ok := asMap(s["font"]); ok {
		cell.Font = decodeFont(m)
	}
	if m, ok := asMap(s["alignment"]); ok {
		cell.Alignment = decodeAlignment(m)
	}
	if m, ok := asMap(s["border"]); ok {
		cell.Border = decodeBorder(m)
	}
	if m, ok := asMap(s["fill"]); ok {
		cell.Fill = decodeFill(m)
	}
	if f, ok := s["numFmt"].(string); ok {
		cell.NumFmt = f
	}
}

func decodeFont(m map[string]any) *Font {
	f := &Font{
		Bold:   toBool(m["bold"]),
		Italic: toBool(m["italic"]),
		Strike: toBool(m["strike"]),
		Color:  colorOf(m["color"]),
	}
	f.Name, _ = toString(m["name"])
	f.Size, _ = toFloat(m["size"])
	switch u := m["underline"].(type) {
	case bool:
		if u {
			f.Underline = "single"
		}
	case string:
		f.Underline = u
	}
	return f
}

func decodeAlignment(m map[string]any) *Alignment {
	a := &Alignment{
		WrapText:    toBool(m["wrapText"]),
		ShrinkToFit: toBool(m["shrinkToFit"]),
	}
	a.Horizontal, _ = toString(m["horizontal"])
	a.Vertical, _ = toString(m["vertical"])
	if n, ok := toFloat(m["indent"]); ok {
		a.Indent = int(n)
	}
	if n, ok := toFloat(m["textRotation"]); ok {
		a.TextRotation = int(n)
	}
	return a
}

func decodeBorder(m map[string]any) *Border {
	side := func(v any) *BorderSide {
		sm, ok := asMap(v)
		if !ok {
			return nil
		}
		st, _ := toString(sm["style"])
		if st == "" {
			return nil
		}
		return &BorderSide{Style: st, Color: colorOf(sm["color"])}
	}
	return &Border{
		Top:    side(m["top"]),
		Left:   side(m["left"]),
		Bottom: side(m["bottom"]),
		Right:  side(m["right"]),
	}
}

func decodeFill(m map[string]any) *Fill {
	f := &Fill{
		FgColor: colorOf(m["fgColor"]),
		BgColor: colorOf(m["bgColor"]),
	}
	f.Type, _ = toString(m["type"])
	f.Pattern, _ = toString(m["pattern"])
	if f.FgColor == "" {
		f.FgColor = colorOf(m["color"])
	}
	return f
}

// colorOf accepts "FF0000", "#FF0000", "FFFF0000" (ARGB) or {"argb": "..."}.
// It returns six hex digits, or "" when no color is given.
func colorOf(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case map[string]any:
		s, _ = toString(firstPresent(t, "argb", "rgb"))
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 8 {
		s = s[2:]
	}
	return strings.ToUpper(s)
}

// applyDefaultBorders gives every cell in the rectangle that has no border a
// thin one, skipping exempt rows.
func applyDefaultBorders(ws *Worksheet, rowStart, rowEnd, colStart, colEnd int, skipRows map[int]bool) {
	for r := rowStart; r <= rowEnd; r++ {
		if skipRows[r] {
			continue
		}
		for c := colStart; c <= colEnd; c++ {
			cell := ws.Cell(r, c)
			if cell.Border == nil {
				cell.Border = ThinBorder()
			}
		}
	}
}

// styleRangeBorder draws a thin border around each cell of a row segment.
func styleRangeBorder(ws *Worksheet, row, colStart, colEnd int) {
	for c := colStart; c <= colEnd; c++ {
		ws.Cell(row, c).Border = ThinBorder()
	}
}
