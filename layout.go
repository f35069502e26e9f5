package xlprint

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Six-column documents use a weighted width pattern; everything else is even.
var baseSixColPattern = [6]float64{32, 14, 10, 12, 12, 18}

const (
	baseSixTotal       = 98.0 // sum of baseSixColPattern
	minColumnWidth     = 14.0
	defaultMaxColumns  = 6
	defaultRowHeight   = 20.0
	maxEstimatedHeight = 120.0
	lineHeight         = 14.0
)

// PaperOptions is a paper code plus the total printable width, in character
// units, that a preset fits on the page.
type PaperOptions struct {
	PaperSize  int
	TotalWidth float64
}

// Paper presets by token. Codes are the xlsx paperSize enumeration.
var paperPresets = map[string]PaperOptions{
	"A3": {PaperSize: 8, TotalWidth: 120},
	"A4": {PaperSize: 9, TotalWidth: baseSixTotal},
	"A5": {PaperSize: 11, TotalWidth: 80},
	"A6": {PaperSize: 70, TotalWidth: 64},
}

var defaultPaper = paperPresets["A4"]

// DefaultMargins are used when a sheet gives no margins.
var DefaultMargins = Margins{
	Left:   0.3,
	Right:  0.3,
	Top:    0.4,
	Bottom: 0.4,
	Header: 0.2,
	Footer: 0.2,
}

// ResolvePaperOptions maps a paper token to a preset. A number is taken as
// the paper code with the default width; unknown tokens get the default preset.
func ResolvePaperOptions(input any) PaperOptions {
	if n, ok := toFloat(input); ok {
		return PaperOptions{PaperSize: int(n), TotalWidth: defaultPaper.TotalWidth}
	}
	if s, ok := input.(string); ok {
		if p, ok := paperPresets[strings.ToUpper(strings.TrimSpace(s))]; ok {
			return p
		}
	}
	return defaultPaper
}

// paperToken returns the preset name for a paper code, or "" when it has none.
func paperToken(code int) string {
	for name, p := range paperPresets {
		if p.PaperSize == code {
			return name
		}
	}
	return ""
}

// ClampTotalWidth raises the requested width to the floor for the column
// count: the pattern total for six columns, 14 per column otherwise.
// A non-positive request means "use the floor".
func ClampTotalWidth(maxColumns int, requested float64) float64 {
	if maxColumns <= 0 {
		return baseSixTotal
	}
	floor := float64(maxColumns) * minColumnWidth
	if maxColumns == 6 {
		floor = baseSixTotal
	}
	return math.Max(floor, requested)
}

// BuildColumnWidths spreads total across maxColumns columns, rounding each to
// two decimals.
func BuildColumnWidths(maxColumns int, total float64) []float64 {
	if maxColumns <= 0 {
		return nil
	}
	widths := make([]float64, maxColumns)
	if maxColumns == 6 {
		ratio := total / baseSixTotal
		for i, w := range baseSixColPattern {
			widths[i] = round2(w * ratio)
		}
		return widths
	}
	even := round2(total / float64(maxColumns))
	for i := range widths {
		widths[i] = even
	}
	return widths
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// SheetLayout carries the per-sheet geometry inputs.
type SheetLayout struct {
	Paper      PaperOptions
	TotalWidth *float64 // nil = paper width
	Margins    *Margins // nil = DefaultMargins
}

// applySheetDefaults sets column widths, page setup and default row height.
func applySheetDefaults(ws *Worksheet, maxColumns int, layout SheetLayout) {
	total := layout.Paper.TotalWidth
	if layout.TotalWidth != nil {
		total = *layout.TotalWidth
	}
	ws.MaxColumns = maxColumns
	ws.Columns = BuildColumnWidths(maxColumns, ClampTotalWidth(maxColumns, total))

	margins := DefaultMargins
	if layout.Margins != nil {
		margins = *layout.Margins
	}
	ws.PageSetup = PageSetup{
		PaperSize:          layout.Paper.PaperSize,
		Orientation:        "portrait",
		FitToPage:          true,
		FitToWidth:         1,
		FitToHeight:        0,
		HorizontalCentered: true,
		Margins:            margins,
	}
	ws.DefaultRowHeight = defaultRowHeight
	ws.ShowGridLines = false
}

// marginsOf overlays configured margins onto the defaults. Non-numeric
// entries keep their default.
func marginsOf(v any) *Margins {
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	out := DefaultMargins
	set := func(key string, dst *float64) {
		if f, ok := toFloat(m[key]); ok && f >= 0 {
			*dst = f
		}
	}
	set("left", &out.Left)
	set("right", &out.Right)
	set("top", &out.Top)
	set("bottom", &out.Bottom)
	set("header", &out.Header)
	set("footer", &out.Footer)
	return &out
}

// normalizeMaxColumns floors a positive number; anything else yields 6.
func normalizeMaxColumns(v any) int {
	f, ok := toFloatLoose(v)
	if !ok || f < 1 {
		return defaultMaxColumns
	}
	return int(math.Floor(f))
}

// EstimateRowHeight guesses the height a wrapped text needs in a column of
// the given width. Each newline-separated segment takes at least one line.
func EstimateRowHeight(text string, colWidth, base float64) float64 {
	if text == "" {
		return base
	}
	charsPerLine := math.Max(10, math.Floor(colWidth*1.6))
	lines := 0
	for _, part := range strings.Split(text, "\n") {
		part = strings.TrimSuffix(part, "\r")
		n := int(math.Ceil(float64(utf8.RuneCountInString(part)) / charsPerLine))
		if n < 1 {
			n = 1
		}
		lines += n
	}
	return math.Min(maxEstimatedHeight, base+float64(lines-1)*lineHeight)
}
