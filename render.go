package xlprint

const (
	titleRowHeight = 30.0
	textBaseHeight = 18.0
	formRowHeight  = 20.0
	defaultFont    = "宋体"
	formSeparator  = "："
)

// Base fragments each block kind starts from before inherited styles apply.
var (
	titleBaseStyle = Style{
		"font":      map[string]any{"name": defaultFont, "size": 16.0, "bold": true},
		"alignment": map[string]any{"vertical": "middle", "horizontal": "center", "wrapText": true},
	}
	textBaseStyle = Style{
		"font":      map[string]any{"name": defaultFont, "size": 11.0},
		"alignment": map[string]any{"vertical": "middle", "horizontal": "center", "wrapText": true},
	}
	formBaseStyle = Style{
		"font":      map[string]any{"name": defaultFont, "size": 11.0},
		"alignment": map[string]any{"vertical": "middle", "horizontal": "left", "wrapText": true},
	}
)

// renderTitle writes a full-width heading at cursor and returns the next row.
func renderTitle(ws *Worksheet, cursor int, b *TitleBlock, inherited Style) int {
	cell := ws.mergeAcross(cursor, 1, ws.MaxColumns)
	cell.Value = textValue(b.Value)
	applyCellStyle(cell, MergeStyles(titleBaseStyle, inherited, b.Style))
	ws.SetRowHeight(cursor, titleRowHeight)
	return cursor + 1
}

// renderText writes a full-width wrapped paragraph; the row grows with the
// estimated number of wrapped lines across the whole sheet width.
func renderText(ws *Worksheet, cursor int, b *TextBlock, inherited Style) int {
	cell := ws.mergeAcross(cursor, 1, ws.MaxColumns)
	cell.Value = textValue(b.Value)
	applyCellStyle(cell, textBaseStyle)
	applyCellStyle(cell, MergeStyles(inherited, b.Style))
	total := ws.TotalWidth(minColumnWidth)
	ws.SetRowHeight(cursor, EstimateRowHeight(cellText(cell.Value), total, textBaseHeight))
	return cursor + 1
}

// renderSpaceRow writes Count blank full-width rows. Each is bordered right
// away and reported through exempt so the final border sweep leaves it alone.
func renderSpaceRow(ws *Worksheet, cursor int, b *SpaceRowBlock, exempt map[int]bool) int {
	n := max(1, b.Count)
	for i := 0; i < n; i++ {
		r := cursor + i
		cell := ws.mergeAcross(r, 1, ws.MaxColumns)
		cell.Value = ""
		for c := 1; c <= ws.MaxColumns; c++ {
			styleRangeBorder(ws, r, c, c)
		}
		if b.Height > 0 {
			ws.SetRowHeight(r, b.Height)
		}
		if exempt != nil {
			exempt[r] = true
		}
	}
	return cursor + n
}

// renderForm lays fields out two per row. The left field takes the extra
// column when maxColumns is odd. On a one-column sheet every field gets its
// own row.
func renderForm(ws *Worksheet, cursor int, b *FormBlock, inherited Style) int {
	maxColumns := ws.MaxColumns
	perRow := 2
	if maxColumns < 2 {
		perRow = 1
	}
	fieldWidth := maxColumns / perRow
	remainder := maxColumns - fieldWidth*perRow
	leftWidth := fieldWidth + remainder

	r := cursor
	for i, field := range b.Fields {
		slot := i % perRow
		if slot == 0 && i != 0 {
			r++
		}

		colStart, colEnd := 1, leftWidth
		if slot == 1 {
			colStart = leftWidth + 1
			colEnd = min(maxColumns, colStart+fieldWidth-1)
		}

		cell := ws.mergeAcross(r, colStart, colEnd)
		cell.Value = formText(field)
		applyCellStyle(cell, formBaseStyle)
		applyCellStyle(cell, MergeStyles(inherited, b.Style, b.FieldStyle, field.Style))
	}

	ws.SetRowHeight(r, formRowHeight)
	return r + 1
}

// formText renders "label：value", or "label：" when the value is blank,
// zero or false.
func formText(f FormField) string {
	label := cellText(f.Label)
	if isFalsy(f.Value) {
		return label + formSeparator
	}
	return label + formSeparator + cellText(f.Value)
}

func isFalsy(v any) bool {
	if isEmptyValue(v) {
		return true
	}
	if b, ok := v.(bool); ok {
		return !b
	}
	if n, ok := toFloat(v); ok {
		return n == 0
	}
	return false
}

// textValue normalizes a title/text value; absent becomes "".
func textValue(v any) any {
	if v == nil {
		return ""
	}
	return normalizeCellValue(v)
}

// spanRows is the number of rows a block rendered, for logging.
func spanRows(from, to int) int {
	return max(0, to-from)
}
