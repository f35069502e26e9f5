package xlprint

import "strconv"

const (
	headerRowHeight     = 22.0
	bodyBaseHeight      = 20.0
	firstColumnFallback = 30.0
)

var (
	headerBaseStyle = Style{
		"font":      map[string]any{"name": defaultFont, "size": 11.0, "bold": true},
		"alignment": map[string]any{"vertical": "middle", "horizontal": "center", "wrapText": true},
	}
	bodyBaseFont = map[string]any{"name": defaultFont, "size": 11.0}
)

// renderTable writes a header row and one row per body row, then collapses
// runs of equal values in the merge columns. Every header and body cell is
// bordered as it is written.
func renderTable(ws *Worksheet, cursor int, b *TableBlock, inherited Style) int {
	maxColumns := ws.MaxColumns
	style := MergeStyles(inherited, b.Style)

	headers := make([]string, maxColumns)
	for i := range headers {
		if i < len(b.Headers) && b.Headers[i] != nil {
			headers[i] = cellText(b.Headers[i])
		}
	}

	for _, cw := range b.ColumnWidths {
		if c := cw.Key.resolve(headers, maxColumns); c > 0 {
			ws.SetColumnWidth(c, cw.Width)
		}
	}

	columnStyles := make(map[int]Style, len(b.ColumnStyles))
	for _, cs := range b.ColumnStyles {
		if c := cs.Key.resolve(headers, maxColumns); c > 0 {
			columnStyles[c] = MergeStyles(columnStyles[c], cs.Style)
		}
	}

	mergeCols := mergeColumnSet(b.MergeColumns, headers, maxColumns)
	body := fillBodyRows(b.Rows, maxColumns, mergeCols)

	r := cursor
	for c := 1; c <= maxColumns; c++ {
		cell := ws.Cell(r, c)
		cell.Value = headers[c-1]
		applyCellStyle(cell, headerBaseStyle)
		applyCellStyle(cell, MergeStyles(style, b.HeaderStyle, columnStyles[c], b.CellStyles[cellStyleKey(0, c)]))
	}
	styleRangeBorder(ws, r, 1, maxColumns)
	ws.SetRowHeight(r, headerRowHeight)
	if b.MergeHeaderSame {
		for _, run := range equalRuns(headerValues(headers), false) {
			ws.MergeCells(r, run.start+1, r, run.end+1)
		}
	}
	r++

	firstWidth := ws.ColumnWidth(1, firstColumnFallback)
	for i, values := range body {
		tableRow := i + 1
		rowStyle := b.RowStyles[i]
		for c := 1; c <= maxColumns; c++ {
			cell := ws.Cell(r, c)
			cell.Value = values[c-1]
			horizontal := "center"
			if c == 1 {
				horizontal = "left"
			}
			cell.Alignment = &Alignment{Vertical: "middle", Horizontal: horizontal, WrapText: true}
			cell.Font = decodeFont(bodyBaseFont)
			applyCellStyle(cell, MergeStyles(style, b.BodyStyle, columnStyles[c], rowStyle, b.CellStyles[cellStyleKey(tableRow, c)]))
		}
		styleRangeBorder(ws, r, 1, maxColumns)
		ws.SetRowHeight(r, EstimateRowHeight(cellText(ws.Cell(r, 1).Value), firstWidth, bodyBaseHeight))
		r++
	}

	firstBodyRow := cursor + 1
	for _, c := range sortedColumns(mergeCols) {
		column := make([]any, len(body))
		for i, values := range body {
			column[i] = values[c-1]
		}
		for _, run := range equalRuns(column, true) {
			ws.MergeCells(firstBodyRow+run.start, c, firstBodyRow+run.end, c)
		}
	}

	return r
}

// cellStyleKey builds the cellStyles key for a table row (0 = header) and
// 1-based column.
func cellStyleKey(tableRow, col int) string {
	return strconv.Itoa(tableRow) + "," + strconv.Itoa(col)
}

// mergeColumnSet resolves the configured merge columns to 1-based numbers.
func mergeColumnSet(keys []ColumnKey, headers []string, maxColumns int) map[int]bool {
	set := make(map[int]bool, len(keys))
	for _, k := range keys {
		if c := k.resolve(headers, maxColumns); c > 0 {
			set[c] = true
		}
	}
	return set
}

func sortedColumns(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for c := 1; len(out) < len(set); c++ {
		if set[c] {
			out = append(out, c)
		}
	}
	return out
}

// fillBodyRows pads every row to maxColumns cells and, in merge columns,
// replaces blank values with the nearest non-blank value above them.
func fillBodyRows(rows [][]any, maxColumns int, mergeCols map[int]bool) [][]any {
	out := make([][]any, len(rows))
	last := make(map[int]any, len(mergeCols))
	for i, src := range rows {
		values := make([]any, maxColumns)
		for c := range values {
			values[c] = ""
			if c < len(src) && src[c] != nil {
				values[c] = normalizeCellValue(src[c])
			}
		}
		for c := range mergeCols {
			v := values[c-1]
			if isEmptyValue(v) {
				if prev, ok := last[c]; ok {
					values[c-1] = prev
				}
			} else {
				last[c] = v
			}
		}
		out[i] = values
	}
	return out
}

func headerValues(headers []string) []any {
	out := make([]any, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}

// valueRun is an inclusive 0-based index range of equal adjacent values.
type valueRun struct {
	start, end int
}

// equalRuns returns the runs of two or more equal adjacent values. With
// skipBlank, runs of blank values are left out.
func equalRuns(values []any, skipBlank bool) []valueRun {
	var runs []valueRun
	start := 0
	for i := 1; i <= len(values); i++ {
		if i < len(values) && values[i] == values[start] {
			continue
		}
		if i-1 > start && !(skipBlank && isEmptyValue(values[start])) {
			runs = append(runs, valueRun{start: start, end: i - 1})
		}
		start = i
	}
	return runs
}
