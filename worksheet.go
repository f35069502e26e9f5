package xlprint

import "sort"

// Cell holds the value and resolved style of one worksheet cell.
type Cell struct {
	Ref       CellRef
	Value     any // nil, string, float64 or bool
	Font      *Font
	Alignment *Alignment
	Border    *Border
	Fill      *Fill
	NumFmt    string
}

// row holds the cells of one worksheet row.
type row struct {
	height float64 // 0 = default
	cells  map[int]*Cell
}

// PageSetup is the print configuration of a worksheet.
type PageSetup struct {
	PaperSize          int
	Orientation        string
	FitToPage          bool
	FitToWidth         int
	FitToHeight        int
	HorizontalCentered bool
	Margins            Margins
}

// Margins are page margins in inches.
type Margins struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
	Header float64
	Footer float64
}

// Worksheet is the in-memory sheet the renderers draw into. It is owned by
// the generator while a sheet is built and flushed to a Sink afterwards.
type Worksheet struct {
	Name             string
	MaxColumns       int
	Columns          []float64 // column widths, index 0 = column A
	PageSetup        PageSetup
	PrintArea        *AreaRef
	DefaultRowHeight float64
	ShowGridLines    bool

	rows   map[int]*row
	merges []AreaRef
}

// NewWorksheet creates an empty worksheet.
func NewWorksheet(name string) *Worksheet {
	return &Worksheet{
		Name:          name,
		ShowGridLines: true,
		rows:          make(map[int]*row),
	}
}

func (ws *Worksheet) getRow(r int) *row {
	rd, ok := ws.rows[r]
	if !ok {
		rd = &row{cells: make(map[int]*Cell)}
		ws.rows[r] = rd
	}
	return rd
}

// Cell returns the cell at (row, col), creating it when absent.
func (ws *Worksheet) Cell(r, c int) *Cell {
	rd := ws.getRow(r)
	cell, ok := rd.cells[c]
	if !ok {
		cell = &Cell{Ref: NewCellRef(r, c)}
		rd.cells[c] = cell
	}
	return cell
}

// LookupCell returns the cell at (row, col) or nil when it was never touched.
func (ws *Worksheet) LookupCell(r, c int) *Cell {
	rd, ok := ws.rows[r]
	if !ok {
		return nil
	}
	return rd.cells[c]
}

// MergeCells records a merged range. Single-cell ranges are ignored.
func (ws *Worksheet) MergeCells(row1, col1, row2, col2 int) {
	area := NewAreaRef(row1, col1, row2, col2)
	if area.First == area.Last {
		return
	}
	ws.merges = append(ws.merges, area)
}

// Merges returns the merged ranges in the order they were recorded.
func (ws *Worksheet) Merges() []AreaRef {
	return ws.merges
}

// mergeAcross merges columns colStart..colEnd of a row when the span is wider
// than one column, and returns the top-left cell.
func (ws *Worksheet) mergeAcross(r, colStart, colEnd int) *Cell {
	if colEnd > colStart {
		ws.MergeCells(r, colStart, r, colEnd)
	}
	return ws.Cell(r, colStart)
}

// SetRowHeight sets an explicit row height.
func (ws *Worksheet) SetRowHeight(r int, h float64) {
	ws.getRow(r).height = h
}

// RowHeight returns the explicit height of a row, or 0 when it has none.
func (ws *Worksheet) RowHeight(r int) float64 {
	if rd, ok := ws.rows[r]; ok {
		return rd.height
	}
	return 0
}

// ColumnWidth returns the width of a 1-based column, or fallback when unset.
func (ws *Worksheet) ColumnWidth(c int, fallback float64) float64 {
	if c >= 1 && c <= len(ws.Columns) && ws.Columns[c-1] > 0 {
		return ws.Columns[c-1]
	}
	return fallback
}

// SetColumnWidth overrides the width of a 1-based column, growing the width
// list when needed.
func (ws *Worksheet) SetColumnWidth(c int, w float64) {
	if c < 1 {
		return
	}
	for len(ws.Columns) < c {
		ws.Columns = append(ws.Columns, 0)
	}
	ws.Columns[c-1] = w
}

// TotalWidth sums the column widths, counting unset columns as fallback.
func (ws *Worksheet) TotalWidth(fallback float64) float64 {
	total := 0.0
	for i := range ws.Columns {
		total += ws.ColumnWidth(i+1, fallback)
	}
	return total
}

// RowNumbers returns the numbers of all rows that hold cells or a height,
// in ascending order.
func (ws *Worksheet) RowNumbers() []int {
	out := make([]int, 0, len(ws.rows))
	for r := range ws.rows {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

// Cells returns the cells of a row ordered by column.
func (ws *Worksheet) Cells(r int) []*Cell {
	rd, ok := ws.rows[r]
	if !ok {
		return nil
	}
	out := make([]*Cell, 0, len(rd.cells))
	for _, c := range rd.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref.Col < out[j].Ref.Col })
	return out
}

// Workbook is an ordered set of rendered worksheets.
type Workbook struct {
	Creator string
	Created string // RFC 3339
	Sheets  []*Worksheet
}

// Sheet returns the worksheet with the given name, or nil.
func (wb *Workbook) Sheet(name string) *Worksheet {
	for _, ws := range wb.Sheets {
		if ws.Name == name {
			return ws
		}
	}
	return nil
}
