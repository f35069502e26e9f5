package xlprint

import (
	"fmt"
	"io"
)

// SheetView holds the view options of a new worksheet.
type SheetView struct {
	ShowGridLines    bool
	DefaultRowHeight float64
}

// Sink receives a rendered workbook and serializes it. Rows and columns are
// 1-based.
type Sink interface {
	AddSheet(name string, view SheetView) error
	SetColumnWidths(sheet string, widths []float64) error
	SetPageSetup(sheet string, setup PageSetup) error
	SetCell(sheet string, cell *Cell) error
	MergeCells(sheet string, area AreaRef) error
	SetRowHeight(sheet string, row int, height float64) error
	SetPrintArea(sheet string, area AreaRef) error
	SetProperties(creator, created string) error
	Write(w io.Writer) error
	Close() error
}

// Flush replays a workbook into a sink, sheet by sheet.
func Flush(wb *Workbook, sink Sink) error {
	for _, ws := range wb.Sheets {
		if err := flushSheet(ws, sink); err != nil {
			return err
		}
	}
	if err := sink.SetProperties(wb.Creator, wb.Created); err != nil {
		return fmt.Errorf("set workbook properties: %w", err)
	}
	return nil
}

func flushSheet(ws *Worksheet, sink Sink) error {
	name := ws.Name
	view := SheetView{ShowGridLines: ws.ShowGridLines, DefaultRowHeight: ws.DefaultRowHeight}
	if err := sink.AddSheet(name, view); err != nil {
		return sheetError(name, "create", err)
	}
	if err := sink.SetColumnWidths(name, ws.Columns); err != nil {
		return sheetError(name, "columns", err)
	}
	if err := sink.SetPageSetup(name, ws.PageSetup); err != nil {
		return sheetError(name, "page", err)
	}
	for _, r := range ws.RowNumbers() {
		for _, cell := range ws.Cells(r) {
			if err := sink.SetCell(name, cell); err != nil {
				return sheetError(name, "cell", fmt.Errorf("%s: %w", cell.Ref, err))
			}
		}
		if h := ws.RowHeight(r); h > 0 {
			if err := sink.SetRowHeight(name, r, h); err != nil {
				return sheetError(name, "row", err)
			}
		}
	}
	for _, area := range ws.Merges() {
		if err := sink.MergeCells(name, area); err != nil {
			return sheetError(name, "merge", fmt.Errorf("%s: %w", area, err))
		}
	}
	if ws.PrintArea != nil {
		if err := sink.SetPrintArea(name, *ws.PrintArea); err != nil {
			return sheetError(name, "print-area", err)
		}
	}
	return nil
}
