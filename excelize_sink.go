package xlprint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelizeSink implements Sink using excelize.
type ExcelizeSink struct {
	file       *excelize.File
	sheets     int
	styleCache map[string]int // JSON of the excelize style → style ID
}

// NewExcelizeSink creates a sink over a new, empty excelize workbook.
func NewExcelizeSink() *ExcelizeSink {
	return &ExcelizeSink{
		file:       excelize.NewFile(),
		styleCache: make(map[string]int),
	}
}

// AddSheet creates a worksheet. The first sheet takes over the default
// "Sheet1" that every new workbook starts with.
func (s *ExcelizeSink) AddSheet(name string, view SheetView) error {
	if s.sheets == 0 {
		if err := s.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename default sheet: %w", err)
		}
	} else if _, err := s.file.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	s.sheets++

	grid := view.ShowGridLines
	if err := s.file.SetSheetView(name, 0, &excelize.ViewOptions{ShowGridLines: &grid}); err != nil {
		return fmt.Errorf("set view: %w", err)
	}
	if view.DefaultRowHeight > 0 {
		h := view.DefaultRowHeight
		custom := true
		if err := s.file.SetSheetProps(name, &excelize.SheetPropsOptions{
			DefaultRowHeight: &h,
			CustomHeight:     &custom,
		}); err != nil {
			return fmt.Errorf("set default row height: %w", err)
		}
	}
	return nil
}

// SetColumnWidths sets the width of columns A, B, ... in order.
func (s *ExcelizeSink) SetColumnWidths(sheet string, widths []float64) error {
	for i, w := range widths {
		if w <= 0 {
			continue
		}
		col := ColToName(i + 1)
		if err := s.file.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("column %s: %w", col, err)
		}
	}
	return nil
}

// SetPageSetup writes paper size, orientation, fit-to-page and margins.
func (s *ExcelizeSink) SetPageSetup(sheet string, setup PageSetup) error {
	layout := &excelize.PageLayoutOptions{}
	if setup.PaperSize > 0 {
		size := setup.PaperSize
		layout.Size = &size
	}
	if setup.Orientation != "" {
		orientation := setup.Orientation
		layout.Orientation = &orientation
	}
	if setup.FitToPage {
		fitW, fitH := setup.FitToWidth, setup.FitToHeight
		layout.FitToWidth = &fitW
		layout.FitToHeight = &fitH
	}
	if err := s.file.SetPageLayout(sheet, layout); err != nil {
		return fmt.Errorf("page layout: %w", err)
	}

	fit := setup.FitToPage
	if err := s.file.SetSheetProps(sheet, &excelize.SheetPropsOptions{FitToPage: &fit}); err != nil {
		return fmt.Errorf("fit to page: %w", err)
	}

	m := setup.Margins
	centered := setup.HorizontalCentered
	if err := s.file.SetPageMargins(sheet, &excelize.PageLayoutMarginsOptions{
		Left:         &m.Left,
		Right:        &m.Right,
		Top:          &m.Top,
		Bottom:       &m.Bottom,
		Header:       &m.Header,
		Footer:       &m.Footer,
		Horizontally: &centered,
	}); err != nil {
		return fmt.Errorf("page margins: %w", err)
	}
	return nil
}

// SetCell writes the value and, when the cell carries any styling, a cached style.
func (s *ExcelizeSink) SetCell(sheet string, cell *Cell) error {
	name := cell.Ref.CellName()
	if !isEmptyValue(cell.Value) {
		if err := s.file.SetCellValue(sheet, name, cell.Value); err != nil {
			return err
		}
	}

	style := excelizeStyle(cell)
	if style == nil {
		return nil
	}
	id, err := s.styleID(style)
	if err != nil {
		return err
	}
	return s.file.SetCellStyle(sheet, name, name, id)
}

// styleID returns a style ID for style, creating it on first use.
func (s *ExcelizeSink) styleID(style *excelize.Style) (int, error) {
	key, err := json.Marshal(style)
	if err != nil {
		return 0, fmt.Errorf("style key: %w", err)
	}
	if id, ok := s.styleCache[string(key)]; ok {
		return id, nil
	}
	id, err := s.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("new style: %w", err)
	}
	s.styleCache[string(key)] = id
	return id, nil
}

// MergeCells merges a rectangular range.
func (s *ExcelizeSink) MergeCells(sheet string, area AreaRef) error {
	return s.file.MergeCell(sheet, area.First.CellName(), area.Last.CellName())
}

// SetRowHeight sets the height of a 1-based row.
func (s *ExcelizeSink) SetRowHeight(sheet string, row int, height float64) error {
	return s.file.SetRowHeight(sheet, row, height)
}

// SetPrintArea defines the sheet-scoped _xlnm.Print_Area name.
func (s *ExcelizeSink) SetPrintArea(sheet string, area AreaRef) error {
	return s.file.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: quoteSheetName(sheet) + "!" + area.Absolute(),
		Scope:    sheet,
	})
}

// SetProperties sets the workbook creator and created timestamp.
func (s *ExcelizeSink) SetProperties(creator, created string) error {
	return s.file.SetDocProps(&excelize.DocProperties{
		Creator: creator,
		Created: created,
	})
}

// Write serializes the workbook.
func (s *ExcelizeSink) Write(w io.Writer) error {
	if s.sheets > 0 {
		s.file.SetActiveSheet(0)
	}
	return s.file.Write(w)
}

// Close releases the underlying file.
func (s *ExcelizeSink) Close() error {
	return s.file.Close()
}

// File returns the underlying excelize file.
func (s *ExcelizeSink) File() *excelize.File {
	return s.file
}

func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// excelizeStyle converts the resolved style of a cell, or returns nil when
// the cell has none.
func excelizeStyle(cell *Cell) *excelize.Style {
	if cell.Font == nil && cell.Alignment == nil && cell.Border == nil && cell.Fill == nil && cell.NumFmt == "" {
		return nil
	}
	st := &excelize.Style{}
	if f := cell.Font; f != nil {
		st.Font = &excelize.Font{
			Family:    f.Name,
			Size:      f.Size,
			Bold:      f.Bold,
			Italic:    f.Italic,
			Strike:    f.Strike,
			Underline: f.Underline,
			Color:     f.Color,
		}
	}
	if a := cell.Alignment; a != nil {
		st.Alignment = &excelize.Alignment{
			Horizontal:   horizontalAlign(a.Horizontal),
			Vertical:     verticalAlign(a.Vertical),
			WrapText:     a.WrapText,
			ShrinkToFit:  a.ShrinkToFit,
			Indent:       a.Indent,
			TextRotation: a.TextRotation,
		}
	}
	if b := cell.Border; b != nil {
		sides := []struct {
			typ  string
			side *BorderSide
		}{{"left", b.Left}, {"top", b.Top}, {"right", b.Right}, {"bottom", b.Bottom}}
		for _, sd := range sides {
			if sd.side == nil {
				continue
			}
			if id, ok := borderStyles[sd.side.Style]; ok {
				st.Border = append(st.Border, excelize.Border{Type: sd.typ, Color: sd.side.Color, Style: id})
			}
		}
	}
	if fl := cell.Fill; fl != nil {
		st.Fill = excelizeFill(fl)
	}
	if cell.NumFmt != "" {
		numFmt := cell.NumFmt
		st.CustomNumFmt = &numFmt
	}
	return st
}

// borderStyles maps border style names to excelize border style indexes.
var borderStyles = map[string]int{
	"thin":             1,
	"medium":           2,
	"dashed":           3,
	"dotted":           4,
	"thick":            5,
	"double":           6,
	"hair":             7,
	"mediumDashed":     8,
	"dashDot":          9,
	"mediumDashDot":    10,
	"dashDotDot":       11,
	"mediumDashDotDot": 12,
	"slantDashDot":     13,
}

// fillPatterns maps pattern fill names to excelize pattern indexes.
var fillPatterns = map[string]int{
	"none":            0,
	"solid":           1,
	"mediumGray":      2,
	"darkGray":        3,
	"lightGray":       4,
	"darkHorizontal":  5,
	"darkVertical":    6,
	"darkDown":        7,
	"darkUp":          8,
	"darkGrid":        9,
	"darkTrellis":     10,
	"lightHorizontal": 11,
	"lightVertical":   12,
	"lightDown":       13,
	"lightUp":         14,
	"lightGrid":       15,
	"lightTrellis":    16,
	"gray125":         17,
	"gray0625":        18,
}

func excelizeFill(f *Fill) excelize.Fill {
	if f.Type == "gradient" {
		var colors []string
		for _, c := range []string{f.FgColor, f.BgColor} {
			if c != "" {
				colors = append(colors, c)
			}
		}
		return excelize.Fill{Type: "gradient", Color: colors}
	}
	pattern, ok := fillPatterns[f.Pattern]
	if !ok {
		pattern = 1
	}
	if pattern == 1 && f.FgColor == "" {
		return excelize.Fill{}
	}
	out := excelize.Fill{Type: "pattern", Pattern: pattern}
	if f.FgColor != "" {
		out.Color = []string{f.FgColor}
	}
	return out
}

func horizontalAlign(h string) string {
	if h == "middle" {
		return "center"
	}
	return h
}

func verticalAlign(v string) string {
	if v == "middle" {
		return "center"
	}
	return v
}
