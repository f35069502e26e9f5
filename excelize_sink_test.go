package xlprint

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openGenerated(t *testing.T, config any, opts ...Option) *excelize.File {
	t.Helper()
	data, err := GenerateBytes(config, opts...)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func reportConfig() map[string]any {
	return map[string]any{
		"maxColumns": 6.0,
		"rows": []any{
			map[string]any{"type": "title", "value": "Report"},
			map[string]any{"type": "table",
				"headers":      []any{"Item", "Item", "Qty"},
				"headerStyle":  map[string]any{"fill": map[string]any{"type": "pattern", "pattern": "solid", "fgColor": "#DDEEFF"}},
				"mergeColumns": []any{"Qty"},
				"rows": []any{
					[]any{"apple", 2.0, 5.0},
					[]any{"pear", 3.0},
				},
				"mergeHeaderSame": true,
			},
		},
	}
}

func TestExcelizeSink_RoundTrip(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	f := openGenerated(t, reportConfig(), WithCreator("tester"), WithNow(func() time.Time { return at }))
	sheet := "打印"

	assert.Equal(t, []string{sheet}, f.GetSheetList())

	v, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Report", v)
	v, _ = f.GetCellValue(sheet, "B3")
	assert.Equal(t, "2", v)
	v, _ = f.GetCellValue(sheet, "C4")
	assert.Equal(t, "5", v, "blank merge cell carries the value above")

	merges, err := f.GetMergeCells(sheet, true)
	require.NoError(t, err)
	var refs []string
	for _, m := range merges {
		refs = append(refs, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	assert.ElementsMatch(t, []string{"A1:F1", "A2:B2", "D2:F2", "C3:C4"}, refs)

	w, err := f.GetColWidth(sheet, "A")
	require.NoError(t, err)
	assert.InDelta(t, 32.0, w, 0.001)
	w, _ = f.GetColWidth(sheet, "F")
	assert.InDelta(t, 18.0, w, 0.001)

	h, err := f.GetRowHeight(sheet, 1)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, h, 0.001)
	h, _ = f.GetRowHeight(sheet, 2)
	assert.InDelta(t, 22.0, h, 0.001)

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "tester", props.Creator)
	assert.Equal(t, "2024-01-02T03:04:05Z", props.Created)
}

func TestExcelizeSink_PrintSetup(t *testing.T) {
	f := openGenerated(t, reportConfig())
	sheet := "打印"

	var printArea *excelize.DefinedName
	for _, dn := range f.GetDefinedName() {
		if dn.Name == "_xlnm.Print_Area" {
			printArea = &dn
		}
	}
	require.NotNil(t, printArea)
	assert.Equal(t, "'打印'!$A$1:$F$4", printArea.RefersTo)
	assert.Equal(t, sheet, printArea.Scope)
	area, err := ParseAreaRef(printArea.RefersTo)
	require.NoError(t, err)
	assert.Equal(t, NewAreaRef(1, 1, 4, 6), area)
	assert.Equal(t, Size{Width: 6, Height: 4}, area.Size())

	layout, err := f.GetPageLayout(sheet)
	require.NoError(t, err)
	require.NotNil(t, layout.Size)
	assert.Equal(t, 9, *layout.Size)
	assert.Equal(t, "portrait", *layout.Orientation)
	require.NotNil(t, layout.FitToWidth)
	assert.Equal(t, 1, *layout.FitToWidth)

	sheetProps, err := f.GetSheetProps(sheet)
	require.NoError(t, err)
	require.NotNil(t, sheetProps.FitToPage)
	assert.True(t, *sheetProps.FitToPage)
	assert.InDelta(t, 20.0, *sheetProps.DefaultRowHeight, 0.001)

	margins, err := f.GetPageMargins(sheet)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, *margins.Left, 0.001)
	assert.InDelta(t, 0.4, *margins.Top, 0.001)
	assert.InDelta(t, 0.2, *margins.Footer, 0.001)
	require.NotNil(t, margins.Horizontally)
	assert.True(t, *margins.Horizontally)

	view, err := f.GetSheetView(sheet, 0)
	require.NoError(t, err)
	assert.False(t, *view.ShowGridLines)
}

func TestExcelizeSink_Styles(t *testing.T) {
	f := openGenerated(t, reportConfig())
	sheet := "打印"

	styleOfCell := func(ref string) *excelize.Style {
		id, err := f.GetCellStyle(sheet, ref)
		require.NoError(t, err)
		st, err := f.GetStyle(id)
		require.NoError(t, err)
		return st
	}

	title := styleOfCell("A1")
	require.NotNil(t, title.Font)
	assert.True(t, title.Font.Bold)
	assert.Equal(t, "宋体", title.Font.Family)
	assert.Equal(t, 16.0, title.Font.Size)
	require.NotNil(t, title.Alignment)
	assert.Equal(t, "center", title.Alignment.Horizontal)
	assert.Equal(t, "center", title.Alignment.Vertical)
	assert.True(t, title.Alignment.WrapText)
	assert.Len(t, title.Border, 4)

	header := styleOfCell("A2")
	assert.Equal(t, "pattern", header.Fill.Type)
	assert.Equal(t, 1, header.Fill.Pattern)

	body := styleOfCell("A3")
	assert.Equal(t, "left", body.Alignment.Horizontal)
	for _, b := range body.Border {
		assert.Equal(t, 1, b.Style, b.Type)
	}
}

func TestExcelizeSink_MultipleSheets(t *testing.T) {
	f := openGenerated(t, map[string]any{
		"sheets": []any{
			map[string]any{"name": "O'Neil", "maxColumns": 2.0},
			map[string]any{"name": "Second", "maxColumns": 3.0},
		},
	})
	assert.Equal(t, []string{"O'Neil", "Second"}, f.GetSheetList())
	assert.Equal(t, 0, f.GetActiveSheetIndex())

	areas := map[string]string{}
	for _, dn := range f.GetDefinedName() {
		areas[dn.Scope] = dn.RefersTo
	}
	assert.Equal(t, "'O''Neil'!$A$1:$B$1", areas["O'Neil"])
	assert.Equal(t, "'Second'!$A$1:$C$1", areas["Second"])

	for scope, refersTo := range areas {
		area, err := ParseAreaRef(refersTo)
		require.NoError(t, err, scope)
		assert.Equal(t, 1, area.First.Row, scope)
		assert.Equal(t, 1, area.Last.Row, scope)
	}
}

func TestExcelizeFill(t *testing.T) {
	assert.Equal(t, excelize.Fill{}, excelizeFill(&Fill{Type: "pattern", Pattern: "solid"}))
	assert.Equal(t, excelize.Fill{Type: "pattern", Pattern: 17}, excelizeFill(&Fill{Pattern: "gray125"}))
	assert.Equal(t, excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FF0000"}}, excelizeFill(&Fill{Pattern: "bogus", FgColor: "FF0000"}))
	assert.Equal(t, excelize.Fill{Type: "gradient", Color: []string{"FFFFFF", "000000"}}, excelizeFill(&Fill{Type: "gradient", FgColor: "FFFFFF", BgColor: "000000"}))
}

func TestExcelizeStyle(t *testing.T) {
	assert.Nil(t, excelizeStyle(&Cell{}))

	st := excelizeStyle(&Cell{
		Alignment: &Alignment{Horizontal: "middle", Vertical: "middle"},
		Border:    &Border{Top: &BorderSide{Style: "medium", Color: "FF0000"}, Left: &BorderSide{Style: "unknown"}},
		NumFmt:    "0.00",
	})
	assert.Equal(t, "center", st.Alignment.Horizontal)
	assert.Equal(t, "center", st.Alignment.Vertical)
	assert.Equal(t, []excelize.Border{{Type: "top", Color: "FF0000", Style: 2}}, st.Border)
	require.NotNil(t, st.CustomNumFmt)
	assert.Equal(t, "0.00", *st.CustomNumFmt)
}

func TestExcelizeSink_StyleCache(t *testing.T) {
	sink := NewExcelizeSink()
	defer sink.Close()
	require.NoError(t, sink.AddSheet("S", SheetView{}))

	a := &Cell{Ref: NewCellRef(1, 1), Value: "a", Border: ThinBorder()}
	b := &Cell{Ref: NewCellRef(1, 2), Value: "b", Border: ThinBorder()}
	require.NoError(t, sink.SetCell("S", a))
	require.NoError(t, sink.SetCell("S", b))
	assert.Len(t, sink.styleCache, 1)

	idA, _ := sink.File().GetCellStyle("S", "A1")
	idB, _ := sink.File().GetCellStyle("S", "B1")
	assert.Equal(t, idA, idB)
}

func TestGenerateFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "report.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("name: Daily\nmaxColumns: 2\nrows:\n  - type: title\n    value: Hi\n"), 0o644))

	out := filepath.Join(dir, "report.xlsx")
	require.NoError(t, GenerateFile(cfgPath, out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Daily"}, f.GetSheetList())
	v, _ := f.GetCellValue("Daily", "A1")
	assert.Equal(t, "Hi", v)
}

// failingSink rejects merges and records everything else.
type failingSink struct {
	ExcelizeSink
	merged int
}

func (s *failingSink) MergeCells(string, AreaRef) error {
	s.merged++
	return errors.New("boom")
}

func (s *failingSink) Write(io.Writer) error { return nil }

func TestFlush_WrapsSinkErrors(t *testing.T) {
	sink := &failingSink{ExcelizeSink: *NewExcelizeSink()}
	defer sink.Close()

	err := Flush(Build(map[string]any{"name": "Bad", "rows": []any{map[string]any{"type": "title", "value": "x"}}}), sink)
	require.Error(t, err)

	var se *SheetError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Bad", se.Sheet)
	assert.Equal(t, "merge", se.Op)
	assert.Equal(t, 1, sink.merged)
	assert.Contains(t, err.Error(), `sheet "Bad": merge: A1:F1: boom`)
}

func TestExcelizeSink_QuotedSheetNames(t *testing.T) {
	title := []any{map[string]any{"type": "title", "value": "T"}}
	f := openGenerated(t, map[string]any{
		"sheets": []any{
			map[string]any{"name": "'Q1'", "rows": title},
			map[string]any{"name": "a'", "rows": title},
			map[string]any{"name": "'", "rows": title},
		},
	})
	assert.Equal(t, []string{"Q1", "a", "Sheet"}, f.GetSheetList())
	v, err := f.GetCellValue("Q1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "T", v)
}
