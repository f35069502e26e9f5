package xlprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSheet(maxColumns int) *Worksheet {
	ws := NewWorksheet("Test")
	applySheetDefaults(ws, maxColumns, SheetLayout{Paper: defaultPaper})
	return ws
}

func TestRenderTitle(t *testing.T) {
	ws := newTestSheet(6)
	inherited := Style{"font": map[string]any{"color": "#FF0000"}}
	next := renderTitle(ws, 3, &TitleBlock{Value: "Report", Style: Style{"font": map[string]any{"size": 20.0}}}, inherited)

	assert.Equal(t, 4, next)
	assert.Equal(t, []AreaRef{NewAreaRef(3, 1, 3, 6)}, ws.Merges())
	cell := ws.Cell(3, 1)
	assert.Equal(t, "Report", cell.Value)
	assert.Equal(t, &Font{Name: "宋体", Size: 20, Bold: true, Color: "FF0000"}, cell.Font)
	assert.Equal(t, &Alignment{Horizontal: "center", Vertical: "middle", WrapText: true}, cell.Alignment)
	assert.Equal(t, 30.0, ws.RowHeight(3))
}

func TestRenderTitle_SingleColumnHasNoMerge(t *testing.T) {
	ws := newTestSheet(1)
	renderTitle(ws, 1, &TitleBlock{Value: 12.5}, nil)
	assert.Empty(t, ws.Merges())
	assert.Equal(t, 12.5, ws.Cell(1, 1).Value)
}

func TestRenderText_HeightFollowsLength(t *testing.T) {
	ws := newTestSheet(6)
	// the sheet is 98 units wide, so one line holds 156 characters
	short := renderText(ws, 1, &TextBlock{Value: "short"}, nil)
	assert.Equal(t, 2, short)
	assert.Equal(t, 18.0, ws.RowHeight(1))

	long := make([]rune, 200)
	for i := range long {
		long[i] = 'x'
	}
	renderText(ws, 2, &TextBlock{Value: string(long)}, nil)
	assert.Equal(t, 32.0, ws.RowHeight(2))

	cell := ws.Cell(2, 1)
	assert.Equal(t, 11.0, cell.Font.Size)
	assert.Equal(t, "center", cell.Alignment.Horizontal)
	assert.Equal(t, []AreaRef{NewAreaRef(1, 1, 1, 6), NewAreaRef(2, 1, 2, 6)}, ws.Merges())
}

func TestRenderText_StyleOverridesBase(t *testing.T) {
	ws := newTestSheet(2)
	renderText(ws, 1, &TextBlock{Value: "x"}, Style{"alignment": map[string]any{"horizontal": "left"}})
	assert.Equal(t, &Alignment{Horizontal: "left"}, ws.Cell(1, 1).Alignment, "a present fragment field replaces the base field")
	assert.Equal(t, "宋体", ws.Cell(1, 1).Font.Name)
}

func TestRenderSpaceRow(t *testing.T) {
	ws := newTestSheet(3)
	exempt := map[int]bool{}
	next := renderSpaceRow(ws, 5, &SpaceRowBlock{Count: 2, Height: 8}, exempt)

	assert.Equal(t, 7, next)
	assert.Equal(t, map[int]bool{5: true, 6: true}, exempt)
	assert.Equal(t, []AreaRef{NewAreaRef(5, 1, 5, 3), NewAreaRef(6, 1, 6, 3)}, ws.Merges())
	for r := 5; r <= 6; r++ {
		assert.Equal(t, 8.0, ws.RowHeight(r))
		for c := 1; c <= 3; c++ {
			assert.Equal(t, ThinBorder(), ws.Cell(r, c).Border)
		}
	}
}

func TestRenderSpaceRow_Defaults(t *testing.T) {
	ws := newTestSheet(3)
	next := renderSpaceRow(ws, 1, decodeSpaceRow(map[string]any{"count": -4.0}), nil)
	assert.Equal(t, 2, next)
	assert.Equal(t, 0.0, ws.RowHeight(1), "default height")
	assert.NotNil(t, ws.Cell(1, 3).Border)
}

func TestRenderForm_TwoPerRow(t *testing.T) {
	ws := newTestSheet(5)
	b := decodeForm(map[string]any{
		"fields": []any{
			map[string]any{"label": "Name", "value": "Ann"},
			map[string]any{"label": "Date"},
			map[string]any{"label": "Dept", "value": 12.0, "style": map[string]any{"font": map[string]any{"bold": true}}},
		},
	})
	next := renderForm(ws, 2, b, nil)

	assert.Equal(t, 4, next)
	// left field takes the extra column: 1-3 and 4-5
	assert.Equal(t, []AreaRef{
		NewAreaRef(2, 1, 2, 3),
		NewAreaRef(2, 4, 2, 5),
		NewAreaRef(3, 1, 3, 3),
	}, ws.Merges())
	assert.Equal(t, "Name：Ann", ws.Cell(2, 1).Value)
	assert.Equal(t, "Date：", ws.Cell(2, 4).Value)
	assert.Equal(t, "Dept：12", ws.Cell(3, 1).Value)
	assert.True(t, ws.Cell(3, 1).Font.Bold)
	assert.Equal(t, "left", ws.Cell(2, 4).Alignment.Horizontal)
	assert.Equal(t, 20.0, ws.RowHeight(3))
}

func TestRenderForm_FieldStyleChain(t *testing.T) {
	ws := newTestSheet(2)
	b := &FormBlock{
		Fields:     []FormField{{Label: "A", Value: "1"}},
		Style:      Style{"font": map[string]any{"size": 9.0}},
		FieldStyle: Style{"font": map[string]any{"italic": true}},
	}
	renderForm(ws, 1, b, Style{"font": map[string]any{"name": "Arial"}})
	assert.Equal(t, &Font{Name: "Arial", Size: 9, Italic: true}, ws.Cell(1, 1).Font)
	assert.Empty(t, ws.Merges(), "one column per field on a two-column sheet")
}

func TestRenderForm_SingleColumnAndEmpty(t *testing.T) {
	ws := newTestSheet(1)
	b := decodeForm(map[string]any{"fields": []any{
		map[string]any{"label": "A"}, "bogus", map[string]any{"label": "C"},
	}})
	next := renderForm(ws, 1, b, nil)
	assert.Equal(t, 4, next)
	assert.Equal(t, "A：", ws.Cell(1, 1).Value)
	assert.Equal(t, "：", ws.Cell(2, 1).Value)
	assert.Equal(t, "C：", ws.Cell(3, 1).Value)

	empty := newTestSheet(6)
	assert.Equal(t, 2, renderForm(empty, 1, &FormBlock{}, nil), "an empty form still advances one row")
}

func TestDecodeBlock(t *testing.T) {
	b, ok := DecodeBlock(map[string]any{"type": "title", "val": "alias"})
	require.True(t, ok)
	assert.Equal(t, "alias", b.(*TitleBlock).Value)

	b, ok = DecodeBlock(map[string]any{"type": "text", "value": "v", "val": "ignored"})
	require.True(t, ok)
	assert.Equal(t, "v", b.(*TextBlock).Value)

	b, ok = DecodeBlock(map[string]any{"type": "space-row", "count": 2.7, "height": 0.0})
	require.True(t, ok)
	assert.Equal(t, &SpaceRowBlock{Count: 2}, b)

	_, ok = DecodeBlock(map[string]any{"type": "chart"})
	assert.False(t, ok)
	_, ok = DecodeBlock(map[string]any{})
	assert.False(t, ok)
}

func TestFormText(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"x", "Qty：x"},
		{12.0, "Qty：12"},
		{true, "Qty：true"},
		{nil, "Qty："},
		{"", "Qty："},
		{0.0, "Qty："},
		{0, "Qty："},
		{false, "Qty："},
		{"0", "Qty：0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formText(FormField{Label: "Qty", Value: tt.value}), "%v", tt.value)
	}
}
