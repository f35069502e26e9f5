package xlprint

import (
	"math"
	"strconv"
)

// BlockKind names a block type as written in the "type" field.
type BlockKind string

const (
	KindTitle    BlockKind = "title"
	KindText     BlockKind = "text"
	KindSpaceRow BlockKind = "space-row"
	KindForm     BlockKind = "form"
	KindTable    BlockKind = "table"
)

// Block is one declarative content unit of a sheet. The set of
// implementations is closed: TitleBlock, TextBlock, SpaceRowBlock,
// FormBlock and TableBlock.
type Block interface {
	Kind() BlockKind
	isBlock()
}

// TitleBlock is a full-width heading row.
type TitleBlock struct {
	Value any
	Style Style
}

// TextBlock is a full-width wrapped paragraph row.
type TextBlock struct {
	Value any
	Style Style
}

// SpaceRowBlock is one or more blank bordered rows.
type SpaceRowBlock struct {
	Count  int
	Height float64 // 0 = default height
}

// FormField is a single "label：value" entry of a form.
type FormField struct {
	Label any
	Value any
	Style Style
}

// FormBlock lays out fields two per row.
type FormBlock struct {
	Fields     []FormField
	Style      Style
	FieldStyle Style
}

// ColumnKey selects a table column either by 1-based position or by header label.
type ColumnKey struct {
	Index int // 1-based; 0 when selecting by label
	Label string
}

// ColumnWidth is a width override for one column.
type ColumnWidth struct {
	Key   ColumnKey
	Width float64
}

// ColumnStyle is a style fragment for one column.
type ColumnStyle struct {
	Key   ColumnKey
	Style Style
}

// TableBlock is a header row followed by body rows.
type TableBlock struct {
	Headers         []any
	Rows            [][]any
	ColumnWidths    []ColumnWidth
	MergeHeaderSame bool
	MergeColumns    []ColumnKey
	Style           Style
	HeaderStyle     Style
	BodyStyle       Style
	ColumnStyles    []ColumnStyle
	RowStyles       map[int]Style    // key 0 = first body row
	CellStyles      map[string]Style // "row,col": row 0 = header, col 1-based
}

func (*TitleBlock) Kind() BlockKind    { return KindTitle }
func (*TextBlock) Kind() BlockKind     { return KindText }
func (*SpaceRowBlock) Kind() BlockKind { return KindSpaceRow }
func (*FormBlock) Kind() BlockKind     { return KindForm }
func (*TableBlock) Kind() BlockKind    { return KindTable }

func (*TitleBlock) isBlock()    {}
func (*TextBlock) isBlock()     {}
func (*SpaceRowBlock) isBlock() {}
func (*FormBlock) isBlock()     {}
func (*TableBlock) isBlock()    {}

// DecodeBlock reads a block record. It returns false for records with an
// unknown or missing "type"; malformed fields fall back to their defaults.
func DecodeBlock(m map[string]any) (Block, bool) {
	kind, _ := toString(m["type"])
	switch BlockKind(kind) {
	case KindTitle:
		return &TitleBlock{Value: blockValue(m), Style: styleOf(m["style"])}, true
	case KindText:
		return &TextBlock{Value: blockValue(m), Style: styleOf(m["style"])}, true
	case KindSpaceRow:
		return decodeSpaceRow(m), true
	case KindForm:
		return decodeForm(m), true
	case KindTable:
		return decodeTable(m), true
	}
	return nil, false
}

// blockValue reads "value", falling back to "val".
func blockValue(m map[string]any) any {
	if v, ok := m["value"]; ok {
		return v
	}
	return m["val"]
}

func decodeSpaceRow(m map[string]any) *SpaceRowBlock {
	b := &SpaceRowBlock{Count: 1}
	if n, ok := toFloat(m["count"]); ok {
		b.Count = max(1, int(math.Floor(n)))
	}
	if h, ok := toFloat(m["height"]); ok && h > 0 {
		b.Height = h
	}
	return b
}

func decodeForm(m map[string]any) *FormBlock {
	b := &FormBlock{
		Style:      styleOf(m["style"]),
		FieldStyle: styleOf(m["fieldStyle"]),
	}
	fields, _ := asSlice(m["fields"])
	for _, f := range fields {
		fm, ok := asMap(f)
		if !ok {
			// a non-record entry still occupies a slot, with an empty label
			b.Fields = append(b.Fields, FormField{})
			continue
		}
		b.Fields = append(b.Fields, FormField{
			Label: fm["label"],
			Value: fm["value"],
			Style: styleOf(fm["style"]),
		})
	}
	return b
}

func decodeTable(m map[string]any) *TableBlock {
	b := &TableBlock{
		MergeHeaderSame: toBool(m["mergeHeaderSame"]),
		Style:           styleOf(m["style"]),
		HeaderStyle:     styleOf(m["headerStyle"]),
		BodyStyle:       styleOf(m["bodyStyle"]),
	}
	b.Headers, _ = asSlice(m["headers"])

	rows, _ := asSlice(m["rows"])
	for _, r := range rows {
		cells, _ := asSlice(r)
		b.Rows = append(b.Rows, cells)
	}

	b.ColumnWidths = decodeColumnWidths(m["columnWidths"])
	b.ColumnStyles = decodeColumnStyles(m["columnStyles"])

	merge, _ := asSlice(m["mergeColumns"])
	for _, item := range merge {
		if n, ok := toFloat(item); ok {
			b.MergeColumns = append(b.MergeColumns, ColumnKey{Index: int(math.Floor(n))})
			continue
		}
		if s, ok := item.(string); ok && s != "" {
			b.MergeColumns = append(b.MergeColumns, ColumnKey{Label: s})
		}
	}

	b.RowStyles = decodeRowStyles(m["rowStyles"])

	if cs, ok := asMap(m["cellStyles"]); ok {
		b.CellStyles = make(map[string]Style, len(cs))
		for k, s := range cs {
			if st := styleOf(s); st != nil {
				b.CellStyles[k] = st
			}
		}
	}
	return b
}

// decodeColumnWidths accepts a positional array or an object keyed by
// 1-based column number or header label. Non-positive widths are dropped.
func decodeColumnWidths(v any) []ColumnWidth {
	var out []ColumnWidth
	if arr, ok := asSlice(v); ok {
		for i, w := range arr {
			if f, ok := toFloat(w); ok && f > 0 {
				out = append(out, ColumnWidth{Key: ColumnKey{Index: i + 1}, Width: f})
			}
		}
		return out
	}
	if obj, ok := asMap(v); ok {
		for _, k := range sortedKeys(obj) {
			if f, ok := toFloat(obj[k]); ok && f > 0 {
				out = append(out, ColumnWidth{Key: columnKeyOf(k), Width: f})
			}
		}
	}
	return out
}

// decodeColumnStyles accepts a positional array or an object keyed by
// 0-based column number or header label.
func decodeColumnStyles(v any) []ColumnStyle {
	var out []ColumnStyle
	if arr, ok := asSlice(v); ok {
		for i, s := range arr {
			if st := styleOf(s); st != nil {
				out = append(out, ColumnStyle{Key: ColumnKey{Index: i + 1}, Style: st})
			}
		}
		return out
	}
	if obj, ok := asMap(v); ok {
		for _, k := range sortedKeys(obj) {
			if st := styleOf(obj[k]); st != nil {
				key := columnKeyOf(k)
				if key.Label == "" {
					key.Index++
				}
				out = append(out, ColumnStyle{Key: key, Style: st})
			}
		}
	}
	return out
}

// decodeRowStyles accepts a positional array or an object keyed by 0-based
// body row number.
func decodeRowStyles(v any) map[int]Style {
	out := make(map[int]Style)
	if arr, ok := asSlice(v); ok {
		for i, s := range arr {
			if st := styleOf(s); st != nil {
				out[i] = st
			}
		}
		return out
	}
	if obj, ok := asMap(v); ok {
		for k, s := range obj {
			n, err := strconv.Atoi(k)
			if err != nil || n < 0 || strconv.Itoa(n) != k {
				continue
			}
			if st := styleOf(s); st != nil {
				out[n] = st
			}
		}
	}
	return out
}

// columnKeyOf reads an object key: a canonical integer is a column number,
// anything else a header label.
func columnKeyOf(k string) ColumnKey {
	if n, err := strconv.Atoi(k); err == nil && strconv.Itoa(n) == k {
		return ColumnKey{Index: n}
	}
	return ColumnKey{Label: k}
}

// String returns the column number or the quoted label.
func (k ColumnKey) String() string {
	if k.Label != "" {
		return strconv.Quote(k.Label)
	}
	return strconv.Itoa(k.Index)
}

// resolve maps the key to a 1-based column within 1..maxColumns, or 0.
func (k ColumnKey) resolve(headers []string, maxColumns int) int {
	idx := k.Index
	if k.Label != "" {
		idx = 0
		for i, h := range headers {
			if h == k.Label {
				idx = i + 1
				break
			}
		}
	}
	if idx < 1 || idx > maxColumns {
		return 0
	}
	return idx
}
