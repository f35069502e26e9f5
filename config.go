package xlprint

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// ConfigShape identifies which of the accepted configuration layouts was used.
type ConfigShape int

const (
	ShapeEmpty     ConfigShape = iota // root was not an object
	ShapeLegacy                       // flat name/maxColumns/rows/sheetStyle
	ShapeSheets                       // explicit "sheets" array
	ShapeTemplates                    // "sheetsTemplates" + "variables.sheets"
)

// String returns the shape name.
func (s ConfigShape) String() string {
	switch s {
	case ShapeLegacy:
		return "legacy"
	case ShapeSheets:
		return "sheets"
	case ShapeTemplates:
		return "templates"
	default:
		return "empty"
	}
}

// DefaultLegacySheetName names the single sheet of a legacy configuration
// that gives no name.
const DefaultLegacySheetName = "打印"

// SheetSpec is a canonical sheet descriptor. Name, MaxColumns and Paper are
// kept raw because they may still contain variable markers.
type SheetSpec struct {
	Name       string
	MaxColumns any
	Paper      any
	TotalWidth *float64 // nil = paper width
	Margins    *Margins
	Style      Style
	Rows       []any

	// Set only for sheets composed from a template.
	Variables map[string]any
	Template  string

	// Source is the configuration path the sheet came from: "" for the
	// legacy root, "sheets[i]" or "variables.sheets[i]".
	Source string
}

// DroppedInstance records a template instance that produced no sheet.
type DroppedInstance struct {
	Index  int
	Key    string
	Reason string
}

// Document is a normalized configuration.
type Document struct {
	Shape     ConfigShape
	Style     Style
	Variables map[string]any
	Sheets    []SheetSpec
	Dropped   []DroppedInstance
}

// Normalize converts a raw configuration into a Document. Template
// composition wins when both "sheetsTemplates" and "variables.sheets" are
// arrays; otherwise an explicit "sheets" array; otherwise the flat legacy
// fields make one sheet. Malformed entries are dropped, never reported as
// errors.
func Normalize(config any) *Document {
	return normalize(config, DefaultLegacySheetName)
}

func normalize(config any, legacyName string) *Document {
	root, ok := asMap(config)
	if !ok {
		return &Document{Shape: ShapeEmpty}
	}

	doc := &Document{Style: styleOf(root["style"])}
	vars, ok := asMap(root["variables"])
	if !ok {
		vars, _ = asMap(root["vars"])
	}

	templates, hasTemplates := records(root["sheetsTemplates"])
	var instances []any
	hasInstances := false
	if vars != nil {
		instances, hasInstances = asSlice(vars["sheets"])
	}

	if hasTemplates && hasInstances {
		doc.Shape = ShapeTemplates
		global := make(map[string]any, len(vars))
		for k, v := range vars {
			if k != "sheets" {
				global[k] = v
			}
		}
		doc.Variables = global
		composeSheets(doc, templates, instances)
		return doc
	}

	doc.Variables = vars
	if sheets, ok := asSlice(root["sheets"]); ok {
		doc.Shape = ShapeSheets
		for i, raw := range sheets {
			m, ok := asMap(raw)
			if !ok {
				continue
			}
			spec := sheetSpecOf(m)
			spec.Source = fmt.Sprintf("sheets[%d]", i)
			doc.Sheets = append(doc.Sheets, spec)
		}
		return doc
	}

	doc.Shape = ShapeLegacy
	name, _ := toString(firstNonEmpty(root, "name", "sheetName"))
	if name == "" {
		name = legacyName
	}
	doc.Sheets = []SheetSpec{{
		Name:       name,
		MaxColumns: root["maxColumns"],
		Style:      styleOf(root["sheetStyle"]),
		Rows:       rowsOf(root["rows"]),
	}}
	return doc
}

// composeSheets builds one sheet per instance whose template key resolves.
// The sheet.index variable counts record instances only.
func composeSheets(doc *Document, templates []map[string]any, rawInstances []any) {
	index := -1
	for i, raw := range rawInstances {
		inst, ok := asMap(raw)
		if !ok {
			doc.Dropped = append(doc.Dropped, DroppedInstance{Index: i, Reason: "instance is not an object"})
			continue
		}
		index++

		key, _ := toString(firstPresent(inst, "template", "sheetsTemplate", "templateId"))
		if key == "" {
			doc.Dropped = append(doc.Dropped, DroppedInstance{Index: i, Reason: "missing template key"})
			continue
		}
		tmpl := findTemplate(templates, key)
		if tmpl == nil {
			doc.Dropped = append(doc.Dropped, DroppedInstance{Index: i, Key: key, Reason: "unknown template"})
			continue
		}

		override := make(map[string]any, len(inst))
		for k, v := range inst {
			switch k {
			case "name", "template", "sheetsTemplate", "templateId", "variables", "vars", "data":
				continue
			}
			override[k] = v
		}

		var instVars map[string]any
		for _, k := range []string{"variables", "vars", "data"} {
			if m, ok := asMap(inst[k]); ok {
				instVars = m
				break
			}
		}

		name, _ := toString(inst["name"])
		if name == "" {
			name, _ = toString(tmpl["name"])
		}
		if name == "" {
			name = "Sheet"
		}

		sheetVars := MergeDeep(MergeDeep(doc.Variables, instVars), map[string]any{
			"sheet": map[string]any{
				"name":     name,
				"index":    float64(index),
				"template": key,
			},
		})

		merged := cloneRecord(MergeDeep(tmpl, override))
		spec := sheetSpecOf(merged)
		spec.Name = name
		spec.Variables = sheetVars
		spec.Template = key
		spec.Source = fmt.Sprintf("variables.sheets[%d]", i)
		doc.Sheets = append(doc.Sheets, spec)
	}
}

func findTemplate(templates []map[string]any, key string) map[string]any {
	for _, t := range templates {
		if id, _ := toString(t["id"]); id == key {
			return t
		}
		if name, _ := toString(t["name"]); name == key {
			return t
		}
	}
	return nil
}

// cloneRecord deep-copies a record so that composed sheets share no
// nested values with the template or with each other.
func cloneRecord(m map[string]any) map[string]any {
	var out map[string]any
	if err := deepcopy.Copy(&out, m); err != nil || out == nil {
		return m
	}
	return out
}

// sheetSpecOf reads a sheet record.
func sheetSpecOf(m map[string]any) SheetSpec {
	spec := SheetSpec{
		MaxColumns: m["maxColumns"],
		Paper:      firstNonEmpty(m, "paper", "paperSize"),
		Margins:    marginsOf(m["margins"]),
		Style:      styleOf(m["style"]),
		Rows:       rowsOf(m["rows"]),
	}
	switch n := m["name"].(type) {
	case string:
		spec.Name = n
	case nil:
	default:
		spec.Name = stringify(n)
	}
	if spec.Name == "" {
		spec.Name = "Sheet"
	}
	if w, ok := toFloat(m["totalWidth"]); ok {
		spec.TotalWidth = &w
	}
	return spec
}

// records returns the record entries of an array, and whether v was an array.
func records(v any) ([]map[string]any, bool) {
	arr, ok := asSlice(v)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if m, ok := asMap(item); ok {
			out = append(out, m)
		}
	}
	return out, true
}

func rowsOf(v any) []any {
	rows, _ := asSlice(v)
	return rows
}

// firstNonEmpty returns the first value among keys that is neither nil, "",
// false nor 0.
func firstNonEmpty(m map[string]any, keys ...string) any {
	for _, k := range keys {
		switch v := m[k].(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
		case bool:
			if !v {
				continue
			}
		default:
			if f, ok := toFloat(v); ok && f == 0 {
				continue
			}
		}
		return m[k]
	}
	return nil
}
