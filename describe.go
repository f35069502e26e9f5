package xlprint

import (
	"fmt"
	"strings"
)

// Describe normalizes a configuration and returns a human-readable tree of
// its sheets and blocks. Values are shown before variable substitution.
// Useful for debugging configurations during development.
func Describe(config any) string {
	doc := Normalize(config)

	var b strings.Builder
	fmt.Fprintf(&b, "Configuration: %s, %d sheet(s)\n", doc.Shape, len(doc.Sheets))
	if len(doc.Variables) > 0 {
		fmt.Fprintf(&b, "  Variables: %s\n", strings.Join(sortedKeys(doc.Variables), ", "))
	}
	for _, d := range doc.Dropped {
		fmt.Fprintf(&b, "  Dropped instance %d: %s", d.Index, d.Reason)
		if d.Key != "" {
			fmt.Fprintf(&b, " %q", d.Key)
		}
		b.WriteByte('\n')
	}
	for _, spec := range doc.Sheets {
		describeSheet(&b, spec)
	}
	return b.String()
}

func describeSheet(b *strings.Builder, spec SheetSpec) {
	paper := ResolvePaperOptions(spec.Paper)
	token := paperToken(paper.PaperSize)
	if token == "" {
		token = fmt.Sprintf("paper %d", paper.PaperSize)
	}
	fmt.Fprintf(b, "Sheet %q (%s columns, %s", spec.Name, describeColumns(spec.MaxColumns), token)
	if spec.Template != "" {
		fmt.Fprintf(b, ", template %q", spec.Template)
	}
	b.WriteString(")\n")

	for i, raw := range spec.Rows {
		rec, ok := asMap(raw)
		if !ok {
			fmt.Fprintf(b, "  %d: <%T>\n", i+1, raw)
			continue
		}
		if ref, ok := varRef(rec); ok {
			fmt.Fprintf(b, "  %d: $var %s\n", i+1, ref)
			continue
		}
		block, ok := DecodeBlock(rec)
		if !ok {
			fmt.Fprintf(b, "  %d: unknown %v\n", i+1, rec["type"])
			continue
		}
		fmt.Fprintf(b, "  %d: %s%s", i+1, block.Kind(), describeBlockAttrs(block))
		if cond, ok := rec["if"]; ok {
			fmt.Fprintf(b, " if=%v", cond)
		}
		b.WriteByte('\n')
	}
}

func describeColumns(v any) string {
	if s, ok := v.(string); ok && HasExpressions(s) {
		return s
	}
	return fmt.Sprint(normalizeMaxColumns(v))
}

// describeBlockAttrs returns the key fields of a block for display.
func describeBlockAttrs(block Block) string {
	var parts []string
	switch b := block.(type) {
	case *TitleBlock:
		parts = append(parts, fmt.Sprintf("%q", cellText(b.Value)))
	case *TextBlock:
		text := []rune(cellText(b.Value))
		if len(text) > 40 {
			text = append(text[:40], '…')
		}
		parts = append(parts, fmt.Sprintf("%q", string(text)))
	case *SpaceRowBlock:
		parts = append(parts, fmt.Sprintf("count=%d", b.Count))
		if b.Height > 0 {
			parts = append(parts, fmt.Sprintf("height=%g", b.Height))
		}
	case *FormBlock:
		labels := make([]string, len(b.Fields))
		for i, f := range b.Fields {
			labels[i] = cellText(f.Label)
		}
		parts = append(parts, fmt.Sprintf("fields=[%s]", strings.Join(labels, ", ")))
	case *TableBlock:
		headers := make([]string, len(b.Headers))
		for i, h := range b.Headers {
			headers[i] = cellText(h)
		}
		parts = append(parts, fmt.Sprintf("headers=[%s]", strings.Join(headers, ", ")))
		parts = append(parts, fmt.Sprintf("rows=%d", len(b.Rows)))
		parts = append(parts, Size{Width: len(b.Headers), Height: len(b.Rows) + 1}.String())
		if b.MergeHeaderSame {
			parts = append(parts, "mergeHeaderSame")
		}
		if len(b.MergeColumns) > 0 {
			keys := make([]string, len(b.MergeColumns))
			for i, k := range b.MergeColumns {
				keys[i] = k.String()
			}
			parts = append(parts, fmt.Sprintf("mergeColumns=[%s]", strings.Join(keys, ", ")))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
