package xlprint

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Generator turns configurations into workbooks.
type Generator struct {
	opts      *Options
	evaluator ExpressionEvaluator
}

// NewGenerator creates a Generator with the given options.
func NewGenerator(opts ...Option) *Generator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	ev := o.evaluator
	if ev == nil {
		ev = NewExpressionEvaluator()
	}
	return &Generator{opts: o, evaluator: ev}
}

// Build renders every sheet of config into an in-memory workbook. It never
// fails: malformed parts of the configuration fall back to defaults or are
// skipped.
func Build(config any, opts ...Option) *Workbook {
	return NewGenerator(opts...).Build(config)
}

// Generate renders config and writes the xlsx workbook to w.
func Generate(config any, w io.Writer, opts ...Option) error {
	return NewGenerator(opts...).Write(config, w)
}

// GenerateBytes renders config and returns the xlsx workbook as bytes.
func GenerateBytes(config any, opts ...Option) ([]byte, error) {
	return NewGenerator(opts...).Bytes(config)
}

// GenerateFile loads a JSON or YAML configuration and writes the workbook to outputPath.
func GenerateFile(configPath, outputPath string, opts ...Option) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	return NewGenerator(opts...).WriteFile(cfg, outputPath)
}

// Build renders config into an in-memory workbook.
func (g *Generator) Build(config any) *Workbook {
	doc := normalize(config, g.opts.defaultSheetName)
	g.opts.logger.Debug().
		Str("shape", doc.Shape.String()).
		Int("sheets", len(doc.Sheets)).
		Msg("configuration normalized")
	for _, d := range doc.Dropped {
		g.opts.logger.Debug().
			Int("instance", d.Index).
			Str("template", d.Key).
			Str("reason", d.Reason).
			Msg("template instance dropped")
	}
	return g.BuildDocument(doc)
}

// BuildDocument renders an already normalized document.
func (g *Generator) BuildDocument(doc *Document) *Workbook {
	wb := &Workbook{
		Creator: g.opts.creator,
		Created: g.opts.now().UTC().Format(time.RFC3339),
	}
	taken := make(map[string]bool, len(doc.Sheets))
	for _, spec := range doc.Sheets {
		wb.Sheets = append(wb.Sheets, g.buildSheet(doc, spec, taken))
	}
	return wb
}

// Write renders config and writes the xlsx workbook to w.
func (g *Generator) Write(config any, w io.Writer) error {
	sink := NewExcelizeSink()
	defer sink.Close()

	if err := Flush(g.Build(config), sink); err != nil {
		return err
	}
	if err := sink.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Bytes renders config and returns the xlsx workbook as bytes.
func (g *Generator) Bytes(config any) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Write(config, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders config and writes the workbook to outputPath.
func (g *Generator) WriteFile(config any, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", outputPath, err)
	}
	defer out.Close()

	if err := g.Write(config, out); err != nil {
		os.Remove(outputPath)
		return err
	}
	return nil
}

// buildSheet lays out one sheet: geometry first, then each block in order,
// then the print area and the default border sweep.
func (g *Generator) buildSheet(doc *Document, spec SheetSpec, taken map[string]bool) *Worksheet {
	vars := doc.Variables
	if spec.Variables != nil {
		vars = spec.Variables
	}
	// Markers are only expanded when the configuration defines variables.
	var ctx *Context
	if vars != nil {
		ctx = NewContext(vars,
			WithContextMaxPasses(g.opts.maxPasses),
			WithContextLogger(g.opts.logger),
			WithEvaluator(g.evaluator),
		)
	}
	resolve := func(v any) any {
		if ctx == nil {
			return v
		}
		return ctx.Resolve(v)
	}

	maxColumns := normalizeMaxColumns(resolve(spec.MaxColumns))
	name := cellText(resolve(spec.Name))
	if name == "" {
		name = "Sheet"
	}
	name = uniqueSheetName(SafeSheetName(name), taken)

	ws := NewWorksheet(name)
	applySheetDefaults(ws, maxColumns, SheetLayout{
		Paper:      ResolvePaperOptions(resolve(spec.Paper)),
		TotalWidth: spec.TotalWidth,
		Margins:    spec.Margins,
	})

	log := g.opts.logger.With().Str("sheet", name).Logger()
	inherited := MergeStyles(doc.Style, spec.Style)
	exempt := make(map[int]bool)
	cursor := 1

	for i, raw := range spec.Rows {
		rec, ok := asMap(raw)
		if !ok {
			continue
		}
		rec, _ = asMap(resolve(rec))

		if !g.blockEnabled(ctx, rec, log) {
			log.Debug().Int("block", i).Msg("block skipped by condition")
			continue
		}

		block, ok := DecodeBlock(rec)
		if !ok {
			log.Debug().Int("block", i).Interface("type", rec["type"]).Msg("unknown block kind skipped")
			continue
		}

		start := cursor
		switch b := block.(type) {
		case *TitleBlock:
			cursor = renderTitle(ws, cursor, b, inherited)
		case *TextBlock:
			cursor = renderText(ws, cursor, b, inherited)
		case *SpaceRowBlock:
			cursor = renderSpaceRow(ws, cursor, b, exempt)
		case *FormBlock:
			cursor = renderForm(ws, cursor, b, inherited)
		case *TableBlock:
			cursor = renderTable(ws, cursor, b, inherited)
		}
		log.Debug().
			Int("block", i).
			Str("kind", string(block.Kind())).
			Int("row", start).
			Int("rows", spanRows(start, cursor)).
			Msg("block rendered")
	}

	lastRow := max(1, cursor-1)
	area := NewAreaRef(1, 1, lastRow, maxColumns)
	ws.PrintArea = &area
	applyDefaultBorders(ws, 1, lastRow, 1, maxColumns, exempt)
	return ws
}

// blockEnabled evaluates the optional "if" of a resolved block record. A
// condition that fails to evaluate is logged and the block is kept.
func (g *Generator) blockEnabled(ctx *Context, rec map[string]any, log zerolog.Logger) bool {
	switch cond := rec["if"].(type) {
	case nil:
		return true
	case bool:
		return cond
	case string:
		if cond == "" {
			return true
		}
		var ok bool
		var err error
		if ctx != nil {
			ok, err = ctx.IsConditionTrue(cond)
		} else {
			ok, err = g.evaluator.IsConditionTrue(cond, map[string]any{})
		}
		if err != nil {
			log.Warn().Err(err).Str("if", cond).Msg("block condition failed, rendering block")
			return true
		}
		return ok
	default:
		return true
	}
}
