package xlprint

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultCreator is written into the workbook properties.
const DefaultCreator = "excel-printer"

// Options holds configuration for the Generator.
type Options struct {
	logger           zerolog.Logger
	maxPasses        int
	creator          string
	now              func() time.Time
	defaultSheetName string
	evaluator        ExpressionEvaluator
}

func defaultOptions() *Options {
	return &Options{
		logger:           zerolog.Nop(),
		maxPasses:        DefaultMaxPasses,
		creator:          DefaultCreator,
		now:              time.Now,
		defaultSheetName: DefaultLegacySheetName,
	}
}

// Option configures the Generator.
type Option func(*Options)

// WithLogger sets the logger (default: disabled).
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithMaxPasses sets how many times template strings are re-scanned (default: 5).
func WithMaxPasses(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.maxPasses = n
		}
	}
}

// WithCreator sets the workbook creator property (default: "excel-printer").
func WithCreator(creator string) Option {
	return func(o *Options) { o.creator = creator }
}

// WithNow sets the clock used for the workbook created timestamp.
func WithNow(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithDefaultSheetName sets the name of an unnamed legacy sheet (default: "打印").
func WithDefaultSheetName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.defaultSheetName = name
		}
	}
}

// WithConditionEvaluator replaces the evaluator used for block "if" conditions.
func WithConditionEvaluator(ev ExpressionEvaluator) Option {
	return func(o *Options) { o.evaluator = ev }
}
