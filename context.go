package xlprint

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultMaxPasses bounds how many times a string is re-scanned for
// "{{ }}" markers after substitution.
const DefaultMaxPasses = 5

// maxIndirection bounds nested "$var" lookups that resolve to further "$var" records.
const maxIndirection = 32

// Context holds the variables a sheet's blocks are resolved against.
// Lookups never fail: a missing path yields nil, rendered as "".
type Context struct {
	data      map[string]any
	maxPasses int
	logger    zerolog.Logger
	evaluator ExpressionEvaluator
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithContextMaxPasses overrides the template re-scan limit.
func WithContextMaxPasses(n int) ContextOption {
	return func(c *Context) {
		if n > 0 {
			c.maxPasses = n
		}
	}
}

// WithContextLogger sets the logger used to report truncated expansions.
func WithContextLogger(l zerolog.Logger) ContextOption {
	return func(c *Context) {
		c.logger = l
	}
}

// WithEvaluator sets a custom expression evaluator for block conditions.
func WithEvaluator(ev ExpressionEvaluator) ContextOption {
	return func(c *Context) {
		c.evaluator = ev
	}
}

// NewContext creates a Context over data. A nil map is treated as empty.
func NewContext(data map[string]any, opts ...ContextOption) *Context {
	if data == nil {
		data = make(map[string]any)
	}
	c := &Context{
		data:      data,
		maxPasses: DefaultMaxPasses,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.evaluator == nil {
		c.evaluator = NewExpressionEvaluator()
	}
	return c
}

// Lookup resolves a dot-separated path such as "sheet.name" or "items.0.title".
// Empty segments are ignored; numeric segments index into sequences.
func (c *Context) Lookup(path string) any {
	return lookupPath(c.data, path)
}

func lookupPath(root any, path string) any {
	parts := pathSegments(path)
	if len(parts) == 0 {
		return nil
	}

	cur := root
	for _, p := range parts {
		switch v := cur.(type) {
		case map[string]any:
			cur = v[p]
		case []any:
			idx, err := strconv.Atoi(p)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil
			}
			cur = v[idx]
		default:
			return nil
		}
	}
	return cur
}

// pathSegments splits a lookup path on dots, dropping empty segments.
func pathSegments(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, ".") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// IsConditionTrue evaluates a block condition against the context data.
func (c *Context) IsConditionTrue(condition string) (bool, error) {
	return c.evaluator.IsConditionTrue(condition, c.data)
}
