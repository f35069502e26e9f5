package xlprint

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	notationBegin = "{{"
	notationEnd   = "}}"
)

// ExpressionSegment is a part of a template string: literal text or a variable path.
type ExpressionSegment struct {
	IsExpression bool
	Text         string // literal text, or the trimmed path without delimiters
}

// ParseExpressions splits s into literal and "{{ path }}" segments.
// A path runs up to the first '}' and must be closed by "}}"; openers
// that are not closed that way stay literal.
// For example, "No. {{ order.id }}" → [{false, "No. "}, {true, "order.id"}]
func ParseExpressions(s string) []ExpressionSegment {
	var segments []ExpressionSegment
	literalStart := 0
	i := 0
	for {
		idx := strings.Index(s[i:], notationBegin)
		if idx < 0 {
			break
		}
		open := i + idx
		body := open + len(notationBegin)
		closeIdx := strings.IndexByte(s[body:], '}')
		if closeIdx <= 0 || !strings.HasPrefix(s[body+closeIdx:], notationEnd) {
			i = open + 1
			continue
		}
		if open > literalStart {
			segments = append(segments, ExpressionSegment{Text: s[literalStart:open]})
		}
		segments = append(segments, ExpressionSegment{
			IsExpression: true,
			Text:         strings.TrimSpace(s[body : body+closeIdx]),
		})
		i = body + closeIdx + len(notationEnd)
		literalStart = i
	}
	if literalStart < len(s) {
		segments = append(segments, ExpressionSegment{Text: s[literalStart:]})
	}
	return segments
}

// HasExpressions reports whether s contains at least one "{{ }}" marker.
func HasExpressions(s string) bool {
	for _, seg := range ParseExpressions(s) {
		if seg.IsExpression {
			return true
		}
	}
	return false
}

// Resolve substitutes variable references throughout v. Strings have their
// "{{ path }}" markers replaced; a record of the single form {"$var": "path"}
// is replaced by the value at path, itself resolved; other records and
// sequences are resolved element by element. Everything else is returned as is.
func (c *Context) Resolve(v any) any {
	return c.resolve(v, 0)
}

func (c *Context) resolve(v any, depth int) any {
	switch t := v.(type) {
	case string:
		return c.ResolveString(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = c.resolve(item, depth)
		}
		return out
	case map[string]any:
		if ref, ok := varRef(t); ok {
			if depth >= maxIndirection {
				c.logger.Warn().Str("var", ref).Msg("variable indirection too deep, dropped")
				return nil
			}
			return c.resolve(c.Lookup(ref), depth+1)
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = c.resolve(item, depth)
		}
		return out
	default:
		return v
	}
}

// varRef reports whether m is a {"$var": "path"} indirection.
func varRef(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	ref, ok := m["$var"].(string)
	return ref, ok
}

// ResolveString expands markers in s, re-scanning the result so that
// substituted values may themselves contain markers. Expansion stops when a
// pass changes nothing or after the pass limit; whatever markers remain are
// left in the output.
func (c *Context) ResolveString(s string) string {
	cur := s
	for pass := 0; pass < c.maxPasses; pass++ {
		next := c.substitute(cur)
		if next == cur {
			return cur
		}
		cur = next
	}
	if HasExpressions(cur) {
		c.logger.Warn().Str("value", s).Int("passes", c.maxPasses).Msg("template expansion hit pass limit")
	}
	return cur
}

func (c *Context) substitute(s string) string {
	segments := ParseExpressions(s)
	var b strings.Builder
	for _, seg := range segments {
		if seg.IsExpression {
			b.WriteString(stringify(c.Lookup(seg.Text)))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// stringify renders a looked-up value as text. Structured values become JSON.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
