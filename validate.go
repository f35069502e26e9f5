package xlprint

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // part of the configuration cannot work as written
	SeverityWarning                 // part of the configuration is ignored or falls back to a default
)

// ValidationIssue represents a single problem found in a configuration.
type ValidationIssue struct {
	Severity Severity
	Path     string // e.g. "sheets[0].rows[2]"
	Message  string
}

// String formats the issue as "[ERROR] sheets[0].rows[2]: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	path := v.Path
	if path == "" {
		path = "$"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, path, v.Message)
}

// Validate checks a configuration without rendering it. Generation itself
// never fails on these issues; they point at parts that will be skipped,
// fall back to defaults, or print unexpanded markers.
func Validate(config any) []ValidationIssue {
	if _, ok := asMap(config); !ok {
		return []ValidationIssue{{
			Severity: SeverityError,
			Message:  fmt.Sprintf("configuration root is %T, expected an object", config),
		}}
	}

	doc := Normalize(config)
	var issues []ValidationIssue
	for _, d := range doc.Dropped {
		msg := d.Reason
		if d.Key != "" {
			msg = fmt.Sprintf("%s %q", d.Reason, d.Key)
		}
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			Path:     fmt.Sprintf("variables.sheets[%d]", d.Index),
			Message:  "instance dropped: " + msg,
		})
	}
	for _, spec := range doc.Sheets {
		vars := doc.Variables
		if spec.Variables != nil {
			vars = spec.Variables
		}
		issues = append(issues, validateSheet(spec, vars)...)
	}
	return issues
}

// validateSheet checks one sheet. vars is nil when the configuration
// defines no variables, in which case markers are printed as written.
func validateSheet(spec SheetSpec, vars map[string]any) []ValidationIssue {
	var issues []ValidationIssue
	issues = append(issues, checkMarkers(joinPath(spec.Source, "name"), spec.Name, vars)...)

	if spec.MaxColumns != nil {
		s, isString := spec.MaxColumns.(string)
		if !isString || !HasExpressions(s) {
			if f, ok := toFloatLoose(spec.MaxColumns); !ok || f < 1 {
				issues = append(issues, ValidationIssue{
					Severity: SeverityWarning,
					Path:     joinPath(spec.Source, "maxColumns"),
					Message:  fmt.Sprintf("maxColumns %v is not a positive number, using %d", spec.MaxColumns, defaultMaxColumns),
				})
			}
		}
	}

	for i, raw := range spec.Rows {
		path := joinPath(spec.Source, "rows["+strconv.Itoa(i)+"]")
		issues = append(issues, validateBlock(path, raw, vars)...)
	}
	return issues
}

func validateBlock(path string, raw any, vars map[string]any) []ValidationIssue {
	rec, ok := asMap(raw)
	if !ok {
		return []ValidationIssue{{
			Severity: SeverityWarning,
			Path:     path,
			Message:  fmt.Sprintf("block is %T, expected an object; skipped", raw),
		}}
	}

	var issues []ValidationIssue
	if _, isVar := varRef(rec); !isVar {
		kind, _ := toString(rec["type"])
		if _, ok := DecodeBlock(rec); !ok && !HasExpressions(kind) {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("unknown block type %q; skipped", kind),
			})
		}
	}

	switch cond := rec["if"].(type) {
	case nil, bool:
	case string:
		if cond != "" && !HasExpressions(cond) {
			if err := checkSyntax(cond); err != nil {
				issues = append(issues, ValidationIssue{
					Severity: SeverityError,
					Path:     path + ".if",
					Message:  fmt.Sprintf("invalid condition %q: %v", cond, err),
				})
			}
		}
	default:
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			Path:     path + ".if",
			Message:  fmt.Sprintf("condition is %T, expected a string or boolean; ignored", cond),
		})
	}

	walkStrings(path, rec, func(p, s string) {
		issues = append(issues, checkMarkers(p, s, vars)...)
	})
	return issues
}

// checkMarkers reports "{{" sequences that never close, markers with an
// empty path, and paths missing from vars.
func checkMarkers(path, s string, vars map[string]any) []ValidationIssue {
	if !strings.Contains(s, "{{") {
		return nil
	}
	var issues []ValidationIssue
	for _, seg := range ParseExpressions(s) {
		if !seg.IsExpression {
			if strings.Contains(seg.Text, "{{") {
				issues = append(issues, ValidationIssue{
					Severity: SeverityWarning,
					Path:     path,
					Message:  fmt.Sprintf("unterminated or empty marker in %q; printed as is", s),
				})
			}
			continue
		}
		switch {
		case len(pathSegments(seg.Text)) == 0:
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("empty variable path in %q", s),
			})
		case vars == nil:
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("no variables defined; %q is printed as is", "{{"+seg.Text+"}}"),
			})
		case lookupPath(vars, seg.Text) == nil:
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("variable %q is not defined; printed as empty", seg.Text),
			})
		}
	}
	return issues
}

// walkStrings calls fn for every string inside v with its configuration path.
func walkStrings(path string, v any, fn func(path, s string)) {
	switch t := v.(type) {
	case string:
		fn(path, t)
	case []any:
		for i, item := range t {
			walkStrings(path+"["+strconv.Itoa(i)+"]", item, fn)
		}
	case map[string]any:
		for _, k := range sortedKeys(t) {
			walkStrings(path+"."+k, t[k], fn)
		}
	}
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
