// Package render provides the helper functions available to Go templates
// rendered by the layout stage.
package render

import (
	"fmt"
	"html"
	"net/url"
	"reflect"
	"strings"
	"text/template"
	"time"
)

// FuncMap returns a fresh function map for page templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"title":     humanize,
		"trim":      strings.TrimSpace,
		"replace":   strings.ReplaceAll,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"split":     strings.Split,
		"join":      join,
		"slugify":   Slugify,
		"truncate":  Truncate,
		"escape":    html.EscapeString,
		"urlquery":  url.QueryEscape,

		"default":  defaultValue,
		"coalesce": coalesce,
		"ternary":  ternary,
		"len":      length,
		"isEmpty":  isEmpty,

		"date": formatDate,
		"now":  time.Now,
	}
}

func join(sep string, items any) string {
	v := reflect.ValueOf(items)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return toString(items)
	}
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = toString(v.Index(i).Interface())
	}
	return strings.Join(parts, sep)
}

// defaultValue takes the fallback first so it reads well in a pipeline:
// {{ .title | default "Untitled" }}.
func defaultValue(def any, given any) any {
	if isEmpty(given) {
		return def
	}
	return given
}

func coalesce(values ...any) any {
	for _, v := range values {
		if !isEmpty(v) {
			return v
		}
	}
	return nil
}

func ternary(condition bool, trueVal, falseVal any) any {
	if condition {
		return trueVal
	}
	return falseVal
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

func length(value any) int {
	if value == nil {
		return 0
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Array, reflect.Slice, reflect.Map, reflect.String:
		return v.Len()
	default:
		return 0
	}
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Array, reflect.Slice, reflect.Map, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// formatDate accepts a time.Time or an RFC 3339 / YYYY-MM-DD string, which is
// how dates arrive from front matter.
func formatDate(layout string, value any) (string, error) {
	switch t := value.(type) {
	case time.Time:
		return t.Format(layout), nil
	case string:
		for _, in := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(in, t); err == nil {
				return parsed.Format(layout), nil
			}
		}
		return "", fmt.Errorf("date: cannot parse %q", t)
	default:
		return "", fmt.Errorf("date: unsupported value of type %T", value)
	}
}
