// Package inspector renders tagged struct fields as aligned text rows.
//
// Fields are described with an inspect struct tag:
//
//	`inspect:"bar,max:200"`
//	`inspect:"angle"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
package inspector

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is rendered.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

const barWidth = 10

// Field is one exported struct field with its rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

// ParseTag parses an inspect struct tag into a widget and its options.
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	if tag == "" {
		return WidgetAuto, options
	}

	parts := strings.Split(tag, ",")
	var widget Widget
	switch strings.TrimSpace(parts[0]) {
	case "label":
		widget = WidgetLabel
	case "bar":
		widget = WidgetBar
	case "angle":
		widget = WidgetAngle
	case "bool":
		widget = WidgetBool
	case "skip":
		widget = WidgetSkip
	default:
		widget = WidgetAuto
	}

	for _, part := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) == 2 {
			options[kv[0]] = kv[1]
		}
	}
	return widget, options
}

// ExtractFields returns the exported, non-skipped fields of a struct or
// pointer to struct. Anything else yields nil.
func ExtractFields(v any) []Field {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	t := rv.Type()
	var fields []Field
	for i := 0; i < rv.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}
		fv := rv.Field(i)
		if widget == WidgetAuto {
			widget = autoDetectWidget(fv)
		}
		fields = append(fields, Field{
			Name:    sf.Name,
			Value:   fv.Interface(),
			Widget:  widget,
			Options: options,
		})
	}
	return fields
}

func autoDetectWidget(v reflect.Value) Widget {
	if v.Kind() == reflect.Bool {
		return WidgetBool
	}
	return WidgetLabel
}

// FormatValue formats a value with fmtStr, or a two-decimal default for floats.
func FormatValue(value any, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	switch v := value.(type) {
	case float32:
		return fmt.Sprintf("%.2f", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// GetMax returns the max option, defaulting to 1.
func GetMax(options map[string]string) float64 {
	if s, ok := options["max"]; ok {
		if m, err := strconv.ParseFloat(s, 64); err == nil && m > 0 {
			return m
		}
	}
	return 1
}

// GetFloatValue converts numeric values to float64.
func GetFloatValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint32:
		return float64(v), true
	default:
		return 0, false
	}
}

// Render formats a single field.
func Render(f Field) string {
	switch f.Widget {
	case WidgetBar:
		val, ok := GetFloatValue(f.Value)
		if !ok {
			break
		}
		maxVal := GetMax(f.Options)
		filled := int(math.Round(min(max(val/maxVal, 0), 1) * barWidth))
		return fmt.Sprintf("%s [%s%s] /%s", FormatValue(f.Value, f.Options["fmt"]),
			strings.Repeat("#", filled), strings.Repeat("-", barWidth-filled),
			strconv.FormatFloat(maxVal, 'g', -1, 64))
	case WidgetAngle:
		if rad, ok := GetFloatValue(f.Value); ok {
			return fmt.Sprintf("%.0f deg", rad*180/math.Pi)
		}
	case WidgetBool:
		if b, ok := f.Value.(bool); ok && b {
			return "yes"
		}
		return "no"
	}
	return FormatValue(f.Value, f.Options["fmt"])
}

// Describe renders the fields of every argument as "Name  value" rows with
// names padded to a common width.
func Describe(values ...any) string {
	var fields []Field
	for _, v := range values {
		fields = append(fields, ExtractFields(v)...)
	}

	width := 0
	for _, f := range fields {
		width = max(width, len(f.Name))
	}

	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%-*s  %s\n", width, f.Name, Render(f))
	}
	return b.String()
}
