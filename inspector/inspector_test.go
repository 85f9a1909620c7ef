package inspector

import (
	"math"
	"strings"
	"testing"
)

type sample struct {
	Energy  float64 `inspect:"bar,max:200"`
	Yaw     float64 `inspect:"angle"`
	Label   float64 `inspect:"label,fmt:%.1f"`
	Hidden  int     `inspect:"skip"`
	Alive   bool
	Count   int
	private int
}

func TestParseTag(t *testing.T) {
	w, opts := ParseTag("bar,max:200,fmt:%.1f")
	if w != WidgetBar {
		t.Errorf("widget = %v, want bar", w)
	}
	if opts["max"] != "200" || opts["fmt"] != "%.1f" {
		t.Errorf("options = %v", opts)
	}
	if w, _ := ParseTag(""); w != WidgetAuto {
		t.Errorf("empty tag widget = %v, want auto", w)
	}
}

func TestExtractFieldsSkipsHiddenAndUnexported(t *testing.T) {
	fields := ExtractFields(&sample{})
	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}
	if got := strings.Join(names, ","); got != "Energy,Yaw,Label,Alive,Count" {
		t.Errorf("fields = %s", got)
	}
	if fields[3].Widget != WidgetBool {
		t.Errorf("bool field widget = %v", fields[3].Widget)
	}
	if ExtractFields(42) != nil {
		t.Error("non-struct should yield nil")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"bar half", Field{Value: 100.0, Widget: WidgetBar, Options: map[string]string{"max": "200"}}, "100.00 [#####-----] /200"},
		{"bar overflow", Field{Value: 500.0, Widget: WidgetBar, Options: map[string]string{"max": "200"}}, "500.00 [##########] /200"},
		{"angle", Field{Value: math.Pi / 2, Widget: WidgetAngle}, "90 deg"},
		{"bool", Field{Value: true, Widget: WidgetBool}, "yes"},
		{"fmt", Field{Value: 1.25, Widget: WidgetLabel, Options: map[string]string{"fmt": "%.1f"}}, "1.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.field); got != tt.want {
				t.Errorf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribeAlignsNames(t *testing.T) {
	out := Describe(sample{Energy: 50, Count: 3})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[4], "Count   3") {
		t.Errorf("unaligned row %q", lines[4])
	}
}
