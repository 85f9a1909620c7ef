package systems

import (
	"testing"

	"github.com/pthm-cable/vehicles/components"
)

func at(x, z float64) components.Position {
	return components.Position{X: x, Z: z}
}

func TestNearest_PicksClosest(t *testing.T) {
	cands := []Candidate{
		{Pos: at(5, 0), Enabled: true},
		{Pos: at(2, 0), Enabled: true},
		{Pos: at(3, 0), Enabled: true},
	}
	idx, dist, ok := Nearest(at(0, 0), 10, cands)
	if !ok || idx != 1 {
		t.Fatalf("expected index 1, got %d (ok=%v)", idx, ok)
	}
	if dist != 2 {
		t.Errorf("expected distance 2, got %f", dist)
	}
}

func TestNearest_RespectsVision(t *testing.T) {
	cands := []Candidate{
		{Pos: at(10, 0), Enabled: true}, // exactly at vision: excluded
		{Pos: at(12, 0), Enabled: true},
	}
	if _, _, ok := Nearest(at(0, 0), 10, cands); ok {
		t.Error("candidates at or beyond vision must not be selected")
	}
}

func TestNearest_SkipsDisabledAndSelf(t *testing.T) {
	cands := []Candidate{
		{Pos: at(0, 0), Enabled: true, Self: true},
		{Pos: at(1, 0), Enabled: false},
		{Pos: at(4, 0), Enabled: true},
	}
	idx, _, ok := Nearest(at(0, 0), 10, cands)
	if !ok || idx != 2 {
		t.Errorf("expected index 2, got %d (ok=%v)", idx, ok)
	}
}

func TestNearest_TieKeepsFirst(t *testing.T) {
	cands := []Candidate{
		{Pos: at(0, 3), Enabled: true},
		{Pos: at(3, 0), Enabled: true},
	}
	idx, _, ok := Nearest(at(0, 0), 10, cands)
	if !ok || idx != 0 {
		t.Errorf("expected first of tied candidates, got %d", idx)
	}
}

func TestNearest_Empty(t *testing.T) {
	if idx, _, ok := Nearest(at(0, 0), 10, nil); ok || idx != -1 {
		t.Errorf("expected no result, got %d (ok=%v)", idx, ok)
	}
}

func TestDistance_IncludesHeight(t *testing.T) {
	a := components.Position{X: 0, Y: 0.5, Z: 0}
	b := components.Position{X: 0, Y: 0.25, Z: 0}
	if d := Distance(a, b); d != 0.25 {
		t.Errorf("expected 0.25, got %f", d)
	}
}
