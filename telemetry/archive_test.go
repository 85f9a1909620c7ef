package telemetry

import (
	"path/filepath"
	"testing"
)

func TestArchiveDisabled(t *testing.T) {
	a, err := OpenArchive("", 1)
	if err != nil || a != nil {
		t.Fatalf("expected nil archive, got %v, %v", a, err)
	}
	if err := a.WriteWindow(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := a.Close(); err != nil {
		t.Error(err)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	a, err := OpenArchive(path, 42)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	defer a.Close()

	if a.RunID() == 0 {
		t.Fatal("expected a run id")
	}

	w1 := WindowStats{WindowStartTick: 0, WindowEndTick: 600, SimTimeSec: 10, Population: 20, HawkFraction: 0.4, ContestsHH: 2}
	w2 := WindowStats{WindowStartTick: 600, WindowEndTick: 1200, SimTimeSec: 20, Population: 0}
	for _, w := range []WindowStats{w1, w2} {
		if err := a.WriteWindow(w); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.WriteBookmark(Bookmark{Type: BookmarkExtinction, Tick: 1200, Description: "gone"}); err != nil {
		t.Fatal(err)
	}
	if err := a.WriteLifetimes([]LifetimeRecord{{ID: 1, DeathTick: 300}, {ID: 2, DeathTick: 900}}); err != nil {
		t.Fatal(err)
	}

	windows, err := a.Windows(a.RunID())
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0] != w1 || windows[1] != w2 {
		t.Errorf("windows did not round trip: %+v", windows)
	}

	bms, err := a.Bookmarks(a.RunID())
	if err != nil {
		t.Fatal(err)
	}
	if len(bms) != 1 || bms[0].Type != BookmarkExtinction || bms[0].Tick != 1200 {
		t.Errorf("unexpected bookmarks: %+v", bms)
	}

	n, err := a.LifetimeCount(a.RunID())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("lifetime count = %d, want 2", n)
	}
}

func TestArchiveSeparatesRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	first, err := OpenArchive(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.WriteWindow(WindowStats{WindowEndTick: 600}); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := OpenArchive(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	if second.RunID() == first.RunID() {
		t.Fatal("runs share an id")
	}
	windows, err := second.Windows(second.RunID())
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 0 {
		t.Errorf("new run sees %d windows from a previous run", len(windows))
	}
}
