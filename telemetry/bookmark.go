package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction      BookmarkType = "extinction"
	BookmarkHawkTakeover    BookmarkType = "hawk_takeover"
	BookmarkDoveTakeover    BookmarkType = "dove_takeover"
	BookmarkPopulationBoom  BookmarkType = "population_boom"
	BookmarkPopulationCrash BookmarkType = "population_crash"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" db:"type"`
	Tick        int32        `csv:"tick" db:"tick"`
	Description string       `csv:"description" db:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// Thresholds for population swings.
const (
	boomFactor   = 2.0 // population at least this multiple of the recent minimum
	boomMinPop   = 10
	crashDrop    = 0.5 // fraction lost from the recent peak
	crashMinLoss = 5
)

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	extinct bool // extinction already reported
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 2 {
		historySize = 2
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if prev, ok := bd.last(); ok {
		if b := bd.checkTakeover(prev, stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// last returns the most recently recorded window.
func (bd *BookmarkDetector) last() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx], true
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if !stats.Extinct() {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population extinct after %d deaths this window", stats.Deaths),
	}
}

// checkTakeover fires when the hawk fraction crosses one half.
func (bd *BookmarkDetector) checkTakeover(prev, stats WindowStats) *Bookmark {
	if stats.Extinct() || prev.Extinct() {
		return nil
	}
	switch {
	case prev.HawkFraction <= 0.5 && stats.HawkFraction > 0.5:
		return &Bookmark{
			Type:        BookmarkHawkTakeover,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Hawks rose from %.0f%% to %.0f%% of the population", prev.HawkFraction*100, stats.HawkFraction*100),
		}
	case prev.HawkFraction >= 0.5 && stats.HawkFraction < 0.5:
		return &Bookmark{
			Type:        BookmarkDoveTakeover,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Doves rose to %.0f%% of the population", (1-stats.HawkFraction)*100),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkBoom(stats WindowStats) *Bookmark {
	minPop := -1
	for _, h := range bd.getHistory() {
		if minPop < 0 || h.Population < minPop {
			minPop = h.Population
		}
	}
	if minPop <= 0 || stats.Population < boomMinPop {
		return nil
	}
	if float64(stats.Population) >= float64(minPop)*boomFactor {
		bd.resetHistory()
		return &Bookmark{
			Type:        BookmarkPopulationBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population grew from %d to %d", minPop, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	peak := 0
	for _, h := range bd.getHistory() {
		peak = max(peak, h.Population)
	}
	if peak == 0 {
		return nil
	}
	drop := 1.0 - float64(stats.Population)/float64(peak)
	if drop > crashDrop && peak-stats.Population >= crashMinLoss {
		bd.resetHistory()
		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, peak, stats.Population),
		}
	}
	return nil
}

// resetHistory forgets past windows after a population swing.
func (bd *BookmarkDetector) resetHistory() {
	bd.historyIdx = 0
	bd.historyFull = false
}
