package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction   BookmarkType = "extinction"
	BookmarkSaturation   BookmarkType = "saturation"
	BookmarkStabilized   BookmarkType = "stabilized"
	BookmarkDensityCrash BookmarkType = "density_crash"
)

// Detection thresholds.
const (
	saturationDensity  = 0.9
	stableActivity     = 0.0005
	stableWindowsToAct = 3
	crashFraction      = 0.5
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  uint64       `csv:"generation"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in a run from window stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	stableWindowsCount int  // consecutive windows with near-zero activity
	stableReported     bool // suppresses repeats until activity resumes
	saturated          bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindowsToAct {
		historySize = stableWindowsToAct
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkExtinction(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkDensityCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkSaturation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStabilized(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

// Reset clears history, e.g. after the grid is reseeded.
func (bd *BookmarkDetector) Reset() {
	bd.historyIdx = 0
	bd.historyFull = false
	bd.stableWindowsCount = 0
	bd.stableReported = false
	bd.saturated = false
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

func (bd *BookmarkDetector) previous() WindowStats {
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx]
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if !stats.Extinct || bd.previous().Extinct {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkExtinction,
		Generation:  stats.WindowEndGen,
		Description: fmt.Sprintf("population died out (was %d)", bd.previous().Population),
	}
}

func (bd *BookmarkDetector) checkSaturation(stats WindowStats) *Bookmark {
	if stats.DensityMean < saturationDensity {
		bd.saturated = false
		return nil
	}
	if bd.saturated {
		return nil
	}
	bd.saturated = true
	return &Bookmark{
		Type:        BookmarkSaturation,
		Generation:  stats.WindowEndGen,
		Description: fmt.Sprintf("mean density %.3f", stats.DensityMean),
	}
}

// checkStabilized flags a live grid that stopped changing: still lifes and
// short-period oscillators with negligible flips.
func (bd *BookmarkDetector) checkStabilized(stats WindowStats) *Bookmark {
	if stats.Extinct || stats.Steps == 0 || stats.ActivityMean > stableActivity {
		if stats.Steps > 0 {
			bd.stableWindowsCount = 0
			bd.stableReported = false
		}
		return nil
	}
	bd.stableWindowsCount++
	if bd.stableWindowsCount < stableWindowsToAct || bd.stableReported {
		return nil
	}
	bd.stableReported = true
	return &Bookmark{
		Type:        BookmarkStabilized,
		Generation:  stats.WindowEndGen,
		Description: fmt.Sprintf("activity below %.4f for %d windows", stableActivity, bd.stableWindowsCount),
	}
}

func (bd *BookmarkDetector) checkDensityCrash(stats WindowStats) *Bookmark {
	if stats.Extinct {
		return nil
	}
	var peak float64
	for _, h := range bd.getHistory() {
		if h.DensityMean > peak {
			peak = h.DensityMean
		}
	}
	prev := bd.previous().DensityMean
	// Only report on the window that crosses the threshold.
	if peak == 0 || stats.DensityMean > peak*crashFraction || prev <= peak*crashFraction {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkDensityCrash,
		Generation:  stats.WindowEndGen,
		Description: fmt.Sprintf("density %.3f fell from peak %.3f", stats.DensityMean, peak),
	}
}
