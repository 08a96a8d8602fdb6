package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstHatch  BookmarkType = "first_hatch"
	BookmarkAllHatched  BookmarkType = "all_hatched"
	BookmarkDaybreak    BookmarkType = "daybreak"
	BookmarkNightfall   BookmarkType = "nightfall"
	BookmarkGrowthSurge BookmarkType = "growth_surge"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Time        float64      `csv:"time"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"time", b.Time,
		"description", b.Description,
	)
}

// BookmarkDetector detects memorable moments in the scene.
type BookmarkDetector struct {
	cocoons int

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	firstHatchSeen bool
	allHatchedSeen bool
}

// NewBookmarkDetector creates a detector for a scene with the given number
// of cocoons and history size.
func NewBookmarkDetector(cocoons, historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		cocoons:     cocoons,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkHatchMilestones(stats); b != nil {
		bookmarks = append(bookmarks, b...)
	}

	if prev, ok := bd.previous(); ok {
		if b := checkDayTurn(prev, stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkGrowthSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

// Reset forgets history and milestones.
func (bd *BookmarkDetector) Reset() {
	bd.historyIdx = 0
	bd.historyFull = false
	bd.firstHatchSeen = false
	bd.allHatchedSeen = false
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

func (bd *BookmarkDetector) previous() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	i := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[i], true
}

func (bd *BookmarkDetector) checkHatchMilestones(stats WindowStats) []Bookmark {
	var out []Bookmark
	if !bd.firstHatchSeen && stats.Open > 0 {
		bd.firstHatchSeen = true
		out = append(out, Bookmark{
			Type:        BookmarkFirstHatch,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("First butterfly by %.1fs (organism time %.1f)", stats.WindowEnd, stats.OrganismTime),
		})
	}
	if !bd.allHatchedSeen && bd.cocoons > 0 && stats.Open >= bd.cocoons {
		bd.allHatchedSeen = true
		out = append(out, Bookmark{
			Type:        BookmarkAllHatched,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("All %d cocoons open by %.1fs", bd.cocoons, stats.WindowEnd),
		})
	}
	return out
}

// checkDayTurn fires when most of the window flips between day and night.
func checkDayTurn(prev, stats WindowStats) *Bookmark {
	wasDay := prev.DayFraction >= 0.5
	isDay := stats.DayFraction >= 0.5
	switch {
	case !wasDay && isDay:
		return &Bookmark{
			Type:        BookmarkDaybreak,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("Room brightened to %.0f", stats.BrightnessMean),
		}
	case wasDay && !isDay:
		return &Bookmark{
			Type:        BookmarkNightfall,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("Room dimmed to %.0f", stats.BrightnessMean),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkGrowthSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.GrowthMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.GrowthMean > avg*1.5 {
		return &Bookmark{
			Type:        BookmarkGrowthSurge,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("Growth rate %.2f is %.1fx average (%.2f)", stats.GrowthMean, stats.GrowthMean/avg, avg),
		}
	}
	return nil
}
