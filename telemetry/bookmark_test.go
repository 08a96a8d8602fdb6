package telemetry

import "testing"

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HatchMilestones(t *testing.T) {
	bd := NewBookmarkDetector(3, 10)

	if bms := bd.Check(WindowStats{WindowEnd: 10}); len(bms) != 0 {
		t.Fatalf("unexpected bookmarks before any hatch: %+v", bms)
	}

	bms := bd.Check(WindowStats{WindowEnd: 20, Open: 1})
	if !hasBookmark(bms, BookmarkFirstHatch) {
		t.Error("expected first_hatch bookmark")
	}

	bms = bd.Check(WindowStats{WindowEnd: 30, Open: 2})
	if hasBookmark(bms, BookmarkFirstHatch) {
		t.Error("first_hatch fired twice")
	}

	bms = bd.Check(WindowStats{WindowEnd: 40, Open: 3})
	if !hasBookmark(bms, BookmarkAllHatched) {
		t.Error("expected all_hatched bookmark")
	}

	bms = bd.Check(WindowStats{WindowEnd: 50, Open: 3})
	if hasBookmark(bms, BookmarkAllHatched) {
		t.Error("all_hatched fired twice")
	}
}

func TestBookmarkDetector_DayTurns(t *testing.T) {
	tests := []struct {
		name string
		prev float64
		cur  float64
		want BookmarkType
	}{
		{"daybreak", 0.2, 0.8, BookmarkDaybreak},
		{"nightfall", 0.9, 0.1, BookmarkNightfall},
		{"boundary counts as day", 0.49, 0.5, BookmarkDaybreak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := NewBookmarkDetector(6, 10)
			bd.Check(WindowStats{WindowEnd: 10, DayFraction: tt.prev})
			bms := bd.Check(WindowStats{WindowEnd: 20, DayFraction: tt.cur})
			if !hasBookmark(bms, tt.want) {
				t.Errorf("expected %s, got %+v", tt.want, bms)
			}
		})
	}

	bd := NewBookmarkDetector(6, 10)
	bd.Check(WindowStats{DayFraction: 0.7})
	if bms := bd.Check(WindowStats{DayFraction: 0.9}); hasBookmark(bms, BookmarkDaybreak) || hasBookmark(bms, BookmarkNightfall) {
		t.Errorf("steady day fired a turn: %+v", bms)
	}
}

func TestBookmarkDetector_GrowthSurge(t *testing.T) {
	bd := NewBookmarkDetector(6, 10)
	for i := 0; i < 4; i++ {
		if bms := bd.Check(WindowStats{GrowthMean: 0.8}); hasBookmark(bms, BookmarkGrowthSurge) {
			t.Fatalf("surge fired on flat history at window %d", i)
		}
	}

	bms := bd.Check(WindowStats{GrowthMean: 1.9})
	if !hasBookmark(bms, BookmarkGrowthSurge) {
		t.Error("expected growth_surge bookmark")
	}
}

func TestBookmarkDetector_Reset(t *testing.T) {
	bd := NewBookmarkDetector(1, 5)
	bd.Check(WindowStats{Open: 1})
	bd.Reset()

	bms := bd.Check(WindowStats{Open: 1})
	if !hasBookmark(bms, BookmarkFirstHatch) || !hasBookmark(bms, BookmarkAllHatched) {
		t.Errorf("milestones not re-armed after Reset: %+v", bms)
	}
}
