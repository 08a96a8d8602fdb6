package components

// Wing holds the per-individual traits fixed when a butterfly hatches.
type Wing struct {
	Size       float64 // adult size multiplier, immutable after spawn
	Fatigue    float64 // reserved, not yet read by any system
	DevRealSec float64 // real seconds the source cocoon took to develop
	BornAt     float64 // wall-clock second of the hatch
	Index      int32   // spawn order, decorrelates drift noise between agents
	Slot       int32   // cocoon slot the butterfly hatched from
}
