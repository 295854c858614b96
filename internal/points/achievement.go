package points

// Progress is the subset of a user's totals that achievement rules read.
type Progress struct {
	Points           int64
	WasteRecycled    float64
	CompletedPickups int64
}

// Thresholds are the requirement fields of an achievement. A zero field is
// unused.
type Thresholds struct {
	PointsRequired  int64
	WasteRequired   float64
	PickupsRequired int64
}

// Unconditional reports whether every threshold is zero.
func (t Thresholds) Unconditional() bool {
	return t.PointsRequired == 0 && t.WasteRequired == 0 && t.PickupsRequired == 0
}

// Qualifies reports whether p satisfies t. Any single non-zero threshold that
// is met is sufficient; an achievement with no thresholds always qualifies.
func Qualifies(t Thresholds, p Progress) bool {
	if t.Unconditional() {
		return true
	}
	if t.PointsRequired > 0 && p.Points >= t.PointsRequired {
		return true
	}
	if t.WasteRequired > 0 && p.WasteRecycled >= t.WasteRequired {
		return true
	}
	if t.PickupsRequired > 0 && p.CompletedPickups >= t.PickupsRequired {
		return true
	}
	return false
}
