package points

// Level thresholds, ascending. A user holds the highest tier whose lower bound
// does not exceed their points.
var levels = []struct {
	MinPoints int64
	Name      string
}{
	{0, "Eco Beginner"},
	{100, "Eco Explorer"},
	{500, "Eco Warrior"},
	{1000, "Eco Champion"},
	{2000, "Eco Master"},
}

// DefaultLevel is the tier of a user with no points.
const DefaultLevel = "Eco Beginner"

// LevelFor returns the level name for the given points total.
func LevelFor(points int64) string {
	level := DefaultLevel
	for _, l := range levels {
		if points < l.MinPoints {
			break
		}
		level = l.Name
	}
	return level
}
