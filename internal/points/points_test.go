package points

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEarned(t *testing.T) {
	testCases := []struct {
		name      string
		wasteType WasteType
		weight    float64
		expected  int64
	}{
		{"plastic two kilos", Plastic, 2, 10},
		{"plastic floors fraction", Plastic, 2.39, 11},
		{"organic", Organic, 1.5, 4},
		{"ewaste", EWaste, 0.1, 1},
		{"ewaste below one point", EWaste, 0.05, 0},
		{"max weight", Organic, MaxWeight, 3000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Earned(tc.wasteType, tc.weight)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, ok := Earned(WasteType("Glass"), 1)
	assert.False(t, ok)
}

func TestEarnedNeverRoundsUp(t *testing.T) {
	for _, wt := range WasteTypes() {
		rate, ok := Rate(wt)
		assert.True(t, ok)
		for h := int64(1); h <= 2000; h += 37 {
			w := float64(h) / 100
			got, _ := Earned(wt, w)
			assert.LessOrEqual(t, float64(got), w*float64(rate)+1e-9)
			assert.Equal(t, h*rate/100, got)
		}
	}
}

func TestEarnedUsesStoredPrecision(t *testing.T) {
	testCases := []struct {
		weight   float64
		rounded  float64
		expected int64
	}{
		{2.399, 2.4, 12},
		{1.4, 1.4, 7},
		{0.004, 0, 0},
		{0.005, 0.01, 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.rounded, RoundWeight(tc.weight))
		got, _ := Earned(Plastic, tc.weight)
		assert.Equal(t, tc.expected, got, "weight %v", tc.weight)
	}
}

func TestValidWeight(t *testing.T) {
	assert.False(t, ValidWeight(0))
	assert.False(t, ValidWeight(-1))
	assert.False(t, ValidWeight(1000.01))
	assert.False(t, ValidWeight(math.NaN()))
	assert.True(t, ValidWeight(0.001))
	assert.True(t, ValidWeight(1000))
}

func TestParseWasteType(t *testing.T) {
	wt, ok := ParseWasteType("E-waste")
	assert.True(t, ok)
	assert.Equal(t, EWaste, wt)

	_, ok = ParseWasteType("plastic")
	assert.False(t, ok)
}

func TestLevelFor(t *testing.T) {
	testCases := []struct {
		points   int64
		expected string
	}{
		{0, "Eco Beginner"},
		{10, "Eco Beginner"},
		{99, "Eco Beginner"},
		{100, "Eco Explorer"},
		{105, "Eco Explorer"},
		{499, "Eco Explorer"},
		{500, "Eco Warrior"},
		{999, "Eco Warrior"},
		{1000, "Eco Champion"},
		{1999, "Eco Champion"},
		{2000, "Eco Master"},
		{250000, "Eco Master"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, LevelFor(tc.points), "points=%d", tc.points)
	}
}

func TestQualifies(t *testing.T) {
	testCases := []struct {
		name       string
		thresholds Thresholds
		progress   Progress
		expected   bool
	}{
		{
			name:       "welcome achievement is unconditional",
			thresholds: Thresholds{},
			progress:   Progress{},
			expected:   true,
		},
		{
			name:       "first pickup counts completed pickups",
			thresholds: Thresholds{PickupsRequired: 1},
			progress:   Progress{CompletedPickups: 1},
			expected:   true,
		},
		{
			name:       "no completed pickups yet",
			thresholds: Thresholds{PickupsRequired: 1},
			progress:   Progress{Points: 900},
			expected:   false,
		},
		{
			name:       "waste threshold",
			thresholds: Thresholds{WasteRequired: 100},
			progress:   Progress{WasteRecycled: 100},
			expected:   true,
		},
		{
			name:       "points below threshold",
			thresholds: Thresholds{PointsRequired: 500},
			progress:   Progress{Points: 499},
			expected:   false,
		},
		{
			name:       "any single threshold is enough",
			thresholds: Thresholds{PointsRequired: 5000, WasteRequired: 1000, PickupsRequired: 3},
			progress:   Progress{Points: 10, WasteRecycled: 2, CompletedPickups: 3},
			expected:   true,
		},
		{
			name:       "none of several thresholds met",
			thresholds: Thresholds{PointsRequired: 5000, WasteRequired: 1000, PickupsRequired: 3},
			progress:   Progress{Points: 10, WasteRecycled: 2, CompletedPickups: 2},
			expected:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Qualifies(tc.thresholds, tc.progress))
		})
	}
}
