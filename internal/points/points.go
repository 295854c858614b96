package points

import "math"

// WasteType is the category of waste collected by a pickup.
type WasteType string

const (
	Plastic WasteType = "Plastic"
	Organic WasteType = "Organic"
	EWaste  WasteType = "E-waste"
)

// MaxWeight is the heaviest single pickup accepted, in kilograms.
const MaxWeight = 1000.0

var ratePerKg = map[WasteType]int64{
	Plastic: 5,
	Organic: 3,
	EWaste:  15,
}

// WasteTypes lists every accepted waste type.
func WasteTypes() []WasteType {
	return []WasteType{Plastic, Organic, EWaste}
}

// ParseWasteType returns the WasteType named by s.
func ParseWasteType(s string) (WasteType, bool) {
	t := WasteType(s)
	_, ok := ratePerKg[t]
	return t, ok
}

// Rate returns the points awarded per kilogram of the given waste type.
func Rate(t WasteType) (int64, bool) {
	r, ok := ratePerKg[t]
	return r, ok
}

// ValidWeight reports whether weight lies in (0, MaxWeight].
func ValidWeight(weight float64) bool {
	return weight > 0 && weight <= MaxWeight && !math.IsNaN(weight)
}

// RoundWeight rounds weight to the two decimals the store keeps.
func RoundWeight(weight float64) float64 {
	return math.Round(weight*100) / 100
}

// Earned computes floor(weight * rate) for a completed pickup. The weight is
// taken at two decimals and the product is formed in hundredths so that no
// float error can move it across an integer.
func Earned(t WasteType, weight float64) (int64, bool) {
	r, ok := ratePerKg[t]
	if !ok {
		return 0, false
	}
	hundredths := int64(math.Round(weight * 100))
	return hundredths * r / 100, true
}
