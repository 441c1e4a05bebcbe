package health

import (
	"sort"
)

// Summary holds descriptive statistics over a set of health index values.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Summarize computes descriptive statistics over the given values.
// It returns a zero Summary for an empty input.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	s := Summary{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
		Median: sorted[n/2],
		Q25:    sorted[0],
		Q75:    sorted[n-1],
	}
	if n >= 4 {
		s.Q25 = sorted[n/4]
		s.Q75 = sorted[3*n/4]
	}
	return s
}
