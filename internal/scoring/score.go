package scoring

import (
	"math"

	"github.com/spigell/fitscore/internal/company"
)

// Normalize returns value/ceiling capped at 1. A non-positive ceiling yields 0.
func Normalize(value, ceiling int64) float64 {
	if ceiling <= 0 {
		return 0
	}
	return clamp(float64(value) / float64(ceiling))
}

// Score combines the record and weights into a fit score in [0,1].
// Weights need not sum to 1; the result is clamped.
func Score(record company.Record, weights company.Weights) float64 {
	normEmployee := Normalize(record.EmployeeSize, weights.MaxEmployeeSize)
	normRevenue := Normalize(record.Revenue, weights.MaxRevenue)

	raw := weights.WeightEmployee*normEmployee +
		weights.WeightRevenue*normRevenue +
		weights.WeightIndustry*weights.IndustryScore

	return clamp(raw)
}

// Evaluate looks up the record's industry and scores it.
func (t *Table) Evaluate(record company.Record) company.Scored {
	weights, known := t.Lookup(record.Industry)
	return company.Scored{
		Record:        record,
		Score:         Score(record, weights),
		KnownIndustry: known,
		Weights:       weights,
	}
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
