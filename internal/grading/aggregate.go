package grading

import "math"

// Scored is one graded-or-pending question from an attempt.
type Scored struct {
	Earned   float64
	Possible float64
	Graded   bool
}

// Totals is the attempt-level rollup. RawScore sums earned points over graded
// questions only; PointsPossible always sums the full set.
type Totals struct {
	RawScore        float64
	PointsPossible  float64
	PercentageScore float64
	GradingComplete bool
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage is round2(raw/possible*100), defined as 0 when nothing is
// possible so an empty attempt never divides by zero.
func Percentage(raw, possible float64) float64 {
	if possible <= 0 {
		return 0
	}
	return Round2(raw / possible * 100)
}

func Aggregate(items []Scored) Totals {
	t := Totals{GradingComplete: true}
	for _, it := range items {
		t.PointsPossible += it.Possible
		if it.Graded {
			t.RawScore += it.Earned
		} else {
			t.GradingComplete = false
		}
	}
	t.PercentageScore = Percentage(t.RawScore, t.PointsPossible)
	return t
}

func Passed(percentage, threshold float64) bool {
	return percentage >= threshold
}
