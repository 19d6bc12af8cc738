package grading

import (
	"encoding/json"
	"strings"
)

// Snapshot is the frozen view of a question needed to grade one response.
type Snapshot struct {
	Type           string
	PointsPossible float64
	CorrectAnswer  string
	Alternates     []string
	Pairs          map[string]string // matching only
}

// Result is the outcome of grading a single response. IsCorrect is nil while
// the question has not been graded (essay, unknown type).
type Result struct {
	PointsEarned   float64
	PointsPossible float64
	IsCorrect      *bool
	NeedsManual    bool
}

// Strategy grades one question type. Implementations are pure functions:
// same snapshot and response always yield the same result.
type Strategy interface {
	Grade(s Snapshot, response string) Result
}

// Engine routes a snapshot to the strategy registered for its type.
// Unrecognized types fall through to manual grading rather than silently
// passing or failing anyone.
type Engine struct {
	strategies map[string]Strategy
}

func NewEngine() *Engine {
	return &Engine{
		strategies: map[string]Strategy{
			"multiple_choice": exactMatchStrategy{},
			"true_false":      exactMatchStrategy{},
			"short_answer":    textMatchStrategy{},
			"fill_blank":      textMatchStrategy{},
			"matching":        matchingStrategy{},
			"essay":           essayStrategy{},
		},
	}
}

func (e *Engine) Grade(s Snapshot, response string) Result {
	strat, ok := e.strategies[s.Type]
	if !ok {
		return Result{PointsPossible: s.PointsPossible, NeedsManual: true}
	}
	return strat.Grade(s, response)
}

// exactMatchStrategy: single correct answer, case-insensitive, all or nothing.
type exactMatchStrategy struct{}

func (exactMatchStrategy) Grade(s Snapshot, response string) Result {
	res := Result{PointsPossible: s.PointsPossible}
	if response == "" {
		res.IsCorrect = boolPtr(false)
		return res
	}
	if strings.EqualFold(response, s.CorrectAnswer) {
		res.PointsEarned = s.PointsPossible
		res.IsCorrect = boolPtr(true)
		return res
	}
	res.IsCorrect = boolPtr(false)
	return res
}

// textMatchStrategy: case-insensitive, whitespace-trimmed match against the
// correct answer or any alternate. All or nothing.
type textMatchStrategy struct{}

func (textMatchStrategy) Grade(s Snapshot, response string) Result {
	res := Result{PointsPossible: s.PointsPossible}
	norm := normalize(response)
	if norm == "" {
		res.IsCorrect = boolPtr(false)
		return res
	}
	if norm == normalize(s.CorrectAnswer) {
		res.PointsEarned = s.PointsPossible
		res.IsCorrect = boolPtr(true)
		return res
	}
	for _, alt := range s.Alternates {
		if norm == normalize(alt) {
			res.PointsEarned = s.PointsPossible
			res.IsCorrect = boolPtr(true)
			return res
		}
	}
	res.IsCorrect = boolPtr(false)
	return res
}

// matchingStrategy: response is a JSON object of key -> chosen value. Credit
// is proportional to correct pairs; the correct flag requires all pairs.
type matchingStrategy struct{}

func (matchingStrategy) Grade(s Snapshot, response string) Result {
	res := Result{PointsPossible: s.PointsPossible}
	total := len(s.Pairs)
	if total == 0 {
		res.IsCorrect = boolPtr(false)
		return res
	}
	var learner map[string]string
	if response == "" || json.Unmarshal([]byte(response), &learner) != nil {
		res.IsCorrect = boolPtr(false)
		return res
	}
	correct := 0
	for k, want := range s.Pairs {
		if got, ok := learner[k]; ok && strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want)) {
			correct++
		}
	}
	res.PointsEarned = Round2(s.PointsPossible * float64(correct) / float64(total))
	res.IsCorrect = boolPtr(correct == total)
	return res
}

// essayStrategy: never auto-graded.
type essayStrategy struct{}

func (essayStrategy) Grade(s Snapshot, _ string) Result {
	return Result{PointsPossible: s.PointsPossible, NeedsManual: true}
}

func boolPtr(b bool) *bool { return &b }
