package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactMatch(t *testing.T) {
	e := NewEngine()
	snap := Snapshot{Type: "multiple_choice", PointsPossible: 5, CorrectAnswer: "B"}

	tests := []struct {
		name     string
		response string
		earned   float64
		correct  bool
	}{
		{"exact", "B", 5, true},
		{"case insensitive", "b", 5, true},
		{"wrong", "A", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Grade(snap, tt.response)
			assert.Equal(t, tt.earned, res.PointsEarned)
			require.NotNil(t, res.IsCorrect)
			assert.Equal(t, tt.correct, *res.IsCorrect)
			assert.False(t, res.NeedsManual)
		})
	}
}

func TestTrueFalse(t *testing.T) {
	e := NewEngine()
	snap := Snapshot{Type: "true_false", PointsPossible: 2, CorrectAnswer: "true"}

	r := e.Grade(snap, "TRUE")
	assert.Equal(t, 2.0, r.PointsEarned)

	r = e.Grade(snap, "false")
	assert.Equal(t, 0.0, r.PointsEarned)
}

func TestTextMatchAlternates(t *testing.T) {
	e := NewEngine()
	snap := Snapshot{
		Type:           "short_answer",
		PointsPossible: 3,
		CorrectAnswer:  "Photosynthesis",
		Alternates:     []string{"photo synthesis"},
	}

	tests := []struct {
		name     string
		response string
		earned   float64
	}{
		{"canonical", "photosynthesis", 3},
		{"padded and cased", "  PHOTOSYNTHESIS  ", 3},
		{"internal whitespace collapsed", "photo   synthesis", 3},
		{"alternate", "Photo Synthesis", 3},
		{"wrong", "respiration", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Grade(snap, tt.response)
			assert.Equal(t, tt.earned, res.PointsEarned)
		})
	}
}

func TestMatchingPartialCredit(t *testing.T) {
	e := NewEngine()
	snap := Snapshot{
		Type:           "matching",
		PointsPossible: 6,
		Pairs:          map[string]string{"a": "1", "b": "2", "c": "3"},
	}

	res := e.Grade(snap, `{"a":"1","b":"2","c":"9"}`)
	assert.Equal(t, 4.0, res.PointsEarned)
	require.NotNil(t, res.IsCorrect)
	assert.False(t, *res.IsCorrect)
	assert.False(t, res.NeedsManual)

	res = e.Grade(snap, `{"a":"1","b":"2","c":"3"}`)
	assert.Equal(t, 6.0, res.PointsEarned)
	assert.True(t, *res.IsCorrect)
}

func TestMatchingMalformedResponse(t *testing.T) {
	e := NewEngine()
	snap := Snapshot{Type: "matching", PointsPossible: 4, Pairs: map[string]string{"x": "y"}}

	for _, response := range []string{"", "not json", `["x","y"]`} {
		res := e.Grade(snap, response)
		assert.Equal(t, 0.0, res.PointsEarned)
		require.NotNil(t, res.IsCorrect)
		assert.False(t, *res.IsCorrect)
	}
}

func TestMatchingRoundsToTwoDecimals(t *testing.T) {
	e := NewEngine()
	snap := Snapshot{
		Type:           "matching",
		PointsPossible: 1,
		Pairs:          map[string]string{"a": "1", "b": "2", "c": "3"},
	}
	res := e.Grade(snap, `{"a":"1"}`)
	assert.Equal(t, 0.33, res.PointsEarned)
}

func TestEssayNeedsManual(t *testing.T) {
	e := NewEngine()
	res := e.Grade(Snapshot{Type: "essay", PointsPossible: 10}, "my long answer")
	assert.True(t, res.NeedsManual)
	assert.Nil(t, res.IsCorrect)
	assert.Equal(t, 0.0, res.PointsEarned)
}

func TestUnknownTypeNeedsManual(t *testing.T) {
	e := NewEngine()
	res := e.Grade(Snapshot{Type: "hotspot", PointsPossible: 10}, "anything")
	assert.True(t, res.NeedsManual)
	assert.Nil(t, res.IsCorrect)
}
