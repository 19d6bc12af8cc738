package service

import (
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"math"
	"math/rand"
	"sort"
)

// WeightFunc maps a question to its sampling weight for weighted selection.
// The weighting formula is a deliberate extension point; the default favors
// harder questions linearly.
type WeightFunc func(q *model.Question) float64

func DefaultWeight(q *model.Question) float64 {
	return float64(1 + q.Difficulty)
}

// QuestionSelector picks and orders the question set for a new attempt.
// All three modes are deterministic given a seed.
type QuestionSelector struct {
	Weight WeightFunc
}

func NewQuestionSelector() *QuestionSelector {
	return &QuestionSelector{Weight: DefaultWeight}
}

// Select filters the pool by tags and difficulty, orders it per the selection
// mode and returns the first QuestionCount items. A filtered pool smaller
// than requested is a hard failure, never a silently smaller set.
func (s *QuestionSelector) Select(pool []model.Question, cfg model.SelectionConfig, seed int64) ([]model.Question, error) {
	filtered := make([]model.Question, 0, len(pool))
	for i := range pool {
		if s.matches(&pool[i], cfg) {
			filtered = append(filtered, pool[i])
		}
	}

	count := cfg.QuestionCount
	if count <= 0 {
		count = len(filtered)
	}
	if len(filtered) < count {
		return nil, fmt.Errorf("%w: need %d, pool has %d after filters",
			util.ErrInsufficientQuestions, count, len(filtered))
	}

	switch cfg.Mode {
	case model.SelectSequential, "":
		// pool order is authoring order
	case model.SelectRandom:
		shuffle(filtered, seed)
	case model.SelectWeighted:
		s.orderWeighted(filtered, seed)
	default:
		return nil, fmt.Errorf("%w: unknown selection mode %q", util.ErrValidation, cfg.Mode)
	}

	return filtered[:count], nil
}

func (s *QuestionSelector) matches(q *model.Question, cfg model.SelectionConfig) bool {
	if !q.Active {
		return false
	}
	if cfg.MinDifficulty > 0 && q.Difficulty < cfg.MinDifficulty {
		return false
	}
	if cfg.MaxDifficulty > 0 && q.Difficulty > cfg.MaxDifficulty {
		return false
	}
	for _, tag := range cfg.TagFilter {
		if !q.HasTag(tag) {
			return false
		}
	}
	return true
}

// shuffle is a uniform Fisher-Yates permutation from the seed.
func shuffle(qs []model.Question, seed int64) {
	r := rand.New(rand.NewSource(seed))
	for i := len(qs) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

// orderWeighted sorts by Efraimidis-Spirakis keys u^(1/w), which is weighted
// sampling without replacement once the prefix is taken.
func (s *QuestionSelector) orderWeighted(qs []model.Question, seed int64) {
	weight := s.Weight
	if weight == nil {
		weight = DefaultWeight
	}
	r := rand.New(rand.NewSource(seed))
	keys := make([]float64, len(qs))
	order := make([]int, len(qs))
	for i := range qs {
		w := weight(&qs[i])
		if w <= 0 {
			w = 1
		}
		keys[i] = math.Pow(r.Float64(), 1/w)
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return keys[order[i]] > keys[order[j]] })
	sorted := make([]model.Question, len(qs))
	for i, idx := range order {
		sorted[i] = qs[idx]
	}
	copy(qs, sorted)
}
