package service

import (
	"testing"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestFeedbackVisible(t *testing.T) {
	tests := []struct {
		name          string
		setting       model.FeedbackSetting
		status        model.AttemptStatus
		attemptNumber int
		maxAttempts   *int
		want          bool
	}{
		{"never hides graded", model.FeedbackNever, model.AttemptGraded, 1, intPtr(1), false},
		{"after submit while in progress", model.FeedbackAfterSubmit, model.AttemptInProgress, 1, nil, false},
		{"after submit once submitted", model.FeedbackAfterSubmit, model.AttemptSubmitted, 1, nil, true},
		{"after submit once graded", model.FeedbackAfterSubmit, model.AttemptGraded, 1, nil, true},
		{"after all attempts before last", model.FeedbackAfterAllAttempts, model.AttemptGraded, 1, intPtr(3), false},
		{"after all attempts on last", model.FeedbackAfterAllAttempts, model.AttemptGraded, 3, intPtr(3), true},
		{"after all attempts still submitted", model.FeedbackAfterAllAttempts, model.AttemptSubmitted, 3, intPtr(3), false},
		{"after all attempts unlimited", model.FeedbackAfterAllAttempts, model.AttemptGraded, 10, nil, false},
		{"unknown setting fails closed", model.FeedbackSetting("sometimes"), model.AttemptGraded, 1, intPtr(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeedbackVisible(tt.setting, tt.status, tt.attemptNumber, tt.maxAttempts)
			assert.Equal(t, tt.want, got)
		})
	}
}
