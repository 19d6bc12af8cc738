package service

import "lms_backend/internal/model"

// FeedbackVisible decides whether correct answers may be exposed for an
// attempt. after_all_attempts is undefined for unlimited-attempt subjects and
// therefore never shows answers there.
func FeedbackVisible(setting model.FeedbackSetting, status model.AttemptStatus, attemptNumber int, maxAttempts *int) bool {
	switch setting {
	case model.FeedbackAfterSubmit:
		return status == model.AttemptSubmitted || status == model.AttemptGraded
	case model.FeedbackAfterAllAttempts:
		if maxAttempts == nil {
			return false
		}
		return status == model.AttemptGraded && attemptNumber >= *maxAttempts
	default: // never, or unrecognized settings fail closed
		return false
	}
}
