package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"lms_backend/internal/grading"
	"lms_backend/internal/model"
	"lms_backend/internal/scorm"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// AttemptService owns the attempt lifecycle: start, autosave, submit, manual
// grading, suspend/resume and the CMI surface for content attempts. It never
// spawns background work; time limits are checked on each mutating call.
type AttemptService struct {
	Attempts AttemptStore
	Banks    QuestionBankReader
	Configs  SubjectConfigReader
	Learners LearnerReader
	Selector *QuestionSelector
	Grader   *grading.Engine

	// Overridable clock and seed source so tests can pin outcomes.
	Now  func() time.Time
	Seed func() int64
}

func NewAttemptService(attempts AttemptStore, banks QuestionBankReader, configs SubjectConfigReader, learners LearnerReader) *AttemptService {
	return &AttemptService{
		Attempts: attempts,
		Banks:    banks,
		Configs:  configs,
		Learners: learners,
		Selector: NewQuestionSelector(),
		Grader:   grading.NewEngine(),
		Now:      time.Now,
		Seed:     func() int64 { return time.Now().UnixNano() },
	}
}

type ResponseUpdate struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Response   string `json:"response"`
}

type SuspendRequest struct {
	Location    string `json:"location"`
	SuspendData string `json:"suspendData"`
}

// Start creates the next attempt for a (subject, learner) pair. The
// single-live-attempt rule is enforced by the store's unique constraint, so
// concurrent starts race on the insert, not on a lookup.
func (s *AttemptService) Start(subjectID uint, kind model.SubjectKind, learnerID uint) (*model.Attempt, error) {
	cfg, err := s.Configs.SubjectConfig(subjectID, kind)
	if err != nil {
		return nil, err
	}

	finished, err := s.Attempts.CountFinished(subjectID, kind, learnerID)
	if err != nil {
		return nil, err
	}
	if cfg.MaxAttempts != nil && finished >= int64(*cfg.MaxAttempts) {
		return nil, fmt.Errorf("%w: %d of %d attempts used", util.ErrLimitExceeded, finished, *cfg.MaxAttempts)
	}

	now := s.Now()
	active := true
	attempt := &model.Attempt{
		SubjectID:        subjectID,
		SubjectKind:      kind,
		LearnerID:        learnerID,
		AttemptNumber:    int(finished) + 1,
		Status:           model.AttemptInProgress,
		Active:           &active,
		StartedAt:        now,
		LastActivityAt:   now,
		TimeLimitSeconds: cfg.TimeLimitSeconds,
	}

	if kind == model.SubjectAssessment {
		pool, err := s.Banks.ActiveQuestions(cfg.Selection.BankIDs)
		if err != nil {
			return nil, err
		}
		selected, err := s.Selector.Select(pool, cfg.Selection, s.Seed())
		if err != nil {
			return nil, err
		}
		attempt.Questions = snapshotQuestions(selected)
	} else {
		attempt.ScormVersion = cfg.ScormVersion
	}

	if err := s.Attempts.Create(attempt); err != nil {
		return nil, err
	}

	monitoring.AttemptsStarted.WithLabelValues(string(kind)).Inc()
	logger.Log.Info("attempt started",
		zap.Uint("attempt_id", attempt.ID),
		zap.Uint("subject_id", subjectID),
		zap.Uint("learner_id", learnerID),
		zap.Int("attempt_number", attempt.AttemptNumber))
	return attempt, nil
}

// snapshotQuestions freezes the selected questions into attempt rows. The
// attempt grades against these copies, never the live bank.
func snapshotQuestions(selected []model.Question) []model.AttemptQuestion {
	out := make([]model.AttemptQuestion, len(selected))
	for i := range selected {
		q := &selected[i]
		out[i] = model.AttemptQuestion{
			Position:         i,
			QuestionID:       q.ID,
			QuestionType:     q.QuestionType,
			Text:             q.Text,
			Options:          cloneRaw(q.Options),
			CorrectAnswer:    q.CorrectAnswer,
			AlternateAnswers: cloneRaw(q.AlternateAnswers),
			CorrectPairs:     cloneRaw(q.CorrectPairs),
			PointsPossible:   q.Points,
		}
	}
	return out
}

func cloneRaw(src json.RawMessage) json.RawMessage {
	if len(src) == 0 {
		return nil
	}
	dst := make(json.RawMessage, len(src))
	copy(dst, src)
	return dst
}

// SaveProgress merges response updates into the attempt. Unknown question ids
// are ignored; re-sending the same responses is a no-op on state. Elapsed
// time always comes from the server clock.
func (s *AttemptService) SaveProgress(attemptID, learnerID uint, updates []ResponseUpdate) (*model.Attempt, error) {
	attempt, err := s.owned(attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, fmt.Errorf("%w: attempt is %s", util.ErrInvalidState, attempt.Status)
	}
	now := s.Now()
	if err := checkTimeLimit(attempt, now); err != nil {
		return nil, err
	}

	byID := make(map[uint]*model.AttemptQuestion, len(attempt.Questions))
	for i := range attempt.Questions {
		byID[attempt.Questions[i].QuestionID] = &attempt.Questions[i]
	}
	for _, u := range updates {
		if q, ok := byID[u.QuestionID]; ok {
			q.Response = u.Response
		}
	}

	attempt.TimeSpentSeconds = int(now.Sub(attempt.StartedAt).Seconds())
	attempt.LastActivityAt = now

	if err := s.Attempts.Save(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Submit grades every question and either finalizes the attempt or parks it
// in submitted awaiting manual grading. Grading is per question; one
// ungradable question never blocks the others' scores.
func (s *AttemptService) Submit(attemptID, learnerID uint) (*model.Attempt, error) {
	attempt, err := s.owned(attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	if attempt.SubjectKind != model.SubjectAssessment {
		return nil, fmt.Errorf("%w: content attempts complete through CMI status writes", util.ErrInvalidState)
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, fmt.Errorf("%w: attempt is %s", util.ErrInvalidState, attempt.Status)
	}
	now := s.Now()
	if err := checkTimeLimit(attempt, now); err != nil {
		return nil, err
	}

	cfg, err := s.Configs.SubjectConfig(attempt.SubjectID, attempt.SubjectKind)
	if err != nil {
		return nil, err
	}

	needsManual := false
	for i := range attempt.Questions {
		q := &attempt.Questions[i]
		res := s.Grader.Grade(grading.Snapshot{
			Type:           string(q.QuestionType),
			PointsPossible: q.PointsPossible,
			CorrectAnswer:  q.CorrectAnswer,
			Alternates:     q.AlternateList(),
			Pairs:          q.PairMap(),
		}, q.Response)
		q.PointsEarned = res.PointsEarned
		q.IsCorrect = res.IsCorrect
		if res.NeedsManual {
			needsManual = true
			q.GradedAt = nil
		} else {
			gradedAt := now
			q.GradedAt = &gradedAt
		}
	}

	attempt.SubmittedAt = &now
	attempt.LastActivityAt = now
	attempt.TimeSpentSeconds = int(now.Sub(attempt.StartedAt).Seconds())
	attempt.Active = nil
	attempt.RequiresManualGrading = needsManual
	s.applyTotals(attempt, cfg)

	if needsManual {
		attempt.Status = model.AttemptSubmitted
	} else {
		attempt.Status = model.AttemptGraded
	}

	if err := s.Attempts.Save(attempt); err != nil {
		return nil, err
	}

	monitoring.AttemptsSubmitted.Inc()
	if attempt.Status == model.AttemptGraded {
		monitoring.AttemptsGraded.Inc()
	}
	logger.Log.Info("attempt submitted",
		zap.Uint("attempt_id", attempt.ID),
		zap.String("status", string(attempt.Status)),
		zap.Float64("raw_score", attempt.RawScore))
	return attempt, nil
}

// GradeQuestion records a manual grade on one question. Once every question
// carries a gradedAt stamp the attempt is finalized.
func (s *AttemptService) GradeQuestion(attemptID uint, questionIndex int, score float64, feedback string, graderID uint) (*model.Attempt, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptSubmitted && attempt.Status != model.AttemptGraded {
		return nil, fmt.Errorf("%w: attempt is %s", util.ErrInvalidState, attempt.Status)
	}
	if questionIndex < 0 || questionIndex >= len(attempt.Questions) {
		return nil, fmt.Errorf("%w: question index %d out of range", util.ErrValidation, questionIndex)
	}
	q := &attempt.Questions[questionIndex]
	if score < 0 || score > q.PointsPossible {
		return nil, fmt.Errorf("%w: score %v outside [0, %v]", util.ErrValidation, score, q.PointsPossible)
	}

	now := s.Now()
	q.PointsEarned = score
	q.Feedback = feedback
	q.GradedBy = &graderID
	q.GradedAt = &now
	correct := score >= q.PointsPossible
	q.IsCorrect = &correct

	cfg, err := s.Configs.SubjectConfig(attempt.SubjectID, attempt.SubjectKind)
	if err != nil {
		return nil, err
	}
	complete := s.applyTotals(attempt, cfg)
	if complete && attempt.Status == model.AttemptSubmitted {
		attempt.Status = model.AttemptGraded
		monitoring.AttemptsGraded.Inc()
	}
	attempt.LastActivityAt = now

	if err := s.Attempts.Save(attempt); err != nil {
		return nil, err
	}
	logger.Log.Info("question graded",
		zap.Uint("attempt_id", attempt.ID),
		zap.Int("question_index", questionIndex),
		zap.Uint("grader_id", graderID),
		zap.Bool("grading_complete", attempt.GradingComplete))
	return attempt, nil
}

// applyTotals recomputes the whole scoring block from the question rows so
// rawScore can never drift from the per-question sum. Returns whether every
// question is graded.
func (s *AttemptService) applyTotals(attempt *model.Attempt, cfg *model.SubjectConfig) bool {
	items := make([]grading.Scored, len(attempt.Questions))
	for i := range attempt.Questions {
		q := &attempt.Questions[i]
		items[i] = grading.Scored{
			Earned:   q.PointsEarned,
			Possible: q.PointsPossible,
			Graded:   q.GradedAt != nil,
		}
	}
	totals := grading.Aggregate(items)
	attempt.RawScore = totals.RawScore
	attempt.GradingComplete = totals.GradingComplete
	if totals.GradingComplete {
		attempt.PercentageScore = totals.PercentageScore
		attempt.Passed = grading.Passed(totals.PercentageScore, cfg.PassingScore)
	}
	return totals.GradingComplete
}

// Abandon ends a live attempt without grading it.
func (s *AttemptService) Abandon(attemptID, learnerID uint) (*model.Attempt, error) {
	attempt, err := s.owned(attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	if !attempt.Status.Live() {
		return nil, fmt.Errorf("%w: attempt is %s", util.ErrInvalidState, attempt.Status)
	}
	attempt.Status = model.AttemptAbandoned
	attempt.Active = nil
	attempt.LastActivityAt = s.Now()
	if err := s.Attempts.Save(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Suspend bookmarks a content attempt for later resumption.
func (s *AttemptService) Suspend(attemptID, learnerID uint, req SuspendRequest) (*model.Attempt, error) {
	attempt, err := s.owned(attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	if attempt.SubjectKind != model.SubjectContent {
		return nil, fmt.Errorf("%w: only content attempts can be suspended", util.ErrInvalidState)
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, fmt.Errorf("%w: attempt is %s", util.ErrInvalidState, attempt.Status)
	}

	cfg, err := s.Configs.SubjectConfig(attempt.SubjectID, attempt.SubjectKind)
	if err != nil {
		return nil, err
	}
	if err := validateSuspendData(attempt.ScormVersion, req.SuspendData, cfg.SuspendDataLimit); err != nil {
		return nil, err
	}

	attempt.SuspendData = req.SuspendData
	attempt.Location = req.Location
	attempt.Status = model.AttemptSuspended
	attempt.LastActivityAt = s.Now()
	if err := s.Attempts.Save(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Resume reopens a suspended content attempt and returns the stored state so
// the client can restore itself.
func (s *AttemptService) Resume(attemptID, learnerID uint) (*model.Attempt, error) {
	attempt, err := s.owned(attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptSuspended {
		return nil, fmt.Errorf("%w: attempt is %s", util.ErrInvalidState, attempt.Status)
	}
	attempt.Status = model.AttemptInProgress
	attempt.LastActivityAt = s.Now()
	if err := s.Attempts.Save(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) ListAttempts(f model.AttemptFilter) ([]model.Attempt, error) {
	return s.Attempts.List(f)
}

// QuestionResult is the learner-facing view of one answered question.
// CorrectAnswer is only populated when the feedback policy allows it.
type QuestionResult struct {
	Position       int             `json:"position"`
	QuestionType   string          `json:"questionType"`
	Text           string          `json:"text"`
	Options        json.RawMessage `json:"options,omitempty"`
	Response       string          `json:"response"`
	PointsPossible float64         `json:"pointsPossible"`
	PointsEarned   float64         `json:"pointsEarned"`
	IsCorrect      *bool           `json:"isCorrect,omitempty"`
	Feedback       string          `json:"feedback,omitempty"`
	CorrectAnswer  string          `json:"correctAnswer,omitempty"`
	GradedAt       *time.Time      `json:"gradedAt,omitempty"`
}

type AttemptResult struct {
	Attempt         *model.Attempt   `json:"attempt"`
	Questions       []QuestionResult `json:"questions"`
	AnswersRevealed bool             `json:"answersRevealed"`
}

// GetResults returns the attempt with the feedback visibility policy applied.
func (s *AttemptService) GetResults(attemptID, learnerID uint) (*AttemptResult, error) {
	attempt, err := s.owned(attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.Configs.SubjectConfig(attempt.SubjectID, attempt.SubjectKind)
	if err != nil {
		return nil, err
	}

	visible := FeedbackVisible(cfg.FeedbackSetting, attempt.Status, attempt.AttemptNumber, cfg.MaxAttempts)
	questions := make([]QuestionResult, len(attempt.Questions))
	for i := range attempt.Questions {
		q := &attempt.Questions[i]
		qr := QuestionResult{
			Position:       q.Position,
			QuestionType:   string(q.QuestionType),
			Text:           q.Text,
			Options:        q.Options,
			Response:       q.Response,
			PointsPossible: q.PointsPossible,
			PointsEarned:   q.PointsEarned,
			IsCorrect:      q.IsCorrect,
			Feedback:       q.Feedback,
			GradedAt:       q.GradedAt,
		}
		if visible {
			qr.CorrectAnswer = q.CorrectAnswer
		}
		questions[i] = qr
	}

	// the response carries question rows only through the gated view
	view := *attempt
	view.Questions = nil
	return &AttemptResult{Attempt: &view, Questions: questions, AnswersRevealed: visible}, nil
}

// GetCmiData renders the CMI map for a content attempt.
func (s *AttemptService) GetCmiData(attemptID, learnerID uint) (map[string]string, error) {
	attempt, err := s.owned(attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	if attempt.SubjectKind != model.SubjectContent {
		return nil, fmt.Errorf("%w: not a content attempt", util.ErrInvalidState)
	}
	learner, err := s.cmiLearner(attempt.LearnerID)
	if err != nil {
		return nil, err
	}
	return scorm.Read(attempt, learner)
}

// UpdateCmiData applies a batch of CMI writes. Status writes drive the
// content completion transitions; terminal writes release the live slot.
func (s *AttemptService) UpdateCmiData(attemptID, learnerID uint, writes map[string]string) (*model.Attempt, error) {
	attempt, err := s.owned(attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	if attempt.SubjectKind != model.SubjectContent {
		return nil, fmt.Errorf("%w: not a content attempt", util.ErrInvalidState)
	}
	// completed still accepts writes: the success verdict may arrive in a
	// later commit than the completion status.
	if attempt.Status != model.AttemptInProgress && attempt.Status != model.AttemptCompleted {
		return nil, fmt.Errorf("%w: attempt is %s", util.ErrInvalidState, attempt.Status)
	}
	now := s.Now()
	if err := checkTimeLimit(attempt, now); err != nil {
		return nil, err
	}

	cfg, err := s.Configs.SubjectConfig(attempt.SubjectID, attempt.SubjectKind)
	if err != nil {
		return nil, err
	}
	if err := scorm.Write(attempt, writes, cfg.SuspendDataLimit); err != nil {
		return nil, err
	}

	if attempt.Status.Terminal() {
		attempt.Active = nil
		attempt.Passed = attempt.Status == model.AttemptPassed
	}
	attempt.LastActivityAt = now

	if err := s.Attempts.Save(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) owned(attemptID, learnerID uint) (*model.Attempt, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.LearnerID != learnerID {
		return nil, util.ErrPermissionDenied
	}
	return attempt, nil
}

func (s *AttemptService) cmiLearner(learnerID uint) (scorm.Learner, error) {
	u, err := s.Learners.Learner(learnerID)
	if err != nil {
		return scorm.Learner{}, err
	}
	return scorm.Learner{ID: strconv.FormatUint(uint64(u.ID), 10), Name: u.Name}, nil
}

func checkTimeLimit(attempt *model.Attempt, now time.Time) error {
	if attempt.TimeLimitSeconds <= 0 {
		return nil
	}
	elapsed := int(now.Sub(attempt.StartedAt).Seconds())
	if elapsed > attempt.TimeLimitSeconds {
		return fmt.Errorf("%w: %ds elapsed of %ds", util.ErrTimeLimitExceeded, elapsed, attempt.TimeLimitSeconds)
	}
	return nil
}

func validateSuspendData(version, data string, configuredLimit int) error {
	limit := configuredLimit
	if version == model.ScormV12 {
		limit = model.SuspendDataLimitV12
	}
	if limit > 0 && utf8.RuneCountInString(data) > limit {
		return fmt.Errorf("%w: suspend_data exceeds %d characters", util.ErrValidation, limit)
	}
	return nil
}
