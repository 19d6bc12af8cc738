package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memAttemptStore mirrors the repository contract: unique live attempts and
// version-guarded saves, both reported as util.ErrConflict.
type memAttemptStore struct {
	nextID uint
	byID   map[uint]*model.Attempt
}

func newMemAttemptStore() *memAttemptStore {
	return &memAttemptStore{byID: map[uint]*model.Attempt{}}
}

func cloneAttempt(a *model.Attempt) *model.Attempt {
	cp := *a
	cp.Questions = make([]model.AttemptQuestion, len(a.Questions))
	copy(cp.Questions, a.Questions)
	return &cp
}

func (m *memAttemptStore) Create(a *model.Attempt) error {
	for _, existing := range m.byID {
		if existing.Active != nil &&
			existing.SubjectID == a.SubjectID &&
			existing.SubjectKind == a.SubjectKind &&
			existing.LearnerID == a.LearnerID {
			return fmt.Errorf("%w: a live attempt already exists for this subject", util.ErrConflict)
		}
	}
	m.nextID++
	a.ID = m.nextID
	m.byID[a.ID] = cloneAttempt(a)
	return nil
}

func (m *memAttemptStore) Save(a *model.Attempt) error {
	stored, ok := m.byID[a.ID]
	if !ok {
		return fmt.Errorf("%w: attempt %d", util.ErrNotFound, a.ID)
	}
	if stored.Version != a.Version {
		return fmt.Errorf("%w: attempt %d was modified concurrently", util.ErrConflict, a.ID)
	}
	a.Version++
	m.byID[a.ID] = cloneAttempt(a)
	return nil
}

func (m *memAttemptStore) FindByID(id uint) (*model.Attempt, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: attempt %d", util.ErrNotFound, id)
	}
	return cloneAttempt(a), nil
}

func (m *memAttemptStore) List(f model.AttemptFilter) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range m.byID {
		if f.SubjectID != 0 && a.SubjectID != f.SubjectID {
			continue
		}
		if f.LearnerID != 0 && a.LearnerID != f.LearnerID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, *cloneAttempt(a))
	}
	return out, nil
}

func (m *memAttemptStore) CountFinished(subjectID uint, kind model.SubjectKind, learnerID uint) (int64, error) {
	var n int64
	for _, a := range m.byID {
		if a.SubjectID == subjectID && a.SubjectKind == kind && a.LearnerID == learnerID && !a.Status.Live() {
			n++
		}
	}
	return n, nil
}

type fakeBanks struct {
	questions []model.Question
}

func (f *fakeBanks) ActiveQuestions(bankIDs []uint) ([]model.Question, error) {
	want := map[uint]bool{}
	for _, id := range bankIDs {
		want[id] = true
	}
	var out []model.Question
	for _, q := range f.questions {
		if q.Active && want[q.BankID] {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeConfigs struct {
	configs map[string]*model.SubjectConfig
}

func configKey(id uint, kind model.SubjectKind) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func (f *fakeConfigs) SubjectConfig(subjectID uint, kind model.SubjectKind) (*model.SubjectConfig, error) {
	cfg, ok := f.configs[configKey(subjectID, kind)]
	if !ok {
		return nil, fmt.Errorf("%w: subject %d", util.ErrNotFound, subjectID)
	}
	cp := *cfg
	return &cp, nil
}

type fakeLearners struct{}

func (fakeLearners) Learner(id uint) (*model.User, error) {
	return &model.User{BaseModel: model.BaseModel{ID: id}, Name: "Test Learner"}, nil
}

type testEnv struct {
	svc   *AttemptService
	store *memAttemptStore
	cfgs  *fakeConfigs
	now   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: newMemAttemptStore(),
		cfgs:  &fakeConfigs{configs: map[string]*model.SubjectConfig{}},
		now:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	banks := &fakeBanks{questions: []model.Question{
		{
			BaseModel: model.BaseModel{ID: 1}, BankID: 1,
			QuestionType: model.MultipleChoice, Text: "2+2?",
			Options:       json.RawMessage(`["3","4","5"]`),
			CorrectAnswer: "4", Points: 5, Difficulty: 1, Active: true,
		},
		{
			BaseModel: model.BaseModel{ID: 2}, BankID: 1,
			QuestionType: model.TrueFalse, Text: "The sky is blue.",
			CorrectAnswer: "true", Points: 5, Difficulty: 1, Active: true,
		},
		{
			BaseModel: model.BaseModel{ID: 3}, BankID: 1,
			QuestionType: model.Essay, Text: "Explain recursion.",
			Points: 15, Difficulty: 3, Active: true,
		},
	}}

	env.svc = NewAttemptService(env.store, banks, env.cfgs, fakeLearners{})
	env.svc.Now = func() time.Time { return env.now }
	env.svc.Seed = func() int64 { return 1 }
	return env
}

func (e *testEnv) addAssessment(id uint, mutate func(*model.SubjectConfig)) {
	cfg := &model.SubjectConfig{
		SubjectID:       id,
		Kind:            model.SubjectAssessment,
		PassingScore:    60,
		FeedbackSetting: model.FeedbackAfterSubmit,
		Selection: model.SelectionConfig{
			BankIDs:       []uint{1},
			QuestionCount: 3,
			Mode:          model.SelectSequential,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}
	e.cfgs.configs[configKey(id, model.SubjectAssessment)] = cfg
}

func (e *testEnv) addContent(id uint, mutate func(*model.SubjectConfig)) {
	cfg := &model.SubjectConfig{
		SubjectID:       id,
		Kind:            model.SubjectContent,
		PassingScore:    80,
		FeedbackSetting: model.FeedbackNever,
		ScormVersion:    model.ScormV12,
	}
	if mutate != nil {
		mutate(cfg)
	}
	e.cfgs.configs[configKey(id, model.SubjectContent)] = cfg
}

func TestStartSnapshotsQuestions(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, a.AttemptNumber)
	assert.Equal(t, model.AttemptInProgress, a.Status)
	require.NotNil(t, a.Active)
	require.Len(t, a.Questions, 3)
	assert.Equal(t, 0, a.Questions[0].Position)
	assert.Equal(t, uint(1), a.Questions[0].QuestionID)
	assert.Equal(t, "4", a.Questions[0].CorrectAnswer)
	assert.Equal(t, 5.0, a.Questions[0].PointsPossible)
}

func TestStartSecondLiveAttemptConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	_, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)

	_, err = env.svc.Start(10, model.SubjectAssessment, 100)
	assert.ErrorIs(t, err, util.ErrConflict)

	// a different learner is unaffected
	_, err = env.svc.Start(10, model.SubjectAssessment, 101)
	assert.NoError(t, err)
}

func TestStartNumbersSkipLiveAttempts(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	a1, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, a1.AttemptNumber)

	_, err = env.svc.Abandon(a1.ID, 100)
	require.NoError(t, err)

	a2, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, a2.AttemptNumber)
}

func TestStartHonorsMaxAttempts(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, func(cfg *model.SubjectConfig) {
		cfg.MaxAttempts = intPtr(1)
	})

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)
	_, err = env.svc.Abandon(a.ID, 100)
	require.NoError(t, err)

	_, err = env.svc.Start(10, model.SubjectAssessment, 100)
	assert.ErrorIs(t, err, util.ErrLimitExceeded)
}

func TestSaveProgressMergesResponses(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)

	env.now = env.now.Add(2 * time.Minute)
	a, err = env.svc.SaveProgress(a.ID, 100, []ResponseUpdate{
		{QuestionID: 1, Response: "4"},
		{QuestionID: 999, Response: "ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, "4", a.Questions[0].Response)
	assert.Equal(t, "", a.Questions[1].Response)
	assert.Equal(t, 120, a.TimeSpentSeconds)

	// later autosave keeps earlier answers
	a, err = env.svc.SaveProgress(a.ID, 100, []ResponseUpdate{{QuestionID: 2, Response: "true"}})
	require.NoError(t, err)
	assert.Equal(t, "4", a.Questions[0].Response)
	assert.Equal(t, "true", a.Questions[1].Response)
}

func TestSaveProgressOwnershipAndState(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)

	_, err = env.svc.SaveProgress(a.ID, 101, nil)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.svc.Abandon(a.ID, 100)
	require.NoError(t, err)
	_, err = env.svc.SaveProgress(a.ID, 100, nil)
	assert.ErrorIs(t, err, util.ErrInvalidState)
}

func TestTimeLimitRejectsLateActions(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, func(cfg *model.SubjectConfig) {
		cfg.TimeLimitSeconds = 600
	})

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)

	env.now = env.now.Add(11 * time.Minute)
	_, err = env.svc.SaveProgress(a.ID, 100, []ResponseUpdate{{QuestionID: 1, Response: "4"}})
	assert.ErrorIs(t, err, util.ErrTimeLimitExceeded)

	_, err = env.svc.Submit(a.ID, 100)
	assert.ErrorIs(t, err, util.ErrTimeLimitExceeded)

	// abandoning is still possible
	_, err = env.svc.Abandon(a.ID, 100)
	assert.NoError(t, err)
}

func TestSubmitWithManualGradingFlow(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)

	_, err = env.svc.SaveProgress(a.ID, 100, []ResponseUpdate{
		{QuestionID: 1, Response: "4"},
		{QuestionID: 2, Response: "true"},
		{QuestionID: 3, Response: "Recursion is when a function calls itself."},
	})
	require.NoError(t, err)

	env.now = env.now.Add(5 * time.Minute)
	a, err = env.svc.Submit(a.ID, 100)
	require.NoError(t, err)

	assert.Equal(t, model.AttemptSubmitted, a.Status)
	assert.True(t, a.RequiresManualGrading)
	assert.False(t, a.GradingComplete)
	assert.Equal(t, 10.0, a.RawScore, "auto-graded points only")
	assert.Nil(t, a.Active, "submission releases the live slot")
	require.NotNil(t, a.SubmittedAt)
	assert.Equal(t, 300, a.TimeSpentSeconds)

	// essay graded 4 of 15: total 14/25 = 56%
	a, err = env.svc.GradeQuestion(a.ID, 2, 4, "thin but correct", 55)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptGraded, a.Status)
	assert.True(t, a.GradingComplete)
	assert.Equal(t, 14.0, a.RawScore)
	assert.Equal(t, 56.0, a.PercentageScore)
	assert.False(t, a.Passed)
	require.NotNil(t, a.Questions[2].GradedBy)
	assert.Equal(t, uint(55), *a.Questions[2].GradedBy)
}

func TestSubmitFullyAutoGraded(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, func(cfg *model.SubjectConfig) {
		cfg.Selection.QuestionCount = 2
		cfg.PassingScore = 50
	})

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)

	_, err = env.svc.SaveProgress(a.ID, 100, []ResponseUpdate{
		{QuestionID: 1, Response: "4"},
		{QuestionID: 2, Response: "false"},
	})
	require.NoError(t, err)

	a, err = env.svc.Submit(a.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptGraded, a.Status)
	assert.True(t, a.GradingComplete)
	assert.Equal(t, 5.0, a.RawScore)
	assert.Equal(t, 50.0, a.PercentageScore)
	assert.True(t, a.Passed)

	_, err = env.svc.Submit(a.ID, 100)
	assert.ErrorIs(t, err, util.ErrInvalidState)
}

func TestGradeQuestionValidation(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)

	_, err = env.svc.GradeQuestion(a.ID, 0, 3, "", 55)
	assert.ErrorIs(t, err, util.ErrInvalidState, "cannot grade a live attempt")

	a, err = env.svc.Submit(a.ID, 100)
	require.NoError(t, err)

	_, err = env.svc.GradeQuestion(a.ID, 7, 3, "", 55)
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = env.svc.GradeQuestion(a.ID, 2, 16, "", 55)
	assert.ErrorIs(t, err, util.ErrValidation, "score above pointsPossible")

	_, err = env.svc.GradeQuestion(a.ID, 2, -1, "", 55)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestRegradeOverwritesScore(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)
	a, err = env.svc.Submit(a.ID, 100)
	require.NoError(t, err)

	a, err = env.svc.GradeQuestion(a.ID, 2, 10, "", 55)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptGraded, a.Status)

	a, err = env.svc.GradeQuestion(a.ID, 2, 15, "bumped on appeal", 56)
	require.NoError(t, err)
	assert.Equal(t, 15.0, a.Questions[2].PointsEarned)
	assert.Equal(t, model.AttemptGraded, a.Status)
}

func TestResultsRespectFeedbackPolicy(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, func(cfg *model.SubjectConfig) {
		cfg.FeedbackSetting = model.FeedbackAfterAllAttempts
		cfg.MaxAttempts = intPtr(2)
		cfg.Selection.QuestionCount = 2
	})

	a1, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)
	a1, err = env.svc.Submit(a1.ID, 100)
	require.NoError(t, err)

	res, err := env.svc.GetResults(a1.ID, 100)
	require.NoError(t, err)
	assert.False(t, res.AnswersRevealed)
	assert.Empty(t, res.Questions[0].CorrectAnswer)

	a2, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)
	a2, err = env.svc.Submit(a2.ID, 100)
	require.NoError(t, err)

	res, err = env.svc.GetResults(a2.ID, 100)
	require.NoError(t, err)
	assert.True(t, res.AnswersRevealed, "final attempt, fully graded")
	assert.Equal(t, "4", res.Questions[0].CorrectAnswer)

	_, err = env.svc.GetResults(a2.ID, 101)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestResultsViewLeavesAttemptIntact(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)
	_, err = env.svc.Submit(a.ID, 100)
	require.NoError(t, err)

	res, err := env.svc.GetResults(a.ID, 100)
	require.NoError(t, err)
	assert.Empty(t, res.Attempt.Questions, "rows travel only through the gated view")
	assert.Len(t, res.Questions, 3)

	// the stored attempt keeps its snapshot rows
	stored, err := env.store.FindByID(a.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Questions, 3)
}

func TestContentSuspendResume(t *testing.T) {
	env := newTestEnv(t)
	env.addContent(20, nil)

	a, err := env.svc.Start(20, model.SubjectContent, 100)
	require.NoError(t, err)
	assert.Empty(t, a.Questions)
	assert.Equal(t, model.ScormV12, a.ScormVersion)

	a, err = env.svc.Suspend(a.ID, 100, SuspendRequest{Location: "page-4", SuspendData: "state"})
	require.NoError(t, err)
	assert.Equal(t, model.AttemptSuspended, a.Status)
	require.NotNil(t, a.Active, "suspended attempts still hold the live slot")

	_, err = env.svc.Start(20, model.SubjectContent, 100)
	assert.ErrorIs(t, err, util.ErrConflict)

	a, err = env.svc.Resume(a.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptInProgress, a.Status)
	assert.Equal(t, "page-4", a.Location)
	assert.Equal(t, "state", a.SuspendData)
}

func TestSuspendRejectsAssessmentsAndOversizedData(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)
	env.addContent(20, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)
	_, err = env.svc.Suspend(a.ID, 100, SuspendRequest{})
	assert.ErrorIs(t, err, util.ErrInvalidState)

	c, err := env.svc.Start(20, model.SubjectContent, 100)
	require.NoError(t, err)
	big := make([]byte, 4097)
	for i := range big {
		big[i] = 'x'
	}
	_, err = env.svc.Suspend(c.ID, 100, SuspendRequest{SuspendData: string(big)})
	assert.ErrorIs(t, err, util.ErrValidation)

	// the 4096 limit counts characters, not bytes
	wide := strings.Repeat("存", 4096)
	saved, err := env.svc.Suspend(c.ID, 100, SuspendRequest{SuspendData: wide})
	require.NoError(t, err)
	assert.Equal(t, wide, saved.SuspendData)
}

func TestCmiRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.addContent(20, nil)

	a, err := env.svc.Start(20, model.SubjectContent, 100)
	require.NoError(t, err)

	data, err := env.svc.GetCmiData(a.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, "100", data["cmi.core.student_id"])
	assert.Equal(t, "incomplete", data["cmi.core.lesson_status"])

	a, err = env.svc.UpdateCmiData(a.ID, 100, map[string]string{
		"cmi.core.lesson_location": "page-2",
		"cmi.core.session_time":    "00:05:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "page-2", a.Location)
	assert.Equal(t, 300, a.TimeSpentSeconds)
	assert.Equal(t, model.AttemptInProgress, a.Status)
	require.NotNil(t, a.Active)
}

func TestCmiCompletionReleasesLiveSlot(t *testing.T) {
	env := newTestEnv(t)
	env.addContent(20, nil)

	a, err := env.svc.Start(20, model.SubjectContent, 100)
	require.NoError(t, err)

	a, err = env.svc.UpdateCmiData(a.ID, 100, map[string]string{"cmi.core.lesson_status": "passed"})
	require.NoError(t, err)
	assert.Equal(t, model.AttemptPassed, a.Status)
	assert.True(t, a.Passed)
	assert.Nil(t, a.Active)

	// terminal attempts accept no further writes
	_, err = env.svc.UpdateCmiData(a.ID, 100, map[string]string{"cmi.core.session_time": "00:01:00"})
	assert.ErrorIs(t, err, util.ErrInvalidState)

	// and a fresh attempt can start
	next, err := env.svc.Start(20, model.SubjectContent, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, next.AttemptNumber)
}

func TestCmiSuccessVerdictAfterCompletion(t *testing.T) {
	env := newTestEnv(t)
	env.addContent(20, func(cfg *model.SubjectConfig) {
		cfg.ScormVersion = model.ScormV2004
	})

	a, err := env.svc.Start(20, model.SubjectContent, 100)
	require.NoError(t, err)

	// a 2004 player may commit completion and the verdict separately
	a, err = env.svc.UpdateCmiData(a.ID, 100, map[string]string{"cmi.completion_status": "completed"})
	require.NoError(t, err)
	assert.Equal(t, model.AttemptCompleted, a.Status)
	assert.Nil(t, a.Active)

	a, err = env.svc.UpdateCmiData(a.ID, 100, map[string]string{"cmi.success_status": "passed"})
	require.NoError(t, err)
	assert.Equal(t, model.AttemptPassed, a.Status)
	assert.True(t, a.Passed)
	assert.Nil(t, a.Active)
}

func TestCmi2004TerminalPairInOneCall(t *testing.T) {
	env := newTestEnv(t)
	env.addContent(20, func(cfg *model.SubjectConfig) {
		cfg.ScormVersion = model.ScormV2004
	})

	a, err := env.svc.Start(20, model.SubjectContent, 100)
	require.NoError(t, err)

	a, err = env.svc.UpdateCmiData(a.ID, 100, map[string]string{
		"cmi.completion_status": "completed",
		"cmi.success_status":    "passed",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AttemptPassed, a.Status)
	assert.True(t, a.Passed)
	assert.Nil(t, a.Active)
}

func TestCmiRejectsAssessmentAttempts(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)

	_, err = env.svc.GetCmiData(a.ID, 100)
	assert.ErrorIs(t, err, util.ErrInvalidState)
	_, err = env.svc.UpdateCmiData(a.ID, 100, map[string]string{"cmi.suspend_data": "x"})
	assert.ErrorIs(t, err, util.ErrInvalidState)
}

func TestStaleSaveConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)

	// first writer wins
	_, err = env.svc.SaveProgress(a.ID, 100, []ResponseUpdate{{QuestionID: 1, Response: "4"}})
	require.NoError(t, err)

	// second writer holds the stale copy
	stale := cloneAttempt(a)
	stale.Questions[0].Response = "5"
	err = env.store.Save(stale)
	assert.ErrorIs(t, err, util.ErrConflict)
}

func TestListAttemptsFilters(t *testing.T) {
	env := newTestEnv(t)
	env.addAssessment(10, nil)
	env.addContent(20, nil)

	a, err := env.svc.Start(10, model.SubjectAssessment, 100)
	require.NoError(t, err)
	_, err = env.svc.Start(20, model.SubjectContent, 100)
	require.NoError(t, err)

	all, err := env.svc.ListAttempts(model.AttemptFilter{LearnerID: 100})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byStatus, err := env.svc.ListAttempts(model.AttemptFilter{Status: model.AttemptInProgress, SubjectID: a.SubjectID})
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)
}
