package scorm

import (
	"strings"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentAttempt(version string) *model.Attempt {
	return &model.Attempt{
		ScormVersion: version,
		Status:       model.AttemptInProgress,
	}
}

func TestRead12(t *testing.T) {
	a := newContentAttempt(model.ScormV12)
	a.TimeSpentSeconds = 90

	out, err := Read(a, Learner{ID: "7", Name: "Ada Lovelace"})
	require.NoError(t, err)

	assert.Equal(t, "7", out["cmi.core.student_id"])
	assert.Equal(t, "Ada Lovelace", out["cmi.core.student_name"])
	assert.Equal(t, "incomplete", out["cmi.core.lesson_status"])
	assert.Equal(t, "ab-initio", out["cmi.core.entry"])
	assert.Equal(t, "00:01:30", out["cmi.core.total_time"])
	assert.Equal(t, "credit", out["cmi.core.credit"])
	_, hasScore := out["cmi.core.score.raw"]
	assert.False(t, hasScore)
}

func TestRead12ResumeEntry(t *testing.T) {
	a := newContentAttempt(model.ScormV12)
	a.SuspendData = "bookmark-state"

	out, err := Read(a, Learner{})
	require.NoError(t, err)
	assert.Equal(t, "resume", out["cmi.core.entry"])
	assert.Equal(t, "bookmark-state", out["cmi.suspend_data"])
}

func TestRead2004(t *testing.T) {
	a := newContentAttempt(model.ScormV2004)
	a.TimeSpentSeconds = 3661
	a.ProgressPercent = 50

	out, err := Read(a, Learner{ID: "9", Name: "Grace Hopper"})
	require.NoError(t, err)

	assert.Equal(t, "9", out["cmi.learner_id"])
	assert.Equal(t, "incomplete", out["cmi.completion_status"])
	assert.Equal(t, "unknown", out["cmi.success_status"])
	assert.Equal(t, "PT1H1M1S", out["cmi.total_time"])
	assert.Equal(t, "0.5", out["cmi.progress_measure"])
}

func TestReadUnsupportedVersion(t *testing.T) {
	a := newContentAttempt("3000")
	_, err := Read(a, Learner{})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestWriteReadOnlyRejected(t *testing.T) {
	a := newContentAttempt(model.ScormV12)
	err := Write(a, map[string]string{"cmi.core.student_id": "hacker"}, 0)
	assert.ErrorIs(t, err, util.ErrReadOnlyField)

	a2004 := newContentAttempt(model.ScormV2004)
	err = Write(a2004, map[string]string{"cmi.learner_name": "x"}, 0)
	assert.ErrorIs(t, err, util.ErrReadOnlyField)
}

func TestWriteUnknownKeyRejected(t *testing.T) {
	a := newContentAttempt(model.ScormV12)
	err := Write(a, map[string]string{"cmi.core.lesson_statuss": "passed"}, 0)
	assert.ErrorIs(t, err, util.ErrUnknownCmiField)

	// 2004 keys are not valid on a 1.2 attempt
	err = Write(a, map[string]string{"cmi.completion_status": "completed"}, 0)
	assert.ErrorIs(t, err, util.ErrUnknownCmiField)
}

func TestWriteSuspendDataLimit12(t *testing.T) {
	a := newContentAttempt(model.ScormV12)

	exact := strings.Repeat("x", 4096)
	require.NoError(t, Write(a, map[string]string{"cmi.suspend_data": exact}, 0))
	assert.Equal(t, exact, a.SuspendData)

	over := strings.Repeat("x", 4097)
	err := Write(a, map[string]string{"cmi.suspend_data": over}, 0)
	assert.ErrorIs(t, err, util.ErrValidation)
	// rejected writes must not partially apply
	assert.Equal(t, exact, a.SuspendData)

	// the limit counts characters, not bytes
	wide := strings.Repeat("中", 4096)
	require.NoError(t, Write(a, map[string]string{"cmi.suspend_data": wide}, 0))
	assert.Equal(t, wide, a.SuspendData)

	err = Write(a, map[string]string{"cmi.suspend_data": strings.Repeat("中", 4097)}, 0)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestWriteSuspendDataLimit2004(t *testing.T) {
	a := newContentAttempt(model.ScormV2004)

	big := strings.Repeat("y", 60000)
	require.NoError(t, Write(a, map[string]string{"cmi.suspend_data": big}, 0), "0 means unlimited")

	err := Write(a, map[string]string{"cmi.suspend_data": strings.Repeat("y", 101)}, 100)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestWriteLessonStatusTransitions(t *testing.T) {
	a := newContentAttempt(model.ScormV12)
	require.NoError(t, Write(a, map[string]string{"cmi.core.lesson_status": "passed"}, 0))
	assert.Equal(t, model.AttemptPassed, a.Status)

	// passed is terminal; demoting is an invalid transition
	err := Write(a, map[string]string{"cmi.core.lesson_status": "incomplete"}, 0)
	assert.ErrorIs(t, err, util.ErrInvalidState)

	// idempotent rewrite of the same status is allowed
	require.NoError(t, Write(a, map[string]string{"cmi.core.lesson_status": "passed"}, 0))
}

func TestWriteLessonStatusVocab(t *testing.T) {
	a := newContentAttempt(model.ScormV12)
	err := Write(a, map[string]string{"cmi.core.lesson_status": "finished"}, 0)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestWrite2004StatusPair(t *testing.T) {
	a := newContentAttempt(model.ScormV2004)
	err := Write(a, map[string]string{
		"cmi.completion_status": "completed",
		"cmi.success_status":    "unknown",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptCompleted, a.Status)
}

func TestWrite2004TerminalPairInOneBatch(t *testing.T) {
	// completed + passed is the normal terminal commit of a conformant player
	a := newContentAttempt(model.ScormV2004)
	require.NoError(t, Write(a, map[string]string{
		"cmi.completion_status": "completed",
		"cmi.success_status":    "passed",
	}, 0))
	assert.Equal(t, model.AttemptPassed, a.Status)

	b := newContentAttempt(model.ScormV2004)
	require.NoError(t, Write(b, map[string]string{
		"cmi.completion_status": "completed",
		"cmi.success_status":    "failed",
	}, 0))
	assert.Equal(t, model.AttemptFailed, b.Status)
}

func TestWrite2004SuccessRefinesCompletion(t *testing.T) {
	a := newContentAttempt(model.ScormV2004)
	require.NoError(t, Write(a, map[string]string{"cmi.completion_status": "completed"}, 0))
	assert.Equal(t, model.AttemptCompleted, a.Status)

	// the verdict arrives in a later commit
	require.NoError(t, Write(a, map[string]string{"cmi.success_status": "passed"}, 0))
	assert.Equal(t, model.AttemptPassed, a.Status)

	// a verdict already on record outranks a trailing completion write
	b := newContentAttempt(model.ScormV2004)
	require.NoError(t, Write(b, map[string]string{"cmi.success_status": "passed"}, 0))
	require.NoError(t, Write(b, map[string]string{"cmi.completion_status": "completed"}, 0))
	assert.Equal(t, model.AttemptPassed, b.Status)
}

func TestWrite2004CompletionNeverDemotes(t *testing.T) {
	a := newContentAttempt(model.ScormV2004)
	require.NoError(t, Write(a, map[string]string{"cmi.completion_status": "completed"}, 0))
	require.NoError(t, Write(a, map[string]string{"cmi.completion_status": "incomplete"}, 0))
	assert.Equal(t, model.AttemptCompleted, a.Status)
}

func TestWriteScoreValidation(t *testing.T) {
	a := newContentAttempt(model.ScormV2004)

	err := Write(a, map[string]string{"cmi.score.scaled": "1.5"}, 0)
	assert.ErrorIs(t, err, util.ErrValidation)

	err = Write(a, map[string]string{
		"cmi.score.raw": "110",
		"cmi.score.min": "0",
		"cmi.score.max": "100",
	}, 0)
	assert.ErrorIs(t, err, util.ErrValidation)

	require.NoError(t, Write(a, map[string]string{
		"cmi.score.raw":    "85",
		"cmi.score.min":    "0",
		"cmi.score.max":    "100",
		"cmi.score.scaled": "0.85",
	}, 0))
	require.NotNil(t, a.ScoreRaw)
	assert.Equal(t, 85.0, *a.ScoreRaw)
	assert.Equal(t, 0.85, *a.ScoreScaled)
}

func TestWriteSessionTimeAccumulates(t *testing.T) {
	a12 := newContentAttempt(model.ScormV12)
	require.NoError(t, Write(a12, map[string]string{"cmi.core.session_time": "00:10:00"}, 0))
	require.NoError(t, Write(a12, map[string]string{"cmi.core.session_time": "00:05:30"}, 0))
	assert.Equal(t, 930, a12.TimeSpentSeconds)

	a := newContentAttempt(model.ScormV2004)
	require.NoError(t, Write(a, map[string]string{"cmi.session_time": "PT10M"}, 0))
	require.NoError(t, Write(a, map[string]string{"cmi.session_time": "PT5M30S"}, 0))
	assert.Equal(t, 930, a.TimeSpentSeconds)
}

func TestWriteSessionTimeWrongDialect(t *testing.T) {
	a := newContentAttempt(model.ScormV12)
	err := Write(a, map[string]string{"cmi.core.session_time": "PT5M"}, 0)
	assert.ErrorIs(t, err, util.ErrValidation)

	a2004 := newContentAttempt(model.ScormV2004)
	err = Write(a2004, map[string]string{"cmi.session_time": "00:05:00"}, 0)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestWriteProgressMeasure(t *testing.T) {
	a := newContentAttempt(model.ScormV2004)
	require.NoError(t, Write(a, map[string]string{"cmi.progress_measure": "0.75"}, 0))
	assert.Equal(t, 75.0, a.ProgressPercent)

	err := Write(a, map[string]string{"cmi.progress_measure": "1.2"}, 0)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestWriteLocationLimit(t *testing.T) {
	a := newContentAttempt(model.ScormV12)
	require.NoError(t, Write(a, map[string]string{"cmi.core.lesson_location": "page-12"}, 0))
	assert.Equal(t, "page-12", a.Location)

	err := Write(a, map[string]string{"cmi.core.lesson_location": strings.Repeat("p", 256)}, 0)
	assert.ErrorIs(t, err, util.ErrValidation)

	wide := strings.Repeat("页", 255)
	require.NoError(t, Write(a, map[string]string{"cmi.core.lesson_location": wide}, 0))
	assert.Equal(t, wide, a.Location)
}

func TestWriteExitStoredAndReadBack(t *testing.T) {
	a := newContentAttempt(model.ScormV12)
	require.NoError(t, Write(a, map[string]string{"cmi.core.exit": "suspend"}, 0))

	out, err := Read(a, Learner{})
	require.NoError(t, err)
	assert.Equal(t, "suspend", out["cmi.core.exit"])

	err = Write(a, map[string]string{"cmi.core.exit": "crashed"}, 0)
	assert.ErrorIs(t, err, util.ErrValidation)
}
