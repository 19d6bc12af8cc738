package scorm

import (
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Learner is the identity behind the read-only student/learner fields.
type Learner struct {
	ID   string
	Name string
}

// Field access per the SCORM data models. Every name the mapper accepts is
// listed here; anything else is a player bug and is rejected loudly.
var (
	readOnly12 = map[string]bool{
		"cmi.core.student_id":   true,
		"cmi.core.student_name": true,
		"cmi.core.credit":       true,
		"cmi.core.entry":        true,
		"cmi.core.total_time":   true,
		"cmi.launch_data":       true,
	}
	writable12 = map[string]bool{
		"cmi.core.lesson_location": true,
		"cmi.core.lesson_status":   true,
		"cmi.core.score.raw":       true,
		"cmi.core.score.min":       true,
		"cmi.core.score.max":       true,
		"cmi.core.session_time":    true,
		"cmi.core.exit":            true,
		"cmi.suspend_data":         true,
	}

	readOnly2004 = map[string]bool{
		"cmi.learner_id":           true,
		"cmi.learner_name":         true,
		"cmi.credit":               true,
		"cmi.entry":                true,
		"cmi.total_time":           true,
		"cmi.completion_threshold": true,
		"cmi.launch_data":          true,
	}
	writable2004 = map[string]bool{
		"cmi.location":          true,
		"cmi.completion_status": true,
		"cmi.success_status":    true,
		"cmi.score.raw":         true,
		"cmi.score.min":         true,
		"cmi.score.max":         true,
		"cmi.score.scaled":      true,
		"cmi.progress_measure":  true,
		"cmi.session_time":      true,
		"cmi.exit":              true,
		"cmi.suspend_data":      true,
	}

	lessonStatusVocab = map[string]model.AttemptStatus{
		"passed":        model.AttemptPassed,
		"completed":     model.AttemptCompleted,
		"failed":        model.AttemptFailed,
		"incomplete":    model.AttemptInProgress,
		"browsed":       model.AttemptInProgress,
		"not attempted": model.AttemptInProgress,
	}
	exitVocab = map[string]bool{"": true, "time-out": true, "suspend": true, "logout": true, "normal": true}
)

// Read maps a content attempt onto its version's CMI namespace. Values are
// rebuilt from the typed attempt fields; stored raw writes only fill keys the
// typed model does not cover (exit).
func Read(a *model.Attempt, learner Learner) (map[string]string, error) {
	stored := a.CmiMap()
	switch a.ScormVersion {
	case model.ScormV12:
		out := map[string]string{
			"cmi.core.student_id":      learner.ID,
			"cmi.core.student_name":    learner.Name,
			"cmi.core.lesson_location": a.Location,
			"cmi.core.lesson_status":   lessonStatus12(a.Status),
			"cmi.core.credit":          "credit",
			"cmi.core.entry":           entryOf(a),
			"cmi.core.total_time":      FormatTimespan(a.TimeSpentSeconds),
			"cmi.suspend_data":         a.SuspendData,
			"cmi.core.exit":            stored["cmi.core.exit"],
		}
		putScore(out, "cmi.core.score.raw", a.ScoreRaw)
		putScore(out, "cmi.core.score.min", a.ScoreMin)
		putScore(out, "cmi.core.score.max", a.ScoreMax)
		return out, nil
	case model.ScormV2004:
		out := map[string]string{
			"cmi.learner_id":        learner.ID,
			"cmi.learner_name":      learner.Name,
			"cmi.location":          a.Location,
			"cmi.completion_status": completionStatus2004(a.Status),
			"cmi.success_status":    successStatus2004(a.Status),
			"cmi.credit":            "credit",
			"cmi.entry":             entryOf(a),
			"cmi.total_time":        FormatDuration(a.TimeSpentSeconds),
			"cmi.progress_measure":  strconv.FormatFloat(a.ProgressPercent/100, 'f', -1, 64),
			"cmi.suspend_data":      a.SuspendData,
			"cmi.exit":              stored["cmi.exit"],
		}
		putScore(out, "cmi.score.raw", a.ScoreRaw)
		putScore(out, "cmi.score.min", a.ScoreMin)
		putScore(out, "cmi.score.max", a.ScoreMax)
		putScore(out, "cmi.score.scaled", a.ScoreScaled)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported SCORM version %q", util.ErrValidation, a.ScormVersion)
	}
}

// Write validates a batch of CMI writes against the attempt's version and
// applies them to the typed fields. suspendLimit bounds cmi.suspend_data for
// 2004 content (0 = unlimited); 1.2 is always capped at 4096 characters.
// Keys are applied in sorted order so batches behave deterministically.
func Write(a *model.Attempt, writes map[string]string, suspendLimit int) error {
	var readOnly, writable map[string]bool
	switch a.ScormVersion {
	case model.ScormV12:
		readOnly, writable = readOnly12, writable12
		suspendLimit = model.SuspendDataLimitV12
	case model.ScormV2004:
		readOnly, writable = readOnly2004, writable2004
	default:
		return fmt.Errorf("%w: unsupported SCORM version %q", util.ErrValidation, a.ScormVersion)
	}

	keys := make([]string, 0, len(writes))
	for k := range writes {
		if readOnly[k] {
			return fmt.Errorf("%w: %s", util.ErrReadOnlyField, k)
		}
		if !writable[k] {
			return fmt.Errorf("%w: %s", util.ErrUnknownCmiField, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stored := a.CmiMap()
	for _, k := range keys {
		if err := applyWrite(a, stored, k, writes[k], suspendLimit); err != nil {
			return err
		}
	}
	if a.ScormVersion == model.ScormV2004 {
		if target, ok := derived2004(stored["cmi.completion_status"], stored["cmi.success_status"]); ok {
			if err := transition(a, target); err != nil {
				return err
			}
		}
	}
	if err := ValidateScore(a.ScoreRaw, a.ScoreMin, a.ScoreMax, a.ScoreScaled); err != nil {
		return err
	}
	a.SetCmiMap(stored)
	return nil
}

// derived2004 resolves the (completion, success) pair to one attempt status.
// A reported success verdict outranks bare completion; unknown values leave
// the status alone.
func derived2004(completion, success string) (model.AttemptStatus, bool) {
	switch success {
	case "passed":
		return model.AttemptPassed, true
	case "failed":
		return model.AttemptFailed, true
	}
	if completion == "completed" {
		return model.AttemptCompleted, true
	}
	return "", false
}

func applyWrite(a *model.Attempt, stored map[string]string, key, value string, suspendLimit int) error {
	stored[key] = value
	switch key {
	// 限制按字符数计，多字节内容不吃亏
	case "cmi.core.lesson_location", "cmi.location":
		if utf8.RuneCountInString(value) > 255 {
			return fmt.Errorf("%w: %s exceeds 255 characters", util.ErrValidation, key)
		}
		a.Location = value

	case "cmi.suspend_data":
		if suspendLimit > 0 && utf8.RuneCountInString(value) > suspendLimit {
			return fmt.Errorf("%w: suspend_data exceeds %d characters", util.ErrValidation, suspendLimit)
		}
		a.SuspendData = value

	case "cmi.core.lesson_status":
		target, ok := lessonStatusVocab[value]
		if !ok {
			return fmt.Errorf("%w: bad lesson_status %q", util.ErrValidation, value)
		}
		return transition(a, target)

	// completion_status and success_status are independent data elements in
	// 2004; vocab is checked here and the attempt status is derived from the
	// stored pair once the whole batch has applied.
	case "cmi.completion_status":
		switch value {
		case "completed", "incomplete", "not attempted", "unknown":
			return nil
		default:
			return fmt.Errorf("%w: bad completion_status %q", util.ErrValidation, value)
		}

	case "cmi.success_status":
		switch value {
		case "passed", "failed", "unknown":
			return nil
		default:
			return fmt.Errorf("%w: bad success_status %q", util.ErrValidation, value)
		}

	case "cmi.core.score.raw", "cmi.score.raw":
		return setScore(&a.ScoreRaw, key, value)
	case "cmi.core.score.min", "cmi.score.min":
		return setScore(&a.ScoreMin, key, value)
	case "cmi.core.score.max", "cmi.score.max":
		return setScore(&a.ScoreMax, key, value)
	case "cmi.score.scaled":
		return setScore(&a.ScoreScaled, key, value)

	case "cmi.progress_measure":
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || v < 0 || v > 1 {
			return fmt.Errorf("%w: bad progress_measure %q", util.ErrValidation, value)
		}
		a.ProgressPercent = Round2(v * 100)

	case "cmi.core.session_time":
		secs, err := ParseTimespan(value)
		if err != nil {
			return err
		}
		a.TimeSpentSeconds += secs

	case "cmi.session_time":
		secs, err := ParseDuration(value)
		if err != nil {
			return err
		}
		a.TimeSpentSeconds += secs

	case "cmi.core.exit", "cmi.exit":
		if !exitVocab[value] {
			return fmt.Errorf("%w: bad exit %q", util.ErrValidation, value)
		}
	}
	return nil
}

// ValidateScore enforces the SCORM scale: scaled in [-1,1] and raw within
// [min,max] when both bounds are present. Out-of-range values are rejected,
// never clamped.
func ValidateScore(raw, min, max, scaled *float64) error {
	if scaled != nil && (*scaled < -1 || *scaled > 1) {
		return fmt.Errorf("%w: score.scaled %v outside [-1,1]", util.ErrValidation, *scaled)
	}
	if raw != nil && min != nil && *raw < *min {
		return fmt.Errorf("%w: score.raw %v below score.min %v", util.ErrValidation, *raw, *min)
	}
	if raw != nil && max != nil && *raw > *max {
		return fmt.Errorf("%w: score.raw %v above score.max %v", util.ErrValidation, *raw, *max)
	}
	if min != nil && max != nil && *min > *max {
		return fmt.Errorf("%w: score.min %v above score.max %v", util.ErrValidation, *min, *max)
	}
	return nil
}

func transition(a *model.Attempt, target model.AttemptStatus) error {
	if a.Status == target {
		return nil
	}
	if !a.Status.CanTransition(target) {
		return fmt.Errorf("%w: %s -> %s", util.ErrInvalidState, a.Status, target)
	}
	a.Status = target
	return nil
}

func setScore(dst **float64, key, value string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("%w: bad %s %q", util.ErrValidation, key, value)
	}
	*dst = &v
	return nil
}

func putScore(out map[string]string, key string, v *float64) {
	if v != nil {
		out[key] = strconv.FormatFloat(*v, 'f', -1, 64)
	}
}

func lessonStatus12(s model.AttemptStatus) string {
	switch s {
	case model.AttemptPassed:
		return "passed"
	case model.AttemptFailed:
		return "failed"
	case model.AttemptCompleted, model.AttemptSubmitted, model.AttemptGraded:
		return "completed"
	default:
		return "incomplete"
	}
}

func completionStatus2004(s model.AttemptStatus) string {
	switch s {
	case model.AttemptCompleted, model.AttemptPassed, model.AttemptFailed, model.AttemptSubmitted, model.AttemptGraded:
		return "completed"
	default:
		return "incomplete"
	}
}

func successStatus2004(s model.AttemptStatus) string {
	switch s {
	case model.AttemptPassed:
		return "passed"
	case model.AttemptFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func entryOf(a *model.Attempt) string {
	if a.SuspendData != "" || a.Location != "" {
		return "resume"
	}
	return "ab-initio"
}

// Round2 keeps progress values to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
