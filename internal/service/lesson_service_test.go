package service

import (
	"testing"
	"time"

	"mathlearn_backend/internal/model"
	"mathlearn_backend/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestGradeAnswer_MultipleChoice(t *testing.T) {
	p := model.Problem{Type: model.MultipleChoice, Answer: "5"}

	assert.True(t, GradeAnswer(p, "5"))
	assert.True(t, GradeAnswer(p, "  5  "))
	assert.False(t, GradeAnswer(p, "4"))
	assert.False(t, GradeAnswer(p, ""))
	assert.False(t, GradeAnswer(p, "   "))
}

func TestGradeAnswer_NumericInput(t *testing.T) {
	p := model.Problem{Type: model.NumericInput, Answer: "42"}

	assert.True(t, GradeAnswer(p, "42"))
	assert.True(t, GradeAnswer(p, " 42 "))
	assert.False(t, GradeAnswer(p, "43"))

	// Case folding matters for symbolic answers like "1/2 x".
	sym := model.Problem{Type: model.NumericInput, Answer: "2X"}
	assert.True(t, GradeAnswer(sym, "2x"))
}

func twoProblemLesson() *model.Lesson {
	return &model.Lesson{
		XPReward: 50,
		Problems: []model.Problem{
			{BaseModel: model.BaseModel{ID: 1}, Type: model.MultipleChoice, Answer: "5", XPReward: 10},
			{BaseModel: model.BaseModel{ID: 2}, Type: model.NumericInput, Answer: "12", XPReward: 10},
		},
	}
}

func TestGradeAttempt_AwardsXPPerSolvedProblem(t *testing.T) {
	lesson := twoProblemLesson()
	answers := map[uint]string{1: "5", 2: "99"}

	out := gradeAttempt(lesson, answers, model.UintSlice{}, false)

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 10, out.XPEarned)
	assert.Equal(t, model.UintSlice{1}, out.Solved)
	assert.False(t, out.NewlyCompleted)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, 10, out.Results[0].XPAwarded)
	assert.False(t, out.Results[1].IsCorrect)
}

func TestGradeAttempt_RepeatedSolveEarnsNoXP(t *testing.T) {
	lesson := twoProblemLesson()
	answers := map[uint]string{1: "5"}

	out := gradeAttempt(lesson, answers, model.UintSlice{1}, false)

	// Still scores, but the XP was already banked on a prior attempt.
	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 0, out.XPEarned)
	assert.Equal(t, model.UintSlice{1}, out.Solved)
	assert.Equal(t, 0, out.Results[0].XPAwarded)
}

func TestGradeAttempt_IgnoresAnswersOutsideLesson(t *testing.T) {
	lesson := twoProblemLesson()
	answers := map[uint]string{99: "5", 1: "5"}

	out := gradeAttempt(lesson, answers, model.UintSlice{}, false)

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 10, out.XPEarned)
	assert.Len(t, out.Results, 2)
	for _, r := range out.Results {
		assert.NotEqual(t, uint(99), r.ProblemID)
	}
}

func TestGradeAttempt_CompletionBonusPaidOnce(t *testing.T) {
	lesson := twoProblemLesson()

	// First attempt solves problem 1 only.
	first := gradeAttempt(lesson, map[uint]string{1: "5"}, model.UintSlice{}, false)
	assert.False(t, first.NewlyCompleted)
	assert.Equal(t, 10, first.XPEarned)

	// Second attempt solves the remaining problem and triggers the bonus.
	second := gradeAttempt(lesson, map[uint]string{2: "12"}, first.Solved, false)
	assert.True(t, second.NewlyCompleted)
	assert.Equal(t, 10+50, second.XPEarned)
	assert.Equal(t, model.UintSlice{1, 2}, second.Solved)

	// Re-submitting a completed lesson never pays the bonus again.
	third := gradeAttempt(lesson, map[uint]string{1: "5", 2: "12"}, second.Solved, true)
	assert.False(t, third.NewlyCompleted)
	assert.Equal(t, 0, third.XPEarned)
	assert.Equal(t, 2, third.Score)
}

func TestGradeAttempt_EmptyLessonNeverCompletes(t *testing.T) {
	lesson := &model.Lesson{XPReward: 50}

	out := gradeAttempt(lesson, map[uint]string{1: "5"}, model.UintSlice{}, false)

	assert.False(t, out.NewlyCompleted)
	assert.Equal(t, 0, out.Score)
	assert.Equal(t, 0, out.XPEarned)
	assert.Empty(t, out.Results)
}

func TestAdvanceStreak_FirstActivity(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, AdvanceStreak(0, nil, now))
}

func TestAdvanceStreak_SameDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	morning := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 4, AdvanceStreak(4, &morning, now))

	// A zero streak with same-day activity still counts as one active day.
	assert.Equal(t, 1, AdvanceStreak(0, &morning, now))
}

func TestAdvanceStreak_ConsecutiveDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 30, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 5, AdvanceStreak(4, &yesterday, now))
}

func TestAdvanceStreak_GapResets(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	twoDaysAgo := time.Date(2024, 3, 8, 15, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, AdvanceStreak(12, &twoDaysAgo, now))
	assert.Equal(t, 1, AdvanceStreak(30, &lastMonth, now))
}

func TestMidnight(t *testing.T) {
	ts := time.Date(2024, 3, 10, 23, 59, 59, 999, time.UTC)
	got := Midnight(ts)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, ts.Location(), got.Location())
}

func TestBuildLesson_DerivesOptionCorrectness(t *testing.T) {
	req := CreateLessonRequest{
		Title: "Addition",
		Slug:  "addition",
		Problems: []CreateProblemRequest{
			{
				Question: "2 + 3?",
				Type:     "multiple_choice",
				Answer:   "5",
				Options:  []string{"4", "5", "6"},
			},
		},
	}

	lesson := buildLesson(req)

	assert.Equal(t, model.Beginner, lesson.Difficulty)
	assert.Len(t, lesson.Problems, 1)

	p := lesson.Problems[0]
	assert.Equal(t, 10, p.XPReward) // default reward
	assert.Len(t, p.Options, 3)
	assert.False(t, p.Options[0].IsCorrect)
	assert.True(t, p.Options[1].IsCorrect)
	assert.False(t, p.Options[2].IsCorrect)
}

func TestCacheKeyFor(t *testing.T) {
	algebra := repository.LessonFilter{Topic: "algebra", Difficulty: "beginner"}
	geometry := repository.LessonFilter{Topic: "geometry", Difficulty: "beginner"}

	a := cacheKeyFor(1, 20, algebra)
	b := cacheKeyFor(2, 20, algebra)
	c := cacheKeyFor(1, 20, geometry)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, cacheKeyFor(1, 20, algebra))
}
