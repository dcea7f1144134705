package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mathlearn_backend/internal/model"
	"mathlearn_backend/internal/repository"
	"mathlearn_backend/internal/util"
	"mathlearn_backend/pkg/logger"
	"mathlearn_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	lessonListCachePrefix = "lessons:list:"
	lessonListCacheTTL    = 5 * time.Minute
)

type LessonService struct {
	LessonRepo   *repository.LessonRepository
	ProgressRepo *repository.ProgressRepository
	Redis        *redis.Client
	DB           *gorm.DB
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	progressRepo *repository.ProgressRepository,
	rdb *redis.Client,
	db *gorm.DB,
) *LessonService {
	return &LessonService{
		LessonRepo:   lessonRepo,
		ProgressRepo: progressRepo,
		Redis:        rdb,
		DB:           db,
	}
}

// GetLessons returns one page of published lessons, served from the redis
// cache when possible.
func (s *LessonService) GetLessons(page, limit int, filter repository.LessonFilter) (*util.PageResponse, error) {
	ctx := context.Background()
	cacheKey := lessonListCachePrefix + cacheKeyFor(page, limit, filter)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var resp util.PageResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	lessons, total, err := s.LessonRepo.FindPublished(page, limit, filter)
	if err != nil {
		return nil, err
	}

	resp := &util.PageResponse{
		List:  lessons,
		Total: total,
		Page:  page,
		Limit: limit,
	}

	if s.Redis != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, lessonListCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache lesson list", zap.Error(err))
			}
		}
	}

	return resp, nil
}

func cacheKeyFor(page, limit int, filter repository.LessonFilter) string {
	return fmt.Sprintf("p%d:l%d:t:%s:d:%s", page, limit, filter.Topic, filter.Difficulty)
}

// InvalidateListCache drops every cached lesson-list page. Called after any
// admin mutation of lessons.
func (s *LessonService) InvalidateListCache() {
	if s.Redis == nil {
		return
	}
	ctx := context.Background()
	keys, err := s.Redis.Keys(ctx, lessonListCachePrefix+"*").Result()
	if err != nil {
		logger.Log.Warn("failed to scan lesson cache keys", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		s.Redis.Del(ctx, keys...)
	}
}

// LessonDetail is a lesson with the requesting user's progress merged in.
type LessonDetail struct {
	Lesson   *model.Lesson       `json:"lesson"`
	Progress *model.UserProgress `json:"progress,omitempty"`
}

// GetLessonDetail loads a published lesson with problems and options. When
// userID is non-zero the user's progress is attached.
func (s *LessonService) GetLessonDetail(lessonID, userID uint) (*LessonDetail, error) {
	lesson, err := s.LessonRepo.FindByIDWithProblems(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	if !lesson.Published {
		return nil, util.ErrLessonNotFound
	}

	detail := &LessonDetail{Lesson: lesson}

	if userID != 0 {
		if progress, err := s.ProgressRepo.FindByUserAndLesson(userID, lessonID); err == nil {
			detail.Progress = progress
		}
	}

	return detail, nil
}

// SubmitLessonRequest is the submit endpoint's body.
type SubmitLessonRequest struct {
	Answers  []AnswerItem `json:"answers" binding:"required"`
	Duration int          `json:"duration"`
}

type AnswerItem struct {
	ProblemID uint   `json:"problemId" binding:"required"`
	Answer    string `json:"answer"`
}

// ProblemResult is the graded outcome for one problem.
type ProblemResult struct {
	ProblemID     uint   `json:"problemId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	XPAwarded     int    `json:"xpAwarded"`
}

// SubmitResult is returned from a graded submission.
type SubmitResult struct {
	SubmissionID uint            `json:"submissionId"`
	Score        int             `json:"score"`
	Total        int             `json:"total"`
	XPEarned     int             `json:"xpEarned"`
	TotalXP      int             `json:"totalXp"`
	Streak       int             `json:"streak"`
	Completed    bool            `json:"completed"`
	Results      []ProblemResult `json:"results"`
}

// SubmitLesson grades a submission and applies its side effects (submission
// record, progress upsert, XP and streak update) in one transaction.
func (s *LessonService) SubmitLesson(userID, lessonID uint, req SubmitLessonRequest) (*SubmitResult, error) {
	if len(req.Answers) == 0 {
		return nil, util.ErrEmptySubmission
	}

	lesson, err := s.LessonRepo.FindByIDWithProblems(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if !lesson.Published {
		return nil, util.ErrLessonNotFound
	}

	answerMap := make(map[uint]string, len(req.Answers))
	for _, a := range req.Answers {
		answerMap[a.ProblemID] = a.Answer
	}

	now := time.Now()
	result := &SubmitResult{Total: len(lesson.Problems)}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var progress model.UserProgress
		err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = model.UserProgress{
				UserID:         userID,
				LessonID:       lessonID,
				SolvedProblems: model.UintSlice{},
				StartedAt:      now,
			}
		} else if err != nil {
			return err
		}

		outcome := gradeAttempt(lesson, answerMap, progress.SolvedProblems, progress.Completed)
		result.Score = outcome.Score

		progress.SolvedProblems = outcome.Solved
		progress.Attempts++
		if outcome.Score > progress.BestScore {
			progress.BestScore = outcome.Score
		}
		if outcome.NewlyCompleted {
			progress.Completed = true
			progress.CompletedAt = &now
		}
		result.Completed = progress.Completed

		if err := tx.Save(&progress).Error; err != nil {
			return err
		}

		submission := model.Submission{
			UserID:    userID,
			LessonID:  lessonID,
			Score:     outcome.Score,
			Total:     result.Total,
			XPEarned:  outcome.XPEarned,
			Completed: outcome.Score == result.Total,
			Duration:  req.Duration,
		}
		for _, r := range outcome.Results {
			submission.Answers = append(submission.Answers, model.SubmissionAnswer{
				ProblemID: r.ProblemID,
				Answer:    r.UserAnswer,
				IsCorrect: r.IsCorrect,
			})
		}
		if err := repository.NewSubmissionRepository(tx).Create(&submission); err != nil {
			return err
		}

		users := repository.NewUserRepository(tx)
		user, err := users.FindByID(userID)
		if err != nil {
			return err
		}

		user.Streak = AdvanceStreak(user.Streak, user.LastActivityDate, now)
		today := Midnight(now)
		user.LastActivityDate = &today
		if err := users.Update(user); err != nil {
			return err
		}
		// XP goes through the atomic increment, after Update has written the
		// loaded row back.
		if err := users.AddXP(userID, outcome.XPEarned); err != nil {
			return err
		}

		result.SubmissionID = submission.ID
		result.XPEarned = outcome.XPEarned
		result.TotalXP = user.XP + outcome.XPEarned
		result.Streak = user.Streak
		result.Results = outcome.Results
		return nil
	})

	if err != nil {
		return nil, err
	}

	completedLabel := "false"
	if result.Completed {
		completedLabel = "true"
	}
	monitoring.SubmissionCounter.WithLabelValues(completedLabel).Inc()

	return result, nil
}

// attemptOutcome is the result of grading one attempt, before any of it is
// persisted.
type attemptOutcome struct {
	Results        []ProblemResult
	Score          int
	XPEarned       int
	Solved         model.UintSlice
	NewlyCompleted bool
}

// gradeAttempt grades one attempt against the lesson's problems. Answers
// referencing problems outside the lesson are ignored. A correct answer
// always scores, but earns XP only when the problem was not solved in an
// earlier attempt. The lesson's completion bonus pays out on the attempt
// that first gets every problem solved; a lesson without problems never
// completes.
func gradeAttempt(lesson *model.Lesson, answers map[uint]string, alreadySolved model.UintSlice, alreadyCompleted bool) attemptOutcome {
	out := attemptOutcome{
		Results: make([]ProblemResult, 0, len(lesson.Problems)),
		Solved:  append(model.UintSlice{}, alreadySolved...),
	}

	for _, p := range lesson.Problems {
		userAnswer, answered := answers[p.ID]
		correct := answered && GradeAnswer(p, userAnswer)

		awarded := 0
		if correct {
			out.Score++
			if !out.Solved.Contains(p.ID) {
				awarded = p.XPReward
				out.XPEarned += awarded
				out.Solved = append(out.Solved, p.ID)
			}
		}

		out.Results = append(out.Results, ProblemResult{
			ProblemID:     p.ID,
			UserAnswer:    userAnswer,
			CorrectAnswer: p.Answer,
			IsCorrect:     correct,
			XPAwarded:     awarded,
		})
	}

	if len(lesson.Problems) > 0 && len(out.Solved) >= len(lesson.Problems) && !alreadyCompleted {
		out.NewlyCompleted = true
		out.XPEarned += lesson.XPReward
	}

	return out
}

// GradeAnswer compares a submitted answer against the problem's stored
// answer. Both sides are trimmed; multiple-choice answers match the correct
// option's label exactly, numeric input matches case-insensitively.
func GradeAnswer(p model.Problem, answer string) bool {
	submitted := strings.TrimSpace(answer)
	expected := strings.TrimSpace(p.Answer)
	if submitted == "" {
		return false
	}
	if p.Type == model.NumericInput {
		return strings.EqualFold(submitted, expected)
	}
	return submitted == expected
}

// AdvanceStreak applies the day-boundary rules: activity on the same day
// leaves the streak unchanged, activity on the day after the last one
// extends it, anything else restarts it at 1.
func AdvanceStreak(current int, last *time.Time, now time.Time) int {
	if last == nil {
		return 1
	}
	today := Midnight(now)
	lastDay := Midnight(*last)
	switch {
	case lastDay.Equal(today):
		if current < 1 {
			return 1
		}
		return current
	case lastDay.Equal(today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CreateLessonRequest carries the admin create/update payload.
type CreateLessonRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Slug        string                 `json:"slug" binding:"required"`
	Description string                 `json:"description"`
	Topic       string                 `json:"topic"`
	Difficulty  string                 `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Order       int                    `json:"order"`
	Published   bool                   `json:"published"`
	XPReward    int                    `json:"xpReward"`
	Problems    []CreateProblemRequest `json:"problems"`
}

type CreateProblemRequest struct {
	Question string   `json:"question" binding:"required"`
	Type     string   `json:"type" binding:"required,oneof=multiple_choice numeric_input"`
	Answer   string   `json:"answer" binding:"required"`
	XPReward int      `json:"xpReward"`
	Order    int      `json:"order"`
	Options  []string `json:"options"`
}

// CreateLesson persists a lesson with its nested problems and options.
func (s *LessonService) CreateLesson(req CreateLessonRequest) (*model.Lesson, error) {
	if _, err := s.LessonRepo.FindBySlug(req.Slug); err == nil {
		return nil, util.ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	lesson := buildLesson(req)

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(lesson).Error
	}); err != nil {
		return nil, err
	}

	s.InvalidateListCache()
	return lesson, nil
}

// UpdateLesson replaces the lesson's fields and its problem set.
func (s *LessonService) UpdateLesson(id uint, req CreateLessonRequest) (*model.Lesson, error) {
	existing, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	if other, err := s.LessonRepo.FindBySlug(req.Slug); err == nil && other.ID != id {
		return nil, util.ErrSlugTaken
	}

	lesson := buildLesson(req)
	lesson.ID = existing.ID
	lesson.CreatedAt = existing.CreatedAt

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// Replace the problem set wholesale; grading history keeps its own copies.
		var problemIDs []uint
		if err := tx.Model(&model.Problem{}).Where("lesson_id = ?", id).Pluck("id", &problemIDs).Error; err != nil {
			return err
		}
		if len(problemIDs) > 0 {
			if err := tx.Where("problem_id IN ?", problemIDs).Delete(&model.ProblemOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("lesson_id = ?", id).Delete(&model.Problem{}).Error; err != nil {
				return err
			}
		}
		return tx.Save(lesson).Error
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateListCache()
	return lesson, nil
}

func (s *LessonService) DeleteLesson(id uint) error {
	if _, err := s.LessonRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}

	if err := s.LessonRepo.Delete(id); err != nil {
		return err
	}

	s.InvalidateListCache()
	return nil
}

func buildLesson(req CreateLessonRequest) *model.Lesson {
	difficulty := model.Difficulty(req.Difficulty)
	if difficulty == "" {
		difficulty = model.Beginner
	}

	lesson := &model.Lesson{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Topic:       req.Topic,
		Difficulty:  difficulty,
		Order:       req.Order,
		Published:   req.Published,
		XPReward:    req.XPReward,
	}

	for _, p := range req.Problems {
		xp := p.XPReward
		if xp == 0 {
			xp = 10
		}
		problem := model.Problem{
			Question: p.Question,
			Type:     model.ProblemType(p.Type),
			Answer:   p.Answer,
			XPReward: xp,
			Order:    p.Order,
		}
		for _, label := range p.Options {
			problem.Options = append(problem.Options, model.ProblemOption{
				Label:     label,
				IsCorrect: strings.TrimSpace(label) == strings.TrimSpace(p.Answer),
			})
		}
		lesson.Problems = append(lesson.Problems, problem)
	}

	return lesson
}
