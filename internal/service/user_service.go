package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mathlearn_backend/internal/model"
	"mathlearn_backend/internal/repository"
	"mathlearn_backend/internal/util"
	"mathlearn_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardCacheTTL = time.Minute

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Role   string
	Status string
	Search string
}

type UserService struct {
	UserRepo       *repository.UserRepository
	LessonRepo     *repository.LessonRepository
	ProgressRepo   *repository.ProgressRepository
	SubmissionRepo *repository.SubmissionRepository
	Redis          *redis.Client
}

func NewUserService(
	userRepo *repository.UserRepository,
	lessonRepo *repository.LessonRepository,
	progressRepo *repository.ProgressRepository,
	submissionRepo *repository.SubmissionRepository,
	rdb *redis.Client,
) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		LessonRepo:     lessonRepo,
		ProgressRepo:   progressRepo,
		SubmissionRepo: submissionRepo,
		Redis:          rdb,
	}
}

// Profile aggregates the stats the profile page renders.
type Profile struct {
	User             *model.User          `json:"user"`
	LessonsCompleted int64                `json:"lessonsCompleted"`
	LessonsTotal     int64                `json:"lessonsTotal"`
	Submissions      int64                `json:"submissions"`
	AverageScore     float64              `json:"averageScore"`
	Progress         []model.UserProgress `json:"progress"`
	Recent           []model.Submission   `json:"recentSubmissions"`
}

func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	completed, err := s.ProgressRepo.CountCompleted(userID)
	if err != nil {
		return nil, err
	}

	total, err := s.LessonRepo.CountPublished()
	if err != nil {
		return nil, err
	}

	submissions, err := s.SubmissionRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	avg, err := s.SubmissionRepo.AverageScoreByUser(userID)
	if err != nil {
		return nil, err
	}

	progress, err := s.ProgressRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.SubmissionRepo.FindRecentByUser(userID, 10)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:             user,
		LessonsCompleted: completed,
		LessonsTotal:     total,
		Submissions:      submissions,
		AverageScore:     avg,
		Progress:         progress,
		Recent:           recent,
	}, nil
}

// UpdateProfile changes the fields a user may edit themselves.
func (s *UserService) UpdateProfile(userID uint, name, language string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if name != "" {
		user.Name = name
	}
	if language != "" {
		user.Language = language
	}
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(userID uint, url string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}
	user.Avatar = url
	return s.UserRepo.Update(user)
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	XP     int    `json:"xp"`
	Streak int    `json:"streak"`
}

// GetLeaderboard returns the top users by XP, cached for a minute.
func (s *UserService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: u.ID,
			Name:   u.Name,
			Avatar: u.Avatar,
			XP:     u.XP,
			Streak: u.Streak,
		})
	}

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache leaderboard", zap.Error(err))
			}
		}
	}

	return entries, nil
}

// GetUsers lists users for the admin panel with pagination and filters.
func (s *UserService) GetUsers(page, limit int, filter UserFilter) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := s.UserRepo.DB.Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if filter.Status == "active" {
		query = query.Where("disabled = ?", false)
	} else if filter.Status == "disabled" {
		query = query.Where("disabled = ?", true)
	}

	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&users).Error
	return users, total, err
}
