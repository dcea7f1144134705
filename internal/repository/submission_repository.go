package repository

import (
	"mathlearn_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindRecentByUser(userID uint, limit int) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// AverageScoreByUser returns the mean score percentage across all of a
// user's submissions, 0 when there are none.
func (r *SubmissionRepository) AverageScoreByUser(userID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.Submission{}).
		Where("user_id = ? AND total > 0", userID).
		Select("AVG(score * 100.0 / total)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
