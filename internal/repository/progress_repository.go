package repository

import (
	"mathlearn_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndLesson(userID, lessonID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.UserProgress, error) {
	var progress []model.UserProgress
	err := r.DB.Where("user_id = ?", userID).Find(&progress).Error
	return progress, err
}

func (r *ProgressRepository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}
