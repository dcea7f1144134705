package repository

import (
	"mathlearn_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

// LessonFilter narrows the published-lesson listing.
type LessonFilter struct {
	Topic      string
	Difficulty string
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// Delete removes the lesson and its problem tree. Children go first because
// soft deletes are updates and never trigger the FK cascade.
func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
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
		return tx.Delete(&model.Lesson{}, id).Error
	})
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) FindBySlug(slug string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Where("slug = ?", slug).First(&lesson).Error
	return &lesson, err
}

// FindByIDWithProblems loads the lesson with its problems and options,
// ordered the way they are presented.
func (r *LessonRepository) FindByIDWithProblems(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.
		Preload("Problems", func(db *gorm.DB) *gorm.DB {
			return db.Order("problems.order ASC, problems.id ASC")
		}).
		Preload("Problems.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("problem_options.id ASC")
		}).
		First(&lesson, id).Error
	return &lesson, err
}

// FindPublished returns one page of published lessons plus the total count.
func (r *LessonRepository) FindPublished(page, limit int, filter LessonFilter) ([]model.Lesson, int64, error) {
	var lessons []model.Lesson
	var total int64

	query := r.DB.Model(&model.Lesson{}).Where("published = ?", true)

	if filter.Topic != "" {
		query = query.Where("topic = ?", filter.Topic)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("`order` ASC, id ASC").Offset(offset).Limit(limit).Find(&lessons).Error
	return lessons, total, err
}

func (r *LessonRepository) CountPublished() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("published = ?", true).Count(&count).Error
	return count, err
}
