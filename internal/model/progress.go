package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// UintSlice persists a set of IDs as a JSON array column.
type UintSlice []uint

func (s UintSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *UintSlice) Scan(value interface{}) error {
	if value == nil {
		*s = UintSlice{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for UintSlice")
	}
}

// Contains reports whether id is in the slice.
func (s UintSlice) Contains(id uint) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// UserProgress tracks a user's cumulative state on one lesson.
// SolvedProblems is the set of problem IDs the user has ever answered
// correctly; the lesson is complete once that set covers the lesson.
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID         uint       `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID       uint       `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	Completed      bool       `gorm:"default:false" json:"completed"`
	BestScore      int        `gorm:"default:0" json:"bestScore"`
	Attempts       int        `gorm:"default:0" json:"attempts"`
	SolvedProblems UintSlice  `gorm:"type:json" json:"solvedProblems"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
