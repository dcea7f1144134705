package model

// Submission stores one graded attempt at a lesson.
// swagger:model Submission
type Submission struct {
	BaseModel
	UserID    uint `gorm:"index;not null" json:"userId"`
	LessonID  uint `gorm:"index;not null" json:"lessonId"`
	Score     int  `gorm:"not null" json:"score"`
	Total     int  `gorm:"not null" json:"total"`
	XPEarned  int  `gorm:"default:0" json:"xpEarned"`
	Completed bool `gorm:"default:false" json:"completed"`
	// Time spent on the lesson, in seconds, as reported by the client.
	Duration int                `gorm:"default:0" json:"duration"`
	Answers  []SubmissionAnswer `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// swagger:model SubmissionAnswer
type SubmissionAnswer struct {
	BaseModel
	SubmissionID uint   `gorm:"index;not null" json:"submissionId"`
	ProblemID    uint   `gorm:"index;not null" json:"problemId"`
	Answer       string `gorm:"size:255" json:"answer"`
	IsCorrect    bool   `gorm:"default:false" json:"isCorrect"`
}

func (SubmissionAnswer) TableName() string {
	return "submission_answers"
}
