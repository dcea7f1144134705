package model

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

type ProblemType string

const (
	MultipleChoice ProblemType = "multiple_choice"
	NumericInput   ProblemType = "numeric_input"
)

// swagger:model Lesson
type Lesson struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Slug        string     `gorm:"size:255;unique;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	Topic       string     `gorm:"size:100;index" json:"topic"`
	Difficulty  Difficulty `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"difficulty"`
	Order       int        `gorm:"default:0" json:"order"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	// Bonus XP granted once, when the lesson is first completed.
	XPReward int       `gorm:"default:0" json:"xpReward"`
	Problems []Problem `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"problems,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// swagger:model Problem
type Problem struct {
	BaseModel
	LessonID uint        `gorm:"index;not null" json:"lessonId"`
	Question string      `gorm:"type:text;not null" json:"question"`
	Type     ProblemType `gorm:"type:enum('multiple_choice','numeric_input');not null" json:"type"`
	// Canonical correct answer. For multiple choice it is the label of the
	// correct option; never serialized to clients.
	Answer   string          `gorm:"size:255;not null" json:"-"`
	XPReward int             `gorm:"default:10" json:"xpReward"`
	Order    int             `gorm:"default:0" json:"order"`
	Options  []ProblemOption `gorm:"foreignKey:ProblemID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Problem) TableName() string {
	return "problems"
}

// swagger:model ProblemOption
type ProblemOption struct {
	BaseModel
	ProblemID uint   `gorm:"index;not null" json:"problemId"`
	Label     string `gorm:"size:255;not null" json:"label"`
	IsCorrect bool   `gorm:"default:false" json:"-"`
}

func (ProblemOption) TableName() string {
	return "problem_options"
}
