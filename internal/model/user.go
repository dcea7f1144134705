package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('student','admin');default:'student'" json:"role"`
	XP       int      `gorm:"default:0" json:"xp"`
	Streak   int      `gorm:"default:0" json:"streak"`
	// Date (truncated to day) of the last scored submission. Drives streak math.
	LastActivityDate *time.Time `json:"lastActivityDate"`
	Language         string     `gorm:"size:10;default:'en'" json:"language"`
	Avatar           string     `gorm:"size:255" json:"avatar"`
	Disabled         bool       `gorm:"default:false" json:"disabled"`
	LastLogin        time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen         time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
