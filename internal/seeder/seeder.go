// Package seeder populates the database with demo data from a JSON
// configuration file. It backs the seed CLI's seed/list/table/clean/reset
// subcommands.
package seeder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"mathlearn_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrUnknownTable = errors.New("unknown seed table")

// SeedConfig mirrors the JSON config file's layout.
type SeedConfig struct {
	Users   []SeedUser   `json:"users"`
	Lessons []SeedLesson `json:"lessons"`
}

type SeedUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	XP       int    `json:"xp"`
}

type SeedLesson struct {
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Topic       string        `json:"topic"`
	Difficulty  string        `json:"difficulty"`
	Order       int           `json:"order"`
	Published   bool          `json:"published"`
	XPReward    int           `json:"xpReward"`
	Problems    []SeedProblem `json:"problems"`
}

type SeedProblem struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Answer   string   `json:"answer"`
	XPReward int      `json:"xpReward"`
	Order    int      `json:"order"`
	Options  []string `json:"options"`
}

// Result reports what one table's seeding did.
type Result struct {
	Table   string
	Created int
	Skipped int
	Failed  int
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %d created, %d skipped, %d failed", r.Table, r.Created, r.Skipped, r.Failed)
}

// Load reads and validates the seed config file.
func Load(path string) (*SeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg SeedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid seed config: %w", err)
	}

	for i, u := range cfg.Users {
		if u.Email == "" || u.Password == "" {
			return nil, fmt.Errorf("users[%d]: email and password are required", i)
		}
	}
	for i, l := range cfg.Lessons {
		if l.Slug == "" || l.Title == "" {
			return nil, fmt.Errorf("lessons[%d]: title and slug are required", i)
		}
		for j, p := range l.Problems {
			if p.Question == "" || p.Answer == "" {
				return nil, fmt.Errorf("lessons[%d].problems[%d]: question and answer are required", i, j)
			}
		}
	}

	return &cfg, nil
}

type Seeder struct {
	DB     *gorm.DB
	Config *SeedConfig
}

func New(db *gorm.DB, cfg *SeedConfig) *Seeder {
	return &Seeder{DB: db, Config: cfg}
}

// Tables lists the seedable table names in seed order.
func Tables() []string {
	return []string{"users", "lessons"}
}

// SeedAll seeds every table in order.
func (s *Seeder) SeedAll() ([]Result, error) {
	results := make([]Result, 0, len(Tables()))
	for _, table := range Tables() {
		r, err := s.SeedTable(table)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// SeedTable seeds one table. Rows matching an existing unique key (user
// email, lesson slug) are skipped rather than overwritten.
func (s *Seeder) SeedTable(name string) (Result, error) {
	switch name {
	case "users":
		return s.seedUsers()
	case "lessons":
		return s.seedLessons()
	default:
		return Result{Table: name}, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
}

func (s *Seeder) seedUsers() (Result, error) {
	result := Result{Table: "users"}

	for _, u := range s.Config.Users {
		var count int64
		if err := s.DB.Model(&model.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return result, err
		}
		if count > 0 {
			result.Skipped++
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			result.Failed++
			continue
		}

		role := model.UserRole(u.Role)
		if role == "" {
			role = model.Student
		}

		user := model.User{
			Name:     u.Name,
			Email:    u.Email,
			Password: string(hashed),
			Role:     role,
			XP:       u.XP,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			result.Failed++
			continue
		}
		result.Created++
	}

	return result, nil
}

func (s *Seeder) seedLessons() (Result, error) {
	result := Result{Table: "lessons"}

	for _, l := range s.Config.Lessons {
		var count int64
		if err := s.DB.Model(&model.Lesson{}).Where("slug = ?", l.Slug).Count(&count).Error; err != nil {
			return result, err
		}
		if count > 0 {
			result.Skipped++
			continue
		}

		lesson := BuildLesson(l)
		if err := s.DB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(lesson).Error
		}); err != nil {
			result.Failed++
			continue
		}
		result.Created++
	}

	return result, nil
}

// BuildLesson converts a seed entry into the nested lesson model. Option
// correctness is derived by matching the option label against the answer.
func BuildLesson(l SeedLesson) *model.Lesson {
	difficulty := model.Difficulty(l.Difficulty)
	if difficulty == "" {
		difficulty = model.Beginner
	}

	lesson := &model.Lesson{
		Title:       l.Title,
		Slug:        l.Slug,
		Description: l.Description,
		Topic:       l.Topic,
		Difficulty:  difficulty,
		Order:       l.Order,
		Published:   l.Published,
		XPReward:    l.XPReward,
	}

	for _, p := range l.Problems {
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

// Clean removes all rows, children before parents so FK constraints hold.
func (s *Seeder) Clean() error {
	ordered := []interface{}{
		&model.SubmissionAnswer{},
		&model.Submission{},
		&model.UserProgress{},
		&model.ProblemOption{},
		&model.Problem{},
		&model.Lesson{},
		&model.User{},
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range ordered {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Reset cleans everything and reseeds from the config.
func (s *Seeder) Reset() ([]Result, error) {
	if err := s.Clean(); err != nil {
		return nil, err
	}
	return s.SeedAll()
}
