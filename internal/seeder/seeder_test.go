package seeder

import (
	"os"
	"path/filepath"
	"testing"

	"mathlearn_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeSeedFile(t, `{
		"users": [
			{"name": "Admin", "email": "admin@mathlearn.dev", "password": "secret", "role": "admin"}
		],
		"lessons": [
			{
				"title": "Addition Basics",
				"slug": "addition-basics",
				"published": true,
				"xpReward": 50,
				"problems": [
					{"question": "2 + 3?", "type": "multiple_choice", "answer": "5", "options": ["4", "5"]}
				]
			}
		]
	}`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Len(t, cfg.Users, 1)
	assert.Len(t, cfg.Lessons, 1)
	assert.Equal(t, "addition-basics", cfg.Lessons[0].Slug)
	assert.Len(t, cfg.Lessons[0].Problems, 1)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeSeedFile(t, `{"users": [`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_RejectsUserWithoutEmail(t *testing.T) {
	path := writeSeedFile(t, `{"users": [{"name": "NoEmail", "password": "x"}]}`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "email")
}

func TestLoad_RejectsLessonWithoutSlug(t *testing.T) {
	path := writeSeedFile(t, `{"lessons": [{"title": "Untitled"}]}`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "slug")
}

func TestLoad_RejectsProblemWithoutAnswer(t *testing.T) {
	path := writeSeedFile(t, `{
		"lessons": [
			{"title": "L", "slug": "l", "problems": [{"question": "2+2?"}]}
		]
	}`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "answer")
}

func TestTables_Order(t *testing.T) {
	// Users must be seeded before lessons so FK references resolve.
	assert.Equal(t, []string{"users", "lessons"}, Tables())
}

func TestSeedTable_UnknownTable(t *testing.T) {
	s := New(nil, &SeedConfig{})

	_, err := s.SeedTable("bogus")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestBuildLesson_Defaults(t *testing.T) {
	lesson := BuildLesson(SeedLesson{
		Title: "Fractions",
		Slug:  "fractions",
		Problems: []SeedProblem{
			{
				Question: "Which fraction equals one half?",
				Type:     "multiple_choice",
				Answer:   "2/4",
				Options:  []string{"1/3", "2/4"},
			},
		},
	})

	assert.Equal(t, model.Beginner, lesson.Difficulty)
	assert.Len(t, lesson.Problems, 1)
	assert.Equal(t, 10, lesson.Problems[0].XPReward)
	assert.False(t, lesson.Problems[0].Options[0].IsCorrect)
	assert.True(t, lesson.Problems[0].Options[1].IsCorrect)
}
