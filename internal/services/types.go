package services

import "time"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// User is a registered platform account. The password hash never leaves the
// server.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Grade        *int      `json:"grade"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Lab is a catalog entry describing one assignable experiment. Titles and
// descriptions are bilingual (Kazakh/Russian); config is free-form structured
// data interpreted by the client only.
type Lab struct {
	ID            int64          `json:"id"`
	TitleKK       string         `json:"title_kk"`
	TitleRU       string         `json:"title_ru"`
	Subject       string         `json:"subject"`
	Grade         int            `json:"grade"`
	LabNumber     string         `json:"lab_number,omitempty"`
	DescriptionKK string         `json:"description_kk,omitempty"`
	DescriptionRU string         `json:"description_ru,omitempty"`
	Difficulty    string         `json:"difficulty"`
	EstimatedTime int            `json:"estimated_time"`
	Config        map[string]any `json:"config,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// LabFilter narrows a catalog listing. Zero fields match everything.
type LabFilter struct {
	Grade   *int
	Subject string
}

// AnswerRecord is one client-graded answer: an opaque object that must carry
// a boolean "correct" flag for scoring.
type AnswerRecord map[string]any

// Result records one attempt at a lab. Immutable once stored.
type Result struct {
	ID          int64                   `json:"id"`
	UserID      int64                   `json:"user_id"`
	LabID       int64                   `json:"lab_id"`
	StartedAt   time.Time               `json:"started_at"`
	CompletedAt *time.Time              `json:"completed_at"`
	Score       *float64                `json:"score"`
	TimeSpent   int                     `json:"time_spent"`
	Attempts    int                     `json:"attempts"`
	Status      string                  `json:"status"`
	Answers     map[string]AnswerRecord `json:"answers"`
}

// Progress tracks where a user currently is inside a lab.
type Progress struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	LabID        int64     `json:"lab_id"`
	CurrentStep  int       `json:"current_step"`
	IsCompleted  bool      `json:"is_completed"`
	LastAccessed time.Time `json:"last_accessed"`
}
