package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type LabStore interface {
	InsertLab(l *Lab) (*Lab, error)
	GetLab(id int64) (*Lab, error)
	ListLabs(f LabFilter) ([]*Lab, error)
	FindLabByTitle(titleKK string) (*Lab, error)
}

type LabService struct {
	store LabStore
	now   func() time.Time
	idGen func() string
}

type CreateLabRequest struct {
	TitleKK       string
	TitleRU       string
	Subject       string
	Grade         int
	LabNumber     string
	DescriptionKK string
	DescriptionRU string
	Difficulty    string
	EstimatedTime int
	Config        map[string]any
}

func NewLabService(store LabStore) *LabService {
	return &LabService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: shortID,
	}
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Create inserts a catalog entry. Only teachers and admins may create labs.
func (s *LabService) Create(actorRole string, req CreateLabRequest) (*Lab, error) {
	if actorRole != RoleTeacher && actorRole != RoleAdmin {
		return nil, NewForbiddenError("teacher or admin role required")
	}
	if strings.TrimSpace(req.TitleKK) == "" || strings.TrimSpace(req.TitleRU) == "" {
		return nil, NewInvalidError("title_kk and title_ru required")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, NewInvalidError("subject required")
	}
	if req.Grade <= 0 {
		return nil, NewInvalidError("grade must be positive")
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	switch difficulty {
	case "easy", "medium", "hard":
	default:
		return nil, NewInvalidError("unknown difficulty " + difficulty)
	}
	estimated := req.EstimatedTime
	if estimated == 0 {
		estimated = 20
	}
	if estimated < 0 {
		return nil, NewInvalidError("estimated_time must be positive")
	}
	labNumber := strings.TrimSpace(req.LabNumber)
	if labNumber == "" {
		labNumber = s.idGen()
	}
	return s.store.InsertLab(&Lab{
		TitleKK:       strings.TrimSpace(req.TitleKK),
		TitleRU:       strings.TrimSpace(req.TitleRU),
		Subject:       req.Subject,
		Grade:         req.Grade,
		LabNumber:     labNumber,
		DescriptionKK: req.DescriptionKK,
		DescriptionRU: req.DescriptionRU,
		Difficulty:    difficulty,
		EstimatedTime: estimated,
		Config:        req.Config,
		CreatedAt:     s.now(),
	})
}

func (s *LabService) List(f LabFilter) ([]*Lab, error) {
	return s.store.ListLabs(f)
}

func (s *LabService) Get(id int64) (*Lab, error) {
	l, err := s.store.GetLab(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, NewNotFoundError("lab not found")
	}
	return l, nil
}

// Seed inserts the demonstration catalog. A lab is skipped when one with the
// same Kazakh title already exists, so running it repeatedly is safe.
func (s *LabService) Seed() (int, error) {
	created := 0
	for _, l := range demoLabs() {
		existing, err := s.store.FindLabByTitle(l.TitleKK)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		l.LabNumber = s.idGen()
		l.CreatedAt = s.now()
		if _, err := s.store.InsertLab(l); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func demoLabs() []*Lab {
	return []*Lab{
		{
			TitleKK:       "Қышқылдар мен негіздердің әрекеттесуі",
			TitleRU:       "Взаимодействие кислот и оснований",
			Subject:       "chemistry",
			Grade:         8,
			DescriptionKK: "Бейтараптану реакциясын зерттеу",
			DescriptionRU: "Изучение реакции нейтрализации",
			Difficulty:    "medium",
			EstimatedTime: 25,
			Config: map[string]any{
				"steps":      5,
				"indicators": []string{"litmus", "phenolphthalein"},
			},
		},
		{
			TitleKK:       "Өсімдік жасушасын микроскоппен зерттеу",
			TitleRU:       "Изучение растительной клетки под микроскопом",
			Subject:       "biology",
			Grade:         7,
			DescriptionKK: "Пияз қабығының жасушаларын бақылау",
			DescriptionRU: "Наблюдение клеток кожицы лука",
			Difficulty:    "easy",
			EstimatedTime: 20,
			Config: map[string]any{
				"steps":         4,
				"magnification": []int{40, 100, 400},
			},
		},
		{
			TitleKK:       "Судың қасиеттерін зерттеу",
			TitleRU:       "Исследование свойств воды",
			Subject:       "nature",
			Grade:         5,
			DescriptionKK: "Судың үш күйін бақылау",
			DescriptionRU: "Наблюдение трёх состояний воды",
			Difficulty:    "easy",
			EstimatedTime: 15,
			Config: map[string]any{
				"steps": 3,
			},
		},
		{
			TitleKK:       "Металдардың белсенділік қатары",
			TitleRU:       "Ряд активности металлов",
			Subject:       "chemistry",
			Grade:         9,
			DescriptionKK: "Металдардың тұз ерітінділерімен әрекеттесуі",
			DescriptionRU: "Взаимодействие металлов с растворами солей",
			Difficulty:    "hard",
			EstimatedTime: 30,
			Config: map[string]any{
				"steps":  6,
				"metals": []string{"Zn", "Fe", "Cu"},
			},
		},
	}
}
