package services

import "time"

type ProgressStore interface {
	GetLab(id int64) (*Lab, error)
	GetProgress(userID, labID int64) (*Progress, error)
	UpsertProgress(p *Progress) (*Progress, error)
}

// ProgressService tracks the current step per (user, lab) pair while an
// attempt is underway.
type ProgressService struct {
	store ProgressStore
	now   func() time.Time
}

func NewProgressService(store ProgressStore) *ProgressService {
	return &ProgressService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the stored progress, or a fresh first-step record when the
// user has not started the lab yet.
func (s *ProgressService) Get(userID, labID int64) (*Progress, error) {
	if _, err := s.requireLab(labID); err != nil {
		return nil, err
	}
	p, err := s.store.GetProgress(userID, labID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &Progress{UserID: userID, LabID: labID, CurrentStep: 1}, nil
	}
	return p, nil
}

// Update upserts the progress record and stamps the access time.
func (s *ProgressService) Update(userID, labID int64, currentStep int, isCompleted bool) (*Progress, error) {
	if currentStep < 1 {
		return nil, NewInvalidError("current_step must be at least 1")
	}
	if _, err := s.requireLab(labID); err != nil {
		return nil, err
	}
	return s.store.UpsertProgress(&Progress{
		UserID:       userID,
		LabID:        labID,
		CurrentStep:  currentStep,
		IsCompleted:  isCompleted,
		LastAccessed: s.now(),
	})
}

func (s *ProgressService) requireLab(labID int64) (*Lab, error) {
	l, err := s.store.GetLab(labID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, NewNotFoundError("lab not found")
	}
	return l, nil
}
