package services

import (
	"fmt"
	"time"
)

type ResultStore interface {
	GetLab(id int64) (*Lab, error)
	InsertResult(r *Result) (*Result, error)
	ListResultsByUser(userID int64) ([]*Result, error)
}

// ResultService records completed attempts. Results are write-once: there is
// no update or delete path.
type ResultService struct {
	store ResultStore
	now   func() time.Time
}

type SubmitResultRequest struct {
	LabID     int64
	Answers   map[string]AnswerRecord
	TimeSpent int
}

func NewResultService(store ResultStore) *ResultService {
	return &ResultService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates the answer payload, computes the score and persists the
// attempt stamped with the authenticated user and the current instant.
func (s *ResultService) Submit(userID int64, req SubmitResultRequest) (*Result, error) {
	if req.LabID <= 0 {
		return nil, NewInvalidError("lab_id required")
	}
	if req.TimeSpent < 0 {
		return nil, NewInvalidError("time_spent must not be negative")
	}
	if req.Answers == nil {
		return nil, NewInvalidError("answers required")
	}
	for itemID, rec := range req.Answers {
		if rec == nil {
			return nil, NewInvalidError(fmt.Sprintf("answer %q must be an object", itemID))
		}
		if v, ok := rec["correct"]; ok {
			if _, isBool := v.(bool); !isBool {
				return nil, NewInvalidError(fmt.Sprintf("answer %q: correct flag must be boolean", itemID))
			}
		}
	}

	lab, err := s.store.GetLab(req.LabID)
	if err != nil {
		return nil, err
	}
	if lab == nil {
		return nil, NewNotFoundError("lab not found")
	}

	score := Score(req.Answers)
	now := s.now()
	return s.store.InsertResult(&Result{
		UserID:      userID,
		LabID:       req.LabID,
		StartedAt:   now,
		CompletedAt: &now,
		Score:       &score,
		TimeSpent:   req.TimeSpent,
		Attempts:    1,
		Status:      StatusCompleted,
		Answers:     req.Answers,
	})
}

// ListMine returns every attempt recorded for the given user.
func (s *ResultService) ListMine(userID int64) ([]*Result, error) {
	return s.store.ListResultsByUser(userID)
}
