package services

import (
	"testing"
	"time"
)

type progressStubStore struct {
	labStubStore
	progress map[[2]int64]*Progress
}

func newProgressStubStore(t *testing.T) *progressStubStore {
	t.Helper()
	store := &progressStubStore{progress: map[[2]int64]*Progress{}}
	if _, err := store.InsertLab(&Lab{TitleKK: "А", TitleRU: "А", Subject: "biology", Grade: 7}); err != nil {
		t.Fatalf("InsertLab returned error: %v", err)
	}
	return store
}

func (s *progressStubStore) GetProgress(userID, labID int64) (*Progress, error) {
	if p, ok := s.progress[[2]int64{userID, labID}]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *progressStubStore) UpsertProgress(p *Progress) (*Progress, error) {
	key := [2]int64{p.UserID, p.LabID}
	cp := *p
	if prev, ok := s.progress[key]; ok {
		cp.ID = prev.ID
	} else {
		cp.ID = int64(len(s.progress) + 1)
	}
	s.progress[key] = &cp
	out := cp
	return &out, nil
}

func TestProgressGetDefault(t *testing.T) {
	svc := NewProgressService(newProgressStubStore(t))

	p, err := svc.Get(1, 1)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if p.CurrentStep != 1 || p.IsCompleted {
		t.Fatalf("unexpected default progress %+v", p)
	}

	_, err = svc.Get(1, 99)
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
		t.Fatalf("Get for missing lab returned %v, want not_found", err)
	}
}

func TestProgressUpdate(t *testing.T) {
	store := newProgressStubStore(t)
	svc := NewProgressService(store)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	p, err := svc.Update(1, 1, 3, false)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if p.CurrentStep != 3 || !p.LastAccessed.Equal(at) {
		t.Fatalf("unexpected progress %+v", p)
	}

	// Advancing again updates the same row.
	p2, err := svc.Update(1, 1, 4, true)
	if err != nil {
		t.Fatalf("second Update returned error: %v", err)
	}
	if p2.ID != p.ID || !p2.IsCompleted {
		t.Fatalf("upsert created a new row: %+v vs %+v", p, p2)
	}

	got, err := svc.Get(1, 1)
	if err != nil || got.CurrentStep != 4 {
		t.Fatalf("Get after update = %+v, err %v", got, err)
	}

	_, err = svc.Update(1, 1, 0, false)
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
		t.Fatalf("Update with bad step returned %v, want invalid", err)
	}
}
