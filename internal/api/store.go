package api

import (
	"sort"
	"sync"

	"github.com/oqulab/virtlab/internal/services"
)

// MemoryStore keeps everything in process memory. It backs the handler tests
// and the zero-setup dev mode; production runs on the SQL store.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int64]*services.User
	labs       map[int64]*services.Lab
	results    []*services.Result
	progress   map[[2]int64]*services.Progress
	nextUserID int64
	nextLabID  int64
	nextProgID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    map[int64]*services.User{},
		labs:     map[int64]*services.Lab{},
		progress: map[[2]int64]*services.Progress{},
	}
}

func (s *MemoryStore) AddUser(u *services.User) (*services.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	cp := *u
	cp.ID = s.nextUserID
	s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *MemoryStore) FindUserByEmail(email string) (*services.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetUser(id int64) (*services.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) AddLab(l *services.Lab) (*services.Lab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLabID++
	cp := *l
	cp.ID = s.nextLabID
	s.labs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *MemoryStore) GetLab(id int64) (*services.Lab, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l, ok := s.labs[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListLabs(f services.LabFilter) ([]*services.Lab, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.Lab{}
	for _, l := range s.labs {
		if f.Grade != nil && l.Grade != *f.Grade {
			continue
		}
		if f.Subject != "" && l.Subject != f.Subject {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) FindLabByTitle(titleKK string) (*services.Lab, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.labs {
		if l.TitleKK == titleKK {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) AddResult(r *services.Result) (*services.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	cp.ID = int64(len(s.results) + 1)
	s.results = append(s.results, &cp)
	out := cp
	return &out, nil
}

func (s *MemoryStore) ListResultsByUser(userID int64) ([]*services.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.Result{}
	for _, r := range s.results {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetProgress(userID, labID int64) (*services.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.progress[[2]int64{userID, labID}]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) UpsertProgress(p *services.Progress) (*services.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int64{p.UserID, p.LabID}
	cp := *p
	if prev, ok := s.progress[key]; ok {
		cp.ID = prev.ID
	} else {
		s.nextProgID++
		cp.ID = s.nextProgID
	}
	s.progress[key] = &cp
	out := cp
	return &out, nil
}
