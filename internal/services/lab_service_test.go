package services

import (
	"testing"
	"time"
)

type labStubStore struct {
	labs   []*Lab
	nextID int64
}

func (s *labStubStore) InsertLab(l *Lab) (*Lab, error) {
	s.nextID++
	cp := *l
	cp.ID = s.nextID
	s.labs = append(s.labs, &cp)
	out := cp
	return &out, nil
}

func (s *labStubStore) GetLab(id int64) (*Lab, error) {
	for _, l := range s.labs {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *labStubStore) ListLabs(f LabFilter) ([]*Lab, error) {
	var out []*Lab
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
	return out, nil
}

func (s *labStubStore) FindLabByTitle(titleKK string) (*Lab, error) {
	for _, l := range s.labs {
		if l.TitleKK == titleKK {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func newLabService(store *labStubStore) *LabService {
	svc := NewLabService(store)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	svc.idGen = func() string { return "lab00001" }
	return svc
}

func TestCreateLabRoleGate(t *testing.T) {
	svc := newLabService(&labStubStore{})
	req := CreateLabRequest{TitleKK: "Тәжірибе", TitleRU: "Опыт", Subject: "chemistry", Grade: 8}

	_, err := svc.Create(RoleStudent, req)
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorForbidden {
		t.Fatalf("student Create returned %v, want forbidden", err)
	}

	for _, role := range []string{RoleTeacher, RoleAdmin} {
		l, err := svc.Create(role, req)
		if err != nil {
			t.Fatalf("%s Create returned error: %v", role, err)
		}
		if l.Difficulty != "medium" || l.EstimatedTime != 20 {
			t.Fatalf("defaults not applied: %+v", l)
		}
		if l.LabNumber == "" {
			t.Fatalf("expected generated lab number")
		}
	}
}

func TestCreateLabValidation(t *testing.T) {
	svc := newLabService(&labStubStore{})
	cases := []CreateLabRequest{
		{TitleRU: "Опыт", Subject: "chemistry", Grade: 8},
		{TitleKK: "Тәжірибе", Subject: "chemistry", Grade: 8},
		{TitleKK: "Тәжірибе", TitleRU: "Опыт", Grade: 8},
		{TitleKK: "Тәжірибе", TitleRU: "Опыт", Subject: "chemistry"},
		{TitleKK: "Тәжірибе", TitleRU: "Опыт", Subject: "chemistry", Grade: 8, Difficulty: "impossible"},
	}
	for i, req := range cases {
		_, err := svc.Create(RoleTeacher, req)
		if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
			t.Fatalf("case %d: Create returned %v, want invalid", i, err)
		}
	}
}

func TestListLabsFilter(t *testing.T) {
	store := &labStubStore{}
	svc := newLabService(store)
	for _, req := range []CreateLabRequest{
		{TitleKK: "А", TitleRU: "А", Subject: "chemistry", Grade: 8},
		{TitleKK: "Б", TitleRU: "Б", Subject: "biology", Grade: 8},
		{TitleKK: "В", TitleRU: "В", Subject: "chemistry", Grade: 9},
	} {
		if _, err := svc.Create(RoleTeacher, req); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	all, err := svc.List(LabFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("List all = %d labs, err %v, want 3", len(all), err)
	}

	grade := 8
	byGrade, err := svc.List(LabFilter{Grade: &grade})
	if err != nil || len(byGrade) != 2 {
		t.Fatalf("List grade=8 = %d labs, err %v, want 2", len(byGrade), err)
	}
	for _, l := range byGrade {
		if l.Grade != 8 {
			t.Fatalf("grade filter leaked lab %+v", l)
		}
	}

	both, err := svc.List(LabFilter{Grade: &grade, Subject: "chemistry"})
	if err != nil || len(both) != 1 || both[0].TitleKK != "А" {
		t.Fatalf("combined filter returned %v, err %v", both, err)
	}
}

func TestGetLab(t *testing.T) {
	store := &labStubStore{}
	svc := newLabService(store)
	created, err := svc.Create(RoleTeacher, CreateLabRequest{TitleKK: "А", TitleRU: "А", Subject: "nature", Grade: 5})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := svc.Get(created.ID)
	if err != nil || got.TitleKK != "А" {
		t.Fatalf("Get returned %+v, err %v", got, err)
	}

	_, err = svc.Get(999)
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
		t.Fatalf("Get missing returned %v, want not_found", err)
	}
}

func TestSeedIdempotent(t *testing.T) {
	store := &labStubStore{}
	svc := NewLabService(store)

	first, err := svc.Seed()
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if first == 0 {
		t.Fatalf("expected seed to create labs")
	}

	second, err := svc.Seed()
	if err != nil {
		t.Fatalf("second Seed returned error: %v", err)
	}
	if second != 0 {
		t.Fatalf("second Seed created %d labs, want 0", second)
	}
	if len(store.labs) != first {
		t.Fatalf("store holds %d labs after reseed, want %d", len(store.labs), first)
	}
}
