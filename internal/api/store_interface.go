package api

import "github.com/oqulab/virtlab/internal/services"

// Store is the full persistence surface of the backend. Implementations:
// the in-memory store below (tests, dev mode) and the SQL store in
// internal/db.
type Store interface {
	AddUser(u *services.User) (*services.User, error)
	FindUserByEmail(email string) (*services.User, error)
	GetUser(id int64) (*services.User, error)

	AddLab(l *services.Lab) (*services.Lab, error)
	GetLab(id int64) (*services.Lab, error)
	ListLabs(f services.LabFilter) ([]*services.Lab, error)
	FindLabByTitle(titleKK string) (*services.Lab, error)

	AddResult(r *services.Result) (*services.Result, error)
	ListResultsByUser(userID int64) ([]*services.Result, error)

	GetProgress(userID, labID int64) (*services.Progress, error)
	UpsertProgress(p *services.Progress) (*services.Progress, error)
}

var _ Store = (*MemoryStore)(nil)
