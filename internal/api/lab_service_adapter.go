package api

import "github.com/oqulab/virtlab/internal/services"

type labStoreAdapter struct {
	store Store
}

func newLabStoreAdapter(store Store) services.LabStore {
	return &labStoreAdapter{store: store}
}

func (a *labStoreAdapter) InsertLab(l *services.Lab) (*services.Lab, error) {
	if l == nil {
		return nil, services.NewInvalidError("lab required")
	}
	return a.store.AddLab(l)
}

func (a *labStoreAdapter) GetLab(id int64) (*services.Lab, error) {
	return a.store.GetLab(id)
}

func (a *labStoreAdapter) ListLabs(f services.LabFilter) ([]*services.Lab, error) {
	return a.store.ListLabs(f)
}

func (a *labStoreAdapter) FindLabByTitle(titleKK string) (*services.Lab, error) {
	return a.store.FindLabByTitle(titleKK)
}

var _ services.LabStore = (*labStoreAdapter)(nil)
