package api

import "github.com/oqulab/virtlab/internal/services"

type progressStoreAdapter struct {
	store Store
}

func newProgressStoreAdapter(store Store) services.ProgressStore {
	return &progressStoreAdapter{store: store}
}

func (a *progressStoreAdapter) GetLab(id int64) (*services.Lab, error) {
	return a.store.GetLab(id)
}

func (a *progressStoreAdapter) GetProgress(userID, labID int64) (*services.Progress, error) {
	return a.store.GetProgress(userID, labID)
}

func (a *progressStoreAdapter) UpsertProgress(p *services.Progress) (*services.Progress, error) {
	if p == nil {
		return nil, services.NewInvalidError("progress required")
	}
	return a.store.UpsertProgress(p)
}

var _ services.ProgressStore = (*progressStoreAdapter)(nil)
