package api

import "github.com/oqulab/virtlab/internal/services"

type resultStoreAdapter struct {
	store Store
}

func newResultStoreAdapter(store Store) services.ResultStore {
	return &resultStoreAdapter{store: store}
}

func (a *resultStoreAdapter) GetLab(id int64) (*services.Lab, error) {
	return a.store.GetLab(id)
}

func (a *resultStoreAdapter) InsertResult(r *services.Result) (*services.Result, error) {
	if r == nil {
		return nil, services.NewInvalidError("result required")
	}
	return a.store.AddResult(r)
}

func (a *resultStoreAdapter) ListResultsByUser(userID int64) ([]*services.Result, error) {
	return a.store.ListResultsByUser(userID)
}

var _ services.ResultStore = (*resultStoreAdapter)(nil)
