package api

import "github.com/oqulab/virtlab/internal/services"

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	return a.store.FindUserByEmail(email)
}

func (a *authStoreAdapter) AddUser(u *services.User) (*services.User, error) {
	if u == nil {
		return nil, services.NewInvalidError("user required")
	}
	return a.store.AddUser(u)
}

func (a *authStoreAdapter) GetUser(id int64) (*services.User, error) {
	return a.store.GetUser(id)
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
