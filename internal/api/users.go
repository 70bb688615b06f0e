package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/clearance-asce/portal/internal/domain"
	"github.com/clearance-asce/portal/internal/gateway"
)

// UsersService covers the system-user endpoints (admin and staff accounts).
type UsersService struct {
	gw *gateway.Client
}

// UserLookup identifies a user by exactly one of the two identifiers.
type UserLookup struct {
	Username string
	TagID    string
}

// Me fetches the authenticated identity.
func (s UsersService) Me(ctx context.Context) (domain.User, error) {
	return s.gw.CurrentUser(ctx)
}

// List retrieves all user accounts.
func (s UsersService) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.gw.Get(ctx, "/admin/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create registers a new admin or staff account.
func (s UsersService) Create(ctx context.Context, req domain.UserCreate) (domain.User, error) {
	var user domain.User
	if err := s.gw.Post(ctx, "/admin/users/", req, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Update applies a partial update to a user account.
func (s UsersService) Update(ctx context.Context, id int64, req domain.UserUpdate) (domain.User, error) {
	var user domain.User
	if err := s.gw.Put(ctx, fmt.Sprintf("/admin/users/%d", id), req, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Delete removes a user account.
func (s UsersService) Delete(ctx context.Context, id int64) (domain.User, error) {
	var user domain.User
	if err := s.gw.Delete(ctx, fmt.Sprintf("/admin/users/%d", id), &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Lookup resolves a user by username or tag ID.
func (s UsersService) Lookup(ctx context.Context, q UserLookup) (domain.User, error) {
	query := url.Values{}
	if q.Username != "" {
		query.Set("username", q.Username)
	}
	if q.TagID != "" {
		query.Set("tag_id", q.TagID)
	}

	var user domain.User
	if err := s.gw.Get(ctx, "/admin/users/lookup", query, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
