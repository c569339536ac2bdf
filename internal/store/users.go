package store

import (
	"context"

	"shop_backend/internal/apperr"
	"shop_backend/internal/domain"
)

// userColumns are rewritten on every SaveUser
var userColumns = []string{
	"password", "nickname", "avatar", "gender", "role",
	"address_ids", "default_address_id", "cart", "order_ids",
	"version", "updated_at",
}

// FindUser loads a user by id
func (s *Store) FindUser(ctx context.Context, id string) (*domain.User, error) {
	return findByID[domain.User](ctx, s, "findUser", "user", id)
}

// FindUserByUsername loads a user by its unique handle
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var u domain.User
	if err := db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, classify("findUserByUsername", "user", err)
	}
	return &u, nil
}

// CreateUser inserts u, assigning an id when missing
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return create(ctx, s, "createUser", "user", u)
}

// SaveUser rewrites the user document if nobody else wrote it since it was read.
// A concurrent write yields a Conflict error and leaves u unchanged.
func (s *Store) SaveUser(ctx context.Context, u *domain.User) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	prev := u.Version
	u.Version = prev + 1
	res := db.Model(u).Where("version = ?", prev).Select(userColumns).Updates(u)
	if res.Error != nil {
		u.Version = prev
		return classify("saveUser", "user", res.Error)
	}
	if res.RowsAffected == 0 {
		u.Version = prev
		return apperr.E(apperr.KindConflict, "saveUser", "user %s was modified concurrently", u.ID)
	}
	return nil
}

// ListUsers returns one page of users ordered by creation time
func (s *Store) ListUsers(ctx context.Context, page Page) ([]domain.User, int64, error) {
	return list[domain.User](ctx, s, "listUsers", "users", page, "created_at desc, id desc")
}

// DeleteUsers removes users by id and reports how many were deleted
func (s *Store) DeleteUsers(ctx context.Context, ids []string) (int64, error) {
	return deleteByIDs[domain.User](ctx, s, "deleteUsers", "users", ids)
}
