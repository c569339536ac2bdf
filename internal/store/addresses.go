package store

import (
	"context"

	"shop_backend/internal/domain"
)

// CreateAddress inserts a, assigning an id when missing
func (s *Store) CreateAddress(ctx context.Context, a *domain.Address) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return create(ctx, s, "createAddress", "address", a)
}

// FindAddress loads an address by id
func (s *Store) FindAddress(ctx context.Context, id string) (*domain.Address, error) {
	return findByID[domain.Address](ctx, s, "findAddress", "address", id)
}

// FindAddresses loads the addresses that exist among ids, keyed by id
func (s *Store) FindAddresses(ctx context.Context, ids []string) (map[string]*domain.Address, error) {
	docs, err := findByIDs[domain.Address](ctx, s, "findAddresses", "addresses", ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*domain.Address, len(docs))
	for i := range docs {
		out[docs[i].ID] = &docs[i]
	}
	return out, nil
}

// AddressesByUser returns every address whose owning reference is userID
func (s *Store) AddressesByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var docs []domain.Address
	if err := db.Where("user_id = ?", userID).Order("created_at asc, id asc").Find(&docs).Error; err != nil {
		return nil, classify("addressesByUser", "addresses", err)
	}
	return docs, nil
}

// SaveAddress rewrites an existing address
func (s *Store) SaveAddress(ctx context.Context, a *domain.Address) error {
	return save(ctx, s, "saveAddress", "address", a)
}

// DeleteAddress removes an address by id
func (s *Store) DeleteAddress(ctx context.Context, id string) error {
	return deleteByID[domain.Address](ctx, s, "deleteAddress", "address", id)
}
