package store

import (
	"context"

	"shop_backend/internal/domain"
)

// FindProduct loads a product by id
func (s *Store) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	return findByID[domain.Product](ctx, s, "findProduct", "product", id)
}

// FindProducts loads the products that exist among ids, keyed by id.
// Missing ids are simply absent from the result.
func (s *Store) FindProducts(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	docs, err := findByIDs[domain.Product](ctx, s, "findProducts", "products", ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*domain.Product, len(docs))
	for i := range docs {
		out[docs[i].ID] = &docs[i]
	}
	return out, nil
}

// CreateProduct inserts p, assigning an id when missing
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return create(ctx, s, "createProduct", "product", p)
}

// SaveProduct rewrites an existing product
func (s *Store) SaveProduct(ctx context.Context, p *domain.Product) error {
	return save(ctx, s, "saveProduct", "product", p)
}

// DeleteProducts removes products by id and reports how many were deleted
func (s *Store) DeleteProducts(ctx context.Context, ids []string) (int64, error) {
	return deleteByIDs[domain.Product](ctx, s, "deleteProducts", "products", ids)
}

// ListProducts returns one page of products, newest first
func (s *Store) ListProducts(ctx context.Context, page Page) ([]domain.Product, int64, error) {
	return list[domain.Product](ctx, s, "listProducts", "products", page, "created_at desc, id desc")
}

// HotProducts returns up to limit products flagged hot
func (s *Store) HotProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var docs []domain.Product
	if err := db.Where("hot = ?", true).Order("created_at desc, id desc").Limit(limit).Find(&docs).Error; err != nil {
		return nil, classify("hotProducts", "products", err)
	}
	return docs, nil
}

// NewProducts returns the limit most recently created products
func (s *Store) NewProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var docs []domain.Product
	if err := db.Order("created_at desc, id desc").Limit(limit).Find(&docs).Error; err != nil {
		return nil, classify("newProducts", "products", err)
	}
	return docs, nil
}

// ProductsByCategory returns products that list categoryID among their categories
func (s *Store) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var docs []domain.Product
	// category_ids is a JSON array of strings
	if err := db.Where("category_ids LIKE ?", `%"`+categoryID+`"%`).Order("created_at desc, id desc").Find(&docs).Error; err != nil {
		return nil, classify("productsByCategory", "products", err)
	}
	return docs, nil
}
