package store

import (
	"context"

	"shop_backend/internal/domain"
)

// CreateCategory inserts c, assigning an id when missing
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return create(ctx, s, "createCategory", "category", c)
}

// FindCategory loads a category by id
func (s *Store) FindCategory(ctx context.Context, id string) (*domain.Category, error) {
	return findByID[domain.Category](ctx, s, "findCategory", "category", id)
}

// SaveCategory rewrites an existing category
func (s *Store) SaveCategory(ctx context.Context, c *domain.Category) error {
	return save(ctx, s, "saveCategory", "category", c)
}

// DeleteCategory removes a category by id
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return deleteByID[domain.Category](ctx, s, "deleteCategory", "category", id)
}

// AllCategories returns every category by name
func (s *Store) AllCategories(ctx context.Context) ([]domain.Category, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var docs []domain.Category
	if err := db.Order("name asc").Find(&docs).Error; err != nil {
		return nil, classify("allCategories", "categories", err)
	}
	return docs, nil
}

// ListCategories returns one page of categories by name
func (s *Store) ListCategories(ctx context.Context, page Page) ([]domain.Category, int64, error) {
	return list[domain.Category](ctx, s, "listCategories", "categories", page, "name asc, id asc")
}

// CreateBanner inserts b, assigning an id when missing
func (s *Store) CreateBanner(ctx context.Context, b *domain.Banner) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return create(ctx, s, "createBanner", "banner", b)
}

// FindBanner loads a banner by id
func (s *Store) FindBanner(ctx context.Context, id string) (*domain.Banner, error) {
	return findByID[domain.Banner](ctx, s, "findBanner", "banner", id)
}

// SaveBanner rewrites an existing banner
func (s *Store) SaveBanner(ctx context.Context, b *domain.Banner) error {
	return save(ctx, s, "saveBanner", "banner", b)
}

// DeleteBanner removes a banner by id
func (s *Store) DeleteBanner(ctx context.Context, id string) error {
	return deleteByID[domain.Banner](ctx, s, "deleteBanner", "banner", id)
}

// ActiveBanners returns up to limit active banners, highest rank first
func (s *Store) ActiveBanners(ctx context.Context, limit int) ([]domain.Banner, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var docs []domain.Banner
	if err := db.Where("status = ?", true).Order("banner_rank desc, id asc").Limit(limit).Find(&docs).Error; err != nil {
		return nil, classify("activeBanners", "banners", err)
	}
	return docs, nil
}

// ListBanners returns one page of banners, highest rank first
func (s *Store) ListBanners(ctx context.Context, page Page) ([]domain.Banner, int64, error) {
	return list[domain.Banner](ctx, s, "listBanners", "banners", page, "banner_rank desc, id asc")
}
