package service

import (
	"context"
	"fmt"

	"shop_backend/internal/apperr"
	"shop_backend/internal/cache"
	"shop_backend/internal/domain"
	"shop_backend/internal/store"

	"github.com/sirupsen/logrus"
)

const (
	maxFeatured   = 20 // Hot and new product lists
	activeBanners = 5  // Banners on the home page

	productPrefix  = "catalog:product"
	categoryPrefix = "catalog:category"
	bannerPrefix   = "catalog:banner"
)

// ListPage is one page of a catalog listing
type ListPage[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

func newListPage[T any](items []T, total int64, p store.Page) *ListPage[T] {
	if items == nil {
		items = []T{}
	}
	return &ListPage[T]{Items: items, Total: total, Page: p.Number, Pages: p.Pages(total)}
}

// Catalog serves products, categories and banners. Reads go through the cache;
// writes drop every cached key of the affected collection.
type Catalog struct {
	store *store.Store
	cache *cache.Cache
}

// NewCatalog returns a Catalog; c may be nil to disable caching
func NewCatalog(st *store.Store, c *cache.Cache) *Catalog {
	return &Catalog{store: st, cache: c}
}

func (c *Catalog) invalidate(ctx context.Context, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := c.cache.DeletePrefix(ctx, prefix); err != nil {
			logrus.WithFields(logrus.Fields{"prefix": prefix, "error": err.Error()}).Warn("Cache invalidation failed")
		}
	}
}

// Product returns a product by id
func (c *Catalog) Product(ctx context.Context, id string) (*domain.Product, error) {
	return cache.Remember(ctx, c.cache, productPrefix+":"+id, func() (*domain.Product, error) {
		return c.store.FindProduct(ctx, id)
	})
}

// Products returns one page of products, newest first
func (c *Catalog) Products(ctx context.Context, page, pageSize int) (*ListPage[domain.Product], error) {
	p := store.NewPage(page, pageSize)
	key := fmt.Sprintf("%s:list:%d:%d", productPrefix, p.Number, p.Size)
	return cache.Remember(ctx, c.cache, key, func() (*ListPage[domain.Product], error) {
		items, total, err := c.store.ListProducts(ctx, p)
		if err != nil {
			return nil, err
		}
		return newListPage(items, total, p), nil
	})
}

// HotProducts returns up to 20 products flagged hot
func (c *Catalog) HotProducts(ctx context.Context) ([]domain.Product, error) {
	return cache.Remember(ctx, c.cache, productPrefix+":hot", func() ([]domain.Product, error) {
		return c.store.HotProducts(ctx, maxFeatured)
	})
}

// NewProducts returns the 20 most recent products
func (c *Catalog) NewProducts(ctx context.Context) ([]domain.Product, error) {
	return cache.Remember(ctx, c.cache, productPrefix+":new", func() ([]domain.Product, error) {
		return c.store.NewProducts(ctx, maxFeatured)
	})
}

// CreateProduct validates and stores a new product
func (c *Catalog) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := validateProduct("createProduct", p); err != nil {
		return err
	}
	p.ID = ""
	if err := c.store.CreateProduct(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, productPrefix, categoryPrefix)
	logrus.WithFields(logrus.Fields{"product_id": p.ID, "name": p.Name}).Info("Product created")
	return nil
}

// UpdateProduct rewrites an existing product
func (c *Catalog) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := validateProduct("updateProduct", p); err != nil {
		return err
	}
	if err := c.store.SaveProduct(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, productPrefix, categoryPrefix)
	logrus.WithField("product_id", p.ID).Info("Product updated")
	return nil
}

// DeleteProducts removes products by id. Orders keep their line snapshots.
func (c *Catalog) DeleteProducts(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, apperr.InvalidArgument("deleteProducts", "no product ids given")
	}
	n, err := c.store.DeleteProducts(ctx, ids)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, productPrefix, categoryPrefix)
	logrus.WithFields(logrus.Fields{"ids": ids, "deleted": n}).Info("Products deleted")
	return n, nil
}

func validateProduct(op string, p *domain.Product) error {
	if p.Name == "" {
		return apperr.InvalidArgument(op, "product name is required")
	}
	if p.Price.IsNegative() {
		return apperr.InvalidArgument(op, "product price must not be negative")
	}
	if p.Stock < 0 {
		return apperr.InvalidArgument(op, "product stock must not be negative")
	}
	return nil
}

// Categories returns every category
func (c *Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	return cache.Remember(ctx, c.cache, categoryPrefix+":all", func() ([]domain.Category, error) {
		return c.store.AllCategories(ctx)
	})
}

// CategoryPage returns one page of categories
func (c *Catalog) CategoryPage(ctx context.Context, page, pageSize int) (*ListPage[domain.Category], error) {
	p := store.NewPage(page, pageSize)
	items, total, err := c.store.ListCategories(ctx, p)
	if err != nil {
		return nil, err
	}
	return newListPage(items, total, p), nil
}

// Category returns a category by id
func (c *Catalog) Category(ctx context.Context, id string) (*domain.Category, error) {
	return c.store.FindCategory(ctx, id)
}

// CategoryProducts returns the products filed under a category
func (c *Catalog) CategoryProducts(ctx context.Context, id string) ([]domain.Product, error) {
	if _, err := c.store.FindCategory(ctx, id); err != nil {
		return nil, err
	}
	return cache.Remember(ctx, c.cache, categoryPrefix+":"+id+":products", func() ([]domain.Product, error) {
		return c.store.ProductsByCategory(ctx, id)
	})
}

// CreateCategory stores a new category; names are unique
func (c *Catalog) CreateCategory(ctx context.Context, cat *domain.Category) error {
	if cat.Name == "" {
		return apperr.InvalidArgument("createCategory", "category name is required")
	}
	cat.ID = ""
	if err := c.store.CreateCategory(ctx, cat); err != nil {
		return err
	}
	c.invalidate(ctx, categoryPrefix)
	logrus.WithFields(logrus.Fields{"category_id": cat.ID, "name": cat.Name}).Info("Category created")
	return nil
}

// UpdateCategory rewrites an existing category
func (c *Catalog) UpdateCategory(ctx context.Context, cat *domain.Category) error {
	if cat.Name == "" {
		return apperr.InvalidArgument("updateCategory", "category name is required")
	}
	if err := c.store.SaveCategory(ctx, cat); err != nil {
		return err
	}
	c.invalidate(ctx, categoryPrefix)
	return nil
}

// DeleteCategory removes a category. Products keep the stale id in their list.
func (c *Catalog) DeleteCategory(ctx context.Context, id string) error {
	if err := c.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, categoryPrefix)
	logrus.WithField("category_id", id).Info("Category deleted")
	return nil
}

// ActiveBanners returns the top five active banners by rank
func (c *Catalog) ActiveBanners(ctx context.Context) ([]domain.Banner, error) {
	return cache.Remember(ctx, c.cache, bannerPrefix+":active", func() ([]domain.Banner, error) {
		return c.store.ActiveBanners(ctx, activeBanners)
	})
}

// BannerPage returns one page of all banners
func (c *Catalog) BannerPage(ctx context.Context, page, pageSize int) (*ListPage[domain.Banner], error) {
	p := store.NewPage(page, pageSize)
	items, total, err := c.store.ListBanners(ctx, p)
	if err != nil {
		return nil, err
	}
	return newListPage(items, total, p), nil
}

// CreateBanner stores a new banner
func (c *Catalog) CreateBanner(ctx context.Context, b *domain.Banner) error {
	b.ID = ""
	if err := c.store.CreateBanner(ctx, b); err != nil {
		return err
	}
	c.invalidate(ctx, bannerPrefix)
	logrus.WithField("banner_id", b.ID).Info("Banner created")
	return nil
}

// UpdateBanner rewrites an existing banner
func (c *Catalog) UpdateBanner(ctx context.Context, b *domain.Banner) error {
	if err := c.store.SaveBanner(ctx, b); err != nil {
		return err
	}
	c.invalidate(ctx, bannerPrefix)
	return nil
}

// DeleteBanner removes a banner
func (c *Catalog) DeleteBanner(ctx context.Context, id string) error {
	if err := c.store.DeleteBanner(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, bannerPrefix)
	logrus.WithField("banner_id", id).Info("Banner deleted")
	return nil
}
