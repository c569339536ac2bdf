package store

import (
	"context"
	"time"

	"shop_backend/internal/apperr"
	"shop_backend/internal/domain"

	"gorm.io/gorm"
)

// OrderFilter narrows order scans; zero fields do not filter
type OrderFilter struct {
	UserID string             // Owning user
	Status domain.OrderStatus // Lifecycle state
	AsOf   time.Time          // Upper bound on created_at, keeps pages stable under inserts
}

func (f OrderFilter) apply(db *gorm.DB) *gorm.DB {
	if f.UserID != "" {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if !f.AsOf.IsZero() {
		db = db.Where("created_at <= ?", f.AsOf.UTC().Truncate(domain.TimePrecision))
	}
	return db
}

// CreateOrder inserts o, assigning an id when missing
func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = NewID()
	}
	return create(ctx, s, "createOrder", "order", o)
}

// FindOrder loads an order by id
func (s *Store) FindOrder(ctx context.Context, id string) (*domain.Order, error) {
	return findByID[domain.Order](ctx, s, "findOrder", "order", id)
}

// SaveOrderStatus moves o to status, provided its stored status is still o.Status.
// On success o reflects the new status.
func (s *Store) SaveOrderStatus(ctx context.Context, o *domain.Order, status domain.OrderStatus) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	now := db.NowFunc()
	res := db.Model(&domain.Order{}).
		Where("id = ? AND status = ?", o.ID, o.Status).
		Updates(map[string]any{"status": status, "updated_at": now})
	if res.Error != nil {
		return classify("saveOrderStatus", "order", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.E(apperr.KindConflict, "saveOrderStatus", "order %s changed status concurrently", o.ID)
	}
	o.Status = status
	o.UpdatedAt = now
	return nil
}

// DeleteOrder removes an order by id
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return deleteByID[domain.Order](ctx, s, "deleteOrder", "order", id)
}

// CountOrders counts orders matching f
func (s *Store) CountOrders(ctx context.Context, f OrderFilter) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var total int64
	if err := f.apply(db.Model(&domain.Order{})).Count(&total).Error; err != nil {
		return 0, classify("countOrders", "orders", err)
	}
	return total, nil
}

// FindOrders returns one page of orders matching f, newest first with id as tiebreak
func (s *Store) FindOrders(ctx context.Context, f OrderFilter, page Page) ([]domain.Order, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var docs []domain.Order
	err := f.apply(db).
		Order("created_at desc, id desc").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&docs).Error
	if err != nil {
		return nil, classify("findOrders", "orders", err)
	}
	return docs, nil
}

// AllOrders returns every order matching f, newest first
func (s *Store) AllOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var docs []domain.Order
	if err := f.apply(db).Order("created_at desc, id desc").Find(&docs).Error; err != nil {
		return nil, classify("allOrders", "orders", err)
	}
	return docs, nil
}
