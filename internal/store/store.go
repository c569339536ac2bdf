// Package store is the entity store: key lookups, filtered scans with skip/limit,
// and whole-document writes over GORM. It offers no cross-collection transactions.
package store

import (
	"context"
	"errors"
	"time"

	"shop_backend/internal/apperr"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// DefaultTimeout bounds a store call when none is configured
const DefaultTimeout = 5 * time.Second

// Store wraps a GORM handle with per-call timeouts and error classification
type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

// New returns a Store over db; every call is bounded by timeout
func New(db *gorm.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{db: db, timeout: timeout}
}

// Page is a 1-based skip/limit window
type Page struct {
	Number int // 1-based page number
	Size   int // Items per page
}

// NewPage clamps number and size into sane bounds
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of items skipped before the page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pages is the page count for total items
func (p Page) Pages(total int64) int {
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// NewID returns a fresh document id
func NewID() string {
	return uuid.NewString()
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// classify maps driver errors onto apperr kinds
func classify(op, what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(op, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.KindConflict, op, pkgerrors.Wrap(err, what))
	default:
		return apperr.Wrap(apperr.KindStore, op, pkgerrors.Wrap(err, what))
	}
}

func findByID[T any](ctx context.Context, s *Store, op, what, id string) (*T, error) {
	if id == "" {
		return nil, apperr.NotFound(op, what)
	}
	db, cancel := s.conn(ctx)
	defer cancel()
	var doc T
	if err := db.First(&doc, "id = ?", id).Error; err != nil {
		return nil, classify(op, what, err)
	}
	return &doc, nil
}

func findByIDs[T any](ctx context.Context, s *Store, op, what string, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db, cancel := s.conn(ctx)
	defer cancel()
	var docs []T
	if err := db.Where("id IN ?", ids).Find(&docs).Error; err != nil {
		return nil, classify(op, what, err)
	}
	return docs, nil
}

func create[T any](ctx context.Context, s *Store, op, what string, doc *T) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return classify(op, what, db.Create(doc).Error)
}

func save[T any](ctx context.Context, s *Store, op, what string, doc *T) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	res := db.Model(doc).Select("*").Omit("created_at").Updates(doc)
	if res.Error != nil {
		return classify(op, what, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(op, what)
	}
	return nil
}

func deleteByID[T any](ctx context.Context, s *Store, op, what, id string) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	res := db.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return classify(op, what, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(op, what)
	}
	return nil
}

func deleteByIDs[T any](ctx context.Context, s *Store, op, what string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db, cancel := s.conn(ctx)
	defer cancel()
	res := db.Where("id IN ?", ids).Delete(new(T))
	return res.RowsAffected, classify(op, what, res.Error)
}

func list[T any](ctx context.Context, s *Store, op, what string, page Page, order string) ([]T, int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var total int64
	if err := db.Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, classify(op, what, err)
	}
	var docs []T
	if err := db.Order(order).Offset(page.Offset()).Limit(page.Size).Find(&docs).Error; err != nil {
		return nil, 0, classify(op, what, err)
	}
	return docs, total, nil
}
