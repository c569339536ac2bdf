package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shop_backend/internal/domain"
	"shop_backend/internal/events"
	"shop_backend/internal/store"
	"shop_backend/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	store     *store.Store
	carts     *CartManager
	addresses *AddressRegistry
	orders    *OrderEngine
	auditor   *Auditor
	events    *recorder
}

func newFixture(t *testing.T) *fixture {
	gdb := testdb.Open(t)
	st := store.New(gdb, time.Second)
	carts := NewCartManager(st, 10)
	addresses := NewAddressRegistry(st, 10)
	rec := &recorder{}
	return &fixture{
		db:        gdb,
		store:     st,
		carts:     carts,
		addresses: addresses,
		orders:    NewOrderEngine(st, addresses, carts, rec, 10),
		auditor:   NewAuditor(st, 10),
		events:    rec,
	}
}

func (f *fixture) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Password: "x"}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) reload(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := f.store.FindUser(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) product(t *testing.T, name, price string) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: name, Price: decimal.RequireFromString(price), Status: true}
	require.NoError(t, f.store.CreateProduct(context.Background(), p))
	return p
}

func (f *fixture) address(t *testing.T, userID, detail string) *domain.Address {
	t.Helper()
	a, err := f.addresses.AddAddress(context.Background(), userID, detail)
	require.NoError(t, err)
	return a
}

var errInjected = errors.New("injected write failure")

// failWrites makes every update (or delete) against table fail until the returned
// switch is turned off
func (f *fixture) failWrites(t *testing.T, table string, deletes bool) *atomic.Bool {
	t.Helper()
	on := &atomic.Bool{}
	on.Store(true)
	inject := func(db *gorm.DB) {
		if on.Load() && db.Statement.Table == table {
			_ = db.AddError(errInjected)
		}
	}
	var err error
	name := "test:fail_" + table
	if deletes {
		err = f.db.Callback().Delete().Before("gorm:delete").Register(name, inject)
	} else {
		err = f.db.Callback().Update().Before("gorm:update").Register(name, inject)
	}
	require.NoError(t, err)
	return on
}
