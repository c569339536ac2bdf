package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"shop_backend/internal/apperr"
	"shop_backend/internal/domain"
	"shop_backend/internal/events"
	"shop_backend/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateOrderWithoutAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")

	o, err := f.orders.CreateOrder(ctx, u.ID, []LineItem{{ProductID: p.ID, Quantity: 2}}, "")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("20.00").Equal(o.Price))
	assert.Equal(t, domain.OrderStatusAwaitingPayment, o.Status)
	assert.Empty(t, o.AddressID)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "mug", o.Items[0].ProductName)
	assert.Equal(t, []string{o.ID}, f.reload(t, u.ID).OrderIDs)
	assert.Equal(t, []string{events.OrderCreated}, f.events.types())

	stored, err := f.store.FindOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.UserID)
	assert.True(t, o.Price.Equal(stored.Price))
}

func TestCreateOrderUsesDefaultAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")
	a1 := f.address(t, u.ID, "1 Main St")
	a2 := f.address(t, u.ID, "2 Side St")

	o, err := f.orders.CreateOrder(ctx, u.ID, []LineItem{{ProductID: p.ID, Quantity: 1}}, "")
	require.NoError(t, err)
	assert.Equal(t, a1.ID, o.AddressID)
	assert.Equal(t, "1 Main St", o.AddressDetail)

	o, err = f.orders.CreateOrder(ctx, u.ID, []LineItem{{ProductID: p.ID, Quantity: 1}}, a2.ID)
	require.NoError(t, err)
	assert.Equal(t, a2.ID, o.AddressID)
}

func TestCreateOrderExplicitAddressMustBeOwned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	other := f.user(t, "gina")
	p := f.product(t, "mug", "10.00")
	theirs := f.address(t, other.ID, "9 Far Rd")
	items := []LineItem{{ProductID: p.ID, Quantity: 1}}

	_, err := f.orders.CreateOrder(ctx, u.ID, items, theirs.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	_, err = f.orders.CreateOrder(ctx, u.ID, items, "nope")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	n, err := f.store.CountOrders(ctx, store.OrderFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateOrderDropsUnresolvableItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")
	q := f.product(t, "tea", "2.55")

	o, err := f.orders.CreateOrder(ctx, u.ID, []LineItem{
		{ProductID: "gone", Quantity: 3},
		{ProductID: q.ID, Quantity: 1},
		{ProductID: p.ID, Quantity: 1},
		{ProductID: q.ID, Quantity: 2},
	}, "")
	require.NoError(t, err)

	require.Len(t, o.Items, 2)
	assert.Equal(t, q.ID, o.Items[0].ProductID)
	assert.Equal(t, 3, o.Items[0].Quantity)
	assert.Equal(t, p.ID, o.Items[1].ProductID)
	assert.True(t, decimal.RequireFromString("17.65").Equal(o.Price))
}

func TestCreateOrderWithNoValidItemsWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	before := f.reload(t, u.ID)

	_, err := f.orders.CreateOrder(ctx, u.ID, []LineItem{{ProductID: "gone", Quantity: 1}}, "")
	assert.Equal(t, apperr.KindNoValidItems, apperr.KindOf(err))
	_, err = f.orders.CreateOrder(ctx, u.ID, nil, "")
	assert.Equal(t, apperr.KindNoValidItems, apperr.KindOf(err))

	n, err := f.store.CountOrders(ctx, store.OrderFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
	after := f.reload(t, u.ID)
	assert.Equal(t, before.Version, after.Version)
	assert.Empty(t, after.OrderIDs)
	assert.Empty(t, f.events.types())
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")

	_, err := f.orders.CreateOrder(ctx, u.ID, []LineItem{{ProductID: p.ID, Quantity: 0}}, "")
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	_, err = f.orders.CreateOrder(ctx, "ghost", []LineItem{{ProductID: p.ID, Quantity: 1}}, "")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateOrderPartialSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")
	failing := f.failWrites(t, "users", false)

	o, err := f.orders.CreateOrder(ctx, u.ID, []LineItem{{ProductID: p.ID, Quantity: 1}}, "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPartialSuccess, apperr.KindOf(err))
	assert.ErrorIs(t, err, apperr.ErrPartialSuccess)
	require.NotNil(t, o)

	_, err = f.store.FindOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, f.reload(t, u.ID).OrderIDs)

	failing.Store(false)
	report, err := f.auditor.Repair(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{o.ID}, report.OrphanOrderIDs)
	assert.Equal(t, []string{o.ID}, f.reload(t, u.ID).OrderIDs)
}

func TestCheckoutOrdersCartAndEmptiesIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")
	q := f.product(t, "tea", "2.50")

	_, err := f.orders.Checkout(ctx, u.ID, "")
	assert.Equal(t, apperr.KindNoValidItems, apperr.KindOf(err))

	_, err = f.carts.AddToCart(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddToCart(ctx, u.ID, q.ID, 1)
	require.NoError(t, err)

	o, err := f.orders.Checkout(ctx, u.ID, "")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("22.50").Equal(o.Price))

	got := f.reload(t, u.ID)
	assert.Empty(t, got.Cart)
	assert.Equal(t, []string{o.ID}, got.OrderIDs)
}

func TestCheckoutKeepsQuantityAddedMeanwhile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")
	_, err := f.carts.AddToCart(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)

	// another request adds to the cart once the order row is committed
	fired := &atomic.Bool{}
	var addErr error
	err = f.db.Callback().Create().After("gorm:commit_or_rollback_transaction").
		Register("test:add_during_checkout", func(db *gorm.DB) {
			if db.Statement.Table == "orders" && fired.CompareAndSwap(false, true) {
				_, addErr = f.carts.AddToCart(context.Background(), u.ID, p.ID, 3)
			}
		})
	require.NoError(t, err)

	o, err := f.orders.Checkout(ctx, u.ID, "")
	require.NoError(t, err)
	require.True(t, fired.Load())
	require.NoError(t, addErr)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)

	got := f.reload(t, u.ID)
	require.Len(t, got.Cart, 1)
	assert.Equal(t, domain.CartLine{ProductID: p.ID, Quantity: 3}, got.Cart[0])
	assert.Equal(t, []string{o.ID}, got.OrderIDs)
}

func TestTakeCartLines(t *testing.T) {
	u := &domain.User{Cart: []domain.CartLine{{ProductID: "a", Quantity: 5}, {ProductID: "b", Quantity: 1}, {ProductID: "c", Quantity: 2}}}
	takeCartLines(u, []domain.OrderLine{{ProductID: "a", Quantity: 2}, {ProductID: "b", Quantity: 4}})
	assert.Equal(t, []domain.CartLine{{ProductID: "a", Quantity: 3}, {ProductID: "c", Quantity: 2}}, u.Cart)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")
	o, err := f.orders.CreateOrder(ctx, u.ID, []LineItem{{ProductID: p.ID, Quantity: 1}}, "")
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, o.ID, "lost")
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	_, err = f.orders.UpdateStatus(ctx, o.ID, "shipped")
	assert.Equal(t, apperr.KindIllegalTransition, apperr.KindOf(err))
	_, err = f.orders.UpdateStatus(ctx, "nope", "paid")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	stored, err := f.store.FindOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAwaitingPayment, stored.Status)

	for _, s := range []string{"paid", "shipped", "completed"} {
		updated, err := f.orders.UpdateStatus(ctx, o.ID, s)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatus(s), updated.Status)
	}
	_, err = f.orders.UpdateStatus(ctx, o.ID, "cancelled")
	assert.Equal(t, apperr.KindIllegalTransition, apperr.KindOf(err))
}

func TestCancelOrderChecksOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	other := f.user(t, "gina")
	p := f.product(t, "mug", "10.00")
	o, err := f.orders.CreateOrder(ctx, u.ID, []LineItem{{ProductID: p.ID, Quantity: 1}}, "")
	require.NoError(t, err)

	_, err = f.orders.CancelOrder(ctx, other.ID, o.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	cancelled, err := f.orders.CancelOrder(ctx, u.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	_, err = f.orders.CancelOrder(ctx, u.ID, o.ID)
	assert.Equal(t, apperr.KindIllegalTransition, apperr.KindOf(err))
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	other := f.user(t, "gina")
	p := f.product(t, "mug", "10.00")
	items := []LineItem{{ProductID: p.ID, Quantity: 1}}
	o1, err := f.orders.CreateOrder(ctx, u.ID, items, "")
	require.NoError(t, err)
	o2, err := f.orders.CreateOrder(ctx, u.ID, items, "")
	require.NoError(t, err)

	err = f.orders.DeleteOrder(ctx, other.ID, o1.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	err = f.orders.DeleteOrder(ctx, u.ID, "nope")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	err = f.orders.DeleteOrder(ctx, "ghost", o1.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, f.orders.DeleteOrder(ctx, u.ID, o1.ID))
	_, err = f.store.FindOrder(ctx, o1.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, []string{o2.ID}, f.reload(t, u.ID).OrderIDs)
}

func TestDeleteOrderAlreadyUnlinked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	orphan := &domain.Order{UserID: u.ID, Status: domain.OrderStatusAwaitingPayment}
	require.NoError(t, f.store.CreateOrder(ctx, orphan))

	require.NoError(t, f.orders.DeleteOrder(ctx, u.ID, orphan.ID))
	_, err := f.store.FindOrder(ctx, orphan.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListOrdersIsStableAcrossInserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")
	items := []LineItem{{ProductID: p.ID, Quantity: 1}}
	var ids []string
	for i := 0; i < 3; i++ {
		o, err := f.orders.CreateOrder(ctx, u.ID, items, "")
		require.NoError(t, err)
		ids = append(ids, o.ID)
		time.Sleep(2 * time.Millisecond)
	}

	first, err := f.orders.ListOrders(ctx, store.OrderFilter{UserID: u.ID}, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, first.Total)
	assert.Equal(t, 2, first.Pages)
	require.Len(t, first.Orders, 2)
	assert.Equal(t, ids[2], first.Orders[0].ID)
	assert.Equal(t, ids[1], first.Orders[1].ID)

	time.Sleep(2 * time.Millisecond)
	_, err = f.orders.CreateOrder(ctx, u.ID, items, "")
	require.NoError(t, err)

	second, err := f.orders.ListOrders(ctx, store.OrderFilter{UserID: u.ID, AsOf: first.AsOf}, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, second.Total)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, ids[0], second.Orders[0].ID)

	fresh, err := f.orders.ListOrders(ctx, store.OrderFilter{UserID: u.ID}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, fresh.Total)
}

func TestListOrdersIncludesOrderCreatedAtAsOf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")
	o, err := f.orders.CreateOrder(ctx, u.ID, []LineItem{{ProductID: p.ID, Quantity: 1}}, "")
	require.NoError(t, err)
	assert.Equal(t, o.CreatedAt, o.CreatedAt.Truncate(domain.TimePrecision))

	for _, asOf := range []time.Time{o.CreatedAt, o.CreatedAt.Add(500 * time.Microsecond)} {
		page, err := f.orders.ListOrders(ctx, store.OrderFilter{UserID: u.ID, AsOf: asOf}, 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Orders, 1, asOf)
		assert.Equal(t, o.ID, page.Orders[0].ID)
	}

	page, err := f.orders.ListOrders(ctx, store.OrderFilter{UserID: u.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, page.AsOf, page.AsOf.Truncate(domain.TimePrecision))
	assert.False(t, page.AsOf.Before(o.CreatedAt))
}

func TestListOrdersFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	other := f.user(t, "gina")
	p := f.product(t, "mug", "10.00")
	items := []LineItem{{ProductID: p.ID, Quantity: 1}}
	mine, err := f.orders.CreateOrder(ctx, u.ID, items, "")
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, other.ID, items, "")
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(ctx, mine.ID, "paid")
	require.NoError(t, err)

	page, err := f.orders.ListOrders(ctx, store.OrderFilter{Status: domain.OrderStatusPaid}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, mine.ID, page.Orders[0].ID)

	page, err = f.orders.ListOrders(ctx, store.OrderFilter{UserID: "ghost"}, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Orders)
	assert.Empty(t, page.Orders)

	_, err = f.orders.ListOrders(ctx, store.OrderFilter{Status: "lost"}, 1, 10)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestOrderProductsKeepsSnapshotOfDeletedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank")
	p := f.product(t, "mug", "10.00")
	q := f.product(t, "tea", "2.50")
	o, err := f.orders.CreateOrder(ctx, u.ID, []LineItem{{ProductID: p.ID, Quantity: 1}, {ProductID: q.ID, Quantity: 1}}, "")
	require.NoError(t, err)
	_, err = f.store.DeleteProducts(ctx, []string{p.ID})
	require.NoError(t, err)

	got, err := f.orders.OwnedOrder(ctx, u.ID, o.ID)
	require.NoError(t, err)
	products, err := f.orders.OrderProducts(ctx, got)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Nil(t, products[0].Product)
	assert.Equal(t, "mug", products[0].Line.ProductName)
	require.NotNil(t, products[1].Product)
	assert.Equal(t, q.ID, products[1].Product.ID)
}
