package service

import (
	"context"
	"time"

	"shop_backend/internal/apperr"
	"shop_backend/internal/domain"
	"shop_backend/internal/events"
	"shop_backend/internal/store"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// LineItem is one requested (product, quantity) pair
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderPage is one page of an order listing
type OrderPage struct {
	Orders   []domain.Order `json:"orders"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Pages    int            `json:"pages"`
	AsOf     time.Time      `json:"as_of"` // Pass back to keep later pages stable
}

// OrderedProduct pairs an order line with the product it references, nil when deleted
type OrderedProduct struct {
	Line    domain.OrderLine `json:"line"`
	Product *domain.Product  `json:"product"`
}

// Notifier receives order events
type Notifier interface {
	Publish(ev events.Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(events.Event) {}

// OrderEngine turns line-item requests into priced orders, keeps the user's order
// list in step with the orders collection and drives the status lifecycle.
//
// Multi-document effects are sequential writes in a fixed order: the order document
// first, the owning user second. When the second write fails the caller gets the
// order back together with a PartialSuccess error.
type OrderEngine struct {
	store     *store.Store
	users     userWriter
	addresses *AddressRegistry
	carts     *CartManager
	notifier  Notifier
	now       func() time.Time
}

// NewOrderEngine wires an OrderEngine; notifier may be nil
func NewOrderEngine(st *store.Store, addresses *AddressRegistry, carts *CartManager, notifier Notifier, retries int) *OrderEngine {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &OrderEngine{
		store:     st,
		users:     newUserWriter(st, retries),
		addresses: addresses,
		carts:     carts,
		notifier:  notifier,
		now:       domain.Now,
	}
}

// CreateOrder prices items against live products and persists the order for userID.
// Items whose product cannot be found are dropped; if none survive, nothing is written.
func (e *OrderEngine) CreateOrder(ctx context.Context, userID string, items []LineItem, addressID string) (*domain.Order, error) {
	return e.place(ctx, "createOrder", userID, items, addressID, nil)
}

// Checkout orders the user's cart and takes the ordered quantities out of it in the
// same user write that links the order. Quantity added after the cart was read stays.
func (e *OrderEngine) Checkout(ctx context.Context, userID, addressID string) (*domain.Order, error) {
	const op = "checkout"
	lines, err := e.carts.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperr.E(apperr.KindNoValidItems, op, "cart is empty")
	}
	items := make([]LineItem, len(lines))
	for i, l := range lines {
		items[i] = LineItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return e.place(ctx, op, userID, items, addressID, func(u *domain.User, o *domain.Order) {
		takeCartLines(u, o.Items)
	})
}

func (e *OrderEngine) place(ctx context.Context, op, userID string, items []LineItem, addressID string, alsoOnUser func(*domain.User, *domain.Order)) (*domain.Order, error) {
	requested, err := mergeLineItems(op, items)
	if err != nil {
		return nil, err
	}
	user, err := findUser(ctx, e.store, op, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(requested))
	for i, it := range requested {
		ids[i] = it.ProductID
	}
	products, err := e.store.FindProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.OrderLine, 0, len(requested))
	var dropped []string
	for _, it := range requested {
		p, ok := products[it.ProductID]
		if !ok {
			dropped = append(dropped, it.ProductID)
			continue
		}
		lines = append(lines, domain.OrderLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    it.Quantity,
		})
	}
	if len(dropped) > 0 {
		logrus.WithFields(logrus.Fields{
			"op":       op,
			"user_id":  userID,
			"products": dropped,
		}).Warn("Dropped unresolvable line items")
	}
	if len(lines) == 0 {
		return nil, apperr.E(apperr.KindNoValidItems, op, "no line item references an existing product")
	}

	addr, err := e.addresses.ResolveShipping(ctx, user, addressID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID: userID,
		Items:  lines,
		Price:  domain.TotalPrice(lines),
		Status: domain.OrderStatusAwaitingPayment,
	}
	if addr != nil {
		order.AddressID = addr.ID
		order.AddressDetail = addr.Detail
	} else {
		logrus.WithFields(logrus.Fields{"op": op, "user_id": userID}).Warn("Order has no shipping address")
	}
	if err := e.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	_, err = e.users.mutate(ctx, op, userID, func(u *domain.User) error {
		if !u.HasOrder(order.ID) {
			u.OrderIDs = append(u.OrderIDs, order.ID)
		}
		if alsoOnUser != nil {
			alsoOnUser(u, order)
		}
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"op":       op,
			"user_id":  userID,
			"order_id": order.ID,
			"error":    err.Error(),
		}).Error("Order persisted but not linked to user")
		return order, partial(op, "order persisted but not linked to user", err)
	}

	logrus.WithFields(logrus.Fields{
		"op":       op,
		"user_id":  userID,
		"order_id": order.ID,
		"price":    order.Price.String(),
		"lines":    len(order.Items),
	}).Info("Order created")
	e.notifier.Publish(events.Event{Type: events.OrderCreated, UserID: userID, OrderID: order.ID, Payload: order})
	return order, nil
}

// mergeLineItems validates quantities and folds repeated products into one item,
// keeping first-seen order
func mergeLineItems(op string, items []LineItem) ([]LineItem, error) {
	merged := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, apperr.InvalidArgument(op, "quantity must be positive, got %d for product %q", it.Quantity, it.ProductID)
		}
		if i, ok := index[it.ProductID]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	return merged, nil
}

// GetOrder loads an order
func (e *OrderEngine) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return e.findOrder(ctx, "getOrder", orderID)
}

// OwnedOrder loads an order that must belong to userID
func (e *OrderEngine) OwnedOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	const op = "getOrder"
	o, err := e.findOrder(ctx, op, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperr.E(apperr.KindForbidden, op, "order %s is not owned by user %s", orderID, userID)
	}
	return o, nil
}

// OrderProducts resolves the products of an order's lines
func (e *OrderEngine) OrderProducts(ctx context.Context, o *domain.Order) ([]OrderedProduct, error) {
	ids := make([]string, len(o.Items))
	for i, l := range o.Items {
		ids[i] = l.ProductID
	}
	products, err := e.store.FindProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]OrderedProduct, len(o.Items))
	for i, l := range o.Items {
		out[i] = OrderedProduct{Line: l, Product: products[l.ProductID]}
	}
	return out, nil
}

// UpdateStatus moves an order along the lifecycle graph. Unknown labels are
// InvalidArgument, edges outside the graph IllegalTransition; either way the stored
// status is untouched.
func (e *OrderEngine) UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	const op = "updateStatus"
	to, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.InvalidArgument(op, "invalid order status %q", status)
	}
	o, err := e.findOrder(ctx, op, orderID)
	if err != nil {
		return nil, err
	}
	if err := e.transition(ctx, op, o, to); err != nil {
		return nil, err
	}
	return o, nil
}

// CancelOrder cancels an order owned by userID
func (e *OrderEngine) CancelOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := e.OwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if err := e.transition(ctx, "cancelOrder", o, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}
	return o, nil
}

func (e *OrderEngine) transition(ctx context.Context, op string, o *domain.Order, to domain.OrderStatus) error {
	from := o.Status
	if !from.CanTransition(to) {
		return apperr.E(apperr.KindIllegalTransition, op, "cannot move order from %s to %s", from, to)
	}
	if err := e.store.SaveOrderStatus(ctx, o, to); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"order_id": o.ID,
		"user_id":  o.UserID,
		"from":     from,
		"to":       to,
	}).Info("Order status changed")
	e.notifier.Publish(events.Event{Type: events.OrderStatusChanged, UserID: o.UserID, OrderID: o.ID, Payload: o})
	return nil
}

// DeleteOrder deletes an order owned by userID and then drops it from the user's
// order list. A reference already missing from the list is fine.
func (e *OrderEngine) DeleteOrder(ctx context.Context, userID, orderID string) error {
	const op = "deleteOrder"
	if _, err := findUser(ctx, e.store, op, userID); err != nil {
		return err
	}
	o, err := e.findOrder(ctx, op, orderID)
	if err != nil {
		return err
	}
	if o.UserID != userID {
		return apperr.E(apperr.KindForbidden, op, "order %s is not owned by user %s", orderID, userID)
	}
	if err := e.store.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	_, err = e.users.mutate(ctx, op, userID, func(u *domain.User) error {
		remaining, ok := domain.RemoveID(u.OrderIDs, orderID)
		if !ok {
			return errUnchanged
		}
		u.OrderIDs = remaining
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":  userID,
			"order_id": orderID,
			"error":    err.Error(),
		}).Error("Order deleted but still referenced by user")
		return partial(op, "order deleted but still referenced by user", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "order_id": orderID}).Info("Order deleted")
	e.notifier.Publish(events.Event{Type: events.OrderDeleted, UserID: userID, OrderID: orderID})
	return nil
}

// ListOrders returns one page of orders matching filter, newest first. A zero
// filter.AsOf is set to now; rows created after AsOf never appear, so passing the
// returned AsOf back keeps pages from shifting under concurrent inserts.
func (e *OrderEngine) ListOrders(ctx context.Context, filter store.OrderFilter, page, pageSize int) (*OrderPage, error) {
	if filter.Status != "" {
		if _, ok := domain.ParseOrderStatus(string(filter.Status)); !ok {
			return nil, apperr.InvalidArgument("listOrders", "invalid order status %q", filter.Status)
		}
	}
	if filter.AsOf.IsZero() {
		filter.AsOf = e.now()
	}
	p := store.NewPage(page, pageSize)

	var (
		total  int64
		orders []domain.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = e.store.CountOrders(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = e.store.FindOrders(gctx, filter, p)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &OrderPage{
		Orders:   orders,
		Total:    total,
		Page:     p.Number,
		PageSize: p.Size,
		Pages:    p.Pages(total),
		AsOf:     filter.AsOf,
	}, nil
}

// ExportOrders returns every order matching filter, newest first
func (e *OrderEngine) ExportOrders(ctx context.Context, filter store.OrderFilter) ([]domain.Order, error) {
	return e.store.AllOrders(ctx, filter)
}

func (e *OrderEngine) findOrder(ctx context.Context, op, orderID string) (*domain.Order, error) {
	o, err := e.store.FindOrder(ctx, orderID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.NotFound(op, "order")
	}
	return o, err
}
