package service

import (
	"context"

	"shop_backend/internal/apperr"
	"shop_backend/internal/domain"
	"shop_backend/internal/store"

	"github.com/sirupsen/logrus"
)

// CartItem is a cart line resolved to its product
type CartItem struct {
	Product  *domain.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// CartManager owns the (product, quantity) lines on a user. It keeps at most one
// line per product.
type CartManager struct {
	store *store.Store
	users userWriter
}

// NewCartManager returns a CartManager over st
func NewCartManager(st *store.Store, retries int) *CartManager {
	return &CartManager{store: st, users: newUserWriter(st, retries)}
}

// AddToCart adds quantity of productID, merging into an existing line
func (m *CartManager) AddToCart(ctx context.Context, userID, productID string, quantity int) ([]domain.CartLine, error) {
	const op = "addToCart"
	if quantity <= 0 {
		return nil, apperr.InvalidArgument(op, "quantity must be positive, got %d", quantity)
	}
	if _, err := findUser(ctx, m.store, op, userID); err != nil {
		return nil, err
	}
	if _, err := m.store.FindProduct(ctx, productID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.NotFound(op, "product")
		}
		return nil, err
	}
	u, err := m.users.mutate(ctx, op, userID, func(u *domain.User) error {
		if i := u.CartLineIndex(productID); i >= 0 {
			u.Cart[i].Quantity += quantity
			return nil
		}
		u.Cart = append(u.Cart, domain.CartLine{ProductID: productID, Quantity: quantity})
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	}).Info("Product added to cart")
	return u.Cart, nil
}

// RemoveFromCart drops the line for productID; a missing line is not an error
func (m *CartManager) RemoveFromCart(ctx context.Context, userID, productID string) ([]domain.CartLine, error) {
	u, err := m.users.mutate(ctx, "removeFromCart", userID, func(u *domain.User) error {
		i := u.CartLineIndex(productID)
		if i < 0 {
			return errUnchanged
		}
		u.Cart = append(u.Cart[:i:i], u.Cart[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Cart, nil
}

// SetQuantity overwrites the quantity of an existing line
func (m *CartManager) SetQuantity(ctx context.Context, userID, productID string, quantity int) ([]domain.CartLine, error) {
	const op = "setQuantity"
	if quantity <= 0 {
		return nil, apperr.InvalidArgument(op, "quantity must be positive, got %d", quantity)
	}
	u, err := m.users.mutate(ctx, op, userID, func(u *domain.User) error {
		i := u.CartLineIndex(productID)
		if i < 0 {
			return apperr.NotFound(op, "product in cart")
		}
		if u.Cart[i].Quantity == quantity {
			return errUnchanged
		}
		u.Cart[i].Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Cart, nil
}

// ListCart resolves the user's lines to products. Lines whose product no longer
// exists are left out.
func (m *CartManager) ListCart(ctx context.Context, userID string) ([]CartItem, error) {
	const op = "listCart"
	u, err := findUser(ctx, m.store, op, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(u.Cart))
	for i, line := range u.Cart {
		ids[i] = line.ProductID
	}
	products, err := m.store.FindProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]CartItem, 0, len(u.Cart))
	for _, line := range u.Cart {
		p, ok := products[line.ProductID]
		if !ok {
			logrus.WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": line.ProductID,
			}).Warn("Cart line references a missing product")
			continue
		}
		items = append(items, CartItem{Product: p, Quantity: line.Quantity})
	}
	return items, nil
}

// Lines returns the raw cart lines of a user
func (m *CartManager) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	u, err := findUser(ctx, m.store, "cartLines", userID)
	if err != nil {
		return nil, err
	}
	return u.Cart, nil
}

// takeCartLines subtracts the ordered quantities from u's cart, dropping lines that reach zero
func takeCartLines(u *domain.User, ordered []domain.OrderLine) {
	taken := make(map[string]int, len(ordered))
	for _, l := range ordered {
		taken[l.ProductID] += l.Quantity
	}
	kept := u.Cart[:0:0]
	for _, line := range u.Cart {
		line.Quantity -= taken[line.ProductID]
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	u.Cart = kept
}
