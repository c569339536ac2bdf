package service

import (
	"context"
	"strings"

	"shop_backend/internal/apperr"
	"shop_backend/internal/domain"
	"shop_backend/internal/store"

	"github.com/sirupsen/logrus"
)

// AddressBook is a user's addresses in insertion order plus the default
type AddressBook struct {
	Addresses      []domain.Address `json:"address"`
	DefaultAddress *domain.Address  `json:"default_address"`
}

// AddressRegistry owns a user's address set and its default pointer. A user with
// addresses always has one of them as default; a user without has none.
type AddressRegistry struct {
	store *store.Store
	users userWriter
}

// NewAddressRegistry returns an AddressRegistry over st
func NewAddressRegistry(st *store.Store, retries int) *AddressRegistry {
	return &AddressRegistry{store: st, users: newUserWriter(st, retries)}
}

// AddAddress creates an address for userID and links it. The first address a user
// gets becomes the default.
func (r *AddressRegistry) AddAddress(ctx context.Context, userID, detail string) (*domain.Address, error) {
	const op = "addAddress"
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return nil, apperr.InvalidArgument(op, "address detail is required")
	}
	if _, err := findUser(ctx, r.store, op, userID); err != nil {
		return nil, err
	}

	addr := &domain.Address{UserID: userID, Detail: detail}
	if err := r.store.CreateAddress(ctx, addr); err != nil {
		return nil, err
	}

	var promoted bool
	_, err := r.users.mutate(ctx, op, userID, func(u *domain.User) error {
		u.AddressIDs = append(u.AddressIDs, addr.ID)
		promoted = !u.DefaultAddressValid()
		if promoted {
			u.DefaultAddressID = addr.ID
		}
		return nil
	})
	if err != nil {
		// Nothing references the new record yet, so removing it restores the old state.
		if delErr := r.store.DeleteAddress(ctx, addr.ID); delErr != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":    userID,
				"address_id": addr.ID,
				"error":      err.Error(),
				"cleanup":    delErr.Error(),
			}).Error("Address created but not linked to user")
			return addr, partial(op, "address created but not linked to user", err)
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"address_id": addr.ID,
		"default":    promoted,
	}).Info("Address added")
	return addr, nil
}

// UpdateAddress rewrites the detail of an address owned by userID
func (r *AddressRegistry) UpdateAddress(ctx context.Context, userID, addressID, detail string) (*domain.Address, error) {
	const op = "updateAddress"
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return nil, apperr.InvalidArgument(op, "address detail is required")
	}
	addr, err := r.findAddress(ctx, op, addressID)
	if err != nil {
		return nil, err
	}
	if addr.UserID != userID {
		return nil, apperr.E(apperr.KindForbidden, op, "address %s is not owned by user %s", addressID, userID)
	}
	addr.Detail = detail
	if err := r.store.SaveAddress(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// SetDefaultAddress makes addressID the user's default. The address must belong to the user.
func (r *AddressRegistry) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	const op = "setDefaultAddress"
	if _, err := findUser(ctx, r.store, op, userID); err != nil {
		return err
	}
	addr, err := r.findAddress(ctx, op, addressID)
	if err != nil {
		return err
	}
	if addr.UserID != userID {
		return apperr.E(apperr.KindForbidden, op, "address %s is not owned by user %s", addressID, userID)
	}
	_, err = r.users.mutate(ctx, op, userID, func(u *domain.User) error {
		if !u.OwnsAddress(addressID) {
			return apperr.E(apperr.KindForbidden, op, "address %s is not in the address set of user %s", addressID, userID)
		}
		if u.DefaultAddressID == addressID {
			return errUnchanged
		}
		u.DefaultAddressID = addressID
		return nil
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "address_id": addressID}).Info("Default address updated")
	return nil
}

// DeleteAddress unlinks addressID from the user, promoting the first remaining address
// when it was the default, then deletes the address record.
func (r *AddressRegistry) DeleteAddress(ctx context.Context, userID, addressID string) error {
	const op = "deleteAddress"
	u, err := r.users.mutate(ctx, op, userID, func(u *domain.User) error {
		remaining, ok := domain.RemoveID(u.AddressIDs, addressID)
		if !ok {
			return apperr.NotFound(op, "address")
		}
		u.AddressIDs = remaining
		if u.DefaultAddressID == addressID || !u.DefaultAddressValid() {
			u.DefaultAddressID = ""
			if len(remaining) > 0 {
				u.DefaultAddressID = remaining[0]
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := r.store.DeleteAddress(ctx, addressID); err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,
			"address_id": addressID,
			"error":      err.Error(),
		}).Error("Address unlinked but record not deleted")
		return partial(op, "address unlinked but record not deleted", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":         userID,
		"address_id":      addressID,
		"default_address": u.DefaultAddressID,
	}).Info("Address deleted")
	return nil
}

// ListAddresses returns the user's addresses and default. Dangling references are skipped.
func (r *AddressRegistry) ListAddresses(ctx context.Context, userID string) (*AddressBook, error) {
	u, err := findUser(ctx, r.store, "listAddresses", userID)
	if err != nil {
		return nil, err
	}
	byID, err := r.store.FindAddresses(ctx, u.AddressIDs)
	if err != nil {
		return nil, err
	}
	book := &AddressBook{Addresses: make([]domain.Address, 0, len(u.AddressIDs))}
	for _, id := range u.AddressIDs {
		if a, ok := byID[id]; ok {
			book.Addresses = append(book.Addresses, *a)
		}
	}
	if a, ok := byID[u.DefaultAddressID]; ok {
		book.DefaultAddress = a
	}
	return book, nil
}

// ResolveShipping picks the shipping address for an order: addressID when given,
// else the user's default. It returns nil when neither is available.
func (r *AddressRegistry) ResolveShipping(ctx context.Context, u *domain.User, addressID string) (*domain.Address, error) {
	const op = "resolveShipping"
	if addressID != "" {
		addr, err := r.findAddress(ctx, op, addressID)
		if err != nil {
			return nil, err
		}
		if addr.UserID != u.ID {
			return nil, apperr.E(apperr.KindForbidden, op, "address %s is not owned by user %s", addressID, u.ID)
		}
		return addr, nil
	}
	if u.DefaultAddressID == "" {
		return nil, nil
	}
	addr, err := r.store.FindAddress(ctx, u.DefaultAddressID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		logrus.WithFields(logrus.Fields{
			"user_id":    u.ID,
			"address_id": u.DefaultAddressID,
		}).Warn("Default address is dangling")
		return nil, nil
	}
	return addr, err
}

func (r *AddressRegistry) findAddress(ctx context.Context, op, addressID string) (*domain.Address, error) {
	addr, err := r.store.FindAddress(ctx, addressID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.NotFound(op, "address")
	}
	return addr, err
}
