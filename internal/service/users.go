// Package service holds the order and account consistency core: the cart manager,
// the address registry and the order engine, plus the account and catalog services
// the HTTP layer calls.
package service

import (
	"context"
	"errors"

	"shop_backend/internal/apperr"
	"shop_backend/internal/domain"
	"shop_backend/internal/store"

	"github.com/sirupsen/logrus"
)

// errUnchanged tells userWriter.mutate that the document needs no write
var errUnchanged = errors.New("unchanged")

// userWriter runs read-modify-write cycles on user documents. A cycle that loses an
// optimistic race is re-read and re-applied, up to retries attempts.
type userWriter struct {
	store   *store.Store
	retries int
}

func newUserWriter(st *store.Store, retries int) userWriter {
	if retries < 1 {
		retries = 1
	}
	return userWriter{store: st, retries: retries}
}

// mutate loads the user, applies fn and saves it. fn may return errUnchanged to skip
// the write; any other error aborts without writing.
func (w userWriter) mutate(ctx context.Context, op, userID string, fn func(u *domain.User) error) (*domain.User, error) {
	for attempt := 1; ; attempt++ {
		u, err := w.store.FindUser(ctx, userID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return nil, apperr.NotFound(op, "user")
			}
			return nil, err
		}
		if err := fn(u); err != nil {
			if errors.Is(err, errUnchanged) {
				return u, nil
			}
			return nil, err
		}
		err = w.store.SaveUser(ctx, u)
		if err == nil {
			return u, nil
		}
		if apperr.KindOf(err) != apperr.KindConflict || attempt >= w.retries {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"op":      op,
			"user_id": userID,
			"attempt": attempt,
		}).Debug("User write conflicted, retrying")
	}
}

// findUser loads a user, reporting absence under op
func findUser(ctx context.Context, st *store.Store, op, userID string) (*domain.User, error) {
	u, err := st.FindUser(ctx, userID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.NotFound(op, "user")
	}
	return u, err
}

// partial reports a multi-document operation whose first write landed and a later one did not
func partial(op, msg string, cause error) error {
	return &apperr.Error{Kind: apperr.KindPartialSuccess, Op: op, Msg: msg, Err: cause}
}
