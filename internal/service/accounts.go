package service

import (
	"context"
	"regexp"
	"strings"

	"shop_backend/internal/apperr"
	"shop_backend/internal/auth"
	"shop_backend/internal/domain"
	"shop_backend/internal/store"

	"github.com/sirupsen/logrus"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

// ProfileUpdate carries optional profile fields; nil fields are left alone
type ProfileUpdate struct {
	Nickname *string `json:"nickname"`
	Avatar   *string `json:"avatar"`
	Gender   *string `json:"gender"`
}

// UserPage is one page of a user listing
type UserPage struct {
	Users []domain.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
}

// Session is the result of a successful login
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Accounts registers, authenticates and edits users
type Accounts struct {
	store   *store.Store
	users   userWriter
	gateway *auth.Gateway
}

// NewAccounts returns an Accounts service
func NewAccounts(st *store.Store, gateway *auth.Gateway, retries int) *Accounts {
	return &Accounts{store: st, users: newUserWriter(st, retries), gateway: gateway}
}

// Register creates a user with a hashed password
func (a *Accounts) Register(ctx context.Context, username, password string) (*domain.User, error) {
	const op = "register"
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, apperr.InvalidArgument(op, "username must be 3-32 letters, digits or underscores")
	}
	if len(password) < 8 || len(password) > 64 {
		return nil, apperr.InvalidArgument(op, "password must be 8-64 characters")
	}
	if _, err := a.store.FindUserByUsername(ctx, username); err == nil {
		return nil, apperr.E(apperr.KindConflict, op, "username already exists")
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	u := &domain.User{Username: username, Password: hash, Nickname: "user", Role: domain.RoleUser}
	if err := a.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": u.ID, "username": username}).Info("User registered")
	return u, nil
}

// Login checks credentials and issues a token
func (a *Accounts) Login(ctx context.Context, username, password string) (*Session, error) {
	const op = "login"
	u, err := a.store.FindUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.E(apperr.KindUnauthenticated, op, "invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, apperr.E(apperr.KindUnauthenticated, op, "invalid credentials")
	}
	token, err := a.gateway.Issue(auth.Identity{UserID: u.ID, Role: u.Role})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	return &Session{User: u, Token: token}, nil
}

// Profile loads a user
func (a *Accounts) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return findUser(ctx, a.store, "profile", userID)
}

// UpdateProfile applies the non-nil fields of upd
func (a *Accounts) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*domain.User, error) {
	return a.users.mutate(ctx, "updateProfile", userID, func(u *domain.User) error {
		if upd.Nickname == nil && upd.Avatar == nil && upd.Gender == nil {
			return errUnchanged
		}
		if upd.Nickname != nil {
			u.Nickname = *upd.Nickname
		}
		if upd.Avatar != nil {
			u.Avatar = *upd.Avatar
		}
		if upd.Gender != nil {
			u.Gender = *upd.Gender
		}
		return nil
	})
}

// ChangePassword replaces the password after checking the old one
func (a *Accounts) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	const op = "changePassword"
	if len(newPassword) < 8 || len(newPassword) > 64 {
		return apperr.InvalidArgument(op, "password must be 8-64 characters")
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindUnknown, op, err)
	}
	_, err = a.users.mutate(ctx, op, userID, func(u *domain.User) error {
		if !auth.CheckPassword(u.Password, oldPassword) {
			return apperr.E(apperr.KindUnauthenticated, op, "invalid old password")
		}
		u.Password = hash
		return nil
	})
	if err != nil {
		return err
	}
	logrus.WithField("user_id", userID).Info("Password changed")
	return nil
}

// ListUsers returns one page of users
func (a *Accounts) ListUsers(ctx context.Context, page, pageSize int) (*UserPage, error) {
	p := store.NewPage(page, pageSize)
	users, total, err := a.store.ListUsers(ctx, p)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total, Page: p.Number, Pages: p.Pages(total)}, nil
}

// DeleteUsers removes users by id. Their orders and addresses are left in place
// and show up as orphans of a missing owner.
func (a *Accounts) DeleteUsers(ctx context.Context, ids []string) (int64, error) {
	n, err := a.store.DeleteUsers(ctx, ids)
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"ids": ids, "deleted": n}).Info("Users deleted")
	return n, nil
}
