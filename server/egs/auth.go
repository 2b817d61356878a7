package egs

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/dekarrin/earley/server/dao"
	"github.com/dekarrin/earley/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Login checks password against the stored hash for username and records the
// login time. An unknown username and a wrong password both give an error
// matching serr.ErrBadCredentials.
func (svc Service) Login(ctx context.Context, username, password string) (dao.User, error) {
	user, err := svc.DB.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.WrapDB("", err)
	}

	if err := checkPassword(user.Password, password); err != nil {
		return dao.User{}, err
	}

	user, err = svc.stamp(ctx, user, func(u *dao.User, now time.Time) { u.LastLoginTime = now })
	if err != nil {
		return dao.User{}, err
	}

	log.Debugf("user %q logged in", user.Username)
	return user, nil
}

// Logout records a logout for the user with the given ID. Tokens are signed
// with the logout time, so every token issued before now stops validating.
// The error matches serr.ErrNotFound if there is no such user.
func (svc Service) Logout(ctx context.Context, who uuid.UUID) (dao.User, error) {
	user, err := svc.userByID(ctx, who)
	if err != nil {
		return dao.User{}, err
	}

	user, err = svc.stamp(ctx, user, func(u *dao.User, now time.Time) { u.LastLogoutTime = now })
	if err != nil {
		return dao.User{}, err
	}

	log.Debugf("user %q logged out", user.Username)
	return user, nil
}

// stamp sets one of user's session times to the current time and saves it.
func (svc Service) stamp(ctx context.Context, user dao.User, set func(*dao.User, time.Time)) (dao.User, error) {
	set(&user, time.Now())

	saved, err := svc.DB.Users().Update(ctx, user.ID, user)
	if err != nil {
		return dao.User{}, serr.WrapDB("could not save session time", err)
	}
	return saved, nil
}

// Stored passwords are bcrypt hashes kept as base64 text.

func (svc Service) encodePassword(password string) (string, error) {
	hash, err := svc.hashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return "", serr.New("password could not be hashed", err)
	}
	return base64.StdEncoding.EncodeToString(hash), nil
}

func checkPassword(stored, given string) error {
	hash, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return serr.New("stored password is corrupt", err)
	}

	err = bcrypt.CompareHashAndPassword(hash, []byte(given))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return serr.ErrBadCredentials
	} else if err != nil {
		return serr.New("could not check password", err)
	}
	return nil
}
