package egs

import (
	"context"
	"errors"
	"fmt"

	"github.com/dekarrin/earley/server/dao"
	"github.com/dekarrin/earley/server/serr"
	"github.com/google/uuid"
)

// Usage is how much of their grammar storage a user has taken up.
type Usage struct {
	// Grammars is the number of grammars the user owns.
	Grammars int

	// Quota is the most grammars the user may own. Zero is no limit.
	Quota int
}

// Full returns whether the user cannot store another grammar.
func (u Usage) Full() bool {
	return u.Quota > 0 && u.Grammars >= u.Quota
}

// UserUpdate holds the changes to make to a user in UpdateUser. Nil fields are
// left as they are.
type UserUpdate struct {
	Password *string
	Role     *dao.Role

	// GrammarQuota replaces the user's own grammar quota. Zero puts the user
	// back on the service-wide MaxGrammars.
	GrammarQuota *int
}

// QuotaFor gives the most grammars user may own. Admins are never limited.
// Zero is no limit.
func (svc Service) QuotaFor(user dao.User) int {
	if user.Role == dao.Admin {
		return 0
	}
	if user.GrammarQuota > 0 {
		return user.GrammarQuota
	}
	if svc.MaxGrammars > 0 {
		return svc.MaxGrammars
	}
	return 0
}

// GetUsage counts the grammars owned by user and pairs the count with the
// quota that applies to them.
func (svc Service) GetUsage(ctx context.Context, user dao.User) (Usage, error) {
	owned, err := svc.DB.Grammars().GetAllByOwner(ctx, user.ID)
	if err != nil {
		return Usage{}, serr.WrapDB("could not count grammars", err)
	}
	return Usage{Grammars: len(owned), Quota: svc.QuotaFor(user)}, nil
}

// GetAllUsers returns every user, ordered by username.
func (svc Service) GetAllUsers(ctx context.Context) ([]dao.User, error) {
	users, err := svc.DB.Users().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}

	return users, nil
}

// GetUser returns the user with the given ID. The error matches
// serr.ErrNotFound if there is no such user and serr.ErrBadArgument if the ID
// is malformed.
func (svc Service) GetUser(ctx context.Context, id string) (dao.User, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.User{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	return svc.userByID(ctx, uuidID)
}

// CreateUser adds an account that can log in with the given username and
// password. quota is the user's own grammar quota; zero leaves them on the
// service-wide MaxGrammars.
//
// The error matches serr.ErrAlreadyExists if the username is taken and
// serr.ErrBadArgument if any argument is unusable.
func (svc Service) CreateUser(ctx context.Context, username, password string, role dao.Role, quota int) (dao.User, error) {
	if username == "" {
		return dao.User{}, serr.New("username cannot be blank", serr.ErrBadArgument)
	}
	if password == "" {
		return dao.User{}, serr.New("password cannot be blank", serr.ErrBadArgument)
	}
	if quota < 0 {
		return dao.User{}, serr.New("grammar quota cannot be negative", serr.ErrBadArgument)
	}

	hash, err := svc.encodePassword(password)
	if err != nil {
		return dao.User{}, err
	}

	user, err := svc.DB.Users().Create(ctx, dao.User{
		Username:     username,
		Password:     hash,
		Role:         role,
		GrammarQuota: quota,
	})
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.User{}, serr.New(fmt.Sprintf("username %q is taken", username), serr.ErrAlreadyExists)
		}
		return dao.User{}, serr.WrapDB("could not create user", err)
	}

	log.Infof("created user %q with role %s", user.Username, user.Role)
	return user, nil
}

// UpdateUser applies upd to the user with the given ID and returns the result.
// A new password invalidates every token already issued to the user.
//
// The error matches serr.ErrNotFound if there is no such user and
// serr.ErrBadArgument if the ID or any change is unusable.
func (svc Service) UpdateUser(ctx context.Context, id string, upd UserUpdate) (dao.User, error) {
	user, err := svc.GetUser(ctx, id)
	if err != nil {
		return dao.User{}, err
	}

	if upd.Password != nil {
		if *upd.Password == "" {
			return dao.User{}, serr.New("password cannot be blank", serr.ErrBadArgument)
		}
		user.Password, err = svc.encodePassword(*upd.Password)
		if err != nil {
			return dao.User{}, err
		}
	}
	if upd.GrammarQuota != nil {
		if *upd.GrammarQuota < 0 {
			return dao.User{}, serr.New("grammar quota cannot be negative", serr.ErrBadArgument)
		}
		user.GrammarQuota = *upd.GrammarQuota
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}

	updated, err := svc.DB.Users().Update(ctx, user.ID, user)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrNotFound
		}
		return dao.User{}, serr.WrapDB("could not update user", err)
	}

	log.Debugf("updated user %q", updated.Username)
	return updated, nil
}

// DeleteUser deletes the user with the given ID along with every grammar they
// own, and returns the user as it was. The error matches the same errors as
// GetUser.
func (svc Service) DeleteUser(ctx context.Context, id string) (dao.User, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.User{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	// inmem has no cascading deletes, so owned grammars go first.
	owned, err := svc.DB.Grammars().GetAllByOwner(ctx, uuidID)
	if err != nil {
		return dao.User{}, serr.WrapDB("could not get user grammars", err)
	}
	for _, g := range owned {
		if _, err := svc.DB.Grammars().Delete(ctx, g.ID); err != nil && !errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.WrapDB("could not delete user grammar", err)
		}
	}

	user, err := svc.DB.Users().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrNotFound
		}
		return dao.User{}, serr.WrapDB("could not delete user", err)
	}

	log.Infof("deleted user %q and %d grammar(s)", user.Username, len(owned))
	return user, nil
}

func (svc Service) userByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	user, err := svc.DB.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrNotFound
		}
		return dao.User{}, serr.WrapDB("could not get user", err)
	}
	return user, nil
}
