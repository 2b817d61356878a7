// Package dao provides data access objects for use in the earley parse server.
package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Grammars() GrammarRepository
	Close() error
}

type UserRepository interface {

	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)

	// GetAll returns every user ordered by username.
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

// GrammarRepository holds the grammars that users have uploaded to the server.
type GrammarRepository interface {

	// Create creates a new Grammar. The ID, Created, and Modified fields are
	// generated; all others are taken from the provided Grammar.
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)

	// GetAllByOwner returns every grammar owned by the user with the given
	// ID. If there are none, the returned slice is empty and the error is
	// nil.
	GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]Grammar, error)
	Update(ctx context.Context, id uuid.UUID, g Grammar) (Grammar, error)
	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)
	Close() error
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

type User struct {
	ID       uuid.UUID
	Username string
	Password string
	Role     Role

	// GrammarQuota is the most grammars the user may own. Zero means the
	// server-wide limit applies.
	GrammarQuota int

	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}

// Grammar is a stored grammar. Data holds the grammar in its binary encoding
// as produced by grammar.Grammar.MarshalBinary; the dao layer does not look
// inside it.
type Grammar struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	Name     string
	Data     []byte
	Created  time.Time
	Modified time.Time
}
