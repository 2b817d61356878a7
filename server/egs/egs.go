// Package egs has services for interacting with the earley grammar server
// backend decoupled from the API that accesses it.
package egs

import (
	"github.com/dekarrin/earley/server/dao"
	"github.com/tliron/commonlog"
	"golang.org/x/crypto/bcrypt"
)

var log = commonlog.GetLogger("earley.server.egs")

// Service is a service for interacting with and modifying the grammar server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// MaxTrees is the most parse trees that a single parse will return. If
	// less than 1, there is no limit.
	MaxTrees int

	// MaxSteps bounds the work done extracting the trees of a single parse.
	// If less than 1, there is no limit.
	MaxSteps int

	// MaxGrammars is the most grammars a user may own unless their own
	// GrammarQuota says otherwise. If less than 1, there is no limit.
	MaxGrammars int

	// PasswordCost is the bcrypt cost used when hashing passwords. If not set,
	// DefaultPasswordCost is used.
	PasswordCost int
}

// DefaultPasswordCost is the bcrypt cost used when Service.PasswordCost is
// not set.
const DefaultPasswordCost = 14

func (svc Service) hashPassword(password string) ([]byte, error) {
	cost := svc.PasswordCost
	if cost == 0 {
		cost = DefaultPasswordCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}
