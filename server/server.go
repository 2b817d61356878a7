// Package server provides an HTTP REST server that stores grammars for users
// and parses sentences with them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dekarrin/earley/server/api"
	"github.com/dekarrin/earley/server/dao"
	"github.com/dekarrin/earley/server/egs"
	"github.com/dekarrin/earley/server/serr"
	"github.com/tliron/commonlog"
)

// AdminUsername is the name of the admin account created at startup when
// Config.AdminPassword is set.
const AdminUsername = "admin"

var log = commonlog.GetLogger("earley.server")

// server:
//
//	POST   /login               - accepts user and password and returns a jwt.
//	DELETE /login/{id}          - ends user authentication session.
//	POST   /tokens              - refreshes the token without requiring credentials (requires auth)
//	POST   /users               - create a new user account (admin auth required)
//	GET    /users               - get all users (admin auth required)
//	GET    /users/{id}          - get a user and their grammar usage (auth required)
//	PATCH  /users/{id}          - change password, or role and quota as admin (auth required)
//	DELETE /users/{id}          - delete a user and their grammars (auth required)
//	POST   /grammars            - upload a new grammar within the caller's quota (auth required)
//	GET    /grammars            - get the caller's grammars (auth required)
//	GET    /grammars/{id}       - get a grammar (auth required)
//	DELETE /grammars/{id}       - delete a grammar (auth required)
//	POST   /grammars/{id}/parse - parse a sentence with a grammar (auth required)
//	GET    /info                - get version info on the server and parser.

// Server is an HTTP REST server that hosts grammars and parses with them. The
// zero-value of a Server should not be used directly; call New() to get one
// ready for use.
type Server struct {
	router http.Handler
	db     dao.Store
	api    api.API
}

// New creates a new Server from the given config. Unset values in cfg are not
// defaulted; call Config.FillDefaults first if that is wanted.
func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	srv := &Server{
		db: db,
		api: api.API{
			Backend: egs.Service{
				DB:       db,
				MaxTrees: cfg.MaxTrees,
				MaxSteps: cfg.MaxSteps,

				MaxGrammars: cfg.MaxGrammars,

				PasswordCost: cfg.PasswordCost,
			},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	srv.router = newRouter(srv.api)

	if cfg.AdminPassword != "" {
		if err := srv.ensureAdmin(context.Background(), cfg.AdminPassword); err != nil {
			db.Close()
			return nil, err
		}
	}

	log.Debugf("server initialized with %s DB", cfg.DB.Type)
	return srv, nil
}

func (srv *Server) ensureAdmin(ctx context.Context, password string) error {
	_, err := srv.api.Backend.CreateUser(ctx, AdminUsername, password, dao.Admin, 0)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("could not create initial admin user: %w", err)
	}

	log.Infof("added initial admin user %q", AdminUsername)
	return nil
}

// Service returns the service layer that the server's API calls.
func (srv *Server) Service() egs.Service {
	return srv.api.Backend
}

// ServeHTTP makes Server an http.Handler for the API.
func (srv *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	srv.router.ServeHTTP(w, req)
}

// Close closes the server's persistence store.
func (srv *Server) Close() error {
	return srv.db.Close()
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080. It only returns if the listener
// fails.
func (srv *Server) ServeForever(address string, port int) error {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Infof("listening on %s", listenAddress)
	return http.ListenAndServe(listenAddress, srv)
}
