package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/earley/server/result"
	"github.com/dekarrin/earley/server/serr"
	"github.com/dekarrin/earley/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that exchanges a username and password
// for a bearer token.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	var creds LoginRequest
	if err := parseJSON(req, &creds); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if creds.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if creds.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	user, err := api.Backend.Login(req.Context(), creds.Username, creds.Password)
	if errors.Is(err, serr.ErrBadCredentials) {
		return result.Unauthorized(serr.ErrBadCredentials.Error(), "login as '%s': %s", creds.Username, err.Error())
	} else if err != nil {
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	return result.Created(loginResponse(user, tok), "user '%s' logged in", user.Username)
}

// HTTPDeleteLogin returns a HandlerFunc that logs a user out, which revokes
// every token issued to them so far. Users may log themselves out; admins may
// log out anyone.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return api.httpEndpoint(api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	caller, target, r, ok := selfOrAdmin(req, "log out user")
	if !ok {
		return r
	}

	out, err := api.Backend.Logout(req.Context(), target)
	if errors.Is(err, serr.ErrNotFound) {
		return result.NotFound()
	} else if err != nil {
		return result.InternalServerError("could not log out user: " + err.Error())
	}

	return result.NoContent("user '%s' logged out %s", caller.Username, describeTarget(caller, target, out.Username))
}
