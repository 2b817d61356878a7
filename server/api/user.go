package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/earley/server/dao"
	"github.com/dekarrin/earley/server/egs"
	"github.com/dekarrin/earley/server/middle"
	"github.com/dekarrin/earley/server/result"
	"github.com/dekarrin/earley/server/serr"
	"github.com/google/uuid"
)

// userModel pairs u with the grammar usage the backend reports for them.
func (api API) userModel(ctx context.Context, u dao.User) (UserModel, error) {
	usage, err := api.Backend.GetUsage(ctx, u)
	if err != nil {
		return UserModel{}, err
	}

	m := UserModel{
		URI:          PathPrefix + "/users/" + u.ID.String(),
		ID:           u.ID.String(),
		Username:     u.Username,
		Role:         u.Role.String(),
		Grammars:     usage.Grammars,
		GrammarQuota: usage.Quota,
		Created:      u.Created.Format(time.RFC3339),
	}
	if !u.LastLoginTime.IsZero() {
		m.LastLogin = u.LastLoginTime.Format(time.RFC3339)
	}
	return m, nil
}

// selfOrAdmin gets the logged-in user and the user ID in the URI. If the
// caller is neither that user nor an admin, ok is false and r is the response
// to send.
func selfOrAdmin(req *http.Request, action string) (caller dao.User, target uuid.UUID, r result.Result, ok bool) {
	caller = req.Context().Value(middle.AuthUser).(dao.User)
	target = requireIDParam(req)

	if target != caller.ID && caller.Role != dao.Admin {
		return caller, target, result.Forbidden("user '%s' (role %s) %s %s: forbidden", caller.Username, caller.Role, action, target), false
	}
	return caller, target, r, true
}

func describeTarget(caller dao.User, target uuid.UUID, name string) string {
	if target == caller.ID {
		return "self"
	}
	if name == "" {
		return "user " + target.String()
	}
	return "user '" + name + "'"
}

// HTTPGetAllUsers returns a HandlerFunc that lists every user along with how
// many grammars each has stored. Admin only.
func (api API) HTTPGetAllUsers() http.HandlerFunc {
	return api.httpEndpoint(api.epGetAllUsers)
}

func (api API) epGetAllUsers(req *http.Request) result.Result {
	caller := req.Context().Value(middle.AuthUser).(dao.User)
	if caller.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) list users: forbidden", caller.Username, caller.Role)
	}

	users, err := api.Backend.GetAllUsers(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]UserModel, len(users))
	for i := range users {
		resp[i], err = api.userModel(req.Context(), users[i])
		if err != nil {
			return result.InternalServerError(err.Error())
		}
	}

	return result.OK(resp, "user '%s' listed %d user(s)", caller.Username, len(resp))
}

// HTTPCreateUser returns a HandlerFunc that adds a user account. Admin only.
func (api API) HTTPCreateUser() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateUser)
}

func (api API) epCreateUser(req *http.Request) result.Result {
	caller := req.Context().Value(middle.AuthUser).(dao.User)
	if caller.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) create user: forbidden", caller.Username, caller.Role)
	}

	var body UserCreateRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if body.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	role := dao.Normal
	if body.Role != "" {
		var err error
		role, err = dao.ParseRole(body.Role)
		if err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	created, err := api.Backend.CreateUser(req.Context(), body.Username, body.Password, role, body.GrammarQuota)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("User with that username already exists", "user '%s' already exists", body.Username)
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp, err := api.userModel(req.Context(), created)
	if err != nil {
		return result.InternalServerError(err.Error())
	}
	return result.Created(resp, "user '%s' created user '%s' (%s)", caller.Username, resp.Username, resp.ID)
}

// HTTPGetUser returns a HandlerFunc that shows one user and their grammar
// usage. Users may see themselves; admins may see anyone.
func (api API) HTTPGetUser() http.HandlerFunc {
	return api.httpEndpoint(api.epGetUser)
}

func (api API) epGetUser(req *http.Request) result.Result {
	caller, target, r, ok := selfOrAdmin(req, "get user")
	if !ok {
		return r
	}

	found, err := api.Backend.GetUser(req.Context(), target.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get user: " + err.Error())
	}

	resp, err := api.userModel(req.Context(), found)
	if err != nil {
		return result.InternalServerError(err.Error())
	}
	return result.OK(resp, "user '%s' got %s", caller.Username, describeTarget(caller, target, found.Username))
}

// HTTPUpdateUser returns a HandlerFunc that changes a user's password, role,
// or grammar quota. Users may change their own password. Only an admin may
// change a role or a quota.
func (api API) HTTPUpdateUser() http.HandlerFunc {
	return api.httpEndpoint(api.epUpdateUser)
}

func (api API) epUpdateUser(req *http.Request) result.Result {
	caller, target, r, ok := selfOrAdmin(req, "update user")
	if !ok {
		return r
	}

	var body UserUpdateRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if (body.Role != nil || body.GrammarQuota != nil) && caller.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) change role or quota: forbidden", caller.Username, caller.Role)
	}

	upd := egs.UserUpdate{Password: body.Password, GrammarQuota: body.GrammarQuota}
	if body.Role != nil {
		role, err := dao.ParseRole(*body.Role)
		if err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
		upd.Role = &role
	}

	updated, err := api.Backend.UpdateUser(req.Context(), target.String(), upd)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError("could not update user: " + err.Error())
	}

	resp, err := api.userModel(req.Context(), updated)
	if err != nil {
		return result.InternalServerError(err.Error())
	}
	return result.OK(resp, "user '%s' updated %s", caller.Username, describeTarget(caller, target, updated.Username))
}

// HTTPDeleteUser returns a HandlerFunc that deletes a user and every grammar
// they own. Users may delete themselves; admins may delete anyone. Deleting a
// user that does not exist is not an error.
func (api API) HTTPDeleteUser() http.HandlerFunc {
	return api.httpEndpoint(api.epDeleteUser)
}

func (api API) epDeleteUser(req *http.Request) result.Result {
	caller, target, r, ok := selfOrAdmin(req, "delete user")
	if !ok {
		return r
	}

	deleted, err := api.Backend.DeleteUser(req.Context(), target.String())
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete user: " + err.Error())
	}

	return result.NoContent("user '%s' deleted %s", caller.Username, describeTarget(caller, target, deleted.Username))
}
