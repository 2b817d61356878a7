package api

import (
	"net/http"

	"github.com/dekarrin/earley/server/dao"
	"github.com/dekarrin/earley/server/middle"
	"github.com/dekarrin/earley/server/result"
	"github.com/dekarrin/earley/server/token"
)

// HTTPCreateToken returns a HandlerFunc that issues a fresh token to the
// logged-in client without asking for credentials again. Earlier tokens stay
// valid until they expire or the user logs out.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	return result.Created(loginResponse(user, tok), "user '%s' refreshed their token", user.Username)
}

func loginResponse(user dao.User, tok string) LoginResponse {
	return LoginResponse{
		Token:     tok,
		UserID:    user.ID.String(),
		ExpiresIn: int(token.Lifetime.Seconds()),
	}
}
