package api

import (
	"net/http"

	"github.com/dekarrin/earley/internal/version"
	"github.com/dekarrin/earley/server/dao"
	"github.com/dekarrin/earley/server/middle"
	"github.com/dekarrin/earley/server/result"
)

// HTTPGetInfo returns a HandlerFunc that gives the server and parser versions
// along with the parse limits in effect. Login is optional.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.httpEndpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Earley = version.Current
	resp.Limits.MaxTrees = api.Backend.MaxTrees
	resp.Limits.MaxSteps = api.Backend.MaxSteps

	who := "unauthed client"
	if loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool); loggedIn {
		user := req.Context().Value(middle.AuthUser).(dao.User)
		who = "user '" + user.Username + "'"
	}
	return result.OK(resp, "%s got API info", who)
}
