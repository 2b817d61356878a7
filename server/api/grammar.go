package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/earley/server/dao"
	"github.com/dekarrin/earley/server/egs"
	"github.com/dekarrin/earley/server/middle"
	"github.com/dekarrin/earley/server/result"
	"github.com/dekarrin/earley/server/serr"
)

func grammarModel(g dao.Grammar) (GrammarModel, error) {
	decoded, err := egs.DecodeGrammar(g)
	if err != nil {
		return GrammarModel{}, err
	}

	return GrammarModel{
		URI:           PathPrefix + "/grammars/" + g.ID.String(),
		ID:            g.ID.String(),
		OwnerID:       g.OwnerID.String(),
		Name:          g.Name,
		Start:         decoded.StartSymbol(),
		PartsOfSpeech: decoded.PartsOfSpeech(),
		Text:          decoded.String(),
		Created:       g.Created.Format(time.RFC3339),
		Modified:      g.Modified.Format(time.RFC3339),
	}, nil
}

// getAccessibleGrammar retrieves the grammar with the ID in the URI. If the
// grammar cannot be used by the logged-in user, the returned Result is the
// response to send and ok is false.
func (api API) getAccessibleGrammar(req *http.Request) (g dao.Grammar, r result.Result, ok bool) {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	g, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return g, result.NotFound(), false
		} else if errors.Is(err, serr.ErrBadArgument) {
			return g, result.BadRequest(err.Error(), err.Error()), false
		}
		return g, result.InternalServerError("could not get grammar: " + err.Error()), false
	}

	if g.OwnerID != user.ID && user.Role != dao.Admin {
		return g, result.Forbidden("user '%s' (role %s) access grammar %s: forbidden", user.Username, user.Role, id), false
	}

	return g, r, true
}

// HTTPGetAllGrammars returns a HandlerFunc that retrieves every grammar owned
// by the logged-in user.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return api.httpEndpoint(api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	grammars, err := api.Backend.GetUserGrammars(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]GrammarModel, len(grammars))
	for i := range grammars {
		resp[i], err = grammarModel(grammars[i])
		if err != nil {
			return result.InternalServerError(err.Error())
		}
	}

	return result.OK(resp, "user '%s' got %d grammar(s)", user.Username, len(resp))
}

// HTTPCreateGrammar returns a HandlerFunc that compiles a grammar from its
// source and stores it as owned by the logged-in user.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var createReq GrammarCreateRequest
	err := parseJSON(req, &createReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createReq.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if createReq.Text == "" {
		return result.BadRequest("text: property is empty or missing from request", "empty text")
	}

	format, err := egs.ParseSourceFormat(createReq.Format)
	if err != nil {
		return result.BadRequest("format: "+err.Error(), "format: %s", err.Error())
	}

	created, err := api.Backend.CreateGrammar(req.Context(), user.ID, createReq.Name, format, createReq.Text)
	if err != nil {
		if errors.Is(err, serr.ErrBadGrammar) {
			return result.UnprocessableEntity("text: "+err.Error(), "bad grammar: %s", err.Error())
		} else if errors.Is(err, serr.ErrQuotaExceeded) {
			return result.Err(http.StatusForbidden, err.Error(), "user '%s': %s", user.Username, err.Error())
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp, err := grammarModel(created)
	if err != nil {
		return result.InternalServerError(err.Error())
	}
	return result.Created(resp, "user '%s' created grammar %q (%s)", user.Username, resp.Name, resp.ID)
}

// HTTPGetGrammar returns a HandlerFunc that gets a stored grammar. Users may
// only get their own grammars unless they are an admin.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return api.httpEndpoint(api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	g, r, ok := api.getAccessibleGrammar(req)
	if !ok {
		return r
	}

	resp, err := grammarModel(g)
	if err != nil {
		return result.InternalServerError(err.Error())
	}
	return result.OK(resp, "user '%s' got grammar %q", user.Username, g.Name)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes a stored grammar. Users
// may only delete their own grammars unless they are an admin.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return api.httpEndpoint(api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	g, r, ok := api.getAccessibleGrammar(req)
	if !ok {
		return r
	}

	_, err := api.Backend.DeleteGrammar(req.Context(), g.ID.String())
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete grammar: " + err.Error())
	}

	return result.NoContent("user '%s' deleted grammar %q", user.Username, g.Name)
}

// HTTPParse returns a HandlerFunc that parses a sentence with a stored
// grammar and responds with every parse tree found for it.
func (api API) HTTPParse() http.HandlerFunc {
	return api.httpEndpoint(api.epParse)
}

func (api API) epParse(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	g, r, ok := api.getAccessibleGrammar(req)
	if !ok {
		return r
	}

	var parseReq ParseRequest
	err := parseJSON(req, &parseReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	res, err := api.Backend.Parse(req.Context(), g, parseReq.Sentence, parseReq.Tokens)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := ParseResponse{
		Sentence:  res.Sentence(),
		Tokens:    res.Tokens,
		Accepted:  res.Accepted,
		Trees:     make([]TreeModel, len(res.Trees)),
		Truncated: res.Truncated,
	}
	for i := range res.Trees {
		resp.Trees[i] = TreeModel{
			Outline:   res.Trees[i].String(),
			Bracketed: res.Trees[i].Bracketed(),
		}
	}
	if parseReq.Charts {
		resp.Charts = make([]string, len(res.Charts))
		for i := range res.Charts {
			resp.Charts[i] = res.Charts[i].String()
		}
	}

	return result.OK(resp, "user '%s' parsed %q with grammar %q: %d tree(s)", user.Username, resp.Sentence, g.Name, len(resp.Trees))
}
