package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/earley/grammar"
	"github.com/dekarrin/earley/server/api"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

const testAdminPassword = "correct horse"

func newTestServer(t *testing.T, maxTrees int) *Server {
	cfg := Config{
		MaxTrees:          maxTrees,
		AdminPassword:     testAdminPassword,
		PasswordCost:      bcrypt.MinCost,
		UnauthDelayMillis: -1,
	}.FillDefaults()

	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("could not create server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

// do sends a request with a JSON body (if body is non-nil) to srv and decodes
// the JSON response into respObj (if non-nil). It returns the status code.
func do(t *testing.T, srv *Server, method, path, tok string, body, respObj interface{}) int {
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("could not encode request: %v", err)
		}
	}

	req := httptest.NewRequest(method, api.PathPrefix+path, &reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if respObj != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), respObj); err != nil {
			t.Fatalf("could not decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code
}

func login(t *testing.T, srv *Server) string {
	return loginAs(t, srv, AdminUsername, testAdminPassword)
}

func loginAs(t *testing.T, srv *Server, username, password string) string {
	var resp api.LoginResponse
	status := do(t, srv, "POST", "/login", "", api.LoginRequest{Username: username, Password: password}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("login as %q failed with HTTP-%d", username, status)
	}
	return resp.Token
}

// addUser has the admin create a normal user and returns it.
func addUser(t *testing.T, srv *Server, adminTok, username string, quota int) api.UserModel {
	var created api.UserModel
	req := api.UserCreateRequest{Username: username, Password: "hunter2", GrammarQuota: quota}
	status := do(t, srv, "POST", "/users", adminTok, req, &created)
	if status != http.StatusCreated {
		t.Fatalf("creating user %q failed with HTTP-%d", username, status)
	}
	return created
}

func Test_Server_Info(t *testing.T) {
	assert := assert.New(t)

	// setup
	srv := newTestServer(t, 3)

	// execute
	var resp api.InfoModel
	status := do(t, srv, "GET", "/info", "", nil, &resp)

	// assert
	assert.Equal(http.StatusOK, status)
	assert.NotEmpty(resp.Version.Server)
	assert.NotEmpty(resp.Version.Earley)
	assert.Equal(3, resp.Limits.MaxTrees)
	assert.Equal(DefaultMaxSteps, resp.Limits.MaxSteps)
}

func Test_Server_RefreshToken(t *testing.T) {
	assert := assert.New(t)

	// setup
	srv := newTestServer(t, 0)
	tok := login(t, srv)

	// execute
	var resp api.LoginResponse
	status := do(t, srv, "POST", "/tokens", tok, nil, &resp)
	unauthedStatus := do(t, srv, "POST", "/tokens", "", nil, nil)

	// assert
	assert.Equal(http.StatusCreated, status)
	assert.NotEmpty(resp.Token)
	assert.Equal(3600, resp.ExpiresIn)
	assert.Equal(http.StatusUnauthorized, unauthedStatus)
}

func Test_Server_Login(t *testing.T) {
	testCases := []struct {
		name         string
		username     string
		password     string
		expectStatus int
	}{
		{name: "good credentials", username: AdminUsername, password: testAdminPassword, expectStatus: http.StatusCreated},
		{name: "wrong password", username: AdminUsername, password: "nope", expectStatus: http.StatusUnauthorized},
		{name: "unknown user", username: "nobody", password: "nope", expectStatus: http.StatusUnauthorized},
		{name: "missing password", username: AdminUsername, expectStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			srv := newTestServer(t, 0)

			// execute
			status := do(t, srv, "POST", "/login", "", api.LoginRequest{Username: tc.username, Password: tc.password}, nil)

			// assert
			assert.Equal(tc.expectStatus, status)
		})
	}
}

func Test_Server_GrammarsRequireAuth(t *testing.T) {
	assert := assert.New(t)

	// setup
	srv := newTestServer(t, 0)

	// execute
	status := do(t, srv, "GET", "/grammars", "", nil, nil)

	// assert
	assert.Equal(http.StatusUnauthorized, status)
}

func Test_Server_CreateGrammar_Errors(t *testing.T) {
	testCases := []struct {
		name         string
		req          api.GrammarCreateRequest
		expectStatus int
	}{
		{name: "missing name", req: api.GrammarCreateRequest{Text: "S -> Noun ; Noun -> dogs ;"}, expectStatus: http.StatusBadRequest},
		{name: "missing text", req: api.GrammarCreateRequest{Name: "g"}, expectStatus: http.StatusBadRequest},
		{name: "unknown format", req: api.GrammarCreateRequest{Name: "g", Format: "yaml", Text: "S -> Noun ;"}, expectStatus: http.StatusBadRequest},
		{name: "bad grammar", req: api.GrammarCreateRequest{Name: "g", Text: "S -> ;"}, expectStatus: http.StatusUnprocessableEntity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			srv := newTestServer(t, 0)
			tok := login(t, srv)

			// execute
			status := do(t, srv, "POST", "/grammars", tok, tc.req, nil)

			// assert
			assert.Equal(tc.expectStatus, status)
		})
	}
}

func Test_Server_GrammarLifecycle(t *testing.T) {
	assert := assert.New(t)

	// setup
	srv := newTestServer(t, 0)
	tok := login(t, srv)

	// execute: create
	var created api.GrammarModel
	status := do(t, srv, "POST", "/grammars", tok, api.GrammarCreateRequest{Name: "simple", Text: grammar.Simple().String()}, &created)
	if !assert.Equal(http.StatusCreated, status) {
		return
	}
	assert.Equal("simple", created.Name)
	assert.Equal("S", created.Start)
	assert.Equal([]string{"Noun", "Verb", "Prep"}, created.PartsOfSpeech)

	// execute: list
	var listed []api.GrammarModel
	status = do(t, srv, "GET", "/grammars", tok, nil, &listed)
	assert.Equal(http.StatusOK, status)
	assert.Len(listed, 1)

	// execute: get
	var fetched api.GrammarModel
	status = do(t, srv, "GET", "/grammars/"+created.ID, tok, nil, &fetched)
	assert.Equal(http.StatusOK, status)
	assert.Equal(created.Text, fetched.Text)

	// execute: delete
	status = do(t, srv, "DELETE", "/grammars/"+created.ID, tok, nil, nil)
	assert.Equal(http.StatusNoContent, status)

	status = do(t, srv, "GET", "/grammars/"+created.ID, tok, nil, nil)
	assert.Equal(http.StatusNotFound, status)
}

func Test_Server_Parse(t *testing.T) {
	testCases := []struct {
		name            string
		maxTrees        int
		req             api.ParseRequest
		expectStatus    int
		expectAccepted  bool
		expectTrees     int
		expectBracketed []string
		expectCharts    int
	}{
		{
			name:           "ambiguous sentence",
			req:            api.ParseRequest{Sentence: "John called Mary from Denver"},
			expectStatus:   http.StatusOK,
			expectAccepted: true,
			expectTrees:    2,
			expectBracketed: []string{
				"[S [NP [Noun John]] [VP [VP [Verb called] [NP [Noun Mary]]] [PP [Prep from] [NP [Noun Denver]]]]]",
				"[S [NP [Noun John]] [VP [Verb called] [NP [NP [Noun Mary]] [PP [Prep from] [NP [Noun Denver]]]]]]",
			},
		},
		{
			name:           "tokens with charts",
			req:            api.ParseRequest{Tokens: []string{"John", "called", "Mary"}, Charts: true},
			expectStatus:   http.StatusOK,
			expectAccepted: true,
			expectTrees:    1,
			expectBracketed: []string{
				"[S [NP [Noun John]] [VP [Verb called] [NP [Noun Mary]]]]",
			},
			expectCharts: 4,
		},
		{
			name:            "rejected",
			req:             api.ParseRequest{Sentence: "called John"},
			expectStatus:    http.StatusOK,
			expectAccepted:  false,
			expectBracketed: []string{},
		},
		{
			name:           "tree limit",
			maxTrees:       1,
			req:            api.ParseRequest{Sentence: "John called Mary from Denver"},
			expectStatus:   http.StatusOK,
			expectAccepted: true,
			expectTrees:    1,
		},
		{
			name:         "blank sentence",
			req:          api.ParseRequest{},
			expectStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			srv := newTestServer(t, tc.maxTrees)
			tok := login(t, srv)
			var created api.GrammarModel
			status := do(t, srv, "POST", "/grammars", tok, api.GrammarCreateRequest{Name: "simple", Text: grammar.Simple().String()}, &created)
			if !assert.Equal(http.StatusCreated, status) {
				return
			}

			// execute
			var resp api.ParseResponse
			status = do(t, srv, "POST", "/grammars/"+created.ID+"/parse", tok, tc.req, &resp)

			// assert
			if !assert.Equal(tc.expectStatus, status) {
				return
			}
			if tc.expectStatus != http.StatusOK {
				return
			}
			assert.Equal(tc.expectAccepted, resp.Accepted)
			assert.False(resp.Truncated)

			actualBracketed := make([]string, len(resp.Trees))
			for i := range resp.Trees {
				actualBracketed[i] = resp.Trees[i].Bracketed
				assert.NotEmpty(resp.Trees[i].Outline)
			}
			assert.Len(actualBracketed, tc.expectTrees)
			if tc.expectBracketed != nil {
				assert.ElementsMatch(tc.expectBracketed, actualBracketed)
			}
			assert.Len(resp.Charts, tc.expectCharts)
		})
	}
}

func Test_Server_GrammarQuota(t *testing.T) {
	assert := assert.New(t)

	// setup
	srv := newTestServer(t, 0)
	adminTok := login(t, srv)
	ada := addUser(t, srv, adminTok, "ada", 1)
	adaTok := loginAs(t, srv, "ada", "hunter2")
	g := api.GrammarCreateRequest{Name: "simple", Text: grammar.Simple().String()}

	// execute
	firstStatus := do(t, srv, "POST", "/grammars", adaTok, g, nil)
	secondStatus := do(t, srv, "POST", "/grammars", adaTok, g, nil)
	var usage api.UserModel
	getStatus := do(t, srv, "GET", "/users/"+ada.ID, adaTok, nil, &usage)

	// assert
	assert.Equal(http.StatusCreated, firstStatus)
	assert.Equal(http.StatusForbidden, secondStatus)
	if assert.Equal(http.StatusOK, getStatus) {
		assert.Equal(1, usage.Grammars)
		assert.Equal(1, usage.GrammarQuota)
	}

	// raising the quota lets the next upload through
	raised := 2
	status := do(t, srv, "PATCH", "/users/"+ada.ID, adminTok, api.UserUpdateRequest{GrammarQuota: &raised}, &usage)
	assert.Equal(http.StatusOK, status)
	assert.Equal(2, usage.GrammarQuota)
	assert.Equal(http.StatusCreated, do(t, srv, "POST", "/grammars", adaTok, g, nil))
}

func Test_Server_UpdateUser(t *testing.T) {
	newPass := "tr0ub4dor"
	quota := 5
	role := "admin"

	testCases := []struct {
		name         string
		asAdmin      bool
		otherUser    bool
		req          api.UserUpdateRequest
		expectStatus int
	}{
		{name: "own password", req: api.UserUpdateRequest{Password: &newPass}, expectStatus: http.StatusOK},
		{name: "own quota", req: api.UserUpdateRequest{GrammarQuota: &quota}, expectStatus: http.StatusForbidden},
		{name: "own role", req: api.UserUpdateRequest{Role: &role}, expectStatus: http.StatusForbidden},
		{name: "someone else", otherUser: true, req: api.UserUpdateRequest{Password: &newPass}, expectStatus: http.StatusForbidden},
		{name: "admin sets quota", asAdmin: true, req: api.UserUpdateRequest{GrammarQuota: &quota}, expectStatus: http.StatusOK},
		{name: "admin sets role", asAdmin: true, req: api.UserUpdateRequest{Role: &role}, expectStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			srv := newTestServer(t, 0)
			adminTok := login(t, srv)
			ada := addUser(t, srv, adminTok, "ada", 0)
			grace := addUser(t, srv, adminTok, "grace", 0)
			tok := loginAs(t, srv, "ada", "hunter2")
			if tc.asAdmin {
				tok = adminTok
			}
			target := ada.ID
			if tc.otherUser {
				target = grace.ID
			}

			// execute
			status := do(t, srv, "PATCH", "/users/"+target, tok, tc.req, nil)

			// assert
			assert.Equal(tc.expectStatus, status)
		})
	}
}

func Test_Server_PasswordChangeRevokesTokens(t *testing.T) {
	assert := assert.New(t)

	// setup
	srv := newTestServer(t, 0)
	adminTok := login(t, srv)
	ada := addUser(t, srv, adminTok, "ada", 0)
	oldTok := loginAs(t, srv, "ada", "hunter2")
	newPass := "tr0ub4dor"

	// execute
	status := do(t, srv, "PATCH", "/users/"+ada.ID, oldTok, api.UserUpdateRequest{Password: &newPass}, nil)

	// assert
	assert.Equal(http.StatusOK, status)
	assert.Equal(http.StatusUnauthorized, do(t, srv, "GET", "/grammars", oldTok, nil, nil))
	newTok := loginAs(t, srv, "ada", newPass)
	assert.Equal(http.StatusOK, do(t, srv, "GET", "/grammars", newTok, nil, nil))
}
