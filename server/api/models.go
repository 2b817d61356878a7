package api

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	ExpiresIn int    `json:"expires_in"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Earley string `json:"earley"`
	} `json:"version"`

	// Limits are the bounds applied to every parse. Zero is no limit.
	Limits struct {
		MaxTrees int `json:"max_trees"`
		MaxSteps int `json:"max_steps"`
	} `json:"limits"`
}

// UserModel is a user as the API shows it. GrammarQuota is the limit that
// applies to the user, with 0 meaning none.
type UserModel struct {
	URI          string `json:"uri"`
	ID           string `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Grammars     int    `json:"grammars"`
	GrammarQuota int    `json:"grammar_quota"`
	Created      string `json:"created"`
	LastLogin    string `json:"last_login,omitempty"`
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`

	// GrammarQuota is the user's own limit. Omitted or 0 uses the server's.
	GrammarQuota int `json:"grammar_quota,omitempty"`
}

// UserUpdateRequest changes only the properties that are present.
type UserUpdateRequest struct {
	Password     *string `json:"password,omitempty"`
	Role         *string `json:"role,omitempty"`
	GrammarQuota *int    `json:"grammar_quota,omitempty"`
}

type GrammarModel struct {
	URI           string   `json:"uri"`
	ID            string   `json:"id"`
	OwnerID       string   `json:"owner_id"`
	Name          string   `json:"name"`
	Start         string   `json:"start"`
	PartsOfSpeech []string `json:"pos"`
	Text          string   `json:"text"`
	Created       string   `json:"created"`
	Modified      string   `json:"modified"`
}

type GrammarCreateRequest struct {
	Name string `json:"name"`

	// Format is the notation Text is written in. It is one of "text",
	// "ebnf", or "egf"; blank is "text".
	Format string `json:"format,omitempty"`
	Text   string `json:"text"`
}

type ParseRequest struct {
	Sentence string   `json:"sentence,omitempty"`
	Tokens   []string `json:"tokens,omitempty"`

	// Charts asks for the rendered charts to be included in the response.
	Charts bool `json:"charts,omitempty"`
}

type TreeModel struct {
	Outline   string `json:"outline"`
	Bracketed string `json:"bracketed"`
}

type ParseResponse struct {
	Sentence  string      `json:"sentence"`
	Tokens    []string    `json:"tokens"`
	Accepted  bool        `json:"accepted"`
	Trees     []TreeModel `json:"trees"`
	Charts    []string    `json:"charts,omitempty"`
	Truncated bool        `json:"truncated"`
}
