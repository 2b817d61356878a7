package token

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dekarrin/earley/server/dao"
	"github.com/dekarrin/earley/server/dao/inmem"
	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("01234567890123456789012345678901")

func Test_Get(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		expect    string
		expectErr bool
	}{
		{name: "no header", header: "", expectErr: true},
		{name: "bearer", header: "Bearer abc.def.ghi", expect: "abc.def.ghi"},
		{name: "bearer lower case", header: "bearer abc", expect: "abc"},
		{name: "basic scheme", header: "Basic abc", expectErr: true},
		{name: "no scheme", header: "abc", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			// execute
			actual, err := Get(req)

			// assert
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_GenerateThenValidate(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	users := inmem.NewUsersRepository()
	user, err := users.Create(ctx, dao.User{Username: "ada", Password: "hash"})
	if !assert.NoError(err) {
		return
	}

	// execute
	tok, err := Generate(testSecret, user)
	if !assert.NoError(err) {
		return
	}
	actual, err := Validate(ctx, tok, testSecret, users)

	// assert
	assert.NoError(err)
	assert.Equal(user.ID, actual.ID)
}

func Test_Validate_LogoutInvalidates(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	users := inmem.NewUsersRepository()
	user, err := users.Create(ctx, dao.User{Username: "ada", Password: "hash"})
	if !assert.NoError(err) {
		return
	}
	tok, err := Generate(testSecret, user)
	if !assert.NoError(err) {
		return
	}

	user.LastLogoutTime = user.LastLogoutTime.Add(time.Hour)
	_, err = users.Update(ctx, user.ID, user)
	if !assert.NoError(err) {
		return
	}

	// execute
	_, err = Validate(ctx, tok, testSecret, users)

	// assert
	assert.Error(err)
}

func Test_Validate_WrongSecret(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	users := inmem.NewUsersRepository()
	user, err := users.Create(ctx, dao.User{Username: "ada", Password: "hash"})
	if !assert.NoError(err) {
		return
	}
	tok, err := Generate(testSecret, user)
	if !assert.NoError(err) {
		return
	}

	// execute
	_, err = Validate(ctx, tok, []byte("some-other-secret-entirely-000000"), users)

	// assert
	assert.Error(err)
}
