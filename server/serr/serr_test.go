package serr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error_Error(t *testing.T) {
	testCases := []struct {
		name   string
		err    Error
		expect string
	}{
		{name: "message only", err: New("bad thing"), expect: "bad thing"},
		{name: "cause only", err: New("", ErrNotFound), expect: ErrNotFound.Error()},
		{name: "message and causes", err: New("grammar", ErrBadGrammar, ErrBadArgument), expect: "grammar: " + ErrBadGrammar.Error()},
		{name: "empty", err: New(""), expect: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.err.Error())
		})
	}
}

func Test_Error_Is(t *testing.T) {
	assert := assert.New(t)

	// setup
	dbErr := errors.New("disk full")
	err := fmt.Errorf("saving: %w", WrapDB("could not save grammar", dbErr))

	// assert
	assert.ErrorIs(err, ErrDB)
	assert.ErrorIs(err, dbErr)
	assert.NotErrorIs(err, ErrNotFound)
}
