package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectCommandReader_ReadCommand(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		allowBlanks  bool
		expectLines  []string
		expectEOFEnd bool
	}{
		{
			name:         "single line with no newline",
			input:        "John called Mary",
			expectLines:  []string{"John called Mary"},
			expectEOFEnd: true,
		},
		{
			name:         "blank lines are skipped",
			input:        "\n\n  :rules  \n\t\nJohn called Mary\n",
			expectLines:  []string{":rules", "John called Mary"},
			expectEOFEnd: true,
		},
		{
			name:         "blank lines are returned when allowed",
			input:        ":rules\n\n:quit\n",
			allowBlanks:  true,
			expectLines:  []string{":rules", "", ":quit"},
			expectEOFEnd: true,
		},
		{
			name:         "only blanks",
			input:        "\n   \n",
			expectEOFEnd: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			r := NewDirectReader(strings.NewReader(tc.input))
			r.AllowBlank(tc.allowBlanks)
			defer r.Close()

			// execute
			var actual []string
			for range tc.expectLines {
				line, err := r.ReadCommand()
				if !assert.NoError(err) {
					return
				}
				actual = append(actual, line)
			}
			_, endErr := r.ReadCommand()

			// assert
			assert.Equal(tc.expectLines, actual)
			if tc.expectEOFEnd {
				assert.ErrorIs(endErr, io.EOF)
			}
		})
	}
}
