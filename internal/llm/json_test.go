package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"leading prose", `Here is the result: {"a": 1}`, `{"a": 1}`},
		{"trailing prose", `{"a": 1} Hope this helps!`, `{"a": 1}`},
		{"code fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"nested objects", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"surrounding whitespace", "\n\t {\"a\": 1} \n", `{"a": 1}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractJSONObjectNoObject(t *testing.T) {
	for _, raw := range []string{"", "no braces here", "only open {", "only close }", "} reversed {"} {
		_, err := ExtractJSONObject(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrNoJSONObject), raw)
	}
}
