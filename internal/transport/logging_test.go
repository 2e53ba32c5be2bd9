package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCensorBody(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "password is masked",
			in:   `{"email": "alice@example.com", "password": "secret123"}`,
			out:  `{"email": "alice@example.com", "password": "$censored"}`,
		},
		{
			name: "no password field",
			in:   `{"title": "A Book", "quantity": 3}`,
			out:  `{"title": "A Book", "quantity": 3}`,
		},
		{
			name: "null password",
			in:   `{"password": null}`,
			out:  `{"password": "$censored"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.JSONEq(t, tc.out, string(censorBody([]byte(tc.in))))
		})
	}
}

func TestCensorBodyPassesThroughNonObjects(t *testing.T) {
	for _, in := range []string{`[1, 2, 3]`, `"plain"`, `not json at all`, ``} {
		assert.Equal(t, in, string(censorBody([]byte(in))))
	}
}
