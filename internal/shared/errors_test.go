package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/admin-console/internal/backend"
	"github.com/odyssey-erp/admin-console/internal/session"
)

func TestUserSafeMessage(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":         {nil, ""},
		"credentials": {fmt.Errorf("%w: rejected", session.ErrInvalidCredentials), "Invalid email or password"},
		"superseded":  {session.ErrLoginSuperseded, "You were signed out, please sign in again"},
		"forbidden":   {&backend.APIError{Status: 403}, "You don't have permission to do that"},
		"not found":   {&backend.APIError{Status: 404}, "The record no longer exists"},
		"detail":      {&backend.APIError{Status: 400, Detail: "city is required"}, "city is required"},
		"opaque":      {errors.New("dial tcp: refused"), "Something went wrong, please try again"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, UserSafeMessage(tc.err))
		})
	}
}
