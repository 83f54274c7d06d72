package request

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{
		Email:           "alice@example.com",
		Password:        "secr3tpass",
		ConfirmPassword: "secr3tpass",
		Name:            "Alice",
	}

	t.Run("should accept a valid request", func(t *testing.T) {
		req := valid
		require.NoError(t, req.Validate())
	})

	t.Run("should reject a malformed email", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"
		require.Error(t, req.Validate())
	})

	t.Run("should enforce the password policy", func(t *testing.T) {
		cases := map[string]string{
			"too short":  "a1b2c3",
			"no digit":   "onlyletters",
			"no letter":  "1234567890",
			"empty":      "",
			"whitespace": "        ",
		}
		for name, password := range cases {
			t.Run(name, func(t *testing.T) {
				req := valid
				req.Password = password
				req.ConfirmPassword = password
				require.Error(t, req.Validate())
			})
		}
	})

	t.Run("should require matching confirmation", func(t *testing.T) {
		req := valid
		req.ConfirmPassword = "different1pass"
		require.ErrorIs(t, req.Validate(), errConfirmPasswordMismatch)
	})
}
