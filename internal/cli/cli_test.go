package cli_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envios-ar/shipping-tracker/internal/api/middleware"
	"github.com/envios-ar/shipping-tracker/internal/cli"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "shipping-api dev")
}

func TestTokenCommand_IssuesVerifiableToken(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"token", "--subject", "ops-7", "--role", "admin", "--secret", "s3cret", "--ttl", "1h"})
	require.NoError(t, cmd.Execute())

	var claims middleware.Claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(buf.String()), &claims, func(*jwt.Token) (any, error) {
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ops-7", claims.Subject)
	assert.Equal(t, middleware.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenCommand_Rejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cases := map[string][]string{
		"missing subject": {"token", "--secret", "s3cret"},
		"unknown role":    {"token", "--subject", "a", "--role", "viewer", "--secret", "s3cret"},
		"no secret":       {"token", "--subject", "a"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := cli.NewRootCmdForTest()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetArgs(args)
			assert.Error(t, cmd.Execute())
		})
	}
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	cmd := cli.NewRootCmdForTest()
	cmd.SetArgs([]string{"serve"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}
