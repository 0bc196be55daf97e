package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLITest(t *testing.T) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.HideBanner = true
	e.POST(domain.RegisterPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"id": 1, "email": "new@example.com"})
	})
	e.POST(domain.TokenPath, func(c echo.Context) error {
		var creds domain.Credentials
		if err := c.Bind(&creds); err != nil {
			return err
		}
		if creds.Password != "Secret#123" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
		}
		return c.JSON(http.StatusOK, map[string]string{"access_token": "abc123", "token_type": "bearer"})
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	t.Setenv("AUTH_BASE_URL", srv.URL)
	t.Setenv("AUTH_STORAGE_DIR", t.TempDir())
	t.Setenv("AUTH_ALERT_MODE", "console")
	t.Setenv("AUTH_LANG", "en")
	t.Setenv("LOG_LEVEL", "error")
	return srv
}

// resetFlags restores every flag to its default, since cobra keeps flag
// state on the package-level commands between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRegisterCommand(t *testing.T) {
	srv := setupCLITest(t)

	out, err := run(t, "register", "--email", "new@example.com", "--password", "Secret#123")
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully!\n-> "+srv.URL+"/login\n", out)
}

func TestLoginAndTokenCommands(t *testing.T) {
	srv := setupCLITest(t)

	out, err := run(t, "login", "--email", "user@example.com", "--password", "wrong")
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, "Login error:\nIncorrect email or password\n", out)

	_, err = run(t, "token", "show")
	assert.ErrorContains(t, err, "no access token stored")

	out, err = run(t, "login", "--email", "user@example.com", "--password", "Secret#123")
	require.NoError(t, err)
	assert.Equal(t, "-> "+srv.URL+"/profile\n", out)

	out, err = run(t, "token", "show")
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", out)

	_, err = run(t, "token", "clear")
	require.NoError(t, err)

	_, err = run(t, "token", "show")
	assert.Error(t, err)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	setupCLITest(t)

	out, err := run(t, "--lang", "uk", "login", "--email", "user@example.com", "--password", "wrong")
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, "Помилка входу:\nIncorrect email or password\n", out)

	_, err = run(t, "--alert", "popup", "token", "show")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestUnreachableBackend(t *testing.T) {
	srv := setupCLITest(t)
	srv.Close()

	out, err := run(t, "register", "--email", "new@example.com", "--password", "x")
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, "An unexpected error occurred during registration\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "authform v"+version+"\n", out)
}
