// Package testserver runs the full HTTP stack against a temporary database
// for end-to-end tests.
package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/teamportal/internal/app"
	"github.com/rpggio/teamportal/internal/config"
	"github.com/rpggio/teamportal/internal/domain/identity"
)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
	Config config.Config
}

// Option adjusts the configuration before the server starts.
type Option func(*config.Config)

// WithEmployeeScope sets the staff project visibility scope.
func WithEmployeeScope(scope string) Option {
	return func(cfg *config.Config) { cfg.Visibility.EmployeeScope = scope }
}

func New(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.DB.Path = filepath.Join(t.TempDir(), "portal.db")
	cfg.Auth.JWTSecret = "test-secret"
	for _, opt := range opts {
		opt(&cfg)
	}
	require.NoError(t, cfg.Validate())

	a, err := app.Open(cfg, nil)
	require.NoError(t, err)

	server := httptest.NewServer(a.Router(cfg))

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return &TestServer{Server: server, App: a, Config: cfg}
}

// Token signs a bearer token for claim.
func (ts *TestServer) Token(t *testing.T, claim identity.Claim) string {
	t.Helper()
	token, err := ts.App.Tokens.Sign(claim)
	require.NoError(t, err)
	return token
}

// Do sends a JSON request and decodes the response into out when out is
// non-nil. It returns the status code.
func (ts *TestServer) Do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
