package console_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-gym-console/console"
	"github.com/jrsteele09/go-gym-console/members"
	"github.com/jrsteele09/go-gym-console/session"
	"github.com/jrsteele09/go-gym-console/session/repofake"
	"github.com/jrsteele09/go-gym-console/users"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetAppName() string      { return "gym-console" }
func (c testConfig) GetEnv() string          { return "TEST" }
func (c testConfig) GetSessionFile() string  { return "" }
func (c testConfig) GetMetricsAddr() string  { return "" }
func (c testConfig) GetAPIBaseURL() string   { return c.baseURL }
func (c testConfig) GetRequestRate() float64 { return 0 }
func (c testConfig) GetRequestBurst() int    { return 1 }

// gymServer is a minimal in-memory rendition of the API, enough to drive
// the console end to end.
type gymServer struct {
	roster     []members.Member
	memberHits int
}

func (g *gymServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "a@gym.com" || creds["password"] != "secret123" {
			http.Error(w, `{"message":"Invalid credentials"}`, http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": users.User{
				ID: "user-1", Name: "Ana Owner", Email: "a@gym.com", Role: users.RoleOwner,
				Tenant: users.Tenant{ID: "t-1", Name: "Iron Temple"},
			},
			"access_token": "tok_abc",
			"token_type":   "Bearer",
		})
	})
	mux.HandleFunc("/members", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if r.Header.Get("Authorization") != "Bearer tok_abc" {
				http.Error(w, `{"message":"Unauthenticated."}`, http.StatusUnauthorized)
				return
			}
			g.memberHits++
			_ = json.NewEncoder(w).Encode(map[string]any{"data": g.roster})
			return
		}
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var params members.CreateParams
		_ = json.NewDecoder(r.Body).Decode(&params)
		created := members.Member{
			ID:           fmt.Sprintf("m-%d", len(g.roster)+1),
			MemberNumber: fmt.Sprintf("GM-%04d", len(g.roster)+1),
			FullName:     params.FirstName + " " + params.LastName,
			Phone:        params.Phone,
			Status:       members.StatusActive,
		}
		g.roster = append(g.roster, created)
		_ = json.NewEncoder(w).Encode(created)
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
	})
	return mux
}

func TestConsole_LoginBrowseCreateRefetch(t *testing.T) {
	server := &gymServer{roster: []members.Member{
		{ID: "m-1", MemberNumber: "GM-0001", FullName: "Jane Fonda", Status: members.StatusActive},
	}}
	srv := httptest.NewServer(server.handler())
	defer srv.Close()

	var out bytes.Buffer
	repo := repofake.New()
	app, err := console.New(testConfig{baseURL: srv.URL},
		console.WithOutput(&out),
		console.WithSessionRepo(repo),
	)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("protected areas redirect to login while logged out", func(t *testing.T) {
		err := app.Run(ctx, []string{"members", "list"})
		require.Error(t, err)
		require.Contains(t, out.String(), "Please log in first")
		require.Zero(t, server.memberHits)
	})

	t.Run("login establishes the session", func(t *testing.T) {
		out.Reset()
		require.NoError(t, app.Run(ctx, []string{"login", "a@gym.com", "secret123"}))
		require.Contains(t, out.String(), "Welcome back, Ana Owner")
		require.Equal(t, 1, repo.Saves)
	})

	t.Run("members list renders the roster", func(t *testing.T) {
		out.Reset()
		require.NoError(t, app.Run(ctx, []string{"members", "list"}))
		require.Contains(t, out.String(), "Jane Fonda")
		require.Equal(t, 1, server.memberHits)
	})

	t.Run("create invalidates the cached list", func(t *testing.T) {
		out.Reset()
		require.NoError(t, app.Run(ctx, []string{"members", "add", "Arnold", "Strong", "555-0100"}))
		require.Contains(t, out.String(), "Arnold Strong")

		out.Reset()
		require.NoError(t, app.Run(ctx, []string{"members", "list"}))
		require.Contains(t, out.String(), "Arnold Strong")
		require.Equal(t, 2, server.memberHits, "post-create list must refetch")
	})

	t.Run("validation errors are printed per field", func(t *testing.T) {
		out.Reset()
		err := app.Run(ctx, []string{"members", "add", "Arnold"})
		require.Error(t, err)
		require.Contains(t, out.String(), "usage: members add")
	})

	t.Run("logout clears the session and re-guards", func(t *testing.T) {
		out.Reset()
		require.NoError(t, app.Run(ctx, []string{"logout"}))
		require.Contains(t, out.String(), "Signed out.")
		require.Equal(t, 1, repo.Erases)

		out.Reset()
		err := app.Run(ctx, []string{"members", "list"})
		require.Error(t, err)
		require.Contains(t, out.String(), "Please log in first")
	})
}

func TestConsole_SessionSurvivesRestart(t *testing.T) {
	server := &gymServer{}
	srv := httptest.NewServer(server.handler())
	defer srv.Close()

	repo := repofake.New()
	var out bytes.Buffer
	first, err := console.New(testConfig{baseURL: srv.URL},
		console.WithOutput(&out), console.WithSessionRepo(repo))
	require.NoError(t, err)
	require.NoError(t, first.Run(context.Background(), []string{"login", "a@gym.com", "secret123"}))

	// A second console over the same repo restores the session and renders
	// protected views without a fresh login.
	out.Reset()
	second, err := console.New(testConfig{baseURL: srv.URL},
		console.WithOutput(&out), console.WithSessionRepo(repo))
	require.NoError(t, err)
	require.NoError(t, second.Run(context.Background(), []string{"members", "list"}))
	require.NotContains(t, out.String(), "Please log in first")
	require.Equal(t, 1, server.memberHits)
}

func TestConsole_ExpiredCredentialRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unauthenticated."}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	// Seed a stale persisted session, as if the token expired server-side
	// while the console was closed.
	repo := repofake.New()
	require.NoError(t, repo.Save(session.State{
		User:          &users.User{ID: "user-1", Email: "a@gym.com"},
		Credential:    "tok_expired",
		Authenticated: true,
	}))

	var out bytes.Buffer
	app, err := console.New(testConfig{baseURL: srv.URL},
		console.WithOutput(&out), console.WithSessionRepo(repo))
	require.NoError(t, err)

	err = app.Run(context.Background(), []string{"members", "list"})
	require.Error(t, err)
	require.Contains(t, out.String(), "Signed out.")
	require.Equal(t, 1, repo.Erases, "the stale session must be cleared")

	out.Reset()
	err = app.Run(context.Background(), []string{"members", "list"})
	require.Error(t, err)
	require.Contains(t, out.String(), "Please log in first")
}
