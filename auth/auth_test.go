package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-gym-console/auth"
	"github.com/jrsteele09/go-gym-console/session"
	"github.com/jrsteele09/go-gym-console/session/repofake"
	"github.com/jrsteele09/go-gym-console/transport"
	"github.com/jrsteele09/go-gym-console/users"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, handler http.HandlerFunc) (*auth.Service, *session.Store, *repofake.Repo) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	repo := repofake.New()
	store, err := session.NewStore(repo)
	require.NoError(t, err)

	api, err := transport.New(srv.URL, store)
	require.NoError(t, err)

	service, err := auth.NewService(api, store)
	require.NoError(t, err)
	return service, store, repo
}

func loginResponse(token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"user": users.User{
				ID: "user-1", Name: "Ana Owner", Email: "a@gym.com", Role: users.RoleOwner,
				Tenant: users.Tenant{ID: "t-1", Name: "Iron Temple"},
			},
			"access_token": token,
			"token_type":   "Bearer",
		})
	}
}

func TestService_Login(t *testing.T) {
	t.Run("success installs identity and credential", func(t *testing.T) {
		service, store, repo := newService(t, loginResponse("tok_abc"))

		user, err := service.Login(context.Background(), "a@gym.com", "secret123")
		require.NoError(t, err)
		require.Equal(t, "a@gym.com", user.Email)
		require.True(t, store.IsAuthenticated())

		cred, ok := store.Credential()
		require.True(t, ok)
		require.Equal(t, "tok_abc", cred)
		require.Equal(t, 1, repo.Saves, "session must be persisted on login")
	})

	t.Run("invalid credentials leave the store empty", func(t *testing.T) {
		service, store, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Invalid credentials"}`, http.StatusUnprocessableEntity)
		})

		_, err := service.Login(context.Background(), "a@gym.com", "wrong")
		require.Error(t, err)
		require.False(t, store.IsAuthenticated())
	})

	t.Run("missing token in an otherwise healthy reply is a protocol error", func(t *testing.T) {
		service, store, _ := newService(t, loginResponse(""))

		_, err := service.Login(context.Background(), "a@gym.com", "secret123")
		require.True(t, transport.IsProtocolError(err))
		require.False(t, store.IsAuthenticated())
	})

	t.Run("blank input is rejected before dispatch", func(t *testing.T) {
		service, _, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		_, err := service.Login(context.Background(), "", "")
		require.True(t, transport.IsValidation(err))
		require.Contains(t, transport.FieldErrors(err), "email")
		require.Contains(t, transport.FieldErrors(err), "password")

		_, err = service.Login(context.Background(), "a@gym.com", "")
		require.Contains(t, transport.FieldErrors(err), "password")
		require.NotContains(t, transport.FieldErrors(err), "email")
	})
}

func TestService_Register(t *testing.T) {
	service, store, _ := newService(t, loginResponse("tok_new"))

	t.Run("password confirmation must match", func(t *testing.T) {
		_, err := service.Register(context.Background(), auth.RegisterParams{
			GymName: "Iron Temple", Name: "Ana", Email: "a@gym.com",
			Password: "secret123", PasswordConfirmation: "secret124",
		})
		require.True(t, transport.IsValidation(err))
		require.Contains(t, transport.FieldErrors(err), "password_confirmation")
	})

	t.Run("success signs the owner in", func(t *testing.T) {
		user, err := service.Register(context.Background(), auth.RegisterParams{
			GymName: "Iron Temple", Name: "Ana", Email: "a@gym.com",
			Password: "secret123", PasswordConfirmation: "secret123",
		})
		require.NoError(t, err)
		require.Equal(t, users.RoleOwner, user.Role)
		require.True(t, store.IsAuthenticated())
	})
}

func TestService_Logout(t *testing.T) {
	t.Run("clears locally even when the server refuses", func(t *testing.T) {
		service, store, repo := newService(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
		})
		require.NoError(t, store.Set(users.User{ID: "user-1"}, "tok_abc"))

		require.NoError(t, service.Logout(context.Background()))
		require.False(t, store.IsAuthenticated())
		require.Equal(t, 1, repo.Erases)
	})

	t.Run("a 401 during logout does not double-clear", func(t *testing.T) {
		service, store, repo := newService(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Unauthenticated."}`, http.StatusUnauthorized)
		})
		require.NoError(t, store.Set(users.User{ID: "user-1"}, "tok_stale"))

		require.NoError(t, service.Logout(context.Background()))
		require.False(t, store.IsAuthenticated())
		require.Equal(t, 1, repo.Erases)
	})
}

func TestService_Me(t *testing.T) {
	service, store, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok_abc", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(users.User{ID: "user-1", Email: "a@gym.com"})
	})
	require.NoError(t, store.Set(users.User{ID: "user-1"}, "tok_abc"))

	user, err := service.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a@gym.com", user.Email)
}
