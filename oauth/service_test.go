package oauth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/oauth"
	"github.com/prior-it/crud/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// provider serves a token endpoint that accepts the code "valid" and a user endpoint that returns userData.
func provider(t *testing.T, userData map[string]any) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	router.Post("/token", func(w http.ResponseWriter, r *http.Request) {
		tests.Check(r.ParseForm())
		if r.PostForm.Get("code") != "valid" || r.PostForm.Get("client_secret") != "secret" {
			render.JSON(w, r, map[string]string{"error": "bad_verification_code"})
			return
		}
		render.JSON(w, r, map[string]string{"access_token": "token", "token_type": "bearer"})
	})
	router.Get("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		render.JSON(w, r, userData)
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func newService(server *httptest.Server, name string) *oauth.Service {
	return oauth.NewService(map[string]config.OAuthProviderConfig{
		name: {
			ID:       "client",
			Secret:   "secret",
			Scope:    []string{"read:user", "user:email"},
			AuthURL:  server.URL + "/authorize",
			TokenURL: server.URL + "/token",
			UserURL:  server.URL + "/user",
		},
	}, server.Client(), tests.Logger)
}

func TestLoginURL(t *testing.T) {
	service := newService(provider(t, nil), oauth.ProviderGithub)

	t.Run("ok: all parameters are included", func(t *testing.T) {
		loginURL, err := service.LoginURL(oauth.ProviderGithub, "http://localhost/callback", "abc")
		require.Nil(t, err)
		parsed, err := url.Parse(loginURL)
		require.Nil(t, err)
		assert.Equal(t, "/authorize", parsed.Path)
		query := parsed.Query()
		assert.Equal(t, "client", query.Get("client_id"))
		assert.Equal(t, "http://localhost/callback", query.Get("redirect_uri"))
		assert.Equal(t, "read:user user:email", query.Get("scope"))
		assert.Equal(t, "code", query.Get("response_type"))
		assert.Equal(t, "abc", query.Get("state"))
	})

	t.Run("err: unknown provider", func(t *testing.T) {
		_, err := service.LoginURL("zoho", "http://localhost/callback", "abc")
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.False(t, service.Supports("zoho"))
		assert.True(t, service.Supports(oauth.ProviderGithub))
	})
}

func TestCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("ok: github identity", func(t *testing.T) {
		server := provider(t, map[string]any{"id": 583231, "name": "The Octocat", "email": "octocat@github.com"})
		identity, err := newService(server, oauth.ProviderGithub).
			Callback(ctx, oauth.ProviderGithub, "valid", "http://localhost/callback")
		require.Nil(t, err)
		assert.Equal(t, oauth.Identity{
			Name:       "The Octocat",
			Email:      "octocat@github.com",
			Provider:   oauth.ProviderGithub,
			ProviderID: "583231",
		}, *identity)
	})

	t.Run("ok: entraid identity", func(t *testing.T) {
		server := provider(t, map[string]any{
			"id":          "87d349ed-44d7-43e1-9a83-5f2406dee5bd",
			"displayName": "Adele Vance",
			"mail":        "adele@contoso.com",
		})
		identity, err := newService(server, oauth.ProviderEntraID).
			Callback(ctx, oauth.ProviderEntraID, "valid", "http://localhost/callback")
		require.Nil(t, err)
		assert.Equal(t, "Adele Vance", identity.Name)
		assert.Equal(t, "adele@contoso.com", identity.Email)
		assert.Equal(t, "87d349ed-44d7-43e1-9a83-5f2406dee5bd", identity.ProviderID)
	})

	t.Run("ok: missing name and e-mail", func(t *testing.T) {
		server := provider(t, map[string]any{"id": "1", "email": nil})
		identity, err := newService(server, oauth.ProviderGithub).
			Callback(ctx, oauth.ProviderGithub, "valid", "http://localhost/callback")
		require.Nil(t, err)
		assert.Empty(t, identity.Name)
		assert.Empty(t, identity.Email)
	})

	t.Run("err: invalid code", func(t *testing.T) {
		server := provider(t, map[string]any{"id": "1"})
		_, err := newService(server, oauth.ProviderGithub).
			Callback(ctx, oauth.ProviderGithub, "expired", "http://localhost/callback")
		assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	})

	t.Run("err: empty code", func(t *testing.T) {
		server := provider(t, map[string]any{"id": "1"})
		_, err := newService(server, oauth.ProviderGithub).
			Callback(ctx, oauth.ProviderGithub, "", "http://localhost/callback")
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("err: user data without id", func(t *testing.T) {
		server := provider(t, map[string]any{"name": "Nobody"})
		_, err := newService(server, oauth.ProviderGithub).
			Callback(ctx, oauth.ProviderGithub, "valid", "http://localhost/callback")
		assert.NotNil(t, err)
	})

	t.Run("err: provider without user data support", func(t *testing.T) {
		server := provider(t, map[string]any{"id": "1"})
		_, err := newService(server, "zoho").Callback(ctx, "zoho", "valid", "http://localhost/callback")
		assert.True(t, errors.Is(err, core.ErrInvalidArgument))
	})
}
