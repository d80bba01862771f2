// Package oauth signs users in through an external OAuth provider using the authorization code flow.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/render"
	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/core"
)

const (
	ProviderGithub  = "github"
	ProviderEntraID = "entraid"
)

// Identity is the user data that was returned by a provider.
// Name and Email can be empty if the provider does not share them.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	// Provider name, e.g. "github"
	Provider string `json:"provider"`
	// User id within the provider
	ProviderID string `json:"provider_id"`
}

type accessToken struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

type Service struct {
	providers map[string]config.OAuthProviderConfig
	client    *http.Client
	logger    *slog.Logger
}

// NewService uses http.DefaultClient if client is nil.
func NewService(
	providers map[string]config.OAuthProviderConfig,
	client *http.Client,
	logger *slog.Logger,
) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &Service{providers: providers, client: client, logger: logger}
}

// Supports returns true if the provider is configured and its user data can be read.
func (s *Service) Supports(provider string) bool {
	_, exists := s.providers[provider]
	_, parsable := identityParsers[provider]
	return exists && parsable
}

func (s *Service) provider(name string) (config.OAuthProviderConfig, error) {
	cfg, exists := s.providers[name]
	if !exists {
		return cfg, errors.Join(core.ErrNotFound, fmt.Errorf("unknown provider: %s", name))
	}
	return cfg, nil
}

// LoginURL returns the url that the user should be redirected to to start logging in.
// The state is sent back unchanged to the callback url.
func (s *Service) LoginURL(provider string, callbackURL string, state string) (string, error) {
	cfg, err := s.provider(provider)
	if err != nil {
		return "", err
	}

	data := url.Values{}
	data.Set("client_id", cfg.ID)
	data.Set("redirect_uri", callbackURL)
	data.Set("scope", strings.Join(cfg.Scope, " "))
	data.Set("response_type", "code")
	data.Set("state", state)
	return fmt.Sprintf("%s?%s", cfg.AuthURL, data.Encode()), nil
}

// Callback exchanges the authorization code for an access token and retrieves the identity of the user.
func (s *Service) Callback(
	ctx context.Context,
	provider string,
	code string,
	redirectURL string,
) (*Identity, error) {
	s.logger.Debug("Login callback received", "provider", provider)

	cfg, err := s.provider(provider)
	if err != nil {
		return nil, err
	}
	parse, ok := identityParsers[provider]
	if !ok {
		return nil, core.InvalidArgument("retrieving user data is not supported for provider %q", provider)
	}
	if len(code) == 0 {
		return nil, core.InvalidArgument("expected to receive a code")
	}

	reqData := url.Values{}
	reqData.Set("client_id", cfg.ID)
	reqData.Set("client_secret", cfg.Secret)
	reqData.Set("code", code)
	reqData.Set("grant_type", "authorization_code")
	reqData.Set("redirect_uri", redirectURL)

	tokenReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		cfg.TokenURL,
		strings.NewReader(reqData.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	tokenReq.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	tokenReq.Header.Add("Accept", "application/json")

	var token accessToken
	if err := s.do(tokenReq, &token); err != nil {
		return nil, fmt.Errorf("failed to retrieve token data for provider %q: %w", provider, err)
	}
	if len(token.AccessToken) == 0 {
		return nil, errors.Join(
			core.ErrInvalidCredentials,
			fmt.Errorf("provider %q did not return an access token", provider),
		)
	}

	userReq, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.UserURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user data request: %w", err)
	}
	userReq.Header.Set("User-Agent", "crud login")
	userReq.Header.Set("Accept", "application/json")
	userReq.Header.Set("Authorization", fmt.Sprintf("%s %s", tokenType(token), token.AccessToken))

	userData := make(map[string]any)
	if err := s.do(userReq, &userData); err != nil {
		return nil, fmt.Errorf("failed to retrieve user data for provider %q: %w", provider, err)
	}

	identity, err := parse(userData)
	if err != nil {
		return nil, err
	}
	identity.Provider = provider
	s.logger.Debug("User data retrieved", "provider", provider, "provider_id", identity.ProviderID)
	return identity, nil
}

func (s *Service) do(req *http.Request, v any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	return render.DecodeJSON(resp.Body, v)
}

// Some providers return a lowercase token type, which not every api accepts.
func tokenType(token accessToken) string {
	if len(token.TokenType) == 0 || strings.EqualFold(token.TokenType, "bearer") {
		return "Bearer"
	}
	return token.TokenType
}
