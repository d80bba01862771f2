package app

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/server"
)

const sessionOAuthState = "crud-oauth-state"

func callbackURL(apollo *server.Apollo, provider string) string {
	return fmt.Sprintf("%s/account/external/%s/callback", apollo.Cfg.BaseURL(), provider)
}

// ExternalLogin redirects to the login page of the provider in the path.
func ExternalLogin(apollo *server.Apollo, state *State) error {
	provider := apollo.GetPath("provider")
	if !state.OAuth.Supports(provider) {
		return core.ErrNotFound
	}
	token := uuid.NewString()
	if err := apollo.SetSessionValue(sessionOAuthState, token); err != nil {
		return err
	}
	url, err := state.OAuth.LoginURL(provider, callbackURL(apollo, provider), token)
	if err != nil {
		return err
	}
	apollo.Redirect(url)
	return nil
}

// ExternalLoginCallback logs in with the identity that the provider returned, a new account is created on first
// login. The login state can only be used once.
func ExternalLoginCallback(apollo *server.Apollo, state *State) error {
	expected := apollo.TakeSessionValue(sessionOAuthState)
	user, err := externalUser(apollo, state, expected)
	if err != nil {
		if saveErr := apollo.SaveSession(); saveErr != nil {
			apollo.Warn("Could not clear the login state", "error", saveErr)
		}
		return err
	}
	// Login stores the session once, the login state is already removed from it
	if err := apollo.Login(user); err != nil {
		return err
	}
	profile, err := state.Accounts.GetUser(apollo.Context(), user.ID)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, profile)
	return nil
}

func externalUser(apollo *server.Apollo, state *State, expected string) (*core.User, error) {
	if expected == "" || expected != apollo.GetQuery("state") {
		return nil, core.InvalidArgument("the login state does not match, please try again")
	}
	provider := apollo.GetPath("provider")
	identity, err := state.OAuth.Callback(
		apollo.Context(),
		provider,
		apollo.GetQuery("code"),
		callbackURL(apollo, provider),
	)
	if err != nil {
		return nil, err
	}
	return state.Accounts.ExternalLogin(apollo.Context(), identity)
}
