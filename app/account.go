package app

import (
	"net/http"

	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/permissions"
	"github.com/prior-it/crud/server"
)

// Register creates a new account with the User role and logs it in.
func Register(apollo *server.Apollo, state *State) error {
	var registration dto.Registration
	if err := apollo.ParseBody(&registration); err != nil {
		return err
	}
	user, err := state.Accounts.CreateUser(apollo.Context(), &registration, permissions.RoleUser)
	if err != nil {
		return err
	}
	if err := apollo.Login(user); err != nil {
		return err
	}
	profile, err := state.Accounts.GetUser(apollo.Context(), user.ID)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusCreated, profile)
	return nil
}

func Login(apollo *server.Apollo, state *State) error {
	var credentials dto.Credentials
	if err := apollo.ParseBody(&credentials); err != nil {
		return err
	}
	user, err := state.Accounts.VerifyPassword(apollo.Context(), &credentials)
	if err != nil {
		return err
	}
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

func Logout(apollo *server.Apollo, _ *State) error {
	if err := apollo.Logout(); err != nil {
		return err
	}
	apollo.StatusCode(http.StatusNoContent)
	return nil
}

// EmailAvailable returns true if nobody registered with the e-mail address yet.
func EmailAvailable(apollo *server.Apollo, state *State) error {
	registered, err := state.Accounts.IsEmailRegistered(apollo.Context(), apollo.GetQuery("email"))
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, !registered)
	return nil
}

func Me(apollo *server.Apollo, state *State) error {
	profile, err := state.Accounts.GetUser(apollo.Context(), apollo.User.ID)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, profile)
	return nil
}
