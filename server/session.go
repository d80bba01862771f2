package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/core"
)

const cookieUser = "crud-user"

const (
	sessionLoggedIn = "crud-logged-in"
	sessionIsAdmin  = "crud-user-admin"
	sessionUserName = "crud-user-name"
	sessionEmail    = "crud-user-email"
	sessionJoined   = "crud-user-joined"
	sessionUserID   = "crud-user-id"
)

func (apollo *Apollo) Session() *sessions.Session {
	session := Session(apollo.Context())
	if session == nil {
		// A new session is returned together with the decode error
		session, _ = apollo.store.Get(apollo.Request, cookieUser)
	}
	return configureCookie(apollo.Cfg, session)
}

func configureCookie(cfg *config.Config, session *sessions.Session) *sessions.Session {
	session.Options.Path = "/"
	switch {
	case cfg.IsTest() || !cfg.App.SSL:
		session.Options.Secure = false
		session.Options.HttpOnly = true
		session.Options.SameSite = http.SameSiteLaxMode
	case cfg.App.Debug:
		session.Options.Secure = true
		session.Options.HttpOnly = true
		session.Options.SameSite = http.SameSiteNoneMode
	default: // production
		session.Options.Secure = true
		session.Options.HttpOnly = true
		session.Options.SameSite = http.SameSiteLaxMode
	}
	return session
}

func buildSessionContext(ctx context.Context, session *sessions.Session) context.Context {
	loggedIn, ok := session.Values[sessionLoggedIn].(bool)
	ctx = context.WithValue(ctx, ctxLoggedIn, ok && loggedIn)

	isAdmin, ok := session.Values[sessionIsAdmin].(bool)
	ctx = context.WithValue(ctx, ctxIsAdmin, ok && isAdmin)

	userName, ok := session.Values[sessionUserName].(string)
	if ok {
		ctx = context.WithValue(ctx, ctxUserName, userName)
	}

	if value, ok := session.Values[sessionUserID].(string); ok {
		if userID, err := core.ParseUserID(value); err == nil {
			ctx = context.WithValue(ctx, ctxUserID, userID)
		}
	}

	return ctx
}

// Login will log in with the specified user.
func (apollo *Apollo) Login(user *core.User) error {
	if user == nil {
		panic("you cannot log in with a nil user")
	}
	if apollo.store == nil {
		panic("you need to specify a session store before logging in")
	}
	session := apollo.Session()
	session.Values[sessionLoggedIn] = true
	session.Values[sessionIsAdmin] = user.Admin
	session.Values[sessionUserName] = user.PersonName
	session.Values[sessionEmail] = user.Email.String()
	session.Values[sessionUserID] = user.ID.String()
	session.Values[sessionJoined] = user.Joined.Unix()
	apollo.User = user
	err := apollo.store.Save(apollo.Request, apollo.Writer, session)
	if err != nil {
		return err
	}
	apollo.LogField("active_user_id", slog.StringValue(apollo.User.ID.String()))
	return nil
}

// Utility function that retrieves a full core.User object from the current session, if one exists.
// If there is no active session, this will return core.ErrUnauthenticated
func (apollo *Apollo) retrieveUser() (*core.User, error) {
	session := apollo.Session()

	loggedIn, ok := session.Values[sessionLoggedIn].(bool)

	// No user data in session
	if !ok || !loggedIn {
		return nil, core.ErrUnauthenticated
	}

	idStr, ok := session.Values[sessionUserID].(string)
	if !ok {
		return nil, fmt.Errorf(
			"invalid user id stored in session: %v",
			session.Values[sessionUserID],
		)
	}
	id, err := core.ParseUserID(idStr)
	if err != nil {
		return nil, fmt.Errorf("session user id invalid: %w", err)
	}

	isAdmin, ok := session.Values[sessionIsAdmin].(bool)
	if session.Values[sessionIsAdmin] == nil {
		isAdmin = false
	} else if !ok {
		return nil, fmt.Errorf(
			"invalid user is admin stored in session: %v",
			session.Values[sessionIsAdmin],
		)
	}

	name, ok := session.Values[sessionUserName].(string)
	if !ok {
		return nil, fmt.Errorf(
			"invalid user name stored in session: %v",
			session.Values[sessionUserName],
		)
	}

	emailStr, ok := session.Values[sessionEmail].(string)
	if !ok {
		return nil, fmt.Errorf(
			"invalid email string stored in session: %v",
			session.Values[sessionEmail],
		)
	}
	email, err := core.ParseEmailAddress(emailStr)
	if err != nil {
		return nil, fmt.Errorf("session e-mail address invalid: %w", err)
	}

	joined, ok := session.Values[sessionJoined].(int64)
	if !ok {
		return nil, fmt.Errorf(
			"invalid joined time stored in session: %v",
			session.Values[sessionJoined],
		)
	}

	return &core.User{
		ID:         id,
		PersonName: name,
		Email:      email,
		Admin:      isAdmin,
		Joined:     time.Unix(joined, 0).UTC(),
	}, nil
}

// Logout will log the current user out.
func (apollo *Apollo) Logout() error {
	session := apollo.Session()
	session.Values[sessionLoggedIn] = false
	session.Values[sessionIsAdmin] = false
	for _, key := range []string{sessionUserName, sessionUserID, sessionEmail, sessionJoined} {
		delete(session.Values, key)
	}
	apollo.User = nil
	return apollo.store.Save(apollo.Request, apollo.Writer, session)
}

// SetSessionValue stores a string in the session cookie, e.g. the state of an OAuth login.
func (apollo *Apollo) SetSessionValue(key string, value string) error {
	session := apollo.Session()
	session.Values[key] = value
	return apollo.store.Save(apollo.Request, apollo.Writer, session)
}

// TakeSessionValue removes a value from the session and returns it. The change is only stored by the next
// session write, e.g. Login or SaveSession.
// Returns an empty string if the session does not contain the key.
func (apollo *Apollo) TakeSessionValue(key string) string {
	session := apollo.Session()
	value, _ := session.Values[key].(string)
	delete(session.Values, key)
	return value
}

// SaveSession writes the current session to the session cookie.
func (apollo *Apollo) SaveSession() error {
	return apollo.store.Save(apollo.Request, apollo.Writer, apollo.Session())
}
