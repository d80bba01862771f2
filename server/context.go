package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/core"
)

type contextKey uint

const (
	ctxLoggedIn contextKey = iota
	ctxUserID
	ctxUserName
	ctxSession
	ctxConfig
	ctxIsAdmin
)

func IsLoggedIn(ctx context.Context) bool {
	loggedIn, ok := ctx.Value(ctxLoggedIn).(bool)
	return ok && loggedIn
}

func IsAdmin(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(ctxIsAdmin).(bool)
	return ok && isAdmin
}

// UserID returns the id of the logged in user, or uuid.Nil if nobody is logged in.
func UserID(ctx context.Context) core.UserID {
	id, ok := ctx.Value(ctxUserID).(core.UserID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func UserName(ctx context.Context) string {
	name, _ := ctx.Value(ctxUserName).(string)
	return name
}

// Session provides access to the current user's session, or nil if the session middleware did not run.
// Applications can use this to attach or retrieve custom data from this session.
// Make sure to prefix all custom keys with "app-" so they won't interfere with the session context.
func Session(ctx context.Context) *sessions.Session {
	session, _ := ctx.Value(ctxSession).(*sessions.Session)
	return session
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ctxConfig).(*config.Config)
	return cfg
}
