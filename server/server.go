package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/permissions"
)

type (
	ErrorHandler    func(apollo *Apollo, err error)
	NotFoundHandler func(apollo *Apollo)
)

type State interface {
	Close(ctx context.Context)
}

type Server[state State] struct {
	mux               chi.Router
	state             state
	logger            *slog.Logger
	errorHandler      ErrorHandler
	permissionService permissions.Service
	sessionStore      sessions.Store
	cfg               *config.Config
	http              *http.Server
}

type (
	Handler[state any]    func(apollo *Apollo, state state) error
	Middleware[state any] func(apollo *Apollo, state state) (context.Context, error)
)

const sessionKeyLength = 32

// New creates a new server with the specified state object and configuration.
// If the configuration does not contain session keys, random keys are generated and sessions will
// not survive a restart.
func New[state State](s state, cfg *config.Config) *Server[state] {
	server := &Server[state]{
		mux:          chi.NewMux(),
		state:        s,
		logger:       slog.Default(),
		errorHandler: DefaultErrorHandler,
		cfg:          cfg,
	}

	authKey := []byte(cfg.App.AuthenticationKey)
	encKey := []byte(cfg.App.EncryptionKey)
	if len(authKey) == 0 || len(encKey) == 0 {
		slog.Warn("No session keys configured, generating random keys")
		authKey = securecookie.GenerateRandomKey(sessionKeyLength)
		encKey = securecookie.GenerateRandomKey(sessionKeyLength)
	}
	server.sessionStore = sessions.NewCookieStore(authKey, encKey)

	// Attach default not found handler
	server.WithNotFoundHandler(
		func(apollo *Apollo) {
			apollo.JSON(http.StatusNotFound, ErrorResponse{
				Error: fmt.Sprintf("Page %q not found", apollo.Path()),
			})
		},
	)

	return server
}

func (server *Server[state]) WithErrorHandler(errorHandler ErrorHandler) *Server[state] {
	server.errorHandler = errorHandler
	return server
}

func (server *Server[state]) WithNotFoundHandler(notFoundHandler NotFoundHandler) *Server[state] {
	server.mux.NotFound(server.handle(func(apollo *Apollo, _ state) error {
		notFoundHandler(apollo)
		return nil
	}))
	return server
}

func (server *Server[state]) WithLogger(logger *slog.Logger) *Server[state] {
	server.logger = logger
	return server
}

func (server *Server[state]) WithPermissionService(service permissions.Service) *Server[state] {
	server.permissionService = service
	return server
}

func (server *Server[state]) WithSessionStore(store sessions.Store) *Server[state] {
	server.sessionStore = store
	return server
}

func (server *Server[state]) WithConfig(cfg *config.Config) *Server[state] {
	server.cfg = cfg
	return server
}

func (server *Server[state]) NewApollo(w http.ResponseWriter, r *http.Request) *Apollo {
	apollo := Apollo{
		Writer:      w,
		Request:     r,
		logger:      server.logger,
		permissions: server.permissionService,
		store:       server.sessionStore,
		Cfg:         server.cfg,
	}
	apollo.populate()
	return &apollo
}

func (server *Server[state]) handle(handler Handler[state]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apollo := server.NewApollo(w, r)
		err := handler(apollo, server.state)
		if err != nil {
			server.errorHandler(apollo, err)
		}
		_ = r.Body.Close()
	}
}

// Utility function that converts Apollo middleware to a http handler
func (server *Server[state]) HandlerMiddleware(
	middleware Middleware[state],
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apollo := server.NewApollo(w, r)
			ctx, err := middleware(apollo, server.state)
			if err != nil {
				server.errorHandler(apollo, err)
			} else {
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

func (server *Server[state]) AttachDefaultMiddleware() {
	server.UseStd(
		middleware.RedirectSlashes,
		middleware.Recoverer,
		middleware.RealIP,
		middleware.RequestID,
		HTTPLogger(server.cfg),
	)
	if server.cfg.App.RequestTimeout > 0 {
		server.UseStd(middleware.Timeout(
			time.Duration(server.cfg.App.RequestTimeout) * time.Second,
		))
	}
	server.UseStd(
		server.SessionMiddleware,
		server.ContextMiddleware,
	)
	if len(server.cfg.App.Version) > 0 {
		server.After(ResponseHeader("X-App-Version", server.cfg.App.Version))
	}
}

// Start runs the server until the context is cancelled or an interrupt signal is received.
// If no listener is provided, a new TCP listener will be created on the configured host and port.
func (server *Server[state]) Start(ctx context.Context, listener net.Listener) error {
	// Handle OS signals to cancel the context
	ctxServer, stopSignal := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignal()

	host := fmt.Sprintf("%v:%v", server.cfg.App.Host, server.cfg.App.Port)
	if listener != nil {
		host = listener.Addr().String()
	}
	server.http = &http.Server{
		Addr:              host,
		Handler:           server,
		ReadHeaderTimeout: time.Duration(server.cfg.App.RequestTimeout) * time.Second,
	}

	errorCh := make(chan error)
	// Run the actual server
	go func() {
		server.logger.Info("Starting server", "url", server.cfg.BaseURL(), "host", host)
		var err error
		if listener != nil {
			err = server.http.Serve(listener)
		} else {
			err = server.http.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorCh <- err
		}
		close(errorCh)
	}()

	var errServer error

	select {
	case err := <-errorCh:
		errServer = err
	case <-ctxServer.Done():
		server.logger.Info("Server interrupt received")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(
		context.WithoutCancel(ctx),
		time.Duration(server.cfg.App.ShutdownTimeout)*time.Second,
	)
	defer cancelShutdown()
	server.Shutdown(ctxShutdown)

	return errServer
}

// Shutdown will gracefully release all server resources. You generally don't need to call this manually.
func (server *Server[state]) Shutdown(ctx context.Context) {
	if server.http != nil {
		if err := server.http.Shutdown(ctx); err != nil {
			server.logger.Error("Could not shut down the http server", "error", err)
		}
	}
	sentryTimeout := max(0, time.Duration(server.cfg.App.ShutdownTimeout-1))
	sentry.Flush(sentryTimeout * time.Second)
	server.state.Close(ctx)
}

// ServeHTTP implements [net/http.Handler].
func (server *Server[state]) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	server.mux.ServeHTTP(writer, request)
}

// UseStd appends a stdlib middleware handler to the middleware stack.
//
// The middleware stack for any server will execute before searching for a matching
// route to a specific handler, which provides opportunity to respond early,
// change the course of the request execution, or set request-scoped values for
// the next Handler.
func (server *Server[state]) UseStd(middlewares ...func(http.Handler) http.Handler) *Server[state] {
	server.mux.Use(middlewares...)
	return server
}

// Use appends an Apollo middleware handler to the middleware stack.
func (server *Server[state]) Use(
	middlewares ...Middleware[state],
) *Server[state] {
	for _, mi := range middlewares {
		server.mux.Use(server.HandlerMiddleware(mi))
	}
	return server
}

// After appends post-hooks to the middleware stack, they run right before the response headers
// of every route are written.
func (server *Server[state]) After(hooks ...PostHook) *Server[state] {
	server.mux.Use(After(hooks...))
	return server
}

// With returns a server that adds the specified Apollo middleware to the routes that are attached to
// it, without changing the routes of the original server.
//
// # Example
//
//	server.With(server.RequirePermission[*State](PermEdit)).Post("/items", CreateItem)
func (server *Server[state]) With(middlewares ...Middleware[state]) *Server[state] {
	std := make([]func(http.Handler) http.Handler, len(middlewares))
	for i, mi := range middlewares {
		std[i] = server.HandlerMiddleware(mi)
	}
	return server.WithStd(std...)
}

// WithStd is the stdlib middleware version of With.
func (server *Server[state]) WithStd(middlewares ...func(http.Handler) http.Handler) *Server[state] {
	srv := Server[state](*server) //nolint:unconvert // shallow copy
	srv.mux = server.mux.With(middlewares...)
	return &srv
}

// Handle adds the route `pattern` that matches any http method to
// execute the `handler` [net/http.Handler].
func (server *Server[state]) Handle(pattern string, handler http.Handler) *Server[state] {
	server.mux.Handle(pattern, handler)
	return server
}

// Group attaches another router along a routing path. Middleware that is added to the group only
// applies to the routes inside of it.
//
// Note that Group() does NOT return the original server but rather
// a subroute server that only serves routes along the specified Group pattern.
// If you define two Group() routes on the exact same pattern, the second group will panic.
func (server *Server[state]) Group(
	pattern string,
) *Server[state] {
	srv := Server[state](*server) //nolint:unconvert // shallow copy
	srv.mux = chi.NewMux()
	server.mux.Mount(pattern, srv.mux)
	return &srv
}

// Get adds the route `pattern` that matches a GET http method to execute the `handlerFn` HandlerFunc.
func (server *Server[state]) Get(
	pattern string,
	handlerFn func(apollo *Apollo, state state) error,
) *Server[state] {
	server.mux.Get(pattern, server.handle(handlerFn))
	return server
}

// Post adds the route `pattern` that matches a POST http method to execute the `handlerFn` http.HandlerFunc.
func (server *Server[state]) Post(
	pattern string,
	handlerFn func(apollo *Apollo, state state) error,
) *Server[state] {
	server.mux.Post(pattern, server.handle(handlerFn))
	return server
}

// Put adds the route `pattern` that matches a PUT http method to execute the `handlerFn` http.HandlerFunc.
func (server *Server[state]) Put(
	pattern string,
	handlerFn func(apollo *Apollo, state state) error,
) *Server[state] {
	server.mux.Put(pattern, server.handle(handlerFn))
	return server
}

// Delete adds the route `pattern` that matches a DELETE http method to execute the `handlerFn` http.HandlerFunc.
func (server *Server[state]) Delete(
	pattern string,
	handlerFn func(apollo *Apollo, state state) error,
) *Server[state] {
	server.mux.Delete(pattern, server.handle(handlerFn))
	return server
}

// RequirePermission is middleware that requires the logged in user to have the specified permission.
func RequirePermission[state any](permission permissions.Permission) Middleware[state] {
	return func(apollo *Apollo, _ state) (context.Context, error) {
		return apollo.Context(), apollo.Requires(permission)
	}
}

// RequireLogin is middleware that requires that any user is logged in before continuing on.
func RequireLogin[state any](apollo *Apollo, _ state) (context.Context, error) {
	if apollo.User == nil {
		return apollo.Context(), core.ErrUnauthenticated
	}
	return apollo.Context(), nil
}

// RequireAdmin is middleware that requires the logged in user to be an admin.
func RequireAdmin[state any](apollo *Apollo, _ state) (context.Context, error) {
	if apollo.User == nil {
		return apollo.Context(), core.ErrUnauthenticated
	}
	if !apollo.User.Admin {
		return apollo.Context(), core.ErrForbidden
	}
	return apollo.Context(), nil
}
