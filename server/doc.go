/*
Package server provides the HTTP server of the application.
Handlers take an application-specific state object (used for dependency injection)
and a [Apollo] object which contains the request, the logged in user and a lot of utility functions.

Basic example:

	func main() {
		// Create server
		state := app.NewState(...)
		server := server.New(state, cfg).
			WithLogger(logger).
			WithPermissionService(permissions)

		// Attach middleware
		server.AttachDefaultMiddleware()

		// Attach routes
		server.Get("/", Home).
			Post("/login", DoLogin)
		server.With(server.RequireLogin[*app.State]).
			Post("/logout", DoLogout)

		// Run server
		log.Fatal(server.Start(ctx, nil))
	}

	func Home(apollo *server.Apollo, _ *app.State) error {
		apollo.JSON(http.StatusOK, "Hello world")
		return nil
	}

Post-hooks run right before the response headers are written and can be attached to all routes
with [Server.After] or to specific routes with [Server.WithStd] and [After].
*/
package server
