package app

import (
	"net/http"

	"github.com/prior-it/crud/permissions"
	"github.com/prior-it/crud/server"
)

// Routes attaches all endpoints, the default middleware should already be attached.
func Routes(s *server.Server[*State], state *State) {
	s.Get("/ping", Ping)

	index := s.WithStd(server.After(server.LastModified(state.Now)))
	index.Get("/", ListPersons)
	index.Get("/persons", ListPersons)

	s.Get("/persons/{id}", GetPerson)
	s.With(require(permissions.PermEditPersons)).
		Post("/persons", CreatePerson).
		Put("/persons/{id}", UpdatePerson)
	s.With(require(permissions.PermDeletePersons)).
		Delete("/persons/{id}", DeletePerson)
	s.With(require(permissions.PermExportPersons)).
		Get("/persons/csv", ExportPersonsCSV).
		Get("/persons/pdf", ExportPersonsPDF)

	s.Get("/countries", ListCountries)
	s.Get("/countries/{id}", GetCountry)
	s.With(require(permissions.PermEditCountries)).
		Post("/countries", CreateCountry).
		Post("/countries/upload", UploadCountries).
		Put("/api/countries/{id}", RenameCountry).
		Delete("/api/countries/{id}", DeleteCountry)

	s.Post("/account/register", Register)
	s.Post("/account/login", Login)
	s.Post("/account/logout", Logout)
	s.Get("/account/email-available", EmailAvailable)
	s.With(server.RequireLogin[*State]).Get("/account/me", Me)
	s.Get("/account/external/{provider}", ExternalLogin)
	s.Get("/account/external/{provider}/callback", ExternalLoginCallback)

	admin := s.Group("/admin").Use(server.RequireAdmin[*State])
	admin.Get("/users", ListUsers)
	admin.Delete("/users/{id}", DeleteUser)
	admin.Post("/users/{id}/roles", AssignRole)
	admin.Get("/roles", ListRoles)
	admin.Post("/roles", CreateRole)
	admin.Put("/roles/{id}", UpdateRole)
	admin.Delete("/roles/{id}", DeleteRole)
}

func require(permission permissions.Permission) server.Middleware[*State] {
	return server.RequirePermission[*State](permission)
}

func Ping(apollo *server.Apollo, _ *State) error {
	apollo.JSON(http.StatusOK, "pong")
	return nil
}
