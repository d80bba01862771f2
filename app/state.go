// Package app wires the services into the HTTP endpoints of the application.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/prior-it/crud/account"
	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/countries"
	"github.com/prior-it/crud/oauth"
	"github.com/prior-it/crud/permissions"
	"github.com/prior-it/crud/persons"
)

// Storage contains everything the application needs from a storage backend.
type Storage struct {
	Countries   core.CountryRepository
	Persons     core.PersonRepository
	Users       core.UserRepository
	Permissions permissions.Service
	// Close releases the storage backend.
	Close func()
}

// State is passed to every handler.
type State struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Now    func() time.Time

	Countries *countries.Service
	Adder     *persons.Adder
	Getter    *persons.Getter
	Sorter    *persons.Sorter
	Updater   *persons.Updater
	Deleter   *persons.Deleter
	Accounts  *account.Service
	OAuth     *oauth.Service
	// Optional, nil if no smtp server was configured
	Email core.EmailService

	storage Storage
}

// NewState builds all services on top of the storage. The e-mail service may be nil.
func NewState(
	cfg *config.Config,
	logger *slog.Logger,
	storage Storage,
	email core.EmailService,
	now func() time.Time,
) *State {
	return &State{
		Cfg:       cfg,
		Logger:    logger,
		Now:       now,
		Countries: countries.NewService(storage.Countries, logger),
		Adder:     persons.NewAdder(storage.Persons, logger, now),
		Getter:    persons.NewGetter(storage.Persons, logger, now),
		Sorter:    persons.NewSorter(),
		Updater:   persons.NewUpdater(storage.Persons, logger, now),
		Deleter:   persons.NewDeleter(storage.Persons, logger),
		Accounts:  account.NewService(storage.Users, storage.Permissions, email, logger),
		OAuth:     oauth.NewService(cfg.OAuthProviders, nil, logger),
		Email:     email,
		storage:   storage,
	}
}

// Permissions returns the permission service of the storage backend.
func (s *State) Permissions() permissions.Service {
	return s.storage.Permissions
}

func (s *State) Close(_ context.Context) {
	if s.storage.Close != nil {
		s.storage.Close()
	}
	s.Logger.Info("Storage closed")
}
