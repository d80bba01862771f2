package persons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
)

type Deleter struct {
	repo   core.PersonRepository
	logger *slog.Logger
}

func NewDeleter(repo core.PersonRepository, logger *slog.Logger) *Deleter {
	return &Deleter{repo: repo, logger: logger}
}

// DeletePerson returns false if there is no person with the specified id.
func (d *Deleter) DeletePerson(ctx context.Context, id core.PersonID) (bool, error) {
	if id == uuid.Nil {
		return false, core.InvalidArgument("person id cannot be empty")
	}
	_, err := d.repo.GetPersonByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("cannot get person %v: %w", id, err)
	}
	err = d.repo.DeletePerson(ctx, id)
	// Deleted by another request in the meantime
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("cannot delete person %v: %w", id, err)
	}
	d.logger.Info("Person deleted", "id", id)
	return true, nil
}
