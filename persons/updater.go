package persons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
)

type Updater struct {
	repo   core.PersonRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewUpdater(repo core.PersonRepository, logger *slog.Logger, now func() time.Time) *Updater {
	return &Updater{repo: repo, logger: logger, now: now}
}

// UpdatePerson overwrites every mutable field of an existing person, the id never changes.
// Returns a *core.ValidationError if the request is invalid and core.ErrInvalidArgument if the person does not exist.
func (u *Updater) UpdatePerson(
	ctx context.Context,
	request *dto.PersonUpdate,
) (*dto.PersonResponse, error) {
	if request == nil {
		return nil, core.InvalidArgument("person request cannot be empty")
	}
	if err := dto.Validate(request); err != nil {
		return nil, err
	}

	person, err := u.repo.GetPersonByID(ctx, request.ID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.InvalidArgument("person id doesn't exist")
	} else if err != nil {
		return nil, fmt.Errorf("cannot get person %v: %w", request.ID, err)
	}

	request.ApplyTo(person)
	if err := u.repo.UpdatePerson(ctx, person); err != nil {
		return nil, fmt.Errorf("cannot update person %v: %w", person.ID, err)
	}
	u.logger.Info("Person updated", "id", person.ID)

	updated, err := u.repo.GetPersonByID(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot get updated person %v: %w", person.ID, err)
	}
	response := dto.ToPersonResponse(*updated, u.now())
	return &response, nil
}
