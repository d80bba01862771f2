package persons

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
)

type Adder struct {
	repo   core.PersonRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewAdder creates a new adder service, now is used to compute the age of the returned persons.
func NewAdder(repo core.PersonRepository, logger *slog.Logger, now func() time.Time) *Adder {
	return &Adder{repo: repo, logger: logger, now: now}
}

// AddPerson validates the request and stores it as a new person.
// All violated validation rules are returned together as a *core.ValidationError.
func (a *Adder) AddPerson(
	ctx context.Context,
	request *dto.PersonCreate,
) (*dto.PersonResponse, error) {
	if request == nil {
		return nil, core.InvalidArgument("person request cannot be empty")
	}
	if err := dto.Validate(request); err != nil {
		return nil, err
	}

	person := request.ToPerson()
	person.ID = uuid.New()
	person.PassportNumber = core.DefaultPassport
	if err := a.repo.AddPerson(ctx, &person); err != nil {
		return nil, fmt.Errorf("cannot add person %q: %w", person.Name, err)
	}
	a.logger.Info("Person added", "id", person.ID)

	// Re-read the person so the country is attached
	stored, err := a.repo.GetPersonByID(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot get new person %v: %w", person.ID, err)
	}
	response := dto.ToPersonResponse(*stored, a.now())
	return &response, nil
}
