package persons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
)

type Getter struct {
	repo   core.PersonRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewGetter(repo core.PersonRepository, logger *slog.Logger, now func() time.Time) *Getter {
	return &Getter{repo: repo, logger: logger, now: now}
}

// GetAllPersons returns all persons in storage order.
func (g *Getter) GetAllPersons(ctx context.Context) ([]dto.PersonResponse, error) {
	list, err := g.repo.ListPersons(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list persons: %w", err)
	}
	return dto.ToPersonResponseList(list, g.now()), nil
}

// GetFilteredPersons returns the persons for which the specified field matches the search text.
// If either the field or the text is empty, or the field cannot be searched, all persons are returned.
func (g *Getter) GetFilteredPersons(
	ctx context.Context,
	field Field,
	text string,
) ([]dto.PersonResponse, error) {
	filter, ok := filters[field]
	if field == "" || text == "" || !ok {
		return g.GetAllPersons(ctx)
	}
	start := time.Now()
	list, err := g.repo.FilterPersons(ctx, filter(text))
	if err != nil {
		return nil, fmt.Errorf("cannot filter persons on %s: %w", field, err)
	}
	g.logger.Debug(
		"Filtered persons",
		"field", field,
		"text", text,
		"matches", len(list),
		"duration", time.Since(start),
	)
	return dto.ToPersonResponseList(list, g.now()), nil
}

// GetPersonByID returns nil without an error if the id is empty or the person does not exist.
func (g *Getter) GetPersonByID(ctx context.Context, id core.PersonID) (*dto.PersonResponse, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	person, err := g.repo.GetPersonByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("cannot get person %v: %w", id, err)
	}
	response := dto.ToPersonResponse(*person, g.now())
	return &response, nil
}
