package persons_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/persons"
	"github.com/prior-it/crud/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createRequest(countryID uuid.UUID) *dto.PersonCreate {
	dob := dto.NewDate(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	return &dto.PersonCreate{
		Name:          "Ann",
		Email:         "ann@x.com",
		DateOfBirth:   &dob,
		Gender:        core.GenderFemale,
		CountryID:     countryID,
		ReceiveEmails: true,
	}
}

func TestAddPerson(t *testing.T) {
	ctx := context.Background()

	t.Run("err: nil request", func(t *testing.T) {
		repo := newPersonRepository()
		_, err := persons.NewAdder(repo, tests.Logger, now).AddPerson(ctx, nil)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
		repo.AssertNotCalled(t, "AddPerson", mock.Anything, mock.Anything)
	})

	t.Run("err: every violation is reported", func(t *testing.T) {
		repo := newPersonRepository()
		_, err := persons.NewAdder(repo, tests.Logger, now).AddPerson(ctx, &dto.PersonCreate{
			Email: "ann",
		})
		var validationErr *core.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Len(t, validationErr.Fields, 5)
		repo.AssertNotCalled(t, "AddPerson", mock.Anything, mock.Anything)
	})

	t.Run("ok: valid request", func(t *testing.T) {
		country := core.Country{ID: uuid.New(), Name: "Testland"}
		request := createRequest(country.ID)
		var stored core.Person

		repo := newPersonRepository()
		repo.On("AddPerson", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			stored = *args.Get(1).(*core.Person)
			stored.Country = &country
		}).Return(nil)
		// Filled in by AddPerson before it is read back
		repo.On("GetPersonByID", mock.Anything, mock.Anything).Return(&stored, nil)

		response, err := persons.NewAdder(repo, tests.Logger, now).AddPerson(ctx, request)
		require.Nil(t, err)
		assert.NotEqual(t, uuid.Nil, response.ID)
		assert.Equal(t, stored.ID, response.ID)
		assert.Equal(t, core.DefaultPassport, stored.PassportNumber)
		assert.Equal(t, "Ann", response.Name)
		assert.Equal(t, "Testland", response.Country)
		require.NotNil(t, response.Age)
		assert.Equal(t, 34, *response.Age)
	})
}

func TestUpdatePerson(t *testing.T) {
	ctx := context.Background()

	t.Run("err: nil request", func(t *testing.T) {
		_, err := persons.NewUpdater(newPersonRepository(), tests.Logger, now).UpdatePerson(ctx, nil)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("err: invalid request", func(t *testing.T) {
		repo := newPersonRepository()
		_, err := persons.NewUpdater(repo, tests.Logger, now).UpdatePerson(ctx, &dto.PersonUpdate{
			ID: uuid.New(),
		})
		var validationErr *core.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.True(t, validationErr.Has("Name"))
		assert.True(t, validationErr.Has("Email"))
		repo.AssertNotCalled(t, "UpdatePerson", mock.Anything, mock.Anything)
	})

	t.Run("err: unknown person", func(t *testing.T) {
		repo := newPersonRepository()
		repo.On("GetPersonByID", mock.Anything, mock.Anything).Return(nil, core.ErrNotFound)
		_, err := persons.NewUpdater(repo, tests.Logger, now).UpdatePerson(ctx, &dto.PersonUpdate{
			ID:    uuid.New(),
			Name:  "Ann",
			Email: "ann@x.com",
		})
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
		assert.ErrorContains(t, err, "person id doesn't exist")
		repo.AssertNotCalled(t, "UpdatePerson", mock.Anything, mock.Anything)
	})

	t.Run("ok: mutable fields are overwritten", func(t *testing.T) {
		existing := people()[0]
		id := existing.ID
		repo := newPersonRepository()
		repo.On("GetPersonByID", mock.Anything, id).Return(&existing, nil)
		repo.On("UpdatePerson", mock.Anything, mock.Anything).Return(nil)

		dob := dto.NewDate(time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC))
		response, err := persons.NewUpdater(repo, tests.Logger, now).UpdatePerson(ctx, &dto.PersonUpdate{
			ID:          id,
			Name:        "Mo Awadallah",
			Email:       "mo2@email.com",
			DateOfBirth: &dob,
			Gender:      core.GenderOther,
		})
		require.Nil(t, err)
		assert.Equal(t, id, response.ID)
		assert.Equal(t, "Mo Awadallah", response.Name)
		assert.Equal(t, "mo2@email.com", response.Email)
		assert.Equal(t, "2000-02-29", response.DateOfBirth.String())
		assert.Equal(t, "Other", response.Gender)
		assert.Nil(t, response.CountryID)
		assert.False(t, response.ReceiveEmails)
		repo.AssertCalled(t, "UpdatePerson", mock.Anything, mock.MatchedBy(func(p *core.Person) bool {
			return p.ID == id && p.Name == "Mo Awadallah"
		}))
	})
}

func TestDeletePerson(t *testing.T) {
	ctx := context.Background()

	t.Run("err: nil id", func(t *testing.T) {
		_, err := persons.NewDeleter(newPersonRepository(), tests.Logger).DeletePerson(ctx, uuid.Nil)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("ok: unknown id", func(t *testing.T) {
		repo := newPersonRepository()
		repo.On("GetPersonByID", mock.Anything, mock.Anything).Return(nil, core.ErrNotFound)
		deleted, err := persons.NewDeleter(repo, tests.Logger).DeletePerson(ctx, uuid.New())
		assert.Nil(t, err)
		assert.False(t, deleted)
		repo.AssertNotCalled(t, "DeletePerson", mock.Anything, mock.Anything)
	})

	t.Run("ok: existing id", func(t *testing.T) {
		person := people()[1]
		repo := newPersonRepository()
		repo.On("GetPersonByID", mock.Anything, person.ID).Return(&person, nil)
		repo.On("DeletePerson", mock.Anything, person.ID).Return(nil)
		deleted, err := persons.NewDeleter(repo, tests.Logger).DeletePerson(ctx, person.ID)
		assert.Nil(t, err)
		assert.True(t, deleted)
		repo.AssertExpectations(t)
	})

	t.Run("ok: deleted by another request in the meantime", func(t *testing.T) {
		person := people()[2]
		repo := newPersonRepository()
		repo.On("GetPersonByID", mock.Anything, person.ID).Return(&person, nil)
		repo.On("DeletePerson", mock.Anything, person.ID).Return(core.ErrNotFound)
		deleted, err := persons.NewDeleter(repo, tests.Logger).DeletePerson(ctx, person.ID)
		assert.Nil(t, err)
		assert.False(t, deleted)
	})

	t.Run("err: storage failure", func(t *testing.T) {
		person := people()[2]
		repo := newPersonRepository()
		repo.On("GetPersonByID", mock.Anything, person.ID).Return(&person, nil)
		repo.On("DeletePerson", mock.Anything, person.ID).Return(errors.New("connection lost"))
		_, err := persons.NewDeleter(repo, tests.Logger).DeletePerson(ctx, person.ID)
		assert.NotNil(t, err)
	})
}
