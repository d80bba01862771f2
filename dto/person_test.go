package dto_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreate() dto.PersonCreate {
	dob := dto.NewDate(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	return dto.PersonCreate{
		Name:          "Ann",
		Email:         "ann@x.com",
		DateOfBirth:   &dob,
		Gender:        core.GenderFemale,
		CountryID:     uuid.New(),
		ReceiveEmails: true,
	}
}

func TestValidatePersonCreate(t *testing.T) {
	t.Run("ok: valid request", func(t *testing.T) {
		assert.Nil(t, dto.Validate(validCreate()))
	})

	t.Run("err: all violations are reported together", func(t *testing.T) {
		err := dto.Validate(dto.PersonCreate{Email: "not-an-email"})
		require.NotNil(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)

		var validationErr *core.ValidationError
		require.True(t, errors.As(err, &validationErr))
		for _, field := range []string{"Name", "Email", "DateOfBirth", "Gender", "CountryID"} {
			assert.True(t, validationErr.Has(field), "%s should be reported", field)
		}
		assert.Len(t, validationErr.Fields, 5)
		assert.Contains(t, err.Error(), "Person Name can't be blank")
		assert.Contains(t, err.Error(), "Email should be a valid email")
	})

	t.Run("err: name too long", func(t *testing.T) {
		request := validCreate()
		request.Name = tests.Faker.LetterN(41)
		err := dto.Validate(request)

		var validationErr *core.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, []core.FieldError{{
			Field:   "Name",
			Rule:    "max",
			Message: "Person Name can't be longer than 40 characters",
		}}, validationErr.Fields)
	})

	t.Run("err: unknown gender", func(t *testing.T) {
		request := validCreate()
		request.Gender = "Robot"
		err := dto.Validate(request)

		var validationErr *core.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.True(t, validationErr.Has("Gender"))
	})
}

func TestValidatePersonUpdate(t *testing.T) {
	t.Run("ok: optional fields can be empty", func(t *testing.T) {
		err := dto.Validate(dto.PersonUpdate{
			ID:    uuid.New(),
			Name:  "Ann",
			Email: "ann@x.com",
		})
		assert.Nil(t, err)
	})

	t.Run("err: missing id, name and email", func(t *testing.T) {
		err := dto.Validate(dto.PersonUpdate{})
		var validationErr *core.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.True(t, validationErr.Has("ID"))
		assert.True(t, validationErr.Has("Name"))
		assert.True(t, validationErr.Has("Email"))
		assert.False(t, validationErr.Has("Gender"))
	})
}

func TestPersonMapping(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ok: create request to entity", func(t *testing.T) {
		request := validCreate()
		person := request.ToPerson()
		assert.Equal(t, uuid.Nil, person.ID, "The id is generated by the service")
		assert.Equal(t, request.Name, person.Name)
		assert.Equal(t, request.CountryID, *person.CountryID)
		assert.True(t, request.DateOfBirth.Equal(*person.DateOfBirth))
		assert.Equal(t, core.GenderFemale, person.Gender)
	})

	t.Run("ok: entity to response", func(t *testing.T) {
		dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
		country := core.Country{ID: uuid.New(), Name: "Egypt"}
		person := core.Person{
			ID:          uuid.New(),
			Name:        "Ann",
			Email:       "ann@x.com",
			DateOfBirth: &dob,
			Gender:      core.GenderFemale,
			CountryID:   &country.ID,
			Country:     &country,
		}
		response := dto.ToPersonResponse(person, now)
		assert.Equal(t, person.ID, response.ID)
		assert.Equal(t, "Egypt", response.Country)
		assert.Equal(t, "Female", response.Gender)
		require.NotNil(t, response.Age)
		assert.Equal(t, 34, *response.Age)
	})

	t.Run("ok: no country attached", func(t *testing.T) {
		response := dto.ToPersonResponse(core.Person{ID: uuid.New()}, now)
		assert.Empty(t, response.Country)
		assert.Nil(t, response.Age, "Age should be nil without a date of birth")
	})

	t.Run("ok: update overwrites all mutable fields but not the id", func(t *testing.T) {
		id := uuid.New()
		person := core.Person{ID: id, Name: "Old", Email: "old@x.com", ReceiveEmails: true}
		countryID := uuid.New()
		dob := dto.NewDate(now)
		dto.PersonUpdate{
			ID:          uuid.New(),
			Name:        "New",
			Email:       "new@x.com",
			DateOfBirth: &dob,
			Gender:      core.GenderOther,
			CountryID:   &countryID,
		}.ApplyTo(&person)

		assert.Equal(t, id, person.ID)
		assert.Equal(t, "New", person.Name)
		assert.Equal(t, "new@x.com", person.Email)
		assert.Equal(t, core.GenderOther, person.Gender)
		assert.Equal(t, countryID, *person.CountryID)
		assert.False(t, person.ReceiveEmails)
	})

	t.Run("ok: response round trip through an update request", func(t *testing.T) {
		dob := time.Date(1981, 1, 2, 0, 0, 0, 0, time.UTC)
		original := dto.ToPersonResponse(core.Person{
			ID:          uuid.New(),
			Name:        "Muhammad Awadallah",
			Email:       "mo@email.com",
			DateOfBirth: &dob,
			Gender:      core.GenderMale,
		}, now)
		person := core.Person{ID: original.ID}
		original.ToPersonUpdate().ApplyTo(&person)
		assert.True(t, original.Equal(dto.ToPersonResponse(person, now)))
	})
}

func TestAge(t *testing.T) {
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, data := range []struct {
		now      time.Time
		expected int
	}{
		{time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), 10},
		// Rounded to the nearest year rather than truncated
		{time.Date(2010, 8, 1, 0, 0, 0, 0, time.UTC), 11},
		{time.Date(2010, 5, 1, 0, 0, 0, 0, time.UTC), 10},
	} {
		age := dto.Age(&dob, data.now)
		require.NotNil(t, age)
		assert.Equal(t, data.expected, *age, "age at %v", data.now)
	}

	t.Run("ok: dates of birth centuries ago", func(t *testing.T) {
		now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
		for _, data := range []struct {
			dob      time.Time
			expected int
		}{
			{time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC), 327},
			{time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC), 527},
		} {
			age := dto.Age(&data.dob, now)
			require.NotNil(t, age)
			assert.Equal(t, data.expected, *age, "age of %v", data.dob)
		}
	})
}

func TestDate(t *testing.T) {
	t.Run("ok: json round trip", func(t *testing.T) {
		var request dto.PersonCreate
		err := json.Unmarshal([]byte(`{"dateOfBirth":"1993-08-13"}`), &request)
		require.Nil(t, err)
		require.NotNil(t, request.DateOfBirth)
		assert.Equal(t, "1993-08-13", request.DateOfBirth.String())

		data, err := json.Marshal(request.DateOfBirth)
		require.Nil(t, err)
		assert.Equal(t, `"1993-08-13"`, string(data))
	})

	t.Run("ok: rfc3339 timestamps are accepted", func(t *testing.T) {
		date, err := dto.ParseDate("1993-08-13T10:00:00Z")
		require.Nil(t, err)
		assert.Equal(t, "1993-08-13", date.String())
	})

	t.Run("err: invalid date", func(t *testing.T) {
		_, err := dto.ParseDate("13-08-1993")
		assert.NotNil(t, err)
	})
}

func TestCountryResponse(t *testing.T) {
	egypt := dto.ToCountryResponse(core.Country{ID: uuid.New(), Name: "Egypt"})
	assert.Equal(t, "EG", egypt.Code)

	unknown := dto.ToCountryResponse(core.Country{ID: uuid.New(), Name: "Testland"})
	assert.Empty(t, unknown.Code)
}

func TestValidateRegistration(t *testing.T) {
	t.Run("ok: strong password", func(t *testing.T) {
		err := dto.Validate(dto.Registration{Email: "ann@x.com", Password: "Password1!"})
		assert.Nil(t, err)
	})

	t.Run("err: weak passwords", func(t *testing.T) {
		for _, password := range []string{"Pa1!", "password1!", "PASSWORD1!", "Password!", "Password1"} {
			err := dto.Validate(dto.Registration{Email: "ann@x.com", Password: password})
			var validationErr *core.ValidationError
			require.True(t, errors.As(err, &validationErr), "%q should be rejected", password)
			assert.True(t, validationErr.Has("Password"))
		}
	})
}
