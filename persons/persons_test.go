package persons_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/tests"
)

var today = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func now() time.Time {
	return today
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// people returns a fixed list of persons in two countries, the last person has no country or date of birth.
func people() []core.Person {
	egypt := core.Country{ID: uuid.New(), Name: "Egypt"}
	iraq := core.Country{ID: uuid.New(), Name: "Iraq"}
	return []core.Person{
		{
			ID:            uuid.New(),
			Name:          "Muhammad Awadallah",
			Email:         "mo@email.com",
			DateOfBirth:   date(1981, time.January, 2),
			Gender:        core.GenderMale,
			CountryID:     &egypt.ID,
			Country:       &egypt,
			ReceiveEmails: true,
		},
		{
			ID:          uuid.New(),
			Name:        "amany Muhammad",
			Email:       "amany@email.com",
			DateOfBirth: date(1991, time.June, 24),
			Gender:      core.GenderFemale,
			CountryID:   &iraq.ID,
			Country:     &iraq,
		},
		{
			ID:            uuid.New(),
			Name:          "Galal Ali",
			Email:         "galal@email.com",
			DateOfBirth:   date(1985, time.June, 17),
			Gender:        core.GenderMale,
			CountryID:     &iraq.ID,
			Country:       &iraq,
			ReceiveEmails: true,
		},
		{
			ID:     uuid.New(),
			Name:   "Basel Mahmoud",
			Email:  "basel@email.com",
			Gender: core.GenderOther,
		},
	}
}

func newPersonRepository() *tests.PersonRepository {
	return &tests.PersonRepository{}
}
