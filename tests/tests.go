// Package tests contains helpers that are shared between the test suites of all packages.
package tests

import (
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
)

var Faker = gofakeit.New(rand.Uint64())

// Logger discards everything that is logged.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func Check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// Email returns a random, valid e-mail address.
func Email() core.EmailAddress {
	email, err := core.ParseEmailAddress(Faker.Email())
	Check(err)
	return email
}

// Country returns a new country with a random id and a name that fits the maximum length.
func Country() core.Country {
	return core.Country{
		ID:   uuid.New(),
		Name: Faker.LetterN(uint(Faker.IntRange(3, core.CountryNameMaxLength))),
	}
}

// Person returns a new person with random data that passes validation, living in the specified country.
func Person(country *core.Country) core.Person {
	dob := time.Date(
		Faker.IntRange(1950, 2010),
		time.Month(Faker.IntRange(1, 12)),
		Faker.IntRange(1, 28),
		0, 0, 0, 0, time.UTC,
	)
	person := core.Person{
		ID:             uuid.New(),
		Name:           Faker.LetterN(uint(Faker.IntRange(1, core.PersonNameMaxLength))),
		Email:          Faker.LetterN(10) + "@example.com",
		DateOfBirth:    &dob,
		Gender:         core.GenderOther,
		ReceiveEmails:  Faker.Bool(),
		PassportNumber: core.DefaultPassport,
	}
	if country != nil {
		person.CountryID = &country.ID
		person.Country = country
	}
	return person
}
