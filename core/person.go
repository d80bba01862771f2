package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

/**
 * DOMAIN
 */

type Person struct {
	ID            PersonID
	Name          string
	Email         string
	DateOfBirth   *time.Time
	Gender        Gender
	CountryID     *CountryID
	ReceiveEmails bool
	// Stored as-is, defaults to "None"
	PassportNumber string

	// Country is attached by the repository when the country reference resolves.
	Country *Country
}

type PersonID = uuid.UUID

const (
	PersonNameMaxLength  = 40
	PersonEmailMaxLength = 40
	DefaultPassport      = "None"
)

// ParsePersonID parses a string into a person id.
func ParsePersonID(id string) (PersonID, error) {
	personID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("cannot parse person id: %w", err)
	}
	return personID, nil
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) String() string {
	return string(g)
}

// ParseGender parses a gender, case-insensitive.
func ParseGender(value string) (Gender, error) {
	for _, g := range []Gender{GenderMale, GenderFemale, GenderOther} {
		if strings.EqualFold(value, string(g)) {
			return g, nil
		}
	}
	return "", InvalidArgument("unknown gender %q", value)
}

/**
 * APPLICATION
 */

// PersonMatcher reports whether a person should be part of a filtered result.
type PersonMatcher func(person *Person) bool

type PersonRepository interface {
	// Store a new person. The person id should already be set.
	AddPerson(ctx context.Context, person *Person) error
	// Retrieve all persons, with their countries attached, in storage order.
	ListPersons(ctx context.Context) ([]Person, error)
	// Retrieve all persons for which match returns true, in storage order.
	FilterPersons(ctx context.Context, match PersonMatcher) ([]Person, error)
	// Retrieve the person with the specified id or ErrNotFound if no such person exists.
	GetPersonByID(ctx context.Context, id PersonID) (*Person, error)
	// Overwrite the mutable fields of an existing person or return ErrNotFound.
	UpdatePerson(ctx context.Context, person *Person) error
	// Delete the person with the specified id or return ErrNotFound.
	DeletePerson(ctx context.Context, id PersonID) error
}
