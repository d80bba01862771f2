package dto

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
)

type PersonCreate struct {
	Name          string      `json:"name"          validate:"required,max=40"                   label:"Person Name"`
	Email         string      `json:"email"         validate:"required,email,max=40"`
	DateOfBirth   *Date       `json:"dateOfBirth"   validate:"required"                          label:"Date of Birth"`
	Gender        core.Gender `json:"gender"        validate:"required,oneof=Male Female Other"`
	CountryID     uuid.UUID   `json:"countryId"     validate:"required"                          label:"Country"`
	ReceiveEmails bool        `json:"receiveEmails"`
}

// ToPerson maps the request onto a new person entity, the id is left empty.
func (c PersonCreate) ToPerson() core.Person {
	var countryID *uuid.UUID
	if c.CountryID != uuid.Nil {
		id := c.CountryID
		countryID = &id
	}
	return core.Person{
		Name:          c.Name,
		Email:         c.Email,
		DateOfBirth:   timePointer(c.DateOfBirth),
		Gender:        c.Gender,
		CountryID:     countryID,
		ReceiveEmails: c.ReceiveEmails,
	}
}

type PersonUpdate struct {
	ID            uuid.UUID   `json:"id"            validate:"required"                            label:"Person Id"`
	Name          string      `json:"name"          validate:"required,max=40"                     label:"Person Name"`
	Email         string      `json:"email"         validate:"required,email,max=40"`
	DateOfBirth   *Date       `json:"dateOfBirth"`
	Gender        core.Gender `json:"gender"        validate:"omitempty,oneof=Male Female Other"`
	CountryID     *uuid.UUID  `json:"countryId"`
	ReceiveEmails bool        `json:"receiveEmails"`
}

// ApplyTo overwrites all mutable fields of the specified person, the id is never changed.
func (u PersonUpdate) ApplyTo(person *core.Person) {
	person.Name = u.Name
	person.Email = u.Email
	person.DateOfBirth = timePointer(u.DateOfBirth)
	person.Gender = u.Gender
	person.CountryID = u.CountryID
	person.ReceiveEmails = u.ReceiveEmails
}

type PersonResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	DateOfBirth   *Date      `json:"dateOfBirth"`
	Gender        string     `json:"gender"`
	CountryID     *uuid.UUID `json:"countryId"`
	Country       string     `json:"country"`
	ReceiveEmails bool       `json:"receiveEmails"`
	Age           *int       `json:"age"`
}

// ToPersonResponse projects a person entity, the age is computed relative to now.
// The country name is taken from the country attached to the entity, no lookup is done.
func ToPersonResponse(person core.Person, now time.Time) PersonResponse {
	response := PersonResponse{
		ID:            person.ID,
		Name:          person.Name,
		Email:         person.Email,
		DateOfBirth:   datePointer(person.DateOfBirth),
		Gender:        person.Gender.String(),
		CountryID:     person.CountryID,
		ReceiveEmails: person.ReceiveEmails,
		Age:           Age(person.DateOfBirth, now),
	}
	if person.Country != nil {
		response.Country = person.Country.Name
	}
	return response
}

func ToPersonResponseList(list []core.Person, now time.Time) []PersonResponse {
	result := make([]PersonResponse, len(list))
	for i, p := range list {
		result[i] = ToPersonResponse(p, now)
	}
	return result
}

// Age returns the amount of years between the date of birth and now, using 365.25 days per
// year and rounded to the nearest integer. Returns nil if there is no date of birth.
func Age(dateOfBirth *time.Time, now time.Time) *int {
	if dateOfBirth == nil {
		return nil
	}
	// time.Duration overflows after about 292 years
	days := float64(now.Unix()-dateOfBirth.Unix()) / 86400 //nolint:mnd
	age := int(math.Round(days / 365.25))                  //nolint:mnd
	return &age
}

// ToPersonUpdate converts a projection back into an update request for the same person.
func (r PersonResponse) ToPersonUpdate() PersonUpdate {
	return PersonUpdate{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		DateOfBirth:   r.DateOfBirth,
		Gender:        core.Gender(r.Gender),
		CountryID:     r.CountryID,
		ReceiveEmails: r.ReceiveEmails,
	}
}

// Equal compares all stored fields of both projections.
// Derived fields (country name and age) are ignored.
func (r PersonResponse) Equal(other PersonResponse) bool {
	return r.ID == other.ID &&
		r.Name == other.Name &&
		r.Email == other.Email &&
		equalDates(r.DateOfBirth, other.DateOfBirth) &&
		r.Gender == other.Gender &&
		equalIDs(r.CountryID, other.CountryID) &&
		r.ReceiveEmails == other.ReceiveEmails
}

func (r PersonResponse) String() string {
	dob := ""
	if r.DateOfBirth != nil {
		dob = r.DateOfBirth.Format("02 01 2006")
	}
	return fmt.Sprintf(
		"Id: %s, Name: %s, Email: %s, Date of Birth: %s, Gender: %s, Country: %s, Receive Emails: %t",
		r.ID, r.Name, r.Email, dob, r.Gender, r.Country, r.ReceiveEmails,
	)
}

func equalDates(a, b *Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b.Time)
}

func equalIDs(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
