package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

/**
 * DOMAIN
 */

type Country struct {
	ID   CountryID
	Name string
}

type CountryID = uuid.UUID

// CountryNameMaxLength is the maximum amount of characters in a country name.
const CountryNameMaxLength = 15

// ParseCountryID parses a string into a country id.
func ParseCountryID(id string) (CountryID, error) {
	countryID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("cannot parse country id: %w", err)
	}
	return countryID, nil
}

/**
 * APPLICATION
 */

type CountryRepository interface {
	// Store a new country. The country id should already be set.
	AddCountry(ctx context.Context, country *Country) error
	// Retrieve all countries in storage order.
	ListCountries(ctx context.Context) ([]Country, error)
	// Retrieve the country with the specified id or ErrNotFound if no such country exists.
	GetCountryByID(ctx context.Context, id CountryID) (*Country, error)
	// Retrieve the country with exactly the specified name or ErrNotFound if no such country exists.
	GetCountryByName(ctx context.Context, name string) (*Country, error)
	// Change the name of an existing country or return ErrNotFound if no such country exists.
	UpdateCountry(ctx context.Context, country *Country) error
	// Delete the country with the specified id or return ErrNotFound if no such country exists.
	// Persons that referenced the country lose their country reference.
	DeleteCountry(ctx context.Context, id CountryID) error
}
