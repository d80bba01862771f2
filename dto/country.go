package dto

import (
	"github.com/biter777/countries"
	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
)

type CountryCreate struct {
	Name string `json:"name"`
}

func (c CountryCreate) ToCountry() core.Country {
	return core.Country{Name: c.Name}
}

type CountryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	// ISO 3166-1 alpha-2 code, empty if the name is not a known country name
	Code string `json:"code,omitempty"`
}

func ToCountryResponse(country core.Country) CountryResponse {
	return CountryResponse{
		ID:   country.ID,
		Name: country.Name,
		Code: isoCode(country.Name),
	}
}

func ToCountryResponseList(list []core.Country) []CountryResponse {
	result := make([]CountryResponse, len(list))
	for i, c := range list {
		result[i] = ToCountryResponse(c)
	}
	return result
}

func isoCode(name string) string {
	code := countries.ByName(name)
	if !code.IsValid() {
		return ""
	}
	return code.Alpha2()
}
