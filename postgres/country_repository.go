package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prior-it/crud/core"
)

func NewCountryRepository(db *DB) *CountryRepository {
	return &CountryRepository{db}
}

// Postgres implementation of the core CountryRepository interface.
type CountryRepository struct {
	db *DB
}

// Force struct to implement the core interface
var _ core.CountryRepository = &CountryRepository{}

// AddCountry implements core.CountryRepository.
func (r *CountryRepository) AddCountry(ctx context.Context, country *core.Country) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO countries (id, name) VALUES ($1, $2)",
		country.ID,
		country.Name,
	)
	return convertPgError(err)
}

// ListCountries implements core.CountryRepository.
func (r *CountryRepository) ListCountries(ctx context.Context) ([]core.Country, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM countries ORDER BY seq")
	if err != nil {
		return nil, convertPgError(err)
	}
	countries, err := pgx.CollectRows(rows, scanCountry)
	if err != nil {
		return nil, fmt.Errorf("cannot read countries: %w", err)
	}
	return countries, nil
}

// GetCountryByID implements core.CountryRepository.
func (r *CountryRepository) GetCountryByID(
	ctx context.Context,
	id core.CountryID,
) (*core.Country, error) {
	rows, _ := r.db.Query(ctx, "SELECT id, name FROM countries WHERE id = $1", id)
	country, err := pgx.CollectExactlyOneRow(rows, scanCountry)
	if err != nil {
		return nil, convertPgError(err)
	}
	return &country, nil
}

// GetCountryByName implements core.CountryRepository.
func (r *CountryRepository) GetCountryByName(
	ctx context.Context,
	name string,
) (*core.Country, error) {
	rows, _ := r.db.Query(ctx, "SELECT id, name FROM countries WHERE name = $1 ORDER BY seq LIMIT 1", name)
	country, err := pgx.CollectExactlyOneRow(rows, scanCountry)
	if err != nil {
		return nil, convertPgError(err)
	}
	return &country, nil
}

// UpdateCountry implements core.CountryRepository.
func (r *CountryRepository) UpdateCountry(ctx context.Context, country *core.Country) error {
	tag, err := r.db.Exec(ctx, "UPDATE countries SET name = $2 WHERE id = $1", country.ID, country.Name)
	if err != nil {
		return convertPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteCountry implements core.CountryRepository.
func (r *CountryRepository) DeleteCountry(ctx context.Context, id core.CountryID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM countries WHERE id = $1", id)
	if err != nil {
		return convertPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanCountry(row pgx.CollectableRow) (core.Country, error) {
	var country core.Country
	err := row.Scan(&country.ID, &country.Name)
	return country, err
}
