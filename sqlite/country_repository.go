package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prior-it/crud/core"
)

func NewCountryRepository(db *DB) *CountryRepository {
	return &CountryRepository{db}
}

// Sqlite implementation of the core CountryRepository interface.
type CountryRepository struct {
	db *DB
}

// Force struct to implement the core interface
var _ core.CountryRepository = &CountryRepository{}

// AddCountry implements core.CountryRepository.
func (r *CountryRepository) AddCountry(ctx context.Context, country *core.Country) error {
	_, err := r.db.ExecContext(
		ctx,
		"INSERT INTO countries (id, name) VALUES (?, ?)",
		country.ID,
		country.Name,
	)
	return convertSqliteError(err)
}

// ListCountries implements core.CountryRepository.
func (r *CountryRepository) ListCountries(ctx context.Context) ([]core.Country, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM countries ORDER BY rowid")
	if err != nil {
		return nil, convertSqliteError(err)
	}
	defer rows.Close()

	countries := make([]core.Country, 0)
	for rows.Next() {
		var country core.Country
		if err := rows.Scan(&country.ID, &country.Name); err != nil {
			return nil, fmt.Errorf("cannot read country: %w", err)
		}
		countries = append(countries, country)
	}
	return countries, rows.Err()
}

// GetCountryByID implements core.CountryRepository.
func (r *CountryRepository) GetCountryByID(
	ctx context.Context,
	id core.CountryID,
) (*core.Country, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, name FROM countries WHERE id = ?", id)
	return scanCountry(row)
}

// GetCountryByName implements core.CountryRepository.
func (r *CountryRepository) GetCountryByName(
	ctx context.Context,
	name string,
) (*core.Country, error) {
	row := r.db.QueryRowContext(
		ctx,
		"SELECT id, name FROM countries WHERE name = ? ORDER BY rowid LIMIT 1",
		name,
	)
	return scanCountry(row)
}

// UpdateCountry implements core.CountryRepository.
func (r *CountryRepository) UpdateCountry(ctx context.Context, country *core.Country) error {
	result, err := r.db.ExecContext(
		ctx,
		"UPDATE countries SET name = ? WHERE id = ?",
		country.Name,
		country.ID,
	)
	return checkAffected(result, err, core.ErrNotFound)
}

// DeleteCountry implements core.CountryRepository.
func (r *CountryRepository) DeleteCountry(ctx context.Context, id core.CountryID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM countries WHERE id = ?", id)
	return checkAffected(result, err, core.ErrNotFound)
}

func scanCountry(row *sql.Row) (*core.Country, error) {
	var country core.Country
	if err := row.Scan(&country.ID, &country.Name); err != nil {
		return nil, convertSqliteError(err)
	}
	return &country, nil
}
