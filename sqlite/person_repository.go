package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
)

const selectPersons = `
SELECT p.id, p.name, p.email, p.date_of_birth, p.gender, p.country_id, p.receive_emails, p.passport_number,
       c.id, c.name
FROM persons p
LEFT JOIN countries c ON c.id = p.country_id
`

func NewPersonRepository(db *DB) *PersonRepository {
	return &PersonRepository{db}
}

// Sqlite implementation of the core PersonRepository interface.
// Every returned person has its country attached.
type PersonRepository struct {
	db *DB
}

// Force struct to implement the core interface
var _ core.PersonRepository = &PersonRepository{}

// AddPerson implements core.PersonRepository.
func (r *PersonRepository) AddPerson(ctx context.Context, person *core.Person) error {
	passport := person.PassportNumber
	if passport == "" {
		passport = core.DefaultPassport
	}
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO persons (id, name, email, date_of_birth, gender, country_id, receive_emails, passport_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		person.ID,
		person.Name,
		person.Email,
		person.DateOfBirth,
		genderValue(person.Gender),
		person.CountryID,
		person.ReceiveEmails,
		passport,
	)
	return convertSqliteError(err)
}

// ListPersons implements core.PersonRepository.
func (r *PersonRepository) ListPersons(ctx context.Context) ([]core.Person, error) {
	rows, err := r.db.QueryContext(ctx, selectPersons+"ORDER BY p.rowid")
	if err != nil {
		return nil, convertSqliteError(err)
	}
	defer rows.Close()

	persons := make([]core.Person, 0)
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("cannot read person: %w", err)
		}
		persons = append(persons, *person)
	}
	return persons, rows.Err()
}

// FilterPersons implements core.PersonRepository.
func (r *PersonRepository) FilterPersons(
	ctx context.Context,
	match core.PersonMatcher,
) ([]core.Person, error) {
	all, err := r.ListPersons(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]core.Person, 0, len(all))
	for i := range all {
		if match(&all[i]) {
			result = append(result, all[i])
		}
	}
	return result, nil
}

// GetPersonByID implements core.PersonRepository.
func (r *PersonRepository) GetPersonByID(
	ctx context.Context,
	id core.PersonID,
) (*core.Person, error) {
	row := r.db.QueryRowContext(ctx, selectPersons+"WHERE p.id = ?", id)
	person, err := scanPerson(row)
	if err != nil {
		return nil, convertSqliteError(err)
	}
	return person, nil
}

// UpdatePerson implements core.PersonRepository.
func (r *PersonRepository) UpdatePerson(ctx context.Context, person *core.Person) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE persons
		SET name = ?, email = ?, date_of_birth = ?, gender = ?, country_id = ?, receive_emails = ?
		WHERE id = ?`,
		person.Name,
		person.Email,
		person.DateOfBirth,
		genderValue(person.Gender),
		person.CountryID,
		person.ReceiveEmails,
		person.ID,
	)
	return checkAffected(result, err, core.ErrNotFound)
}

// DeletePerson implements core.PersonRepository.
func (r *PersonRepository) DeletePerson(ctx context.Context, id core.PersonID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM persons WHERE id = ?", id)
	return checkAffected(result, err, core.ErrNotFound)
}

// Implemented by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (*core.Person, error) {
	var (
		person      core.Person
		gender      sql.NullString
		passport    sql.NullString
		countryID   *uuid.UUID
		countryName sql.NullString
	)
	err := row.Scan(
		&person.ID,
		&person.Name,
		&person.Email,
		&person.DateOfBirth,
		&gender,
		&person.CountryID,
		&person.ReceiveEmails,
		&passport,
		&countryID,
		&countryName,
	)
	if err != nil {
		return nil, err
	}
	person.Gender = core.Gender(gender.String)
	person.PassportNumber = passport.String
	if countryID != nil && countryName.Valid {
		person.Country = &core.Country{ID: *countryID, Name: countryName.String}
	}
	return &person, nil
}

// genderValue stores an empty gender as NULL.
func genderValue(gender core.Gender) sql.NullString {
	return sql.NullString{String: gender.String(), Valid: gender != ""}
}
