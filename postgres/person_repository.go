package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

// Postgres implementation of the core PersonRepository interface.
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
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO persons (id, name, email, date_of_birth, gender, country_id, receive_emails, passport_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		person.ID,
		person.Name,
		person.Email,
		person.DateOfBirth,
		genderValue(person.Gender),
		person.CountryID,
		person.ReceiveEmails,
		passport,
	)
	return convertPgError(err)
}

// ListPersons implements core.PersonRepository.
func (r *PersonRepository) ListPersons(ctx context.Context) ([]core.Person, error) {
	rows, err := r.db.Query(ctx, selectPersons+"ORDER BY p.seq")
	if err != nil {
		return nil, convertPgError(err)
	}
	persons, err := pgx.CollectRows(rows, scanPerson)
	if err != nil {
		return nil, fmt.Errorf("cannot read persons: %w", err)
	}
	return persons, nil
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
	return filter(all, match), nil
}

// GetPersonByID implements core.PersonRepository.
func (r *PersonRepository) GetPersonByID(
	ctx context.Context,
	id core.PersonID,
) (*core.Person, error) {
	rows, _ := r.db.Query(ctx, selectPersons+"WHERE p.id = $1", id)
	person, err := pgx.CollectExactlyOneRow(rows, scanPerson)
	if err != nil {
		return nil, convertPgError(err)
	}
	return &person, nil
}

// UpdatePerson implements core.PersonRepository.
func (r *PersonRepository) UpdatePerson(ctx context.Context, person *core.Person) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE persons
		SET name = $2, email = $3, date_of_birth = $4, gender = $5, country_id = $6, receive_emails = $7
		WHERE id = $1`,
		person.ID,
		person.Name,
		person.Email,
		person.DateOfBirth,
		genderValue(person.Gender),
		person.CountryID,
		person.ReceiveEmails,
	)
	if err != nil {
		return convertPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeletePerson implements core.PersonRepository.
func (r *PersonRepository) DeletePerson(ctx context.Context, id core.PersonID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM persons WHERE id = $1", id)
	if err != nil {
		return convertPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanPerson(row pgx.CollectableRow) (core.Person, error) {
	var (
		person      core.Person
		gender      *string
		passport    *string
		countryID   *uuid.UUID
		countryName *string
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
		return person, err
	}
	if gender != nil {
		person.Gender = core.Gender(*gender)
	}
	if passport != nil {
		person.PassportNumber = *passport
	}
	if countryID != nil && countryName != nil {
		person.Country = &core.Country{ID: *countryID, Name: *countryName}
	}
	return person, nil
}

// genderValue stores an empty gender as NULL.
func genderValue(gender core.Gender) *string {
	if gender == "" {
		return nil
	}
	value := gender.String()
	return &value
}

func filter(list []core.Person, match core.PersonMatcher) []core.Person {
	result := make([]core.Person, 0, len(list))
	for i := range list {
		if match(&list[i]) {
			result = append(result, list[i])
		}
	}
	return result
}
