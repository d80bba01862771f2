package app

import (
	"bytes"
	"net/http"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/persons"
	"github.com/prior-it/crud/server"
)

type personsQuery struct {
	SearchBy     string `query:"searchBy"`
	SearchString string `query:"searchString"`
	SortBy       string `query:"sortBy"`
	SortOrder    string `query:"sortOrder"`
}

// ListPersons searches the persons and sorts the result, by name in ascending order by default.
func ListPersons(apollo *server.Apollo, state *State) error {
	var query personsQuery
	if err := apollo.ParseQuery(&query); err != nil {
		return err
	}
	if query.SortBy == "" {
		query.SortBy = persons.FieldName.String()
	}
	apollo.LogString("search_by", query.SearchBy)

	list, err := state.Getter.GetFilteredPersons(
		apollo.Context(),
		persons.Field(query.SearchBy),
		query.SearchString,
	)
	if err != nil {
		return err
	}
	sorted := state.Sorter.GetSortedPersons(
		list,
		persons.Field(query.SortBy),
		persons.ParseSortOrder(query.SortOrder),
	)
	apollo.JSON(http.StatusOK, sorted)
	return nil
}

func GetPerson(apollo *server.Apollo, state *State) error {
	id, err := core.ParsePersonID(apollo.GetPath("id"))
	if err != nil {
		return core.InvalidArgument("%v", err)
	}
	person, err := state.Getter.GetPersonByID(apollo.Context(), id)
	if err != nil {
		return err
	}
	if person == nil {
		return core.ErrNotFound
	}
	apollo.JSON(http.StatusOK, person)
	return nil
}

func CreatePerson(apollo *server.Apollo, state *State) error {
	var request dto.PersonCreate
	if err := apollo.ParseBody(&request); err != nil {
		return err
	}
	person, err := state.Adder.AddPerson(apollo.Context(), &request)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusCreated, person)
	return nil
}

// UpdatePerson overwrites a person, the id in the path takes precedence over the id in the body.
func UpdatePerson(apollo *server.Apollo, state *State) error {
	id, err := core.ParsePersonID(apollo.GetPath("id"))
	if err != nil {
		return core.InvalidArgument("%v", err)
	}
	var request dto.PersonUpdate
	if err := apollo.ParseBody(&request); err != nil {
		return err
	}
	request.ID = id
	person, err := state.Updater.UpdatePerson(apollo.Context(), &request)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, person)
	return nil
}

func DeletePerson(apollo *server.Apollo, state *State) error {
	id, err := core.ParsePersonID(apollo.GetPath("id"))
	if err != nil {
		return core.InvalidArgument("%v", err)
	}
	deleted, err := state.Deleter.DeletePerson(apollo.Context(), id)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, map[string]bool{"deleted": deleted})
	return nil
}

// ExportPersonsCSV downloads all persons, the columns can be picked with ?columns=Id,Name,Age
func ExportPersonsCSV(apollo *server.Apollo, state *State) error {
	columns, err := persons.ParseColumns(apollo.GetQuery("columns"))
	if err != nil {
		return err
	}
	data, err := state.Getter.GetPersonsCSV(apollo.Context(), columns)
	if err != nil {
		return err
	}
	return apollo.Download("persons.csv", "text/csv", data)
}

func ExportPersonsPDF(apollo *server.Apollo, state *State) error {
	var buffer bytes.Buffer
	if err := state.Getter.GetPersonsPDF(apollo.Context(), &buffer); err != nil {
		return err
	}
	return apollo.Download("persons.pdf", "application/pdf", buffer.Bytes())
}
