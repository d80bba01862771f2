package app

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/server"
)

const megabyte = 1 << 20

func ListCountries(apollo *server.Apollo, state *State) error {
	list, err := state.Countries.GetAllCountries(apollo.Context())
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, list)
	return nil
}

func GetCountry(apollo *server.Apollo, state *State) error {
	id, err := core.ParseCountryID(apollo.GetPath("id"))
	if err != nil {
		return core.InvalidArgument("%v", err)
	}
	country, err := state.Countries.GetCountryByID(apollo.Context(), id)
	if err != nil {
		return err
	}
	if country == nil {
		return core.ErrNotFound
	}
	apollo.JSON(http.StatusOK, country)
	return nil
}

func CreateCountry(apollo *server.Apollo, state *State) error {
	var request dto.CountryCreate
	if err := apollo.ParseBody(&request); err != nil {
		return err
	}
	country, err := state.Countries.AddCountry(apollo.Context(), &request)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusCreated, country)
	return nil
}

// UploadCountries imports the countries of the .xlsx file in the "excelFile" form field.
// The notification address receives an e-mail with the result.
func UploadCountries(apollo *server.Apollo, state *State) error {
	maxUpload := state.Cfg.App.MaxUpload
	if maxUpload <= 0 {
		maxUpload = 10
	}
	if err := apollo.Request.ParseMultipartForm(maxUpload * megabyte); err != nil {
		return core.InvalidArgument("cannot read upload: %v", err)
	}
	file, header, err := apollo.Request.FormFile("excelFile")
	if err != nil {
		return core.InvalidArgument("please select an xlsx file")
	}
	defer file.Close()
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		return core.InvalidArgument("unsupported file %q, only .xlsx files are allowed", header.Filename)
	}

	inserted, err := state.Countries.UploadCountriesFromSpreadsheet(apollo.Context(), file)
	if err != nil {
		return err
	}
	apollo.LogField("countries_inserted", slog.IntValue(inserted))

	if state.Email != nil {
		err := state.Email.SendNotification(
			apollo.Context(),
			"Countries uploaded",
			"%d countries were added from %s",
			inserted,
			header.Filename,
		)
		if errors.Is(err, core.ErrEmailAddressEmpty) {
			apollo.Debug("No notification address, upload notification skipped")
		} else if err != nil {
			apollo.Warn("Could not send upload notification", "error", err)
		}
	}

	apollo.JSON(http.StatusOK, map[string]int{"inserted": inserted})
	return nil
}

func RenameCountry(apollo *server.Apollo, state *State) error {
	id, err := core.ParseCountryID(apollo.GetPath("id"))
	if err != nil {
		return core.InvalidArgument("%v", err)
	}
	var request dto.CountryCreate
	if err := apollo.ParseBody(&request); err != nil {
		return err
	}
	country, err := state.Countries.RenameCountry(apollo.Context(), id, request.Name)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, country)
	return nil
}

// DeleteCountry returns 404 if the country does not exist.
func DeleteCountry(apollo *server.Apollo, state *State) error {
	id, err := core.ParseCountryID(apollo.GetPath("id"))
	if err != nil {
		return core.InvalidArgument("%v", err)
	}
	deleted, err := state.Countries.DeleteCountry(apollo.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return core.ErrNotFound
	}
	apollo.StatusCode(http.StatusNoContent)
	return nil
}
