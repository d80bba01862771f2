// Package countries contains the business rules for the reference list of countries.
package countries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
	"github.com/xuri/excelize/v2"
)

// Name of the worksheet that is read by UploadCountriesFromSpreadsheet.
const SpreadsheetSheet = "Countries"

type Service struct {
	repo   core.CountryRepository
	logger *slog.Logger
}

func NewService(repo core.CountryRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) AddCountry(
	ctx context.Context,
	request *dto.CountryCreate,
) (*dto.CountryResponse, error) {
	if request == nil {
		return nil, core.InvalidArgument("country request cannot be empty")
	}
	if err := checkName(request.Name); err != nil {
		return nil, err
	}
	exists, err := s.nameExists(ctx, request.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.InvalidArgument("country %q already exists", request.Name)
	}

	country := request.ToCountry()
	country.ID = uuid.New()
	if err := s.repo.AddCountry(ctx, &country); err != nil {
		return nil, fmt.Errorf("cannot add country %q: %w", country.Name, err)
	}
	s.logger.Info("Country added", "id", country.ID, "name", country.Name)
	response := dto.ToCountryResponse(country)
	return &response, nil
}

func (s *Service) GetAllCountries(ctx context.Context) ([]dto.CountryResponse, error) {
	list, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list countries: %w", err)
	}
	return dto.ToCountryResponseList(list), nil
}

// GetCountryByID returns nil without an error if the id is empty or the country does not exist.
func (s *Service) GetCountryByID(ctx context.Context, id core.CountryID) (*dto.CountryResponse, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	country, err := s.repo.GetCountryByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("cannot get country %v: %w", id, err)
	}
	response := dto.ToCountryResponse(*country)
	return &response, nil
}

// UploadCountriesFromSpreadsheet reads country names from the first column of the "Countries" sheet, skipping the
// header row, and adds every name that does not exist yet. Returns the amount of added countries.
// Rows of the same upload are not checked against each other.
func (s *Service) UploadCountriesFromSpreadsheet(ctx context.Context, file io.Reader) (int, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return 0, fmt.Errorf("cannot read spreadsheet: %w", err)
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			s.logger.Warn("Cannot close spreadsheet", "error", err)
		}
	}()

	rows, err := workbook.GetRows(SpreadsheetSheet)
	if err != nil {
		return 0, fmt.Errorf("cannot read sheet %q: %w", SpreadsheetSheet, err)
	}

	inserted := 0
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		if err := checkName(name); err != nil {
			s.logger.Warn("Skipping spreadsheet row", "row", i+1, "name", name, "error", err)
			continue
		}
		exists, err := s.nameExists(ctx, name)
		if err != nil {
			return inserted, err
		}
		if exists {
			continue
		}
		country := core.Country{ID: uuid.New(), Name: name}
		if err := s.repo.AddCountry(ctx, &country); err != nil {
			return inserted, fmt.Errorf("cannot add country %q from row %d: %w", name, i+1, err)
		}
		inserted++
	}
	s.logger.Info("Countries uploaded", "inserted", inserted, "rows", max(len(rows)-1, 0))
	return inserted, nil
}

// RenameCountry changes the name of an existing country, the same name rules as AddCountry apply.
func (s *Service) RenameCountry(
	ctx context.Context,
	id core.CountryID,
	name string,
) (*dto.CountryResponse, error) {
	if id == uuid.Nil {
		return nil, core.InvalidArgument("country id cannot be empty")
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	country, err := s.repo.GetCountryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get country %v: %w", id, err)
	}
	if country.Name == name {
		response := dto.ToCountryResponse(*country)
		return &response, nil
	}
	exists, err := s.nameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.InvalidArgument("country %q already exists", name)
	}
	country.Name = name
	if err := s.repo.UpdateCountry(ctx, country); err != nil {
		return nil, fmt.Errorf("cannot rename country %v: %w", id, err)
	}
	response := dto.ToCountryResponse(*country)
	return &response, nil
}

// DeleteCountry removes a country, persons that lived in it no longer reference a country.
// Returns false if the country does not exist.
func (s *Service) DeleteCountry(ctx context.Context, id core.CountryID) (bool, error) {
	if id == uuid.Nil {
		return false, core.InvalidArgument("country id cannot be empty")
	}
	_, err := s.repo.GetCountryByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("cannot get country %v: %w", id, err)
	}
	if err := s.repo.DeleteCountry(ctx, id); err != nil {
		return false, fmt.Errorf("cannot delete country %v: %w", id, err)
	}
	s.logger.Info("Country deleted", "id", id)
	return true, nil
}

func (s *Service) nameExists(ctx context.Context, name string) (bool, error) {
	_, err := s.repo.GetCountryByName(ctx, name)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("cannot look up country %q: %w", name, err)
	}
	return true, nil
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return core.InvalidArgument("country name cannot be blank")
	}
	if utf8.RuneCountInString(name) > core.CountryNameMaxLength {
		return core.InvalidArgument(
			"country name cannot be longer than %d characters",
			core.CountryNameMaxLength,
		)
	}
	return nil
}
