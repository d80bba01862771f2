package persons

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
)

// Columns is the ordered list of fields that is written by the CSV exporter.
type Columns []Field

var (
	ColumnsDateOfBirth = Columns{FieldID, FieldName, FieldDateOfBirth}
	ColumnsAge         = Columns{FieldID, FieldName, FieldAge}
)

// Layout of exported dates
const csvDateLayout = "02-01-2006"

var csvValues = map[Field]func(p *dto.PersonResponse) string{
	FieldID:    func(p *dto.PersonResponse) string { return p.ID.String() },
	FieldName:  func(p *dto.PersonResponse) string { return p.Name },
	FieldEmail: func(p *dto.PersonResponse) string { return p.Email },
	FieldDateOfBirth: func(p *dto.PersonResponse) string {
		if p.DateOfBirth == nil {
			return ""
		}
		return p.DateOfBirth.Format(csvDateLayout)
	},
	FieldAge: func(p *dto.PersonResponse) string {
		if p.Age == nil {
			return ""
		}
		return strconv.Itoa(*p.Age)
	},
	FieldGender:        func(p *dto.PersonResponse) string { return p.Gender },
	FieldCountry:       func(p *dto.PersonResponse) string { return p.Country },
	FieldReceiveEmails: func(p *dto.PersonResponse) string { return boolString(p.ReceiveEmails) },
}

// ParseColumns parses a comma-separated list of field names, an empty value returns ColumnsDateOfBirth.
func ParseColumns(value string) (Columns, error) {
	if strings.TrimSpace(value) == "" {
		return ColumnsDateOfBirth, nil
	}
	parts := strings.Split(value, ",")
	columns := make(Columns, 0, len(parts))
	for _, part := range parts {
		field := Field(strings.TrimSpace(part))
		if _, ok := csvValues[field]; !ok {
			return nil, core.InvalidArgument("cannot export unknown column %q", field)
		}
		columns = append(columns, field)
	}
	return columns, nil
}

// GetPersonsCSV writes a header row with the column names followed by one record for every person, in the order
// of GetAllPersons.
func (g *Getter) GetPersonsCSV(ctx context.Context, columns Columns) ([]byte, error) {
	if len(columns) == 0 {
		columns = ColumnsDateOfBirth
	}
	values := make([]func(p *dto.PersonResponse) string, len(columns))
	header := make([]string, len(columns))
	for i, column := range columns {
		value, ok := csvValues[column]
		if !ok {
			return nil, core.InvalidArgument("cannot export unknown column %q", column)
		}
		values[i] = value
		header[i] = column.String()
	}

	list, err := g.GetAllPersons(ctx)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("cannot write csv header: %w", err)
	}
	record := make([]string, len(columns))
	for i := range list {
		for j, value := range values {
			record[j] = value(&list[i])
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("cannot write csv record for person %v: %w", list[i].ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("cannot write csv: %w", err)
	}
	return buffer.Bytes(), nil
}
