package persons

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/prior-it/crud/dto"
)

type pdfColumn struct {
	title string
	width float64
	value func(p *dto.PersonResponse) string
}

var pdfColumns = []pdfColumn{
	{"Name", 55, func(p *dto.PersonResponse) string { return p.Name }},
	{"Email", 60, func(p *dto.PersonResponse) string { return p.Email }},
	{"Date of Birth", 30, func(p *dto.PersonResponse) string {
		if p.DateOfBirth == nil {
			return ""
		}
		return p.DateOfBirth.Format("02 Jan 2006")
	}},
	{"Age", 15, func(p *dto.PersonResponse) string {
		if p.Age == nil {
			return ""
		}
		return strconv.Itoa(*p.Age)
	}},
	{"Gender", 25, func(p *dto.PersonResponse) string { return p.Gender }},
	{"Country", 40, func(p *dto.PersonResponse) string { return p.Country }},
	{"Receive Emails", 30, func(p *dto.PersonResponse) string { return boolString(p.ReceiveEmails) }},
}

// GetPersonsPDF renders all persons as a table on landscape A4 pages.
func (g *Getter) GetPersonsPDF(ctx context.Context, w io.Writer) error {
	list, err := g.GetAllPersons(ctx)
	if err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Persons", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, column := range pdfColumns {
			pdf.CellFormat(column.width, 8, column.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 {
			pdf.SetFont("Helvetica", "B", 16)
			pdf.CellFormat(0, 12, "Persons", "", 1, "L", false, 0, "")
		}
		header()
	})
	pdf.AddPage()

	for i := range list {
		for _, column := range pdfColumns {
			pdf.CellFormat(column.width, 7, tr(column.value(&list[i])), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("cannot render persons pdf: %w", err)
	}
	return nil
}
