package export

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/octabyte/zip-client/models"
	"github.com/octabyte/zip-client/utils"
)

const (
	pageMargin = 15.0
	rowHeight  = 7.0
)

// CountiesPDF writes a one-table document titled "Counties List".
func CountiesPDF(w io.Writer, counties []models.County, at time.Time) error {
	rows := make([][]string, 0, len(counties))
	for _, county := range counties {
		rows = append(rows, countyRow(county))
	}
	return writeTable(w, "Counties List", at, countyColumns, []float64{30, 150}, rows)
}

// CitiesPDF writes the cities of one county.
func CitiesPDF(w io.Writer, county models.County, cities []models.City, at time.Time) error {
	rows := make([][]string, 0, len(cities))
	for _, city := range cities {
		rows = append(rows, cityRow(city))
	}
	return writeTable(w, "Cities in "+county.Name, at, cityColumns, []float64{20, 80, 35, 45}, rows)
}

func writeTable(w io.Writer, title string, at time.Time, columns []string, widths []float64, rows [][]string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range columns {
			pdf.CellFormat(widths[i], rowHeight, tr(col), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated: "+at.Format(utils.DisplayLayout), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header()
	_, pageHeight := pdf.GetPageSize()
	for _, row := range rows {
		if pdf.GetY()+rowHeight > pageHeight-pageMargin {
			pdf.AddPage()
			header()
		}
		for i, value := range row {
			pdf.CellFormat(widths[i], rowHeight, tr(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, rowHeight, "No records.", "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}
