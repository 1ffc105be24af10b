package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/octabyte/zip-client/models"
)

var (
	countyColumns = []string{"ID", "Name"}
	cityColumns   = []string{"ID", "Name", "Zip Code", "County"}
)

func CountiesCSV(w io.Writer, counties []models.County) error {
	rows := make([][]string, 0, len(counties)+1)
	rows = append(rows, countyColumns)
	for _, county := range counties {
		rows = append(rows, countyRow(county))
	}
	return csv.NewWriter(w).WriteAll(rows)
}

func CitiesCSV(w io.Writer, cities []models.City) error {
	rows := make([][]string, 0, len(cities)+1)
	rows = append(rows, cityColumns)
	for _, city := range cities {
		rows = append(rows, cityRow(city))
	}
	return csv.NewWriter(w).WriteAll(rows)
}

func countyRow(county models.County) []string {
	return []string{strconv.FormatInt(county.ID, 10), county.Name}
}

func cityRow(city models.City) []string {
	return []string{strconv.FormatInt(city.ID, 10), city.Name, city.Zip.String(), city.County.String()}
}
