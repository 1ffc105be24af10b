package handlers

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/zip-client/export"
)

func (h *Handler) ExportCountiesCSV(c echo.Context) error {
	counties, err := h.api.Counties(c.Request().Context())
	if err != nil {
		return h.apiFailure(c, err, countiesPath)
	}

	var buf bytes.Buffer
	if err := export.CountiesCSV(&buf, counties); err != nil {
		return err
	}
	return download(c, export.ContentTypeCSV, export.Filename("counties", h.now(), "csv"), buf.Bytes())
}

func (h *Handler) ExportCountiesPDF(c echo.Context) error {
	counties, err := h.api.Counties(c.Request().Context())
	if err != nil {
		return h.apiFailure(c, err, countiesPath)
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.CountiesPDF(&buf, counties, now); err != nil {
		return err
	}
	return download(c, export.ContentTypePDF, export.Filename("counties", now, "pdf"), buf.Bytes())
}

func (h *Handler) ExportCitiesCSV(c echo.Context) error {
	county, ok, err := h.findCounty(c)
	if !ok {
		return err
	}

	cities, err := h.api.Cities(c.Request().Context(), county.ID)
	if err != nil {
		return h.apiFailure(c, err, countiesPath)
	}

	var buf bytes.Buffer
	if err := export.CitiesCSV(&buf, cities); err != nil {
		return err
	}
	return download(c, export.ContentTypeCSV, export.Filename(export.CountyPrefix(county.Name), h.now(), "csv"), buf.Bytes())
}

func (h *Handler) ExportCitiesPDF(c echo.Context) error {
	county, ok, err := h.findCounty(c)
	if !ok {
		return err
	}

	cities, err := h.api.Cities(c.Request().Context(), county.ID)
	if err != nil {
		return h.apiFailure(c, err, countiesPath)
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.CitiesPDF(&buf, county, cities, now); err != nil {
		return err
	}
	return download(c, export.ContentTypePDF, export.Filename(export.CountyPrefix(county.Name), now, "pdf"), buf.Bytes())
}

func download(c echo.Context, contentType, filename string, body []byte) error {
	export.SetDownloadHeaders(c.Response().Header(), contentType, filename)
	return c.Blob(http.StatusOK, contentType, body)
}
