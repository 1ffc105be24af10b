package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/zip-client/enums"
	"github.com/octabyte/zip-client/models"
)

const countiesPath = "/counties"

func (h *Handler) ListCounties(c echo.Context) error {
	counties, err := h.api.Counties(c.Request().Context())
	if err != nil {
		return h.apiFailure(c, err, "/")
	}
	return c.Render(http.StatusOK, "counties/index", echo.Map{"Counties": counties})
}

func (h *Handler) CreateCountyForm(c echo.Context) error {
	return c.Render(http.StatusOK, "counties/form", echo.Map{
		"County": models.County{},
		"Form":   models.CountyForm{},
	})
}

func (h *Handler) StoreCounty(c echo.Context) error {
	var form models.CountyForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	if err := c.Validate(&form); err != nil {
		return c.Render(http.StatusUnprocessableEntity, "counties/form", echo.Map{
			"County": models.County{},
			"Form":   form,
			"Errors": fieldErrors(err),
		})
	}

	if _, err := h.api.CreateCounty(c.Request().Context(), form.Name); err != nil {
		return h.apiFailure(c, err, countiesPath+"/create")
	}
	return h.redirectWith(c, countiesPath, enums.FlashSuccess, "County created successfully!")
}

func (h *Handler) ShowCounty(c echo.Context) error {
	county, ok, err := h.findCounty(c)
	if !ok {
		return err
	}
	return c.Render(http.StatusOK, "counties/show", echo.Map{"County": county})
}

func (h *Handler) EditCounty(c echo.Context) error {
	county, ok, err := h.findCounty(c)
	if !ok {
		return err
	}
	return c.Render(http.StatusOK, "counties/form", echo.Map{
		"County": county,
		"Form":   models.CountyForm{Name: county.Name},
	})
}

func (h *Handler) UpdateCounty(c echo.Context) error {
	id, err := idParam(c, "countyId")
	if err != nil {
		return err
	}

	var form models.CountyForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	if err := c.Validate(&form); err != nil {
		return c.Render(http.StatusUnprocessableEntity, "counties/form", echo.Map{
			"County": models.County{ID: id, Name: form.Name},
			"Form":   form,
			"Errors": fieldErrors(err),
		})
	}

	if _, err := h.api.UpdateCounty(c.Request().Context(), id, form.Name); err != nil {
		return h.apiFailure(c, err, fmt.Sprintf("%s/%d/edit", countiesPath, id))
	}
	return h.redirectWith(c, countiesPath, enums.FlashSuccess, "County updated successfully!")
}

func (h *Handler) DeleteCounty(c echo.Context) error {
	id, err := idParam(c, "countyId")
	if err != nil {
		return err
	}

	if err := h.api.DeleteCounty(c.Request().Context(), id); err != nil {
		return h.apiFailure(c, err, countiesPath)
	}
	return h.redirectWith(c, countiesPath, enums.FlashSuccess, "County deleted successfully!")
}

// findCounty resolves the :countyId path parameter through the county list.
// When ok is false the response has been decided and err is what the handler
// returns.
func (h *Handler) findCounty(c echo.Context) (models.County, bool, error) {
	id, err := idParam(c, "countyId")
	if err != nil {
		return models.County{}, false, err
	}

	counties, err := h.api.Counties(c.Request().Context())
	if err != nil {
		return models.County{}, false, h.apiFailure(c, err, countiesPath)
	}

	county, found := models.FindCounty(counties, id)
	if !found {
		return models.County{}, false, h.redirectWith(c, countiesPath, enums.FlashError, "County not found")
	}
	return county, true, nil
}
