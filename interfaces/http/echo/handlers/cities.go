package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/zip-client/enums"
	"github.com/octabyte/zip-client/models"
)

func citiesPath(countyID int64) string {
	return fmt.Sprintf("%s/%d/cities", countiesPath, countyID)
}

func (h *Handler) ListCities(c echo.Context) error {
	county, ok, err := h.findCounty(c)
	if !ok {
		return err
	}

	cities, err := h.api.Cities(c.Request().Context(), county.ID)
	if err != nil {
		return h.apiFailure(c, err, countiesPath)
	}
	return c.Render(http.StatusOK, "cities/index", echo.Map{"County": county, "Cities": cities})
}

func (h *Handler) CreateCityForm(c echo.Context) error {
	county, ok, err := h.findCounty(c)
	if !ok {
		return err
	}
	return c.Render(http.StatusOK, "cities/form", echo.Map{
		"County": county,
		"City":   models.City{},
		"Form":   models.CityForm{},
	})
}

func (h *Handler) StoreCity(c echo.Context) error {
	countyID, err := idParam(c, "countyId")
	if err != nil {
		return err
	}

	var form models.CityForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	if err := c.Validate(&form); err != nil {
		return c.Render(http.StatusUnprocessableEntity, "cities/form", echo.Map{
			"County": models.County{ID: countyID},
			"City":   models.City{},
			"Form":   form,
			"Errors": fieldErrors(err),
		})
	}

	if _, err := h.api.CreateCity(c.Request().Context(), countyID, form.Name, form.ZipCode); err != nil {
		return h.apiFailure(c, err, citiesPath(countyID)+"/create")
	}
	return h.redirectWith(c, citiesPath(countyID), enums.FlashSuccess, "City created successfully!")
}

func (h *Handler) ShowCity(c echo.Context) error {
	county, city, ok, err := h.findCity(c)
	if !ok {
		return err
	}
	return c.Render(http.StatusOK, "cities/show", echo.Map{"County": county, "City": city})
}

func (h *Handler) EditCity(c echo.Context) error {
	county, city, ok, err := h.findCity(c)
	if !ok {
		return err
	}
	return c.Render(http.StatusOK, "cities/form", echo.Map{
		"County": county,
		"City":   city,
		"Form":   models.CityForm{Name: city.Name, ZipCode: city.Zip.String()},
	})
}

func (h *Handler) UpdateCity(c echo.Context) error {
	countyID, err := idParam(c, "countyId")
	if err != nil {
		return err
	}
	cityID, err := idParam(c, "cityId")
	if err != nil {
		return err
	}

	var form models.CityForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	if err := c.Validate(&form); err != nil {
		return c.Render(http.StatusUnprocessableEntity, "cities/form", echo.Map{
			"County": models.County{ID: countyID},
			"City":   models.City{ID: cityID, Name: form.Name},
			"Form":   form,
			"Errors": fieldErrors(err),
		})
	}

	if _, err := h.api.UpdateCity(c.Request().Context(), countyID, cityID, form.Name, form.ZipCode); err != nil {
		return h.apiFailure(c, err, fmt.Sprintf("%s/%d/edit", citiesPath(countyID), cityID))
	}
	return h.redirectWith(c, citiesPath(countyID), enums.FlashSuccess, "City updated successfully!")
}

func (h *Handler) DeleteCity(c echo.Context) error {
	countyID, err := idParam(c, "countyId")
	if err != nil {
		return err
	}
	cityID, err := idParam(c, "cityId")
	if err != nil {
		return err
	}

	if err := h.api.DeleteCity(c.Request().Context(), countyID, cityID); err != nil {
		return h.apiFailure(c, err, citiesPath(countyID))
	}
	return h.redirectWith(c, citiesPath(countyID), enums.FlashSuccess, "City deleted successfully!")
}

func (h *Handler) findCity(c echo.Context) (models.County, models.City, bool, error) {
	county, ok, err := h.findCounty(c)
	if !ok {
		return models.County{}, models.City{}, false, err
	}

	cityID, err := idParam(c, "cityId")
	if err != nil {
		return models.County{}, models.City{}, false, err
	}

	cities, err := h.api.Cities(c.Request().Context(), county.ID)
	if err != nil {
		return models.County{}, models.City{}, false, h.apiFailure(c, err, citiesPath(county.ID))
	}

	city, found := models.FindCity(cities, cityID)
	if !found {
		return models.County{}, models.City{}, false, h.redirectWith(c, citiesPath(county.ID), enums.FlashError, "City not found")
	}
	return county, city, true, nil
}
