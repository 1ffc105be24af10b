package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/zip-client/enums"
	"github.com/octabyte/zip-client/models"
)

const filterPath = "/cities/filter"

func (h *Handler) FilterPage(c echo.Context) error {
	counties, err := h.api.Counties(c.Request().Context())
	if err != nil {
		return h.apiFailure(c, err, "/")
	}
	return c.Render(http.StatusOK, "filter/index", echo.Map{
		"Counties": counties,
		"CountyID": int64(0),
	})
}

// FilterLetters answers the filter page's script with {"letters": [...]} or
// {"error": "..."} and status 400.
func (h *Handler) FilterLetters(c echo.Context) error {
	countyID, err := idParam(c, "countyId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid county id"})
	}

	letters, err := h.api.CityLetters(c.Request().Context(), countyID)
	if err != nil {
		logAPIError(c.Request().Context(), err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": userMessage(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{enums.LettersResource: letters})
}

func (h *Handler) FilterResults(c echo.Context) error {
	countyID, err := idParam(c, "countyId")
	if err != nil {
		return err
	}
	letter, err := url.PathUnescape(c.Param("letter"))
	if err != nil || letter == "" {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	letter = strings.ToUpper(letter)

	ctx := c.Request().Context()
	cities, err := h.api.CitiesByLetter(ctx, countyID, letter)
	if err != nil {
		return h.apiFailure(c, err, filterPath)
	}
	counties, err := h.api.Counties(ctx)
	if err != nil {
		return h.apiFailure(c, err, filterPath)
	}

	county, found := models.FindCounty(counties, countyID)
	if !found {
		return h.redirectWith(c, back(c, filterPath), enums.FlashError, "County not found")
	}

	return c.Render(http.StatusOK, "filter/results", echo.Map{
		"Counties": counties,
		"County":   county,
		"CountyID": countyID,
		"Letter":   letter,
		"Cities":   cities,
	})
}
