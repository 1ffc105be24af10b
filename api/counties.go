package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/octabyte/zip-client/enums"
	"github.com/octabyte/zip-client/models"
)

func (c *Client) Counties(ctx context.Context) ([]models.County, error) {
	cl := call{operation: "counties.list", method: http.MethodGet, path: "/counties"}

	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}

	counties := []models.County{}
	if err := c.decodeKey(cl, body, enums.CountiesResource, &counties, false); err != nil {
		return nil, err
	}
	return counties, nil
}

func (c *Client) CreateCounty(ctx context.Context, name string) (models.County, error) {
	return c.writeCounty(ctx, call{
		operation: "counties.create",
		method:    http.MethodPost,
		path:      "/counties",
		body:      map[string]string{"name": name},
	})
}

func (c *Client) UpdateCounty(ctx context.Context, id int64, name string) (models.County, error) {
	return c.writeCounty(ctx, call{
		operation: "counties.update",
		method:    http.MethodPatch,
		path:      fmt.Sprintf("/counties/%d", id),
		body:      map[string]string{"name": name},
	})
}

func (c *Client) writeCounty(ctx context.Context, cl call) (models.County, error) {
	var county models.County

	body, err := c.do(ctx, cl)
	if err != nil {
		return county, err
	}

	err = c.decodeKey(cl, body, enums.CountyResource, &county, false)
	return county, err
}

func (c *Client) DeleteCounty(ctx context.Context, id int64) error {
	_, err := c.do(ctx, call{
		operation: "counties.delete",
		method:    http.MethodDelete,
		path:      fmt.Sprintf("/counties/%d", id),
	})
	return err
}

func (c *Client) Cities(ctx context.Context, countyID int64) ([]models.City, error) {
	return c.listCities(ctx, call{
		operation: "cities.list",
		method:    http.MethodGet,
		path:      fmt.Sprintf("/counties/%d/cities", countyID),
	})
}

func (c *Client) CreateCity(ctx context.Context, countyID int64, name, zipCode string) (models.City, error) {
	return c.writeCity(ctx, call{
		operation: "cities.create",
		method:    http.MethodPost,
		path:      fmt.Sprintf("/counties/%d/cities", countyID),
		body:      map[string]string{"name": name, "zip_code": zipCode},
	})
}

func (c *Client) UpdateCity(ctx context.Context, countyID, cityID int64, name, zipCode string) (models.City, error) {
	return c.writeCity(ctx, call{
		operation: "cities.update",
		method:    http.MethodPatch,
		path:      fmt.Sprintf("/counties/%d/cities/%d", countyID, cityID),
		body:      map[string]string{"name": name, "zip_code": zipCode},
	})
}

func (c *Client) DeleteCity(ctx context.Context, countyID, cityID int64) error {
	_, err := c.do(ctx, call{
		operation: "cities.delete",
		method:    http.MethodDelete,
		path:      fmt.Sprintf("/counties/%d/cities/%d", countyID, cityID),
	})
	return err
}

// CityLetters returns the distinct first letters of the county's cities.
func (c *Client) CityLetters(ctx context.Context, countyID int64) ([]string, error) {
	cl := call{
		operation: "cities.letters",
		method:    http.MethodGet,
		path:      fmt.Sprintf("/counties/%d/abc", countyID),
	}

	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}

	letters := []string{}
	if err := c.decodeKey(cl, body, enums.LettersResource, &letters, false); err != nil {
		return nil, err
	}
	return letters, nil
}

func (c *Client) CitiesByLetter(ctx context.Context, countyID int64, letter string) ([]models.City, error) {
	return c.listCities(ctx, call{
		operation: "cities.by_letter",
		method:    http.MethodGet,
		path:      fmt.Sprintf("/counties/%d/abc/%s", countyID, url.PathEscape(letter)),
	})
}

func (c *Client) listCities(ctx context.Context, cl call) ([]models.City, error) {
	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}

	cities := []models.City{}
	if err := c.decodeKey(cl, body, enums.CitiesResource, &cities, false); err != nil {
		return nil, err
	}
	return cities, nil
}

func (c *Client) writeCity(ctx context.Context, cl call) (models.City, error) {
	var city models.City

	body, err := c.do(ctx, cl)
	if err != nil {
		return city, err
	}

	err = c.decodeKey(cl, body, enums.CityResource, &city, false)
	return city, err
}
