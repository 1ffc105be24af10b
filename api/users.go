package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/octabyte/zip-client/enums"
	"github.com/octabyte/zip-client/models"
)

// Login exchanges credentials for a bearer token. The returned ticket always
// carries a non-empty token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthTicket, error) {
	cl := call{
		operation: "users.login",
		method:    http.MethodPost,
		path:      "/users/login",
		body:      map[string]string{"email": creds.Email, "password": creds.Password},
	}

	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}

	var user models.UserProfile
	if err := c.decodeKey(cl, body, enums.UserResource, &user, true); err != nil {
		return nil, err
	}

	token := user.Token()
	if token == "" {
		return nil, cl.fail(c, 0, "user object has no token", ErrMalformedResponse)
	}

	return &models.AuthTicket{Token: token, User: user}, nil
}

// Users lists users. The API answers either with a bare array or with the
// array under "users".
func (c *Client) Users(ctx context.Context) ([]models.UserProfile, error) {
	cl := call{operation: "users.list", method: http.MethodGet, path: "/users"}

	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}

	users := []models.UserProfile{}
	key := enums.UsersResource
	if gjson.ParseBytes(body).IsArray() {
		key = "@this"
	}
	if err := c.decodeKey(cl, body, key, &users, false); err != nil {
		return nil, err
	}
	return users, nil
}

// User fetches one user, unwrapping a "user" envelope when present.
func (c *Client) User(ctx context.Context, id int64) (models.UserProfile, error) {
	cl := call{operation: "users.get", method: http.MethodGet, path: fmt.Sprintf("/users/%d", id)}

	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}

	key := "@this"
	if gjson.GetBytes(body, enums.UserResource).IsObject() {
		key = enums.UserResource
	}

	var user models.UserProfile
	if err := c.decodeKey(cl, body, key, &user, true); err != nil {
		return nil, err
	}
	return user, nil
}
