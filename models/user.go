package models

import (
	"strconv"

	"github.com/goccy/go-json"
)

// UserProfile is the user object returned by the remote API. Its fields are
// passed through to templates untouched.
type UserProfile map[string]any

func (u UserProfile) ID() int64 {
	switch v := u["id"].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

func (u UserProfile) Email() string {
	s, _ := u["email"].(string)
	return s
}

// Name returns the display name, falling back to the email address.
func (u UserProfile) Name() string {
	if s, ok := u["name"].(string); ok && s != "" {
		return s
	}
	return u.Email()
}

func (u UserProfile) Token() string {
	s, _ := u["token"].(string)
	return s
}
