package models

import "github.com/octabyte/zip-client/enums"

// AuthTicket is the token and user pair held by an authenticated session.
type AuthTicket struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// AuthView is what every template sees under "auth".
type AuthView struct {
	Check bool
	User  UserProfile
}

type Flash struct {
	Kind    enums.FlashKind `json:"kind"`
	Message string          `json:"message"`
}
