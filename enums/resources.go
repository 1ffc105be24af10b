package enums

// Envelope keys the remote API wraps its payloads in.
const (
	UserResource     = "user"
	UsersResource    = "users"
	CountyResource   = "county"
	CountiesResource = "counties"
	CityResource     = "city"
	CitiesResource   = "cities"
	LettersResource  = "letters"
)
