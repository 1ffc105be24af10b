package middleware

const (
	DefaultSessionCookie = "zip_session"
	RequestSessionKey    = "requestSession"
	sessionConfigKey     = "sessionConfig"
	AuthViewKey          = "auth"
)
