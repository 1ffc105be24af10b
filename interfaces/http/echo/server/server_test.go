package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/octabyte/zip-client/api"
	"github.com/octabyte/zip-client/auth"
	"github.com/octabyte/zip-client/interfaces/http/echo/middleware"
	"github.com/octabyte/zip-client/session"
)

type ServerTestSuite struct {
	suite.Suite
	remote *stubAPI
	store  *session.MemoryStore
	e      *echo.Echo
	sid    string
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.remote = newStubAPI()
	s.store = session.NewMemoryStore(time.Hour)
	s.sid = uuid.NewString()
	s.e = s.newServer(s.remote.URL+"/api", false)
}

func (s *ServerTestSuite) TearDownTest() {
	s.remote.Close()
}

func (s *ServerTestSuite) newServer(baseURL string, csrf bool) *echo.Echo {
	client, err := api.New(api.Config{BaseURL: baseURL, Timeout: 2 * time.Second})
	s.Require().NoError(err)

	e, err := New(Options{
		ServiceName: "zip-client-test",
		SessionTTL:  time.Hour,
		CSRFEnabled: csrf,
	}, auth.NewService(client, s.store), client, s.store)
	s.Require().NoError(err)
	return e
}

func (s *ServerTestSuite) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	return s.requestOn(s.e, method, path, form)
}

func (s *ServerTestSuite) requestOn(e *echo.Echo, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: middleware.DefaultSessionCookie, Value: s.sid})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) assertRedirect(rec *httptest.ResponseRecorder, location string) {
	s.Require().Equal(http.StatusFound, rec.Code, rec.Body.String())
	s.Equal(location, rec.Header().Get(echo.HeaderLocation))
}

// login signs in and follows the session cookie the server rotates to.
func (s *ServerTestSuite) login() {
	rec := s.request(http.MethodPost, "/login", url.Values{"email": {"a@b.com"}, "password": {"secret1"}})
	s.assertRedirect(rec, "/dashboard")
	s.sid = s.sessionCookie(rec).Value
}

func (s *ServerTestSuite) sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.DefaultSessionCookie {
			return c
		}
	}
	s.FailNow("no session cookie in response")
	return nil
}

func (s *ServerTestSuite) TestWelcome() {
	rec := s.request(http.MethodGet, "/", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Hungarian zip codes")
	s.Contains(rec.Body.String(), `href="/login"`)
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.request(http.MethodGet, HealthPath, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *ServerTestSuite) TestNotFoundPage() {
	rec := s.request(http.MethodGet, "/nope", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "<h1>404</h1>")
}

func (s *ServerTestSuite) TestGuardRedirectsToLogin() {
	for _, path := range []string{"/dashboard", "/profile", "/counties/create", "/counties/1/edit", "/counties/1/cities/create"} {
		s.assertRedirect(s.request(http.MethodGet, path, nil), "/login")
	}
	s.Empty(s.remote.callsTo("GET /api"))
}

func (s *ServerTestSuite) TestLoginValidation() {
	rec := s.request(http.MethodPost, "/login", url.Values{"email": {"not-an-email"}, "password": {"123"}})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Contains(rec.Body.String(), "The email field must be a valid email address.")
	s.Contains(rec.Body.String(), "The password field must be at least 6 characters.")
	s.Contains(rec.Body.String(), `value="not-an-email"`)
	s.Empty(s.remote.callsTo("POST /api/users/login"))
}

func (s *ServerTestSuite) TestLoginRejected() {
	rec := s.request(http.MethodPost, "/login", url.Values{"email": {"a@b.com"}, "password": {"wrong-password"}})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "Invalid email or password.")
	s.assertRedirect(s.request(http.MethodGet, "/dashboard", nil), "/login")
}

func (s *ServerTestSuite) TestLoginDashboardLogout() {
	s.login()

	rec := s.request(http.MethodGet, "/dashboard", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Welcome back, Anna!")
	s.Contains(rec.Body.String(), "Logged in successfully!")

	rec = s.request(http.MethodGet, "/dashboard", nil)
	s.NotContains(rec.Body.String(), "Logged in successfully!")

	s.assertRedirect(s.request(http.MethodGet, "/login", nil), "/dashboard")

	s.assertRedirect(s.request(http.MethodPost, "/logout", url.Values{}), "/login")
	rec = s.request(http.MethodGet, "/login", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Logged out successfully!")
	s.assertRedirect(s.request(http.MethodGet, "/dashboard", nil), "/login")
}

func (s *ServerTestSuite) TestProfile() {
	s.login()

	s.assertRedirect(s.request(http.MethodPost, "/profile", url.Values{"_method": {"PATCH"}}), "/profile")
	rec := s.request(http.MethodGet, "/profile", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Saved.")
	s.NotContains(rec.Body.String(), ">profile-updated<")

	s.assertRedirect(s.request(http.MethodPost, "/profile", url.Values{"_method": {"DELETE"}}), "/")
	rec = s.request(http.MethodGet, "/", nil)
	s.Contains(rec.Body.String(), "Account deleted successfully!")
	s.assertRedirect(s.request(http.MethodGet, "/profile", nil), "/login")
}

func (s *ServerTestSuite) TestCountiesPublicList() {
	rec := s.request(http.MethodGet, "/counties", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Baranya")
	s.Contains(rec.Body.String(), "Pest")
	s.NotContains(rec.Body.String(), "New county")
	s.Empty(s.remote.callsTo("GET /api/counties")[0].Authorization)
}

func (s *ServerTestSuite) TestCountyMutationsRequireLogin() {
	s.assertRedirect(s.request(http.MethodPost, "/counties", url.Values{"name": {"Tolna"}}), "/login")
	s.assertRedirect(s.request(http.MethodPost, "/counties/1", url.Values{"_method": {"DELETE"}}), "/login")
	s.Empty(s.remote.callsTo("POST /api/counties"))
	s.Empty(s.remote.callsTo("DELETE /api/counties"))
}

func (s *ServerTestSuite) TestCreateCounty() {
	s.login()

	rec := s.request(http.MethodGet, "/counties/create", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "New county")

	s.assertRedirect(s.request(http.MethodPost, "/counties", url.Values{"name": {"Tolna"}}), "/counties")

	calls := s.remote.callsTo("POST /api/counties")
	s.Require().Len(calls, 1)
	s.Equal("Bearer tok123", calls[0].Authorization)
	s.Equal("Tolna", calls[0].Body["name"])

	rec = s.request(http.MethodGet, "/counties", nil)
	s.Contains(rec.Body.String(), "County created successfully!")
	s.Contains(rec.Body.String(), "New county")
}

func (s *ServerTestSuite) TestCreateCountyValidation() {
	s.login()

	rec := s.request(http.MethodPost, "/counties", url.Values{"name": {""}})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Contains(rec.Body.String(), "The name field is required.")

	rec = s.request(http.MethodPost, "/counties", url.Values{"name": {strings.Repeat("x", 256)}})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Contains(rec.Body.String(), "must not be greater than 255 characters.")
	s.Empty(s.remote.callsTo("POST /api/counties"))
}

func (s *ServerTestSuite) TestUpdateAndDeleteCountyViaMethodOverride() {
	s.login()

	rec := s.request(http.MethodGet, "/counties/2/edit", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `value="Pest"`)

	s.assertRedirect(s.request(http.MethodPost, "/counties/2", url.Values{"_method": {"PATCH"}, "name": {"Pest megye"}}), "/counties")
	calls := s.remote.callsTo("PATCH /api/counties/2")
	s.Require().Len(calls, 1)
	s.Equal("Pest megye", calls[0].Body["name"])

	s.assertRedirect(s.request(http.MethodPost, "/counties/2", url.Values{"_method": {"DELETE"}}), "/counties")
	s.Len(s.remote.callsTo("DELETE /api/counties/2"), 1)
	rec = s.request(http.MethodGet, "/counties", nil)
	s.Contains(rec.Body.String(), "County deleted successfully!")
}

func (s *ServerTestSuite) TestDeleteCountyAPIError() {
	s.login()

	s.assertRedirect(s.request(http.MethodPost, "/counties/99", url.Values{"_method": {"DELETE"}}), "/counties")
	rec := s.request(http.MethodGet, "/counties", nil)
	s.Contains(rec.Body.String(), "County not found")
}

func (s *ServerTestSuite) TestShowCounty() {
	rec := s.request(http.MethodGet, "/counties/1", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "<h1>Baranya</h1>")

	s.assertRedirect(s.request(http.MethodGet, "/counties/99", nil), "/counties")
	rec = s.request(http.MethodGet, "/counties", nil)
	s.Contains(rec.Body.String(), "County not found")

	rec = s.request(http.MethodGet, "/counties/abc", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerTestSuite) TestCities() {
	rec := s.request(http.MethodGet, "/counties/1/cities", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Cities in Baranya")
	s.Contains(rec.Body.String(), "Pécs")
	s.Contains(rec.Body.String(), "7300")

	rec = s.request(http.MethodGet, "/counties/1/cities/10", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "7600")

	s.assertRedirect(s.request(http.MethodGet, "/counties/1/cities/77", nil), "/counties/1/cities")
	rec = s.request(http.MethodGet, "/counties/1/cities", nil)
	s.Contains(rec.Body.String(), "City not found")

	s.assertRedirect(s.request(http.MethodGet, "/counties/99/cities", nil), "/counties")
}

func (s *ServerTestSuite) TestCityMutations() {
	s.login()

	s.assertRedirect(s.request(http.MethodPost, "/counties/1/cities", url.Values{"name": {"Siklós"}, "zip_code": {"7800"}}), "/counties/1/cities")
	calls := s.remote.callsTo("POST /api/counties/1/cities")
	s.Require().Len(calls, 1)
	s.Equal("7800", calls[0].Body["zip_code"])

	rec := s.request(http.MethodGet, "/counties/1/cities/10/edit", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `value="7600"`)

	rec = s.request(http.MethodPost, "/counties/1/cities/10", url.Values{"_method": {"PUT"}, "name": {"Pécs"}, "zip_code": {"76000000000"}})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Contains(rec.Body.String(), "The zip code field must not be greater than 10 characters.")

	s.assertRedirect(s.request(http.MethodPost, "/counties/1/cities/10", url.Values{"_method": {"PUT"}, "name": {"Pécs"}, "zip_code": {"7601"}}), "/counties/1/cities")
	s.Len(s.remote.callsTo("PATCH /api/counties/1/cities/10"), 1)

	s.assertRedirect(s.request(http.MethodPost, "/counties/1/cities/10", url.Values{"_method": {"DELETE"}}), "/counties/1/cities")
	s.Len(s.remote.callsTo("DELETE /api/counties/1/cities/10"), 1)
}

func (s *ServerTestSuite) TestFilter() {
	rec := s.request(http.MethodGet, "/cities/filter", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Choose a county")

	rec = s.request(http.MethodGet, "/cities/filter/letters/1", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"letters":["K","P"]}`, rec.Body.String())

	rec = s.request(http.MethodGet, "/cities/filter/letters/99", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"error":"County not found"}`, rec.Body.String())

	rec = s.request(http.MethodGet, "/cities/filter/1/p", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "cities starting with P")
	s.Contains(rec.Body.String(), "Pécs")
	s.Len(s.remote.callsTo("GET /api/counties/1/abc/P"), 1)
}

func (s *ServerTestSuite) TestExports() {
	rec := s.request(http.MethodGet, "/export/counties/csv", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("text/csv; charset=UTF-8", rec.Header().Get(echo.HeaderContentType))
	s.Regexp(`^attachment; filename=counties-\d{4}-\d{2}-\d{2}-\d{6}\.csv$`, rec.Header().Get("Content-Disposition"))
	s.Equal("no-cache", rec.Header().Get("Pragma"))
	s.Equal("0", rec.Header().Get("Expires"))
	s.Equal("ID,Name\n1,Baranya\n2,Pest\n", rec.Body.String())

	rec = s.request(http.MethodGet, "/export/cities/1/csv", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Regexp(`filename=cities-Baranya-\d{4}-\d{2}-\d{2}-\d{6}\.csv$`, rec.Header().Get("Content-Disposition"))
	s.Equal("ID,Name,Zip Code,County\n10,Pécs,7600,Baranya\n11,Komló,7300,Baranya\n", rec.Body.String())

	rec = s.request(http.MethodGet, "/export/counties/pdf", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/pdf", rec.Header().Get(echo.HeaderContentType))
	s.True(strings.HasPrefix(rec.Body.String(), "%PDF-"))

	rec = s.request(http.MethodGet, "/export/cities/1/pdf", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.True(strings.HasPrefix(rec.Body.String(), "%PDF-"))

	s.assertRedirect(s.request(http.MethodGet, "/export/cities/99/csv", nil), "/counties")
}

func (s *ServerTestSuite) TestRemoteUnreachable() {
	e := s.newServer("http://127.0.0.1:1/api", false)

	s.assertRedirect(s.requestOn(e, http.MethodGet, "/counties", nil), "/")
	rec := s.requestOn(e, http.MethodGet, "/", nil)
	s.Contains(rec.Body.String(), "could not be reached")
}

func (s *ServerTestSuite) TestCSRF() {
	e := s.newServer(s.remote.URL+"/api", true)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)

	var csrfCookie, sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case "_csrf":
			csrfCookie = c
		case middleware.DefaultSessionCookie:
			sessionCookie = c
		}
	}
	s.Require().NotNil(csrfCookie)
	s.Require().NotNil(sessionCookie)
	s.Contains(rec.Body.String(), `name="_token" value="`+csrfCookie.Value+`"`)

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.AddCookie(csrfCookie)
		req.AddCookie(sessionCookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec = post(url.Values{"email": {"a@b.com"}, "password": {"secret1"}})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Empty(s.remote.callsTo("POST /api/users/login"))

	rec = post(url.Values{"email": {"a@b.com"}, "password": {"secret1"}, "_token": {"forged"}})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = post(url.Values{"email": {"a@b.com"}, "password": {"secret1"}, "_token": {csrfCookie.Value}})
	s.assertRedirect(rec, "/dashboard")
}

func (s *ServerTestSuite) TestLoginRotatesSessionID() {
	guest := s.sid
	s.Require().NoError(s.store.Set(context.Background(), guest, map[string]string{session.FlashKey: "{}"}))

	s.login()
	s.NotEqual(guest, s.sid)

	_, err := s.store.Get(context.Background(), guest, session.FlashKey)
	s.ErrorIs(err, session.ErrNotFound)

	signedIn := s.sid
	s.sid = guest
	s.assertRedirect(s.request(http.MethodGet, "/dashboard", nil), "/login")

	s.sid = signedIn
	rec := s.request(http.MethodGet, "/dashboard", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(3600, s.sessionCookie(rec).MaxAge)
}

func (s *ServerTestSuite) TestRejectedLoginKeepsSessionID() {
	rec := s.request(http.MethodPost, "/login", url.Values{"email": {"a@b.com"}, "password": {"wrong-password"}})
	s.Equal(http.StatusUnauthorized, rec.Code)
	for _, c := range rec.Result().Cookies() {
		s.NotEqual(middleware.DefaultSessionCookie, c.Name)
	}
}

func (s *ServerTestSuite) TestSessionSurvivesInStore() {
	s.login()

	token, err := s.store.Get(context.Background(), s.sid, session.TokenKey)
	s.Require().NoError(err)
	s.Equal("tok123", token)
}
