package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

type apiCall struct {
	Method        string
	Path          string
	Authorization string
	Body          map[string]string
}

// stubAPI imitates the remote zip code API with two fixed counties.
type stubAPI struct {
	*httptest.Server

	mu    sync.Mutex
	calls []apiCall
}

func newStubAPI() *stubAPI {
	s := &stubAPI{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		body := s.record(r)
		if body["email"] != "a@b.com" || body["password"] != "secret1" {
			reply(w, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
			return
		}
		reply(w, http.StatusOK, `{"user":{"token":"tok123","id":1,"name":"Anna","email":"a@b.com"}}`)
	})

	mux.HandleFunc("GET /api/counties", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		reply(w, http.StatusOK, `{"counties":[{"id":1,"name":"Baranya"},{"id":2,"name":"Pest"}]}`)
	})

	mux.HandleFunc("GET /api/counties/{id}/cities", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if r.PathValue("id") != "1" {
			reply(w, http.StatusOK, `{"cities":[]}`)
			return
		}
		reply(w, http.StatusOK, `{"cities":[{"id":10,"name":"Pécs","zip":"7600","county":"Baranya"},{"id":11,"name":"Komló","zip":7300,"county":"Baranya"}]}`)
	})

	mux.HandleFunc("GET /api/counties/{id}/abc", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if r.PathValue("id") == "99" {
			reply(w, http.StatusNotFound, `{"message":"County not found"}`)
			return
		}
		reply(w, http.StatusOK, `{"letters":["K","P"]}`)
	})

	mux.HandleFunc("GET /api/counties/{id}/abc/{letter}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		reply(w, http.StatusOK, `{"cities":[{"id":10,"name":"Pécs","zip":"7600"}]}`)
	})

	authorized := func(next func(w http.ResponseWriter, r *http.Request, body map[string]string)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			body := s.record(r)
			if r.Header.Get("Authorization") != "Bearer tok123" {
				reply(w, http.StatusUnauthorized, `{"message":"Unauthenticated."}`)
				return
			}
			next(w, r, body)
		}
	}

	mux.HandleFunc("POST /api/counties", authorized(func(w http.ResponseWriter, _ *http.Request, body map[string]string) {
		reply(w, http.StatusCreated, `{"county":{"id":3,"name":"`+body["name"]+`"}}`)
	}))
	mux.HandleFunc("PATCH /api/counties/{id}", authorized(func(w http.ResponseWriter, r *http.Request, body map[string]string) {
		reply(w, http.StatusOK, `{"county":{"id":`+r.PathValue("id")+`,"name":"`+body["name"]+`"}}`)
	}))
	mux.HandleFunc("DELETE /api/counties/{id}", authorized(func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		if r.PathValue("id") == "99" {
			reply(w, http.StatusNotFound, `{"message":"County not found"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("POST /api/counties/{id}/cities", authorized(func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		reply(w, http.StatusCreated, `{"city":{"id":12}}`)
	}))
	mux.HandleFunc("PATCH /api/counties/{id}/cities/{cityId}", authorized(func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		reply(w, http.StatusOK, `{"city":{"id":10}}`)
	}))
	mux.HandleFunc("DELETE /api/counties/{id}/cities/{cityId}", authorized(func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		w.WriteHeader(http.StatusNoContent)
	}))

	s.Server = httptest.NewServer(mux)
	return s
}

func (s *stubAPI) record(r *http.Request) map[string]string {
	body := map[string]string{}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, apiCall{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})
	return body
}

// callsTo returns the recorded calls whose "METHOD path" has the given prefix.
func (s *stubAPI) callsTo(prefix string) []apiCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []apiCall
	for _, call := range s.calls {
		if strings.HasPrefix(call.Method+" "+call.Path, prefix) {
			matched = append(matched, call)
		}
	}
	return matched
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
