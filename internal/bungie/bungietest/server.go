// Package bungietest provides a fake platform api for tests.
package bungietest

import (
	"destinystats/internal/bungie"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const ApiKey = "test-api-key"

type route struct {
	status int
	body   []byte
}

// Server serves canned responses keyed by request uri (path and query).
// Requests carrying an api key other than ApiKey get an error envelope.
type Server struct {
	*httptest.Server

	lock   sync.Mutex
	routes map[string]route
	hits   map[string]int
}

func NewServer(t testing.TB) *Server {
	s := &Server{
		routes: map[string]route{},
		hits:   map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	s.hits[r.RequestURI]++
	rt, ok := s.routes[r.RequestURI]
	s.lock.Unlock()

	if r.Header.Get("X-API-Key") != ApiKey {
		rt = route{
			status: http.StatusUnauthorized,
			body: mustMarshal(Failure(
				2101,
				"ApiInvalidOrExpiredKey",
				"Please use a valid API key for this request.",
			)),
		}
		ok = true
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("content-type", "application/json")
	w.WriteHeader(rt.status)
	w.Write(rt.body)
}

// Handle answers requests for uri with envelope.
func (s *Server) Handle(uri string, envelope bungie.Envelope) {
	s.HandleRaw(uri, http.StatusOK, mustMarshal(envelope))
}

func (s *Server) HandleRaw(uri string, status int, body []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.routes[uri] = route{status: status, body: body}
}

// Hits returns how many requests were made for uri.
func (s *Server) Hits(uri string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.hits[uri]
}

// Success wraps payload in a successful envelope.
func Success(payload any) bungie.Envelope {
	return bungie.Envelope{
		ErrorCode:   bungie.PlatformSuccess,
		ErrorStatus: bungie.PlatformSuccessStatus,
		Message:     "Ok",
		MessageData: map[string]string{},
		Response:    mustMarshal(payload),
	}
}

func Failure(code int, status, message string) bungie.Envelope {
	return bungie.Envelope{
		ErrorCode:   code,
		ErrorStatus: status,
		Message:     message,
		MessageData: map[string]string{},
	}
}

func mustMarshal(v any) []byte {
	out, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return out
}
