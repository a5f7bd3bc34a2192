// Package handlers wires the tide service onto an HTTP router. Responses are
// cached for a short TTL and the last requested city is remembered in a
// session cookie so the index can redirect straight to it.
package handlers

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/AntIg86/TideTimeBot/pkg/cache"
	"github.com/AntIg86/TideTimeBot/pkg/geocode"
	"github.com/AntIg86/TideTimeBot/pkg/openmeteo"
	"github.com/AntIg86/TideTimeBot/pkg/report"
	"github.com/AntIg86/TideTimeBot/pkg/service"
	"golang.org/x/crypto/pbkdf2"

	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	sessionName     = "tidetimebot"
	sessionLastCity = "last-city"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

// briefResponse is the JSON shape of /api/v1/tides.
type briefResponse struct {
	Place geocode.Place  `json:"place"`
	Brief *report.Result `json:"brief"`
}

type server struct {
	svc     *service.Service
	results *cache.Timed
	store   *sessions.CookieStore
}

// Register installs the API on r. Cached responses expire after ttl.
func Register(r *mux.Router, svc *service.Service, ttl time.Duration) {
	s := &server{
		svc:     svc,
		results: cache.NewTimed(ttl),
		store:   newCookieStore(),
	}
	r.HandleFunc("/", s.index)
	r.HandleFunc("/api/v1/tides", s.serveTides)
}

func newCookieStore() *sessions.CookieStore {
	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			getSessionKey(),
			getEncryptionKey(),
		),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			Secure:   true,
			HttpOnly: true,
		},
	}
	store.MaxAge(defaultMaxAge)
	return store
}

// index redirects to the last viewed city, or explains the API if there is
// none yet.
func (s *server) index(w http.ResponseWriter, r *http.Request) {
	session, _ := s.store.Get(r, sessionName)
	if city, ok := session.Values[sessionLastCity].(string); ok && city != "" {
		http.Redirect(w, r, "/api/v1/tides?city="+url.QueryEscape(city), http.StatusFound)
		return
	}
	w.Header().Add("Content-Type", "text/plain")
	fmt.Fprintln(w, "GET /api/v1/tides?city=<name> for today's tide brief. Add o=json for JSON.")
}

func (s *server) serveTides(w http.ResponseWriter, r *http.Request) {
	session, _ := s.store.Get(r, sessionName)

	city := r.FormValue("city")
	if city == "" {
		if saved, ok := session.Values[sessionLastCity].(string); ok {
			city = saved
		}
	}
	if city == "" {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintln(w, "city query parameter is required")
		return
	}

	asJSON := r.FormValue("o") == "json"
	contentType := "text/plain"
	if asJSON {
		contentType = "application/json"
	}

	// Cache on the normalized city so spelling variants share an entry.
	key := fmt.Sprintf("%s %s", geocode.Normalize(city), contentType)
	if cached, ok := s.results.Get(key); ok {
		w.Header().Add("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	res, place, err := s.svc.BriefForCity(r.Context(), city)
	if err != nil {
		serveError(w, city, err)
		return
	}

	session.Values[sessionLastCity] = place.Name
	if err := session.Save(r, w); err != nil {
		log.Printf("failed to save session: %v", err)
	}

	// Duplicate the response onto a buffer for the cache.
	var toCache bytes.Buffer
	mw := io.MultiWriter(w, &toCache)

	w.Header().Add("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if asJSON {
		if err := json.NewEncoder(mw).Encode(briefResponse{Place: place, Brief: res}); err != nil {
			log.Printf("failed to encode JSON result: %v", err)
		}
	} else {
		fmt.Fprintf(mw, "%s, %s\n%s\n", place.Name, place.Country, res.String())
	}

	// Save asynchronously as the cache may block.
	go func() {
		s.results.Set(key, toCache.Bytes())
	}()
}

func serveError(w http.ResponseWriter, city string, err error) {
	var upstream *openmeteo.UpstreamError
	switch {
	case errors.Is(err, geocode.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "no city found for %q\n", city)
	case errors.As(err, &upstream):
		log.Printf("upstream failure for %q: %v", city, err)
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintln(w, "the tide data source is unreachable")
	default:
		log.Printf("brief for %q failed: %v", city, err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintln(w, "internal error")
	}
}

// getSessionKey returns a key to authenticate session cookies defined in the
// environment. If it is not set, it uses a compile-time default.
func getSessionKey() []byte {
	if key := os.Getenv("SESSION_KEY"); key != "" {
		return []byte(key)
	}
	return []byte("deadbeef")
}

func getEncryptionKey() []byte {
	password := "deadbeef"
	if fromEnv := os.Getenv("ENCRYPTION_KEY"); fromEnv != "" {
		password = fromEnv
	}
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}
