// Package backendtest provides an in-memory stand-in for the REST backend.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Item is one stored record.
type Item map[string]any

type account struct {
	password string
	user     Item
}

// Server serves /auth/* and generic collections the way the backend does,
// with trailing-slash paths and bearer token auth.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	accounts    map[string]account
	tokens      map[string]string
	collections map[string]map[string]Item
	nextID      int
	failLogout  bool
	requests    []string
	// Now stamps created and updated timestamps.
	Now func() time.Time
}

// New starts a server that is closed with the test.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts:    make(map[string]account),
		tokens:      make(map[string]string),
		collections: make(map[string]map[string]Item),
		Now:         time.Now,
	}
	r := chi.NewRouter()
	r.Use(s.record)
	r.Post("/auth/login/", s.login)
	r.Get("/auth/user/", s.currentUser)
	r.Post("/auth/logout/", s.logout)
	r.Route("/{collection}", func(r chi.Router) {
		r.Use(s.authenticated)
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{id}/", s.get)
		r.Put("/{id}/", s.update)
		r.Patch("/{id}/", s.update)
		r.Delete("/{id}/", s.remove)
	})
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddAccount registers credentials for user. user must carry "email".
func (s *Server) AddAccount(password string, user Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, _ := user["email"].(string)
	s.accounts[email] = account{password: password, user: user}
}

// Issue mints a token for email without going through login.
func (s *Server) Issue(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = email
	return token
}

// Revoke invalidates token, as an expiry on the backend would.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// TokenValid reports whether token is still accepted.
func (s *Server) TokenValid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[token]
	return ok
}

// FailLogout makes /auth/logout/ answer 500.
func (s *Server) FailLogout(fail bool) {
	s.mu.Lock()
	s.failLogout = fail
	s.mu.Unlock()
}

// Seed stores items in collection, assigning ids when missing.
func (s *Server) Seed(collection string, items ...Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.store(collection, item)
	}
}

// Items returns the records of collection ordered by id.
func (s *Server) Items(collection string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(collection)
}

// Requests lists "METHOD path" for every request served.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) bearer(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	return email, ok
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.bearer(r); !ok {
			writeJSON(w, http.StatusUnauthorized, Item{"detail": "Invalid token."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, Item{"detail": "Malformed request."})
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[creds.Email]
	s.mu.Unlock()
	if !ok || acct.password != creds.Password {
		writeJSON(w, http.StatusBadRequest, Item{"detail": "Unable to log in with provided credentials."})
		return
	}
	token := s.Issue(creds.Email)
	writeJSON(w, http.StatusOK, Item{"token": token, "user": acct.user})
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	email, ok := s.bearer(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Item{"detail": "Invalid token."})
		return
	}
	s.mu.Lock()
	acct := s.accounts[email]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, acct.user)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	fail := s.failLogout
	s.mu.Unlock()
	if fail {
		writeJSON(w, http.StatusInternalServerError, Item{"detail": "unavailable"})
		return
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		s.Revoke(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := s.sorted(chi.URLParam(r, "collection"))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	item, ok := s.collections[chi.URLParam(r, "collection")][chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, Item{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var item Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSON(w, http.StatusBadRequest, Item{"detail": "Malformed request."})
		return
	}
	delete(item, "id")
	s.mu.Lock()
	stored := s.store(chi.URLParam(r, "collection"), item)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var patch Item
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, Item{"detail": "Malformed request."})
		return
	}
	collection, id := chi.URLParam(r, "collection"), chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.collections[collection][id]
	if !ok {
		writeJSON(w, http.StatusNotFound, Item{"detail": "Not found."})
		return
	}
	for k, v := range patch {
		if k != "id" {
			item[k] = v
		}
	}
	stamp := s.Now().UTC().Format(time.RFC3339)
	item["updated_at"], item["updatedAt"] = stamp, stamp
	s.resolveCategory(collection, item)
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	collection, id := chi.URLParam(r, "collection"), chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.collections[collection][id]
	delete(s.collections[collection], id)
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, Item{"detail": "Not found."})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// store assumes s.mu is held.
func (s *Server) store(collection string, item Item) Item {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Item)
	}
	id := idOf(item)
	if id == "" {
		s.nextID++
		for s.collections[collection][strconv.Itoa(s.nextID)] != nil {
			s.nextID++
		}
		id = strconv.Itoa(s.nextID)
		item["id"] = s.nextID
	}
	stamp := s.Now().UTC().Format(time.RFC3339)
	for _, key := range []string{"created_at", "createdAt", "updated_at", "updatedAt"} {
		if _, ok := item[key]; !ok {
			item[key] = stamp
		}
	}
	s.resolveCategory(collection, item)
	s.collections[collection][id] = item
	return item
}

// resolveCategory denormalizes the parent name onto subcategories, as the
// backend serializer does.
func (s *Server) resolveCategory(collection string, item Item) {
	if collection != "subcategories" {
		return
	}
	if parent, ok := s.collections["categories"][idString(item["category"])]; ok {
		item["category_name"] = parent["name"]
	}
}

func (s *Server) sorted(collection string) []Item {
	items := make([]Item, 0, len(s.collections[collection]))
	for _, item := range s.collections[collection] {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		a, _ := strconv.Atoi(idOf(items[i]))
		b, _ := strconv.Atoi(idOf(items[j]))
		return a < b
	})
	return items
}

func idOf(item Item) string {
	return idString(item["id"])
}

func idString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
