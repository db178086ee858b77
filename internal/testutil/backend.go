package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Backend is an in-process fake of the REST API: in-memory collections,
// parent filtering through "<parent>_id" query parameters, and the JWT
// login/refresh endpoints.
type Backend struct {
	t      testing.TB
	server *httptest.Server
	secret []byte

	mu          sync.Mutex
	collections map[string][]map[string]any
	nextID      int
	hits        map[string]int
	failures    map[string]int
	envelope    bool
	requireAuth bool
	users       map[string]backendUser
	access      map[string]bool
	refresh     map[string]string
}

type backendUser struct {
	id       int
	password string
}

type BackendOption func(*Backend)

// WithEnvelope wraps list replies in a paginated {"count", "results"} object.
func WithEnvelope() BackendOption {
	return func(b *Backend) { b.envelope = true }
}

// WithAuthRequired rejects resource calls without a valid access token.
func WithAuthRequired() BackendOption {
	return func(b *Backend) { b.requireAuth = true }
}

// WithUser registers login credentials.
func WithUser(username, password string) BackendOption {
	return func(b *Backend) {
		b.users[username] = backendUser{id: len(b.users) + 1, password: password}
	}
}

// NewBackend starts the fake server; it is closed when the test completes.
func NewBackend(t testing.TB, opts ...BackendOption) *Backend {
	t.Helper()
	b := &Backend{
		t:           t,
		secret:      []byte("test-signing-key"),
		collections: make(map[string][]map[string]any),
		nextID:      1,
		hits:        make(map[string]int),
		failures:    make(map[string]int),
		users:       make(map[string]backendUser),
		access:      make(map[string]bool),
		refresh:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API root to hand to a transport client.
func (b *Backend) URL() string { return b.server.URL }

// Seed stores records (any JSON-marshalable value) in resource. Records
// without an id get the next numeric one.
func (b *Backend) Seed(resource string, records ...any) {
	b.t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			b.t.Fatalf("seeding %s: %v", resource, err)
		}
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			b.t.Fatalf("seeding %s: %v", resource, err)
		}
		if obj["id"] == nil {
			obj["id"] = b.assignID()
		}
		b.collections[resource] = append(b.collections[resource], obj)
	}
}

// Records returns a copy of the stored records of resource.
func (b *Backend) Records(resource string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]map[string]any, len(b.collections[resource]))
	copy(out, b.collections[resource])
	return out
}

// Hits counts requests for method on resource (the first path segment,
// "auth" included).
func (b *Backend) Hits(method, resource string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[method+" "+resource]
}

// FailNext makes the next method call on resource answer status.
func (b *Backend) FailNext(method, resource string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+resource] = status
}

// IssueTokens returns a valid token pair for username without a login call.
func (b *Backend) IssueTokens(username string) (access, refresh string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issue(username)
}

// RevokeAccess invalidates every access token, as if they had expired.
func (b *Backend) RevokeAccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.access = make(map[string]bool)
}

// RevokeRefresh invalidates every refresh token.
func (b *Backend) RevokeRefresh() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh = make(map[string]string)
}

func (b *Backend) assignID() float64 {
	id := b.nextID
	b.nextID++
	return float64(id)
}

func (b *Backend) sign(username, kind string, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"token_type": kind,
		"username":   username,
		"user_id":    b.users[username].id,
		"jti":        uuid.NewString(),
		"exp":        time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		b.t.Fatalf("signing token: %v", err)
	}
	return token
}

func (b *Backend) issue(username string) (string, string) {
	access := b.sign(username, "access", 5*time.Minute)
	refresh := b.sign(username, "refresh", 24*time.Hour)
	b.access[access] = true
	b.refresh[refresh] = username
	return access, refresh
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	segs := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	resource := segs[0]

	b.mu.Lock()
	defer b.mu.Unlock()
	key := r.Method + " " + resource
	b.hits[key]++

	if status, ok := b.failures[key]; ok {
		delete(b.failures, key)
		writeJSON(w, status, map[string]string{"detail": "injected failure"})
		return
	}

	if resource == "auth" && len(segs) == 2 && r.Method == http.MethodPost {
		b.serveAuth(w, r, segs[1])
		return
	}

	if b.requireAuth {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !b.access[token] {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
	}

	switch {
	case len(segs) == 1 && r.Method == http.MethodGet:
		b.list(w, r, resource)
	case len(segs) == 1 && r.Method == http.MethodPost:
		b.create(w, r, resource)
	case len(segs) == 2:
		b.item(w, r, resource, segs[1])
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
	}
}

func (b *Backend) serveAuth(w http.ResponseWriter, r *http.Request, action string) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid body"})
		return
	}
	switch action {
	case "login":
		u, ok := b.users[body["username"]]
		if !ok || u.password != body["password"] {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		access, refresh := b.issue(body["username"])
		writeJSON(w, http.StatusOK, map[string]any{
			"access":  access,
			"refresh": refresh,
			"user":    map[string]any{"id": u.id, "username": body["username"], "role": "manager"},
		})
	case "refresh":
		username, ok := b.refresh[body["refresh"]]
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
			return
		}
		access := b.sign(username, "access", 5*time.Minute)
		b.access[access] = true
		writeJSON(w, http.StatusOK, map[string]string{"access": access})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

func (b *Backend) list(w http.ResponseWriter, r *http.Request, resource string) {
	out := []map[string]any{}
	for _, rec := range b.collections[resource] {
		if matchesFilters(rec, r) {
			out = append(out, rec)
		}
	}
	if b.envelope {
		writeJSON(w, http.StatusOK, map[string]any{"count": len(out), "next": nil, "previous": nil, "results": out})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func matchesFilters(rec map[string]any, r *http.Request) bool {
	for k, vals := range r.URL.Query() {
		if !strings.HasSuffix(k, "_id") || len(vals) == 0 {
			continue
		}
		if idString(rec[k]) != vals[0] {
			return false
		}
	}
	return true
}

func (b *Backend) create(w http.ResponseWriter, r *http.Request, resource string) {
	var rec map[string]any
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid body"})
		return
	}
	if name, ok := rec["name"]; ok && name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"name": []string{"This field may not be blank."}})
		return
	}
	rec["id"] = b.assignID()
	if rec["created_at"] == nil {
		rec["created_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	b.collections[resource] = append(b.collections[resource], rec)
	writeJSON(w, http.StatusCreated, rec)
}

func (b *Backend) item(w http.ResponseWriter, r *http.Request, resource, id string) {
	recs := b.collections[resource]
	idx := -1
	for i, rec := range recs {
		if idString(rec["id"]) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, recs[idx])
	case http.MethodPatch, http.MethodPut:
		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid body"})
			return
		}
		merged := make(map[string]any, len(recs[idx])+len(patch))
		for k, v := range recs[idx] {
			merged[k] = v
		}
		for k, v := range patch {
			if k != "id" {
				merged[k] = v
			}
		}
		recs[idx] = merged
		writeJSON(w, http.StatusOK, merged)
	case http.MethodDelete:
		b.collections[resource] = append(recs[:idx:idx], recs[idx+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
	}
}

func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
