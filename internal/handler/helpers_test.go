package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/todo-api/internal/handler"
	"github.com/msomdec/todo-api/internal/repository/sqlite"
	"github.com/msomdec/todo-api/internal/service"
)

const (
	testJWTSecret   = "test-secret-for-handler-tests-0123456789"
	testFrontendURL = "http://localhost:3000"
)

type testApp struct {
	srv    *httptest.Server
	db     *sqlite.DB
	tokens *service.TokenService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := service.NewTokenService(testJWTSecret, 0)
	auth := service.NewAuthService(db.Users(), tokens, 4)
	tasks := service.NewTaskService(db.Tasks())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, tokens, tasks, db.Ping)

	h := handler.WithJSONFallbacks(mux)
	h = handler.SecurityHeaders(h)
	h = handler.CORS(testFrontendURL, h)
	h = handler.LogRequests(h)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, db: db, tokens: tokens}
}

// do sends a JSON request and decodes the JSON response into out when out
// is non-nil.
func (a *testApp) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type userBody struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userBody `json:"user"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// signUp registers and logs in a user, returning the token and user id.
func (a *testApp) signUp(t *testing.T, username, email, password string) (string, string) {
	t.Helper()
	if code := a.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": username, "email": email, "password": password,
	}, nil); code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", username, code)
	}

	var login loginResponse
	if code := a.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": email, "password": password,
	}, &login); code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", username, code)
	}
	return login.Token, login.User.ID
}
