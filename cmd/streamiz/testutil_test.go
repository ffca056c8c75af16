package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockServer is a fluent builder for an httptest.Server that checks the
// request line before handing off to a canned response.
type mockServer struct {
	t           *testing.T
	handler     http.HandlerFunc
	expectPath  string
	expectMeth  string
	expectQuery string
	expectAuth  string
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	return &mockServer{t: t}
}

func (m *mockServer) ExpectPath(path string) *mockServer {
	m.expectPath = path
	return m
}

func (m *mockServer) ExpectQuery(raw string) *mockServer {
	m.expectQuery = raw
	return m
}

func (m *mockServer) ExpectMethod(method string) *mockServer {
	m.expectMeth = method
	return m
}

func (m *mockServer) ExpectGET() *mockServer    { return m.ExpectMethod(http.MethodGet) }
func (m *mockServer) ExpectPOST() *mockServer   { return m.ExpectMethod(http.MethodPost) }
func (m *mockServer) ExpectPUT() *mockServer    { return m.ExpectMethod(http.MethodPut) }
func (m *mockServer) ExpectDELETE() *mockServer { return m.ExpectMethod(http.MethodDelete) }

// ExpectBearer checks the Authorization header carries token.
func (m *mockServer) ExpectBearer(token string) *mockServer {
	m.expectAuth = "Bearer " + token
	return m
}

func (m *mockServer) Handler(h func(w http.ResponseWriter, r *http.Request)) *mockServer {
	m.handler = h
	return m
}

func (m *mockServer) RespondJSON(v any) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(m.t, w, http.StatusOK, v)
	}
	return m
}

func (m *mockServer) RespondStatus(code int) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
	return m
}

// RespondError answers with the server's JSON error envelope.
func (m *mockServer) RespondError(code int, errCode, message string) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(m.t, w, code, map[string]string{"error": message, "code": errCode})
	}
	return m
}

// Build starts the server and registers its shutdown with t.Cleanup.
func (m *mockServer) Build() *httptest.Server {
	m.t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.expectPath != "" {
			assert.Equal(m.t, m.expectPath, r.URL.Path, "unexpected request path")
		}
		if m.expectMeth != "" {
			assert.Equal(m.t, m.expectMeth, r.Method, "unexpected request method")
		}
		if m.expectQuery != "" {
			assert.Equal(m.t, m.expectQuery, r.URL.RawQuery, "unexpected query")
		}
		if m.expectAuth != "" {
			assert.Equal(m.t, m.expectAuth, r.Header.Get("Authorization"), "unexpected authorization")
		}
		if m.handler != nil {
			m.handler(w, r)
		}
	}))
	m.t.Cleanup(srv.Close)
	return srv
}

func respondJSON(t *testing.T, w http.ResponseWriter, code int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}

// withServerURL points the CLI at url for the duration of the test.
func withServerURL(t *testing.T, url string) {
	t.Helper()
	old := serverURL
	serverURL = url
	t.Cleanup(func() { serverURL = old })
}

// runCLI executes the root command with args and returns its stdout.
// Persistent flag state is reset so tests do not leak into each other.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	oldJSON, oldToken := jsonOutput, apiToken
	jsonOutput, apiToken = false, ""
	t.Cleanup(func() { jsonOutput, apiToken = oldJSON, oldToken })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}
