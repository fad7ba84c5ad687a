// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/estimation-lab/auth"
	"github.com/danielhkuo/estimation-lab/cliparse"
	"github.com/danielhkuo/estimation-lab/db"
	"github.com/danielhkuo/estimation-lab/engine"
	"github.com/danielhkuo/estimation-lab/models"
	"github.com/danielhkuo/estimation-lab/store"
)

// SetupTestStore opens a fresh session store for one test. It is backed by
// Postgres when TEST_DATABASE_URL is set and by a temporary SQLite file otherwise.
func SetupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	ctx := context.Background()
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		st, err := store.OpenSQL(ctx, db.DialectPostgres, dsn)
		if err != nil {
			t.Fatalf("Failed to open test database: %v", err)
		}
		if err := db.DropSchema(st.DB()); err != nil {
			t.Fatalf("Failed to clean database: %v", err)
		}
		if err := db.CreateSchema(st.DB(), db.DialectPostgres); err != nil {
			t.Fatalf("Failed to create schema: %v", err)
		}
		t.Cleanup(func() { st.Close() })
		return st
	}

	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.OpenSQL(ctx, db.DialectSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseType:       cliparse.DatabaseSQLite,
		FacilitatorKeySalt: "test-facilitator-salt",
		BaseURL:            "http://localhost:3318",
	}
}

// CreateTestSession stores a refinement poker session with one participant
// per name. The first name is the facilitator. It returns the stored session
// and the participant ids in name order.
func CreateTestSession(t *testing.T, st store.Store, eng *engine.Engine, names ...string) (*models.Session, []string) {
	t.Helper()

	code, err := auth.GenerateJoinCode()
	if err != nil {
		t.Fatalf("Failed to generate join code: %v", err)
	}
	s, err := eng.NewSession(engine.SessionParams{Title: "Test Session", TeamName: "Test Team", Code: code})
	if err != nil {
		t.Fatalf("Failed to build session: %v", err)
	}
	s.Slug = auth.SessionSlug(s.TeamName, code)

	ids := make([]string, 0, len(names))
	for _, name := range names {
		var id string
		s, id = eng.Join(s, name)
		ids = append(ids, id)
	}

	if err := st.Create(context.Background(), s); err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return s, ids
}

// ApplyTestAction applies action to the stored session and writes it back.
func ApplyTestAction(t *testing.T, st store.Store, eng *engine.Engine, sessionID string, action engine.Action) *models.Session {
	t.Helper()

	ctx := context.Background()
	s, err := st.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	next, err := eng.Apply(s, action)
	if err != nil {
		t.Fatalf("Failed to apply %s: %v", action.Name(), err)
	}
	if err := st.Put(ctx, next); err != nil {
		t.Fatalf("Failed to store session: %v", err)
	}
	return next
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Fatalf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}
