package profile_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/auth"
	"github.com/huslen0212/part-time-web-thesis/internal/profile"
)

func str(s string) *string { return &s }

func TestNormalizedEmail(t *testing.T) {
	cases := []struct {
		name    string
		in      *string
		want    string
		wantErr bool
	}{
		{"absent", nil, "", false},
		{"blank", str("   "), "", false},
		{"trimmed", str("  bat@example.com "), "bat@example.com", false},
		{"invalid", str("not-an-email"), "", true},
	}
	for _, c := range cases {
		got, err := profile.UpdateInput{Email: c.in}.NormalizedEmail()
		if c.wantErr {
			if !apperr.IsValidation(err) {
				t.Errorf("%s: got %v, want validation error", c.name, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Errorf("%s: got (%q, %v), want %q", c.name, got, err, c.want)
		}
	}
}

// Requests that fail before touching the database.
func TestHandler_Guards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := gin.New()
	profile.NewHandler(profile.NewService(nil)).RegisterRoutes(r.Group("/", auth.Authenticate(tokens)))

	tok, err := tokens.Issue(auth.EmployerIdentity{ID: 3, EmployerName: "Cafe"})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		method string
		token  string
		body   string
		want   int
	}{
		{"get without token", http.MethodGet, "", "", http.StatusUnauthorized},
		{"put without token", http.MethodPut, "", `{}`, http.StatusUnauthorized},
		{"put bad JSON", http.MethodPut, "Bearer " + tok, `{`, http.StatusBadRequest},
		{"put invalid email", http.MethodPut, "Bearer " + tok, `{"email":"nope"}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, "/profile", strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", c.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != c.want {
			t.Errorf("%s: status = %d, want %d", c.name, w.Code, c.want)
		}
	}
}
