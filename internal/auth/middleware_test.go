package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huslen0212/part-time-web-thesis/internal/auth"
)

func newRouter(tokens *auth.Tokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/any", auth.Authenticate(tokens), func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		c.String(http.StatusOK, string(id.Role()))
	})
	r.GET("/employer", auth.Authenticate(tokens), auth.RequireRole(auth.RoleEmployer), func(c *gin.Context) {
		e, ok := auth.EmployerFrom(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, e.EmployerName)
	})
	return r
}

func do(r http.Handler, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	r := newRouter(tokens)

	seeker, _ := tokens.Issue(auth.JobSeekerIdentity{ID: 1, UserName: "Bold"})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + seeker, http.StatusOK},
	}
	for _, c := range cases {
		if w := do(r, "/any", c.header); w.Code != c.want {
			t.Errorf("%s: status = %d, want %d", c.name, w.Code, c.want)
		}
	}
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	r := newRouter(tokens)

	seeker, _ := tokens.Issue(auth.JobSeekerIdentity{ID: 1, UserName: "Bold"})
	employer, _ := tokens.Issue(auth.EmployerIdentity{ID: 2, EmployerName: "Shop"})

	if w := do(r, "/employer", "Bearer "+seeker); w.Code != http.StatusForbidden {
		t.Errorf("job seeker on employer route: status = %d, want 403", w.Code)
	}
	w := do(r, "/employer", "Bearer "+employer)
	if w.Code != http.StatusOK {
		t.Fatalf("employer on employer route: status = %d, want 200", w.Code)
	}
	if w.Body.String() != "Shop" {
		t.Errorf("body = %q, want Shop", w.Body.String())
	}
}

func TestMiddleware_ErrorBodies(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	r := newRouter(tokens)
	seeker, _ := tokens.Issue(auth.JobSeekerIdentity{ID: 1, UserName: "Bold"})

	cases := []struct {
		name   string
		path   string
		header string
		want   string
	}{
		{"missing header", "/any", "", `{"error":"missing bearer token"}`},
		{"bad token", "/any", "Bearer nope", `{"error":"invalid or expired token"}`},
		{"wrong role", "/employer", "Bearer " + seeker, `{"error":"role JOB_SEEKER is not allowed"}`},
	}
	for _, c := range cases {
		if w := do(r, c.path, c.header); w.Body.String() != c.want {
			t.Errorf("%s: body = %s, want %s", c.name, w.Body.String(), c.want)
		}
	}
}
