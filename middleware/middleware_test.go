package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agency-backoffice-api/models"
	"agency-backoffice-api/ratelimit"
	"agency-backoffice-api/services"
	"agency-backoffice-api/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionCookie(t *testing.T, db *gorm.DB, user *models.User) *http.Cookie {
	t.Helper()
	svc := services.NewSessionService(db, testutil.TestSessionSecret, 10*time.Minute)
	signed, _, err := svc.Create(context.Background(), user, "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	return &http.Cookie{Name: "session_token", Value: signed}
}

func okHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func TestIsProtectedPath(t *testing.T) {
	cases := map[string]bool{
		"/dashboard":            true,
		"/dashboard/":           true,
		"/policies/12":          true,
		"/users":                true,
		"/":                     false,
		"/dashboards":           false,
		"/notifications":        false,
		"/api/auth/sign-in":     false,
		"/commissions/3/edit":   true,
		"/leadsboard":           false,
		"/documents/9/download": true,
	}
	for path, want := range cases {
		if got := IsProtectedPath(path); got != want {
			t.Fatalf("IsProtectedPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestSessionGateRedirectsWithoutCookie(t *testing.T) {
	router := gin.New()
	router.Use(SessionGate("session_token"))
	router.GET("/dashboard", okHandler)
	router.GET("/", okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
	if strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("protected content must not be rendered")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected public entry to pass, got %d", w.Code)
	}
}

func TestSessionGateOnlyChecksPresence(t *testing.T) {
	router := gin.New()
	router.Use(SessionGate("session_token"))
	router.GET("/dashboard", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "anything"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected cookie holder to pass the gate, got %d", w.Code)
	}
}

func TestRequireSession(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.UseGlobals(t, db)
	user := testutil.CreateUser(t, db, "agent@agency.test", models.RoleUser, "x")

	router := gin.New()
	router.GET("/notifications", RequireSession(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetUint("userID"), "role": c.GetString("role")})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "forged"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "Access Denied") {
		t.Fatalf("expected HTML access denied for forged cookie, got %d %q", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.AddCookie(sessionCookie(t, db, user))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with a live session, got %d", w.Code)
	}
	var body struct {
		UserID uint   `json:"userID"`
		Role   string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.UserID != user.UserID || body.Role != models.RoleUser {
		t.Fatalf("unexpected context values %+v", body)
	}
}

func TestRequireRoleOutcomes(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.UseGlobals(t, db)
	user := testutil.CreateUser(t, db, "agent@agency.test", models.RoleUser, "x")
	admin := testutil.CreateUser(t, db, "boss@agency.test", models.RoleAdmin, "x")

	router := gin.New()
	group := router.Group("/commissions", RequireSession(), AdminOnly("manage commissions"))
	group.GET("", okHandler)
	group.POST("", okHandler)

	get := func(cookie *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/commissions", nil)
		req.Header.Set("Accept", "text/html")
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := get(sessionCookie(t, db, user))
	if w.Code != http.StatusForbidden || !strings.Contains(w.Body.String(), "Access Denied") {
		t.Fatalf("expected 403 access denied page for user, got %d", w.Code)
	}
	if w := get(sessionCookie(t, db, admin)); w.Code != http.StatusOK {
		t.Fatalf("expected admin to load the screen, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/commissions", strings.NewReader("{}"))
	req.AddCookie(sessionCookie(t, db, user))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user mutation, got %d", w.Code)
	}
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if res.Success || res.Message != "Only admins can manage commissions" {
		t.Fatalf("unexpected envelope %+v", res)
	}
}

func TestRequireRoleWithoutSession(t *testing.T) {
	router := gin.New()
	router.GET("/users", RequireRole(models.RoleAdmin), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when no session was resolved, got %d", w.Code)
	}
}

func TestRequireJobToken(t *testing.T) {
	router := gin.New()
	router.GET("/job", RequireJobToken("s3cret"), okHandler)

	cases := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{"missing", "/job", "", http.StatusUnauthorized},
		{"wrong", "/job?token=nope", "", http.StatusUnauthorized},
		{"query", "/job?token=s3cret", "", http.StatusOK},
		{"bearer", "/job", "Bearer s3cret", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
	}

	open := gin.New()
	open.GET("/job", RequireJobToken(""), okHandler)
	w := httptest.NewRecorder()
	open.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/job", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected open route without a secret, got %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.POST("/api/auth/sign-in", RateLimitMiddleware(ratelimit.NewInMemory(time.Minute), "login", 2), okHandler)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, w.Code)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestCORSMiddlewareAllowsConfiguredOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	router.GET("/api/notifications/unread-count", okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/notifications/unread-count", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected origin to be allowed, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials to be allowed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/notifications/unread-count", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected foreign origin to be rejected, got %d", w.Code)
	}
}
