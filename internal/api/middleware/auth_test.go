package middleware

import (
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hypetrack/backend/internal/config"
)

const testSecret = "test-admin-secret"

func newProtectedApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{}
	cfg.Services.AdminJWTSecret = testSecret
	if err := InitAuthMiddleware(cfg); err != nil {
		t.Fatalf("failed to init auth middleware: %v", err)
	}

	app := fiber.New()
	app.Post("/admin/precompute", Protected(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

func signToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": "ops",
		"exp": time.Now().Add(expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// testServer serves a fiber app over a real TCP listener; fiber's
// fasthttp handler cannot be passed to httptest.NewServer directly.
type testServer struct {
	URL string
	app *fiber.App
}

func (s *testServer) Close() { _ = s.app.Shutdown() }

func startServer(t *testing.T, app *fiber.App) *testServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	return &testServer{URL: "http://" + ln.Addr().String(), app: app}
}

func requestWithToken(t *testing.T, srv *testServer, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/admin/precompute", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestProtectedAcceptsValidToken(t *testing.T) {
	app := newProtectedApp(t)
	srv := startServer(t, app)
	defer srv.Close()

	resp := requestWithToken(t, srv, signToken(t, testSecret, time.Hour))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid token rejected with status %d", resp.StatusCode)
	}
}

func TestProtectedRejectsMissingToken(t *testing.T) {
	app := newProtectedApp(t)
	srv := startServer(t, app)
	defer srv.Close()

	resp := requestWithToken(t, srv, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token should 401, got %d", resp.StatusCode)
	}
}

func TestProtectedRejectsWrongSecret(t *testing.T) {
	app := newProtectedApp(t)
	srv := startServer(t, app)
	defer srv.Close()

	resp := requestWithToken(t, srv, signToken(t, "some-other-secret", time.Hour))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong secret should 401, got %d", resp.StatusCode)
	}
}

func TestProtectedRejectsExpiredToken(t *testing.T) {
	app := newProtectedApp(t)
	srv := startServer(t, app)
	defer srv.Close()

	resp := requestWithToken(t, srv, signToken(t, testSecret, -time.Hour))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expired token should 401, got %d", resp.StatusCode)
	}
}
