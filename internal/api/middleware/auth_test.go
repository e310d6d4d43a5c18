package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Auth("secret")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	token := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub":      "12",
		"username": "alice",
		"role":     "customer",
		"exp":      time.Now().Add(time.Minute).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth("secret")
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != int64(12) {
			t.Fatalf("user_id not set: %v", c.Get("user_id"))
		}
		if c.Get("username") != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get("role") != "customer" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	wrongKey := signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "1"})
	noSubject := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"username": "alice"})
	badSubject := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "alice"})
	hs512 := signed(t, jwt.SigningMethodHS512, []byte("secret"), jwt.MapClaims{"sub": "1"})

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token abc",
		"empty token":     "Bearer ",
		"garbage token":   "Bearer not-a-token",
		"expired":         "Bearer " + expired,
		"wrong key":       "Bearer " + wrongKey,
		"no subject":      "Bearer " + noSubject,
		"non-numeric sub": "Bearer " + badSubject,
		"other algorithm": "Bearer " + hs512,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, called := runAuth(t, header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
