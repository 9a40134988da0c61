package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/abelov/technical-records/internal/core/domain"
)

type stubAuthService struct {
	validToken string
	user       *domain.User
}

func (s *stubAuthService) SignUp(context.Context, string, string, string) (*domain.User, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, domain.ErrInvalidCredentials
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token == s.validToken {
		return s.user, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func runAuth(t *testing.T, svc *stubAuthService, prepare func(*http.Request)) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(svc)(func(c echo.Context) error {
		user := UserFrom(c)
		if user == nil {
			t.Fatalf("principal missing from context")
		}
		return c.NoContent(http.StatusOK)
	})
	return rec, handler(c)
}

func TestAuth_CookieToken(t *testing.T) {
	svc := &stubAuthService{validToken: "tok", user: &domain.User{ID: "u1", IsActive: true}}

	rec, err := runAuth(t, svc, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "tok"})
	})
	if err != nil {
		t.Fatalf("cookie auth failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuth_BearerToken(t *testing.T) {
	svc := &stubAuthService{validToken: "tok", user: &domain.User{ID: "u1", IsActive: true}}

	if _, err := runAuth(t, svc, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
	}); err != nil {
		t.Fatalf("bearer auth failed: %v", err)
	}
}

func TestAuth_CookiePreferredOverHeader(t *testing.T) {
	svc := &stubAuthService{validToken: "cookie-tok", user: &domain.User{ID: "u1"}}

	if _, err := runAuth(t, svc, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "cookie-tok"})
		req.Header.Set(echo.HeaderAuthorization, "Bearer header-tok")
	}); err != nil {
		t.Fatalf("cookie should win: %v", err)
	}
}

func TestAuth_RejectsUniformly(t *testing.T) {
	svc := &stubAuthService{validToken: "tok", user: &domain.User{ID: "u1"}}

	cases := []struct {
		name    string
		prepare func(*http.Request)
	}{
		{"missing token", nil},
		{"invalid token", func(req *http.Request) {
			req.Header.Set(echo.HeaderAuthorization, "Bearer wrong")
		}},
		{"malformed header", func(req *http.Request) {
			req.Header.Set(echo.HeaderAuthorization, "tok")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.prepare != nil {
				tc.prepare(req)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			err := Auth(svc)(func(echo.Context) error { return nil })(c)
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		name     string
		user     *domain.User
		wantCode int
	}{
		{"no principal", nil, http.StatusUnauthorized},
		{"missing role", &domain.User{Roles: []string{domain.RoleUser}}, http.StatusForbidden},
		{"has role", &domain.User{Roles: []string{domain.RoleAdmin}}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.user != nil {
				c.Set(ContextUserKey, tc.user)
			}

			err := RequireRoles(domain.RoleAdmin)(next)(c)
			if tc.wantCode == http.StatusOK {
				if err != nil {
					t.Fatalf("expected pass, got %v", err)
				}
				return
			}
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != tc.wantCode {
				t.Fatalf("expected %d, got %v", tc.wantCode, err)
			}
		})
	}
}
