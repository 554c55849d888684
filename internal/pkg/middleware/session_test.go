package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	userID uuid.UUID
	err    error
	token  string
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	f.token = token
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.userID, nil
}

func runMiddleware(t *testing.T, resolver TokenResolver, header, query string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	target := "/"
	if query != "" {
		target = "/?token=" + query
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SessionAuthMiddleware(resolver)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, c
}

func TestSessionAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	resolver := &fakeResolver{userID: userID}

	rec, c := runMiddleware(t, resolver, "Bearer tok123", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok123", resolver.token)

	got, ok := UserIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestSessionAuthMiddleware_MissingHeader(t *testing.T) {
	rec, _ := runMiddleware(t, &fakeResolver{}, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthMiddleware_InvalidToken(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("expired")}
	rec, _ := runMiddleware(t, resolver, "Bearer dead", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthMiddleware_QueryParamFallback(t *testing.T) {
	resolver := &fakeResolver{userID: uuid.New()}
	rec, _ := runMiddleware(t, resolver, "", "querytok")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "querytok", resolver.token)
}

func TestExtractBearerToken_RawHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "raw-token-without-scheme")
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "raw-token-without-scheme", ExtractBearerToken(c))
}
