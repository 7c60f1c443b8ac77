package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connecty/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(routes func(app *fiber.App)) *fiber.App {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(zerolog.Nop()).Middleware())
	app.Use(NewErrorMiddleware(zerolog.Nop()).Middleware())
	routes(app)
	return app
}

func call(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp, body
}

func TestErrorMiddleware_RendersAppErrorData(t *testing.T) {
	app := newApp(func(app *fiber.App) {
		app.Get("/", func(c fiber.Ctx) error {
			return NewAppError(fiber.StatusNotFound, "", fiber.Map{"nonprofile": "missing"}, nil)
		})
	})

	resp, body := call(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, map[string]any{"nonprofile": "missing"}, body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestErrorMiddleware_MessageWithoutData(t *testing.T) {
	app := newApp(func(app *fiber.App) {
		app.Get("/bad", func(c fiber.Ctx) error {
			return NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
		})
		app.Get("/gone", func(c fiber.Ctx) error { return fiber.ErrNotFound })
	})

	resp, body := call(t, app, httptest.NewRequest(http.MethodGet, "/bad", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]any{"message": "Invalid request payload"}, body)

	resp, body = call(t, app, httptest.NewRequest(http.MethodGet, "/gone", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", body["message"])
}

func TestErrorMiddleware_HidesInternalDetails(t *testing.T) {
	app := newApp(func(app *fiber.App) {
		app.Get("/app", func(c fiber.Ctx) error {
			return NewAppError(fiber.StatusInternalServerError, "db exploded", fiber.Map{"secret": "x"}, errors.New("boom"))
		})
		app.Get("/plain", func(c fiber.Ctx) error { return errors.New("boom") })
		app.Get("/panic", func(c fiber.Ctx) error { panic("boom") })
	})

	for _, path := range []string{"/app", "/plain", "/panic"} {
		resp, body := call(t, app, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		assert.Equal(t, map[string]any{"message": "internal server error"}, body, path)
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("access", "refresh", time.Minute, time.Hour)
	uid := uuid.New()

	app := newApp(func(app *fiber.App) {
		app.Get("/me", NewAuthMiddleware(svc).Middleware(), func(c fiber.Ctx) error {
			id, ok := UserID(c)
			if !ok {
				return NewAppError(fiber.StatusUnauthorized, "", nil, nil)
			}
			return c.JSON(fiber.Map{"data": id.String()})
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, _ := call(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	refresh, err := svc.GenerateRefreshToken(uid)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	resp, _ = call(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	access, err := svc.GenerateAccessToken(jwt.Identity{UserID: uid, Name: "alice"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer "+access)
	resp, body := call(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uid.String(), body["data"])
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Basic abc", "abc"} {
		_, ok := BearerToken(h)
		assert.False(t, ok, h)
	}
}
