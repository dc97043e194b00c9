package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Ventas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	mwSecret = "clave-de-prueba-middleware"
	mwEmail  = "caja1@ventas.test"
)

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.NewIssuer(mwSecret, "ventas-api-test", 30).Issue(mwEmail, role)
	require.NoError(t, err)
	return "Bearer " + tok
}

// whoAmI devuelve lo que los middlewares dejaron en locals.
func whoAmI(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"email": apphttp.GetEmail(c), "role": apphttp.GetRole(c)})
}

func call(t *testing.T, app *fiber.App, authorization string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]string{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware + RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole(t *testing.T) {
	adminOnly := []string{entity.RoleAdmin}
	staff := []string{entity.RoleAdmin, entity.RoleVendedor}

	cases := []struct {
		name     string
		allowed  []string
		header   func(t *testing.T) string
		status   int
		wantCode string
	}{
		{"admin en ruta de admin", adminOnly, func(t *testing.T) string { return bearer(t, entity.RoleAdmin) }, http.StatusOK, ""},
		{"vendedor en ruta de personal", staff, func(t *testing.T) string { return bearer(t, entity.RoleVendedor) }, http.StatusOK, ""},
		{"vendedor en ruta de admin", adminOnly, func(t *testing.T) string { return bearer(t, entity.RoleVendedor) }, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", adminOnly, func(t *testing.T) string { return bearer(t, "") }, http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin cabecera", adminOnly, func(*testing.T) string { return "" }, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema distinto de Bearer", adminOnly, func(*testing.T) string { return "Basic dXNlcjpwYXNz" }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token corrupto", adminOnly, func(*testing.T) string { return "Bearer no.es.jwt" }, http.StatusUnauthorized, "INVALID_TOKEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/me", apphttp.AuthMiddleware(mwSecret), apphttp.RequireRole(tc.allowed...), whoAmI)

			status, body := call(t, app, tc.header(t))
			assert.Equal(t, tc.status, status)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, body["code"])
				return
			}
			assert.Equal(t, mwEmail, body["email"])
		})
	}
}

func TestAuthMiddleware_FirmaDeOtroSecreto(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secreto", mwEmail, entity.RoleAdmin, "x", 5)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(mwSecret), whoAmI)

	status, body := call(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// OptionalAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestOptionalAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.OptionalAuth(mwSecret), whoAmI)

	t.Run("anónimo", func(t *testing.T) {
		status, body := call(t, app, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["role"])
	})

	t.Run("con token válido carga los claims", func(t *testing.T) {
		status, body := call(t, app, bearer(t, entity.RoleAdmin))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, entity.RoleAdmin, body["role"])
	})

	t.Run("token inválido no se ignora", func(t *testing.T) {
		status, body := call(t, app, "Bearer basura")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "INVALID_TOKEN", body["code"])
	})
}
