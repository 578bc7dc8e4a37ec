package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "inventario-ledger-test"
	testExpMin    = 60
)

func testSigner(t *testing.T) *pkgjwt.Signer {
	t.Helper()
	signer, err := pkgjwt.NewSigner(testJWTSecret, testIssuer, testExpMin)
	require.NoError(t, err)
	return signer
}

// buildTestApp construye una aplicación Fiber mínima: AuthMiddleware +
// RequireRole + un handler dummy que devuelve 200 si pasa los middlewares.
func buildTestApp(t *testing.T, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testSigner(t)),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := testSigner(t).Sign(pkgjwt.Actor{
		UserID:    testUserID,
		CompanyID: testCompanyID,
		Role:      role,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_MultiRol(t *testing.T) {
	app := buildTestApp(t, "admin", "bodeguero")
	resp := doRequest(t, app, tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"bodeguero debe poder acceder a ruta que permite admin o bodeguero")
}

func TestRequireRole_RolSinPermiso_Retorna403(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, tokenForRole(t, "vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"vendedor no debe poder acceder a ruta restringida a admin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	// Token con rol vacío simula un token legacy sin el claim.
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeActor(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testSigner(t)), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "admin", body["role"])
}

func TestSigner_SignAndVerify(t *testing.T) {
	signer := testSigner(t)
	actor := pkgjwt.Actor{UserID: testUserID, CompanyID: testCompanyID, Role: "bodeguero"}

	tok, err := signer.Sign(actor)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := signer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestSigner_TokenExpirado_RetornaError(t *testing.T) {
	expired, err := pkgjwt.NewSigner(testJWTSecret, testIssuer, -1)
	require.NoError(t, err)
	tok, err := expired.Sign(pkgjwt.Actor{UserID: testUserID, CompanyID: testCompanyID, Role: "admin"})
	require.NoError(t, err)

	_, err = testSigner(t).Verify(tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestSigner_SecretIncorrecto_RetornaError(t *testing.T) {
	otro, err := pkgjwt.NewSigner("otro-secret-completamente-distinto", testIssuer, testExpMin)
	require.NoError(t, err)
	tok, err := testSigner(t).Sign(pkgjwt.Actor{UserID: testUserID, CompanyID: testCompanyID, Role: "admin"})
	require.NoError(t, err)

	_, err = otro.Verify(tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestSigner_IssuerDistinto_RetornaError(t *testing.T) {
	otro, err := pkgjwt.NewSigner(testJWTSecret, "otro-servicio", testExpMin)
	require.NoError(t, err)
	tok, err := otro.Sign(pkgjwt.Actor{UserID: testUserID, CompanyID: testCompanyID, Role: "admin"})
	require.NoError(t, err)

	_, err = testSigner(t).Verify(tok)
	assert.Error(t, err, "issuer ajeno debe invalidar el token")
}

func TestSigner_SecretVacio_Falla(t *testing.T) {
	_, err := pkgjwt.NewSigner("", testIssuer, testExpMin)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}
