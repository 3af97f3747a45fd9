package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/company"
)

func newCompanyApp(t *testing.T) *fiber.App {
	t.Helper()

	dir := t.TempDir()
	store := company.NewStore(
		filepath.Join(dir, "company_data.json"),
		filepath.Join(dir, "deleted_companies.json"),
	)
	h := NewCompanyHandler(store)

	app := fiber.New()
	app.Get("/api/v1/companies", h.List)
	app.Post("/api/v1/companies", h.Create)
	app.Get("/api/v1/companies/:name", h.Get)
	app.Put("/api/v1/companies/:name", h.Update)
	app.Delete("/api/v1/companies/:name", h.Delete)
	app.Get("/api/v1/companies/:name/deletions", h.Deletions)

	return app
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCompanyCRUDOverHTTP(t *testing.T) {
	app := newCompanyApp(t)
	name := "Viajes Felices"
	escaped := url.PathEscape(name)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/companies", map[string]interface{}{
		"name": name,
		"profile": map[string]interface{}{
			"descripcion": "Agencia de viajes",
			"servicios":   []string{"tours", "hospedaje"},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+escaped, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Name    string          `json:"name"`
		Profile company.Profile `json:"profile"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, name, got.Name)
	assert.Equal(t, "Agencia de viajes", got.Profile.Description)
	assert.Equal(t, []string{"tours", "hospedaje"}, got.Profile.Services)

	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/api/v1/companies/"+escaped, map[string]interface{}{
		"descripcion": "Agencia de viajes y turismo",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/companies/"+escaped, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+escaped, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+escaped+"/deletions", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history struct {
		Deletions []company.DeletionEvent `json:"deletions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	assert.Len(t, history.Deletions, 1)
}

func TestCreateDuplicateCompanyConflicts(t *testing.T) {
	app := newCompanyApp(t)
	body := map[string]interface{}{
		"name":    "Acme",
		"profile": map[string]interface{}{"descripcion": "Primera"},
	}

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/companies", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/v1/companies", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateMissingCompanyNotFound(t *testing.T) {
	app := newCompanyApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/v1/companies/Nadie", map[string]interface{}{
		"descripcion": "x",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateCompanyEmptyNameRejected(t *testing.T) {
	app := newCompanyApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/companies", map[string]interface{}{
		"name":    "",
		"profile": map[string]interface{}{"descripcion": "sin nombre"},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListCompaniesSorted(t *testing.T) {
	app := newCompanyApp(t)

	for _, name := range []string{"Zeta", "Alfa"} {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/companies", map[string]interface{}{
			"name":    name,
			"profile": map[string]interface{}{},
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Companies []string `json:"companies"`
		Count     int      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []string{"Alfa", "Zeta"}, got.Companies)
	assert.Equal(t, 2, got.Count)
}
