package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skequip/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out), "body: %s", data)
}

func TestCreateProductDerivesSlugAndDefaults(t *testing.T) {
	app := newTestApp(&fakeCatalog{}, newFakeBlobs())

	resp, err := app.Test(jsonRequest("POST", "/api/products", map[string]any{
		"title":    "Cobb Tester",
		"category": "Paper Testing",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var created models.Product
	decodeBody(t, resp, &created)
	assert.Equal(t, "cobb-tester", created.Slug)
	assert.Equal(t, 3, created.Rating)
	assert.Equal(t, 0, created.Reviews)
	assert.False(t, created.ID.IsZero())
}

func TestCreateProductReportsMissingFields(t *testing.T) {
	app := newTestApp(&fakeCatalog{}, newFakeBlobs())

	resp, err := app.Test(jsonRequest("POST", "/api/products", map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["error"], "missing required fields")
	assert.Contains(t, body["error"], "title")
	assert.Contains(t, body["error"], "category")
}

func TestUpdateProductRequiresID(t *testing.T) {
	app := newTestApp(&fakeCatalog{}, newFakeBlobs())

	resp, err := app.Test(jsonRequest("PUT", "/api/products", map[string]any{"title": "x"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateProductNotFound(t *testing.T) {
	app := newTestApp(&fakeCatalog{}, newFakeBlobs())

	resp, err := app.Test(jsonRequest("PUT", "/api/products", map[string]any{
		"id":    primitive.NewObjectID().Hex(),
		"title": "x",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProductReturnsUpdatedRecord(t *testing.T) {
	fc := &fakeCatalog{}
	app := newTestApp(fc, newFakeBlobs())
	id := seedProduct(t, app, "Cobb Tester", "Paper Testing")

	resp, err := app.Test(jsonRequest("PUT", "/api/products", map[string]any{
		"id":    id,
		"title": "Cobb Sizing Tester",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Product
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Cobb Sizing Tester", updated.Title)
	assert.Equal(t, id, updated.ID.Hex())
}

func TestDeleteProductRequiresID(t *testing.T) {
	app := newTestApp(&fakeCatalog{}, newFakeBlobs())

	resp, err := app.Test(jsonRequest("DELETE", "/api/products", map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteProductLifecycle(t *testing.T) {
	fc := &fakeCatalog{}
	app := newTestApp(fc, newFakeBlobs())
	id := seedProduct(t, app, "Drop Tester", "Packaging")

	resp, err := app.Test(jsonRequest("DELETE", "/api/products", map[string]any{"id": id}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, true, body["success"])

	// gone from the snapshot and from slug lookup
	listResp, err := app.Test(httptest.NewRequest("GET", "/api/products", nil))
	require.NoError(t, err)
	var products []models.Product
	decodeBody(t, listResp, &products)
	assert.Empty(t, products)

	slugResp, err := app.Test(httptest.NewRequest("GET", "/api/products/slug/drop-tester", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, slugResp.StatusCode)

	// deleting again is a 404, not a silent success
	resp, err = app.Test(jsonRequest("DELETE", "/api/products", map[string]any{"id": id}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductBySlugToleratesRawSegments(t *testing.T) {
	app := newTestApp(&fakeCatalog{}, newFakeBlobs())
	seedProduct(t, app, "Cobb Tester", "Paper Testing")

	for _, path := range []string{
		"/api/products/slug/cobb-tester",
		"/api/products/slug/Cobb%20Tester",
		"/api/products/slug/COBB-TESTER",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)

		var p models.Product
		decodeBody(t, resp, &p)
		assert.Equal(t, "Cobb Tester", p.Title, path)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	app := newTestApp(&fakeCatalog{}, newFakeBlobs())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/search", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchMatchesTitleAndCategory(t *testing.T) {
	app := newTestApp(&fakeCatalog{}, newFakeBlobs())
	seedProduct(t, app, "Cobb Tester", "Paper Testing")
	seedProduct(t, app, "Drop Tester", "Packaging")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/search?q=paper", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body SearchResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Cobb Tester", body.Products[0].Title)
}

func TestFeaturedAndBestSellingEndpoints(t *testing.T) {
	fc := &fakeCatalog{products: []models.Product{
		{ID: primitive.NewObjectID(), Title: "A", Category: "c", Slug: "a", IsFeatured: true},
		{ID: primitive.NewObjectID(), Title: "B", Category: "c", Slug: "b", IsFeatured: true},
		{ID: primitive.NewObjectID(), Title: "C", Category: "c", Slug: "c", IsBestSelling: true},
	}}
	app := newTestApp(fc, newFakeBlobs())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/featured?limit=1", nil))
	require.NoError(t, err)
	var featured []models.Product
	decodeBody(t, resp, &featured)
	require.Len(t, featured, 1)
	assert.Equal(t, "A", featured[0].Title)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/products/best-selling", nil))
	require.NoError(t, err)
	var best []models.Product
	decodeBody(t, resp, &best)
	require.Len(t, best, 1)
	assert.Equal(t, "C", best[0].Title)
}

func TestRelatedExcludesSelf(t *testing.T) {
	self := primitive.NewObjectID()
	fc := &fakeCatalog{products: []models.Product{
		{ID: self, Title: "A", Category: "c", Slug: "a"},
		{ID: primitive.NewObjectID(), Title: "B", Category: "c", Slug: "b"},
		{ID: primitive.NewObjectID(), Title: "C", Category: "c", Slug: "c"},
	}}
	app := newTestApp(fc, newFakeBlobs())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/related/"+self.Hex()+"?limit=5", nil))
	require.NoError(t, err)
	var related []models.Product
	decodeBody(t, resp, &related)
	require.Len(t, related, 2)
	for _, p := range related {
		assert.NotEqual(t, self, p.ID)
	}
}

func TestListFailureIsA500(t *testing.T) {
	fc := &fakeCatalog{err: assert.AnError}
	app := newTestApp(fc, newFakeBlobs())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.True(t, strings.HasPrefix(body["error"], "Failed"))
}

func seedProduct(t *testing.T, app *fiber.App, title, category string) string {
	t.Helper()
	resp, err := app.Test(jsonRequest("POST", "/api/products", map[string]any{
		"title":    title,
		"category": category,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created models.Product
	decodeBody(t, resp, &created)
	return created.ID.Hex()
}
