package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"catalogo/internal"
	"catalogo/internal/cart"
	"catalogo/internal/catalog"
	"catalogo/internal/render"
	"catalogo/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer(t *testing.T, n int, loadErr error) *Server {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	var cat *internal.Catalog
	if loadErr == nil {
		records := []internal.Record{
			{ID: "A1", ShortDescription: "Parafuso", LongDescription: "Parafuso Phillips", Unit: "CX", Origin: internal.OriginCD1},
			{ID: "B2", ShortDescription: "Arruela", Unit: "UN", Origin: internal.OriginCD1},
		}
		for i := 0; i < n; i++ {
			records = append(records, internal.Record{ID: fmt.Sprintf("Z%02d", i), ShortDescription: "Item", Unit: "ZMM045", Origin: internal.OriginZMM045})
		}
		cat = &internal.Catalog{Records: records, Facets: catalog.BuildFacets(records), TraceID: "trace-1"}
	}

	return New(Options{
		Catalog:      cat,
		LoadErr:      loadErr,
		Cart:         cart.NewStore(db, ""),
		PageSize:     20,
		AllowOrigins: []string{"*"},
		Log:          zerolog.Nop(),
	})
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) internal.View {
	t.Helper()
	var v internal.View
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return v
}

func TestProductsAPI(t *testing.T) {
	s := testServer(t, 0, nil)

	tests := []struct {
		name   string
		target string
		ids    []string
	}{
		{"all", "/api/products", []string{"A1", "B2"}},
		{"search", "/api/products?q=parafuso", []string{"A1"}},
		{"facet", "/api/products?unit=UN", []string{"B2"}},
		{"facet key", "/api/products?unit=un&page=1", []string{"B2"}},
		{"empty", "/api/products?unit=CX&q=arruela", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status %d", rec.Code)
			}
			v := decodeView(t, rec)
			if len(v.Items) != len(tt.ids) {
				t.Fatalf("items %+v", v.Items)
			}
			for i, id := range tt.ids {
				if v.Items[i].ID != id {
					t.Fatalf("item %d = %s, want %s", i, v.Items[i].ID, id)
				}
			}
		})
	}
}

func TestProductsAPIPaging(t *testing.T) {
	s := testServer(t, 43, nil)

	v := decodeView(t, do(t, s, http.MethodGet, "/api/products?page=3", ""))
	if v.TotalPages != 3 || len(v.Items) != 5 || v.Total != 45 {
		t.Fatalf("page 3: %+v", v)
	}
	v = decodeView(t, do(t, s, http.MethodGet, "/api/products?page=4", ""))
	if len(v.Items) != 0 || v.State.Page != 4 {
		t.Fatalf("page 4: %+v", v)
	}

	for _, bad := range []string{"0", "-1", "abc"} {
		if rec := do(t, s, http.MethodGet, "/api/products?page="+bad, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("page=%s: status %d", bad, rec.Code)
		}
	}
}

func TestPageHTML(t *testing.T) {
	s := testServer(t, 0, nil)

	rec := do(t, s, http.MethodGet, "/?q=parafuso&page=abc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type %q", ct)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find(".produto-card").Length(); got != 1 {
		t.Fatalf("cards %d", got)
	}
	if got := doc.Find("#paginacao span").Text(); got != "Página 1 de 1" {
		t.Fatalf("pager %q", got)
	}
}

func TestLoadFailure(t *testing.T) {
	s := testServer(t, 0, errors.New("fetch zmm045: 500"))

	rec := do(t, s, http.MethodGet, "/", "")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), render.MsgLoadFailed) {
		t.Fatalf("page: %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), render.MsgEmpty) {
		t.Fatal("load failure rendered as empty result")
	}

	rec = do(t, s, http.MethodGet, "/api/products", "")
	if rec.Code != http.StatusServiceUnavailable || decodeView(t, rec).Status != internal.ViewLoadFailed {
		t.Fatalf("api: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, s, http.MethodGet, "/health", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("health: %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/facets", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("facets: %d", rec.Code)
	}
}

func TestFacetsAndHealth(t *testing.T) {
	s := testServer(t, 1, nil)

	var body struct {
		Facets []internal.FacetEntry `json:"facets"`
	}
	rec := do(t, s, http.MethodGet, "/api/facets", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Facets) != 3 || body.Facets[0].Display != "CX" {
		t.Fatalf("facets %+v", body.Facets)
	}

	rec = do(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"traceId":"trace-1"`) {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}
}

func TestCartAPI(t *testing.T) {
	s := testServer(t, 0, nil)

	for i := 0; i < 2; i++ {
		rec := do(t, s, http.MethodPost, "/api/cart", `{"id":"A1","sku":"A1","nome":"Parafuso"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("add: %d %s", rec.Code, rec.Body.String())
		}
	}
	_ = do(t, s, http.MethodPost, "/api/cart", `{"id":"B2","nome":"Arruela"}`)

	var body struct {
		Items []internal.CartEntry `json:"items"`
	}
	rec := do(t, s, http.MethodGet, "/api/cart", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Items) != 2 || body.Items[0].Qty != 2 || body.Items[1].Qty != 1 || body.Items[1].SKU != "B2" {
		t.Fatalf("cart %+v", body.Items)
	}

	if rec := do(t, s, http.MethodPost, "/api/cart", `{"id":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("blank id: %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/cart", `not json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: %d", rec.Code)
	}

	if rec := do(t, s, http.MethodDelete, "/api/cart", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear: %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/api/cart", "")
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("after clear: %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t, 0, nil)
	_ = do(t, s, http.MethodGet, "/api/products?q=parafuso", "")
	_ = do(t, s, http.MethodPost, "/api/cart", `{"id":"A1","nome":"Parafuso"}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	out := rec.Body.String()
	if !strings.Contains(out, "catalog_searches_total 1") || !strings.Contains(out, "cart_adds_total 1") {
		t.Fatalf("metrics:\n%s", out)
	}
}

func TestCORS(t *testing.T) {
	s := testServer(t, 0, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/facets", nil)
	req.Header.Set("Origin", "http://client.test")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin %q", got)
	}
}
