package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pos/internal/application/catalog"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/application/sales"
	"github.com/jhoicas/Inventario-pos/internal/application/stock"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/receipt"
	apphttp "github.com/jhoicas/Inventario-pos/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-pos/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "inventario-pos-test"
	testExpMin    = 60
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

// newTestServer arma la API completa sobre el almacén en memoria con datos de demostración.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewSeeded()
	log := zerolog.Nop()

	ledger := stock.NewLedger(store,
		memory.NewStockRepository(store),
		memory.NewStockMovementRepository(store),
		memory.NewProductRepository(store),
		memory.NewLocationRepository(store),
		log,
	)
	reconciler := stock.NewReconciler(ledger, memory.NewPendingDecrementRepository(store), 0, log)
	cat := catalog.NewService(memory.NewCatalogRepository(store), nil, log)
	settings := memory.NewSettingsRepository(store)
	customers := memory.NewCustomerRepository(store)
	salesUC := sales.NewUseCase(memory.NewSaleRepository(store), settings, cat, log)
	renderer := receipt.NewMarotoRenderer("es-CO")
	orch := pos.NewOrchestrator(salesUC, ledger, reconciler, renderer, settings, customers, log)
	sessions := pos.NewSessionUseCase(pos.NewMemorySessionStore(time.Hour), pos.NewLocalLocker(), cat, ledger, salesUC, settings, orch, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		POS:       apphttp.NewPOSHandler(sessions, log),
		Stock:     apphttp.NewStockHandler(ledger, reconciler, log),
		Sales:     apphttp.NewSalesHandler(salesUC, settings, customers, renderer, log),
		Catalog:   apphttp.NewCatalogHandler(cat, log),
		JWTSecret: testJWTSecret,
	})
	return &testServer{app: app, store: store}
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	return tokenForBusiness(t, role, memory.DemoBusinessID)
}

func tokenForBusiness(t *testing.T, role, businessID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Identity{
		UserID: "u-" + role, BusinessID: businessID, Role: role,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func (s *testServer) do(t *testing.T, method, path, auth string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func (s *testServer) openSession(t *testing.T, auth string) dto.SessionResponse {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/pos/sessions", auth, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.SessionResponse
	decode(t, resp, &out)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación y roles
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_NoAuth(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth_MissingAndInvalidToken(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/catalog", "", nil)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body.Code)

	resp = s.do(t, http.MethodGet, "/api/catalog", "Bearer token.invalido.aqui", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_CashierCannotAdjustStock(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/stock/increase", tokenFor(t, entity.RoleCashier), dto.StockChangeRequest{
		ProductID: "prd-cafe", LocationID: memory.DemoStoreID, Quantity: 5,
	})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Code)
}

func TestRequireRole_TokenWithoutRole(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/stock/increase", tokenFor(t, ""), dto.StockChangeRequest{
		ProductID: "prd-cafe", LocationID: memory.DemoStoreID, Quantity: 5,
	})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_IncreaseAndDecrease(t *testing.T) {
	s := newTestServer(t)
	auth := tokenFor(t, entity.RoleManager)

	resp := s.do(t, http.MethodPost, "/api/stock/increase", auth, dto.StockChangeRequest{
		ProductID: "prd-cafe", LocationID: memory.DemoStoreID, Quantity: 5,
	})
	var entry dto.StockEntryDTO
	decode(t, resp, &entry)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(25), entry.Quantity)

	resp = s.do(t, http.MethodPost, "/api/stock/decrease", auth, dto.StockChangeRequest{
		ProductID: "prd-cafe", LocationID: memory.DemoStoreID, Quantity: 100,
	})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, "Out of Stock at your location", body.Message)
}

func TestStock_InvalidQuantityAndLocations(t *testing.T) {
	s := newTestServer(t)
	auth := tokenFor(t, entity.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/stock/increase", auth, dto.StockChangeRequest{
		ProductID: "prd-cafe", LocationID: memory.DemoStoreID, Quantity: 0,
	})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", body.Code)

	resp = s.do(t, http.MethodPost, "/api/stock/move", auth, dto.MoveStockRequest{
		ProductID: "prd-cafe", FromLocationID: memory.DemoStoreID, ToLocationID: memory.DemoStoreID, Quantity: 1,
	})
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_LOCATIONS", body.Code)
}

func TestStock_MoveAndHistory(t *testing.T) {
	s := newTestServer(t)
	auth := tokenFor(t, entity.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/stock/move", auth, dto.MoveStockRequest{
		ProductID: "prd-cafe", FromLocationID: memory.DemoWarehouseID, ToLocationID: memory.DemoStoreID, Quantity: 30,
	})
	var rows []dto.StockEntryDTO
	decode(t, resp, &rows)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	byLocation := map[string]int64{}
	for _, r := range rows {
		byLocation[r.LocationID] = r.Quantity
	}
	assert.Equal(t, int64(50), byLocation[memory.DemoStoreID])
	assert.Equal(t, int64(70), byLocation[memory.DemoWarehouseID])

	resp = s.do(t, http.MethodGet, "/api/stock/products/prd-cafe/history", auth, nil)
	var history []dto.StockMovementDTO
	decode(t, resp, &history)
	require.Len(t, history, 2)
	assert.Equal(t, history[0].TransactionID, history[1].TransactionID)
}

func TestStock_OtherBusinessIsIsolated(t *testing.T) {
	s := newTestServer(t)
	other := tokenForBusiness(t, entity.RoleManager, "biz-otro")

	for _, path := range []string{"/api/stock/decrease", "/api/stock/increase"} {
		resp := s.do(t, http.MethodPost, path, other, dto.StockChangeRequest{
			ProductID: "prd-cafe", LocationID: memory.DemoStoreID, Quantity: 20,
		})
		var body dto.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		assert.Equal(t, "FORBIDDEN", body.Code, path)
	}

	resp := s.do(t, http.MethodPost, "/api/stock/move", other, dto.MoveStockRequest{
		ProductID: "prd-cafe", FromLocationID: memory.DemoWarehouseID, ToLocationID: memory.DemoStoreID, Quantity: 1,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	for _, path := range []string{"/api/stock/products/prd-cafe", "/api/stock/products/prd-cafe/history"} {
		resp = s.do(t, http.MethodGet, path, other, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}

	// el negocio dueño no ve cambios
	auth := tokenFor(t, entity.RoleManager)
	resp = s.do(t, http.MethodGet, "/api/stock/products/prd-cafe", auth, nil)
	var rows []dto.StockEntryDTO
	decode(t, resp, &rows)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, r := range rows {
		if r.LocationID == memory.DemoStoreID {
			assert.Equal(t, int64(20), r.Quantity)
		}
	}
	resp = s.do(t, http.MethodGet, "/api/stock/products/prd-cafe/history", auth, nil)
	var history []dto.StockMovementDTO
	decode(t, resp, &history)
	assert.Empty(t, history)
}

func TestStock_UnknownLocation(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/stock/move", tokenFor(t, entity.RoleManager), dto.MoveStockRequest{
		ProductID: "prd-cafe", FromLocationID: memory.DemoStoreID, ToLocationID: "loc-inexistente", Quantity: 1,
	})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestStock_MissingBodyFields(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/stock/increase", tokenFor(t, entity.RoleAdmin), map[string]interface{}{"quantity": 1})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo POS
// ──────────────────────────────────────────────────────────────────────────────

func TestPOS_CheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	auth := tokenFor(t, entity.RoleCashier)
	sess := s.openSession(t, auth)
	assert.Equal(t, memory.DemoStoreID, sess.LocationID)

	base := "/api/pos/sessions/" + sess.ID
	resp := s.do(t, http.MethodPost, base+"/items", auth, dto.AddItemRequest{EntryID: "prd-cafe"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	qty := 3
	resp = s.do(t, http.MethodPut, base+"/items/prd-cafe", auth, dto.SetQuantityRequest{Quantity: &qty})
	var view dto.SessionResponse
	decode(t, resp, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 3, view.Lines[0].Quantity)
	assert.Equal(t, "54000", view.Totals.Subtotal.String())

	resp = s.do(t, http.MethodPost, base+"/checkout", auth, nil)
	var out dto.CheckoutResponse
	decode(t, resp, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, string(pos.StateSuccess), out.State)
	assert.Equal(t, string(pos.SavedAllStockApplied), out.Outcome)
	assert.Empty(t, out.StockWarnings)
	require.NotEmpty(t, out.Sale.ID)

	// la sesión queda con carrito vacío
	resp = s.do(t, http.MethodGet, base, auth, nil)
	decode(t, resp, &view)
	assert.Empty(t, view.Lines)

	// stock descontado en la ubicación de la sesión
	resp = s.do(t, http.MethodGet, "/api/stock/products/prd-cafe", auth, nil)
	var rows []dto.StockEntryDTO
	decode(t, resp, &rows)
	for _, r := range rows {
		if r.LocationID == memory.DemoStoreID {
			assert.Equal(t, int64(17), r.Quantity)
		}
	}

	// recibo en PDF
	resp = s.do(t, http.MethodGet, out.ReceiptURL, auth, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestPOS_QuantityAboveStockIsRejected(t *testing.T) {
	s := newTestServer(t)
	auth := tokenFor(t, entity.RoleCashier)
	sess := s.openSession(t, auth)
	base := "/api/pos/sessions/" + sess.ID

	resp := s.do(t, http.MethodPost, base+"/items", auth, dto.AddItemRequest{EntryID: "prd-leche"})
	resp.Body.Close()

	qty := 13
	resp = s.do(t, http.MethodPut, base+"/items/prd-leche", auth, dto.SetQuantityRequest{Quantity: &qty})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestPOS_CheckoutEmptyCart(t *testing.T) {
	s := newTestServer(t)
	auth := tokenFor(t, entity.RoleCashier)
	sess := s.openSession(t, auth)

	resp := s.do(t, http.MethodPost, "/api/pos/sessions/"+sess.ID+"/checkout", auth, nil)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EMPTY_CART", body.Code)
}

func TestPOS_SessionBelongsToItsCashier(t *testing.T) {
	s := newTestServer(t)
	sess := s.openSession(t, tokenFor(t, entity.RoleCashier))

	resp := s.do(t, http.MethodGet, "/api/pos/sessions/"+sess.ID, tokenFor(t, entity.RoleManager), nil)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Code)
}

func TestPOS_CancelSession(t *testing.T) {
	s := newTestServer(t)
	auth := tokenFor(t, entity.RoleCashier)
	sess := s.openSession(t, auth)

	resp := s.do(t, http.MethodDelete, "/api/pos/sessions/"+sess.ID, auth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/pos/sessions/"+sess.ID, auth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas y catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_NotFoundAndInvalidRange(t *testing.T) {
	s := newTestServer(t)
	auth := tokenFor(t, entity.RoleManager)

	resp := s.do(t, http.MethodGet, "/api/sales/no-existe", auth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/sales/summary?from=2026-02-01&to=2026-01-01", auth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/sales?from=ayer", auth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalog_Snapshot(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/catalog", tokenFor(t, entity.RoleCashier), nil)
	var snap catalog.Snapshot
	decode(t, resp, &snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, snap.TrackingDegraded)
	entry, ok := snap.Find("srv-domicilio")
	require.True(t, ok)
	assert.True(t, entry.IsService)
	assert.False(t, entry.IsTrackedStock)
}
