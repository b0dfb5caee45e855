package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/warung/internal/config"
	orderdomain "github.com/smallbiznis/warung/internal/order/domain"
)

type stubOrderService struct {
	createFn func(ctx context.Context, req orderdomain.CreateRequest) (*orderdomain.Order, error)
	updateFn func(ctx context.Context, req orderdomain.UpdateRequest) (*orderdomain.Order, error)
	deleteFn func(ctx context.Context, id string) error
	getFn    func(ctx context.Context, id string) (*orderdomain.Order, error)
	listFn   func(ctx context.Context, req orderdomain.ListRequest) ([]orderdomain.Order, error)
}

func (s *stubOrderService) Create(ctx context.Context, req orderdomain.CreateRequest) (*orderdomain.Order, error) {
	return s.createFn(ctx, req)
}

func (s *stubOrderService) Update(ctx context.Context, req orderdomain.UpdateRequest) (*orderdomain.Order, error) {
	return s.updateFn(ctx, req)
}

func (s *stubOrderService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubOrderService) GetByID(ctx context.Context, id string) (*orderdomain.Order, error) {
	return s.getFn(ctx, id)
}

func (s *stubOrderService) List(ctx context.Context, req orderdomain.ListRequest) ([]orderdomain.Order, error) {
	return s.listFn(ctx, req)
}

func newTestServer(t *testing.T, orders orderdomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:      engine,
		Cfg:      config.Config{Environment: "test"},
		OrderSvc: orders,
	})
	return engine
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestGetOrderNotFound(t *testing.T) {
	engine := newTestServer(t, &stubOrderService{
		getFn: func(ctx context.Context, id string) (*orderdomain.Order, error) {
			return nil, orderdomain.ErrNotFound
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/123", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Type)
}

func TestUpdateDeletedOrderConflict(t *testing.T) {
	engine := newTestServer(t, &stubOrderService{
		updateFn: func(ctx context.Context, req orderdomain.UpdateRequest) (*orderdomain.Order, error) {
			return nil, orderdomain.ErrOrderDeleted
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/123", strings.NewReader(`{"customer_name":"Budi"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "conflict", payload.Type)
	assert.Equal(t, "order is deleted", payload.Message)
}

func TestCreateOrderValidationError(t *testing.T) {
	engine := newTestServer(t, &stubOrderService{
		createFn: func(ctx context.Context, req orderdomain.CreateRequest) (*orderdomain.Order, error) {
			return nil, orderdomain.ErrUnknownProduct
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"customer_name":"Budi","items":[{"product_id":"1"}]}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "validation_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "unknown_product", payload.Errors[0].Code)
	assert.Equal(t, "product_id", payload.Errors[0].Field)
}

func TestCreateOrderMalformedBody(t *testing.T) {
	engine := newTestServer(t, &stubOrderService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Type)
}

func TestListOrdersEndDateCoversWholeDay(t *testing.T) {
	var got orderdomain.ListRequest
	engine := newTestServer(t, &stubOrderService{
		listFn: func(ctx context.Context, req orderdomain.ListRequest) ([]orderdomain.Order, error) {
			got = req
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders?start=2026-01-30&end=2026-01-31", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Start)
	require.NotNil(t, got.End)
	assert.Equal(t, "2026-01-30", got.Start.Format("2006-01-02"))
	// End is exclusive downstream, so the named day runs to the next midnight.
	assert.Equal(t, "2026-02-01", got.End.Format("2006-01-02"))
}

func TestDeleteOrderNoContent(t *testing.T) {
	engine := newTestServer(t, &stubOrderService{
		deleteFn: func(ctx context.Context, id string) error { return nil },
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/orders/123", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
