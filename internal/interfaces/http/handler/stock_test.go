package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appinventory "github.com/comercial/backend/internal/application/inventory"
	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
	"github.com/comercial/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStockRepo struct {
	records map[uuid.UUID]*inventory.StockRecord
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{records: make(map[uuid.UUID]*inventory.StockRecord)}
}

func (r *stubStockRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	if record, ok := r.records[id]; ok {
		return record, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubStockRepo) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.StockRecord, error) {
	for _, record := range r.records {
		if record.ProductID == productID && record.WarehouseID == warehouseID {
			return record, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubStockRepo) FindForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.StockRecord, error) {
	return r.FindByProductAndWarehouse(ctx, productID, warehouseID)
}

func (r *stubStockRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*inventory.StockRecord, error) {
	var out []*inventory.StockRecord
	for _, record := range r.records {
		if record.ProductID == productID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *stubStockRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.StockRecord], error) {
	var out []*inventory.StockRecord
	for _, record := range r.records {
		if record.WarehouseID == warehouseID {
			out = append(out, record)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (r *stubStockRepo) FindByProducts(ctx context.Context, productIDs []uuid.UUID, warehouseID uuid.UUID) ([]*inventory.StockRecord, error) {
	var out []*inventory.StockRecord
	for _, id := range productIDs {
		if record, err := r.FindByProductAndWarehouse(ctx, id, warehouseID); err == nil {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *stubStockRepo) FindBelowThreshold(ctx context.Context, warehouseID uuid.UUID) ([]*inventory.StockRecord, error) {
	var out []*inventory.StockRecord
	for _, record := range r.records {
		if record.WarehouseID == warehouseID && record.IsBelowThreshold() {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *stubStockRepo) Save(ctx context.Context, record *inventory.StockRecord) error {
	r.records[record.GetID()] = record
	return nil
}

func (r *stubStockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.records, id)
	return nil
}

type stubMovementRepo struct {
	movements []*inventory.StockMovement
}

func (r *stubMovementRepo) Save(ctx context.Context, movement *inventory.StockMovement) error {
	r.movements = append(r.movements, movement)
	return nil
}

func (r *stubMovementRepo) FindByStockRecord(ctx context.Context, stockRecordID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.StockMovement], error) {
	var out []*inventory.StockMovement
	for _, m := range r.movements {
		if m.StockRecordID == stockRecordID {
			out = append(out, m)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (r *stubMovementRepo) FindBySource(ctx context.Context, sourceType, sourceID string) ([]*inventory.StockMovement, error) {
	var out []*inventory.StockMovement
	for _, m := range r.movements {
		if m.SourceType == sourceType && m.SourceID == sourceID {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubReservationRepo struct {
	reservations map[uuid.UUID]*inventory.Reservation
}

func newStubReservationRepo() *stubReservationRepo {
	return &stubReservationRepo{reservations: make(map[uuid.UUID]*inventory.Reservation)}
}

func (r *stubReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	if res, ok := r.reservations[id]; ok {
		return res, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubReservationRepo) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID string) ([]*inventory.Reservation, error) {
	var out []*inventory.Reservation
	for _, res := range r.reservations {
		if res.SourceType == sourceType && res.SourceID == sourceID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *stubReservationRepo) FindActiveByProduct(ctx context.Context, productID, warehouseID uuid.UUID) ([]*inventory.Reservation, error) {
	return nil, nil
}

func (r *stubReservationRepo) FindExpired(ctx context.Context, before time.Time, limit int) ([]*inventory.Reservation, error) {
	return nil, nil
}

func (r *stubReservationRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.Reservation], error) {
	var out []*inventory.Reservation
	for _, res := range r.reservations {
		out = append(out, res)
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (r *stubReservationRepo) Save(ctx context.Context, reservation *inventory.Reservation) error {
	r.reservations[reservation.GetID()] = reservation
	return nil
}

func (r *stubReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.reservations, id)
	return nil
}

type handlerFixture struct {
	router       *gin.Engine
	stock        *stubStockRepo
	reservations *stubReservationRepo
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	stock := newStubStockRepo()
	reservations := newStubReservationRepo()
	movements := &stubMovementRepo{}
	txScope := appinventory.NewNoOpTransactionScope(stock, reservations, movements)

	ledgerService := appinventory.NewStockLedgerService(stock, movements, txScope)
	reservationService := appinventory.NewReservationService(reservations, stock, txScope, 0)

	stockHandler := NewStockHandler(ledgerService)
	reservationHandler := NewReservationHandler(reservationService)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/stock", stockHandler.GetStock)
	router.POST("/stock/adjust", stockHandler.AdjustStock)
	router.POST("/stock/threshold", stockHandler.SetThreshold)
	router.POST("/reservations", reservationHandler.Reserve)
	router.GET("/reservations/:id", reservationHandler.GetByID)
	router.POST("/reservations/:id/release", reservationHandler.Release)

	return &handlerFixture{
		router:       router,
		stock:        stock,
		reservations: reservations,
	}
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStockHandler_GetStockReadsZeroForUnknownPair(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodGet,
		fmt.Sprintf("/stock?product_id=%s&warehouse_id=%s", uuid.New(), uuid.New()), nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, "0", data["available_quantity"])
}

func TestStockHandler_GetStockRejectsBadUUID(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodGet, "/stock?product_id=nope&warehouse_id="+uuid.NewString(), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStockHandler_AdjustStockCreatesRecord(t *testing.T) {
	f := newHandlerFixture(t)
	productID := uuid.New()
	warehouseID := uuid.New()

	w := f.do(t, http.MethodPost, "/stock/adjust", map[string]any{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"delta":        "10",
		"reason":       "initial delivery",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, "10", data["on_hand_quantity"])
}

func TestStockHandler_AdjustStockBelowZeroMapsTo422(t *testing.T) {
	f := newHandlerFixture(t)
	productID := uuid.New()
	warehouseID := uuid.New()

	w := f.do(t, http.MethodPost, "/stock/adjust", map[string]any{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"delta":        "-5",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "ERR_INSUFFICIENT_STOCK", errInfo["code"])
	assert.NotEmpty(t, errInfo["request_id"])
}

func TestReservationHandler_ReserveAndRelease(t *testing.T) {
	f := newHandlerFixture(t)
	productID := uuid.New()
	warehouseID := uuid.New()

	w := f.do(t, http.MethodPost, "/stock/adjust", map[string]any{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"delta":        "5",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/reservations", map[string]any{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"quantity":     "3",
		"source_type":  "SALES_ORDER",
		"source_id":    "SO-100",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	reservationID := data["id"].(string)
	assert.Equal(t, "ACTIVE", data["status"])

	w = f.do(t, http.MethodPost, "/reservations/"+reservationID+"/release", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Second release is rejected as an invalid transition
	w = f.do(t, http.MethodPost, "/reservations/"+reservationID+"/release", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body = decodeBody(t, w)
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "ERR_INVALID_RESERVATION_STATE", errInfo["code"])
}

func TestReservationHandler_ReserveBeyondAvailableMapsTo422(t *testing.T) {
	f := newHandlerFixture(t)
	productID := uuid.New()
	warehouseID := uuid.New()

	w := f.do(t, http.MethodPost, "/reservations", map[string]any{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"quantity":     "1",
		"source_type":  "SALES_ORDER",
		"source_id":    "SO-101",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "ERR_INSUFFICIENT_STOCK", errInfo["code"])
}

func TestReservationHandler_ReserveMissingFieldsIs400(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/reservations", map[string]any{
		"product_id": uuid.New(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandler_GetUnknownIs404(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodGet, "/reservations/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "ERR_NOT_FOUND", errInfo["code"])
}
