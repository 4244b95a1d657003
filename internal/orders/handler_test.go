package orders

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/require"

	"storefront/internal/auth"
)

type fakeOrderStore struct {
	orders    map[int64]*Order
	next      int64
	listCalls int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[int64]*Order{}}
}

func (f *fakeOrderStore) Create(ctx context.Context, o *Order) error {
	if o.Status == "" {
		o.Status = StatusPending
	}
	f.next++
	o.ID = f.next
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderStore) List(ctx context.Context, flt ListFilter) ([]Order, error) {
	f.listCalls++
	var res []Order
	for _, o := range f.orders {
		if flt.UserID != 0 && o.UserID != flt.UserID {
			continue
		}
		if flt.Status != "" && o.Status != flt.Status {
			continue
		}
		res = append(res, *o)
	}
	return res, nil
}

func (f *fakeOrderStore) Get(ctx context.Context, id int64) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id int64, status Status) error {
	o, ok := f.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func asUser(req *http.Request, id int64, role auth.Role) *http.Request {
	u := &auth.User{ID: id, Email: "u@x.com", UserName: "u", Role: role}
	return req.WithContext(auth.WithUser(req.Context(), u))
}

func seedOrder(t *testing.T, store *fakeOrderStore, userID int64) *Order {
	t.Helper()
	o := &Order{
		UserID:      userID,
		Items:       []Item{{ProductID: 1, Title: "Classic Tee", Price: 19.99, Quantity: 2}},
		TotalAmount: 39.98,
	}
	require.NoError(t, store.Create(context.Background(), o))
	return o
}

func TestShopDetailOwnOrderOnly(t *testing.T) {
	store := newFakeOrderStore()
	o := seedOrder(t, store, 1)
	h := &ShopHandler{Store: store, Logger: discardLogger()}
	path := "/api/shop/orders/1"

	// Owner reads it.
	req := asUser(httptest.NewRequest(http.MethodGet, path, nil), 1, auth.RoleUser)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, o.ID, resp.Data.ID)

	// Another customer does not.
	req = asUser(httptest.NewRequest(http.MethodGet, path, nil), 2, auth.RoleUser)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// An admin does.
	req = asUser(httptest.NewRequest(http.MethodGet, path, nil), 99, auth.RoleAdmin)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestShopDetailUnknownOrder(t *testing.T) {
	h := &ShopHandler{Store: newFakeOrderStore(), Logger: discardLogger()}

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/shop/orders/42", nil), 1, auth.RoleUser)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShopMalformedDetailPathNotServedAsList(t *testing.T) {
	store := newFakeOrderStore()
	seedOrder(t, store, 1)
	h := &ShopHandler{Store: store, Logger: discardLogger()}

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/shop/orders/abc", nil), 1, auth.RoleUser)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, store.listCalls)
}

func TestShopCreateAndListOwn(t *testing.T) {
	store := newFakeOrderStore()
	seedOrder(t, store, 2)
	h := &ShopHandler{Store: store, Logger: discardLogger()}

	body := `{"items":[{"product_id":1,"title":"Classic Tee","price":19.99,"quantity":1}],"total_amount":19.99}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/shop/orders", strings.NewReader(body)), 1, auth.RoleUser)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The list only returns the caller's orders.
	req = asUser(httptest.NewRequest(http.MethodGet, "/api/shop/orders", nil), 1, auth.RoleUser)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, int64(1), resp.Data[0].UserID)
}

func TestAdminUpdateStatus(t *testing.T) {
	store := newFakeOrderStore()
	o := seedOrder(t, store, 1)
	h := &AdminHandler{Store: store, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/orders/1/status", strings.NewReader(`{"status":"shipped"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, StatusShipped, store.orders[o.ID].Status)

	// Unknown status values are rejected.
	req = httptest.NewRequest(http.MethodPut, "/api/admin/orders/1/status", strings.NewReader(`{"status":"teleported"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, StatusShipped, store.orders[o.ID].Status)
}
