package products

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

type fakeProductStore struct {
	products map[int64]*Product
	next     int64
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[int64]*Product{}}
}

func (f *fakeProductStore) Insert(ctx context.Context, p *Product) error {
	f.next++
	p.ID = f.next
	p.CreatedAt = time.Now().UTC()
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductStore) List(ctx context.Context, flt Filter) ([]Product, error) {
	var res []Product
	for _, p := range f.products {
		if flt.Category != "" && p.Category != flt.Category {
			continue
		}
		if flt.Brand != "" && p.Brand != flt.Brand {
			continue
		}
		res = append(res, *p)
	}
	return res, nil
}

func (f *fakeProductStore) Get(ctx context.Context, id int64) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) Update(ctx context.Context, p *Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return ErrProductNotFound
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func asUser(req *http.Request, role auth.Role) *http.Request {
	u := &auth.User{ID: 1, Email: "u@x.com", UserName: "u", Role: role}
	return req.WithContext(auth.WithUser(req.Context(), u))
}

func TestListHandlerFiltersByCategory(t *testing.T) {
	store := newFakeProductStore()
	require.NoError(t, store.Insert(context.Background(), &Product{Title: "Classic Tee", Category: "men"}))
	require.NoError(t, store.Insert(context.Background(), &Product{Title: "Trail Runner", Category: "footwear"}))
	h := &ListHandler{Store: store, Logger: discardLogger()}

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/shop/products?category=men", nil), auth.RoleUser)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "Classic Tee", resp.Data[0].Title)
}

func TestListHandlerRequiresIdentity(t *testing.T) {
	h := &ListHandler{Store: newFakeProductStore(), Logger: discardLogger()}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shop/products", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminCreateUpdateDelete(t *testing.T) {
	store := newFakeProductStore()
	h := &AdminHandler{Store: store, Logger: discardLogger()}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/products",
		strings.NewReader(`{"title":"Classic Tee","price":24.99}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.products, 1)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/products/1",
		strings.NewReader(`{"title":"Classic Tee","price":21.99}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 21.99, store.products[1].Price)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/products/1", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, store.products)

	// Deleting again is a 404.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/products/1", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
