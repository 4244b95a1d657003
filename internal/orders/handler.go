package orders

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"storefront/internal/auth"
)

// ShopHandler serves the authenticated customer's own orders:
// POST /api/shop/orders, GET /api/shop/orders, GET /api/shop/orders/{id}.
type ShopHandler struct {
	Store  OrderStore
	Logger *slog.Logger
}

func (h *ShopHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if id, isDetail, valid := detailPath(r.URL.Path); isDetail {
		if !valid {
			writeMessage(w, http.StatusBadRequest, "invalid order id")
			return
		}
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.detail(w, r, user, id)
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.create(w, r, user)
	case http.MethodGet:
		h.listOwn(w, r, user)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *ShopHandler) create(w http.ResponseWriter, r *http.Request, user *auth.User) {
	var payload struct {
		Items       []Item  `json:"items"`
		Address     string  `json:"address"`
		City        string  `json:"city"`
		Pincode     string  `json:"pincode"`
		Phone       string  `json:"phone"`
		Notes       string  `json:"notes"`
		TotalAmount float64 `json:"total_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.Items) == 0 {
		writeMessage(w, http.StatusBadRequest, "order must contain at least one item")
		return
	}
	o := &Order{
		UserID:      user.ID,
		Items:       payload.Items,
		Address:     payload.Address,
		City:        payload.City,
		Pincode:     payload.Pincode,
		Phone:       payload.Phone,
		Notes:       payload.Notes,
		TotalAmount: payload.TotalAmount,
	}
	if err := h.Store.Create(r.Context(), o); err != nil {
		h.Logger.Error("create order", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    o,
	})
}

func (h *ShopHandler) listOwn(w http.ResponseWriter, r *http.Request, user *auth.User) {
	list, err := h.Store.List(r.Context(), ListFilter{UserID: user.ID})
	if err != nil {
		h.Logger.Error("list orders", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Order{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    list,
	})
}

func (h *ShopHandler) detail(w http.ResponseWriter, r *http.Request, user *auth.User, id int64) {
	o, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if err == ErrOrderNotFound {
			writeMessage(w, http.StatusNotFound, "order not found")
			return
		}
		h.Logger.Error("get order", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	// Customers may only read their own orders.
	if o.UserID != user.ID && user.Role != auth.RoleAdmin {
		writeMessage(w, http.StatusForbidden, "forbidden")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    o,
	})
}

// AdminHandler serves the back office: GET /api/admin/orders and
// PUT /api/admin/orders/{id}/status. Mounted behind the admin role gate.
type AdminHandler struct {
	Store  OrderStore
	Logger *slog.Logger
}

func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/status") {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.updateStatus(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.list(w, r)
}

func (h *AdminHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = Status(status)
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = l
		}
	}
	list, err := h.Store.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("admin list orders", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Order{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    list,
	})
}

func (h *AdminHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	// Path is /api/admin/orders/{id}/status
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 5 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var payload struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || !ValidStatus(payload.Status) {
		writeMessage(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := h.Store.UpdateStatus(r.Context(), id, payload.Status); err != nil {
		if err == ErrOrderNotFound {
			writeMessage(w, http.StatusNotFound, "order not found")
			return
		}
		h.Logger.Error("update order status", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// detailPath classifies a shop-orders path. isDetail is true for anything
// below the collection, so a malformed trailing segment gets rejected rather
// than served as the collection route.
func detailPath(path string) (id int64, isDetail, valid bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) <= 3 {
		return 0, false, false
	}
	if len(parts) != 4 {
		return 0, true, false
	}
	id, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return 0, true, false
	}
	return id, true, true
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": msg,
	})
}
