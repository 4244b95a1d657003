package products

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"storefront/internal/auth"
)

type ListHandler struct {
	Store  ProductStore
	Logger *slog.Logger
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	// Authentication is handled by middleware; we just ensure it ran.
	if _, ok := auth.UserFromContext(r.Context()); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	q := r.URL.Query()
	filter := Filter{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		SortBy:   q.Get("sortBy"),
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = l
		}
	}

	list, err := h.Store.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("list products", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Product{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    list,
	})
}

type DetailHandler struct {
	Store  ProductStore
	Logger *slog.Logger
}

func (h *DetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := idFromPath(r.URL.Path)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	p, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if err == ErrProductNotFound {
			writeMessage(w, http.StatusNotFound, "product not found")
			return
		}
		h.Logger.Error("get product", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    p,
	})
}

// AdminHandler covers create, update and delete. It is mounted behind the
// admin role gate.
type AdminHandler struct {
	Store  ProductStore
	Logger *slog.Logger
}

func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) create(w http.ResponseWriter, r *http.Request) {
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Title == "" {
		writeMessage(w, http.StatusBadRequest, "invalid product payload")
		return
	}
	if err := h.Store.Insert(r.Context(), &p); err != nil {
		h.Logger.Error("insert product", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    p,
	})
}

func (h *AdminHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r.URL.Path)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid product payload")
		return
	}
	p.ID = id
	if err := h.Store.Update(r.Context(), &p); err != nil {
		if err == ErrProductNotFound {
			writeMessage(w, http.StatusNotFound, "product not found")
			return
		}
		h.Logger.Error("update product", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    p,
	})
}

func (h *AdminHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r.URL.Path)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if err == ErrProductNotFound {
			writeMessage(w, http.StatusNotFound, "product not found")
			return
		}
		h.Logger.Error("delete product", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// idFromPath extracts the trailing numeric segment of e.g.
// /api/shop/products/42 or /api/admin/products/42.
func idFromPath(path string) (int64, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": msg,
	})
}
