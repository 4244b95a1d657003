package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/rs/cors"

	"storefront/internal/auth"
	"storefront/internal/media"
	"storefront/internal/orders"
	"storefront/internal/products"
)

func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	productStore *products.Store,
	orderStore *orders.Store,
	uploader *media.Uploader,
	corsOrigin string,
) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	secured := auth.Middleware(authSvc)
	adminOnly := func(h http.Handler) http.Handler {
		return secured(auth.RequireRole(h.ServeHTTP, auth.RoleAdmin))
	}

	// Auth
	mux.Handle("/api/auth/register", registerHandler(authSvc, logger))
	mux.Handle("/api/auth/login", loginHandler(authSvc, logger))
	mux.Handle("/api/auth/logout", logoutHandler())
	mux.Handle("/api/auth/check", secured(checkHandler()))

	// Shop catalog (read-only, gated)
	listProducts := &products.ListHandler{Store: productStore, Logger: logger}
	productDetail := &products.DetailHandler{Store: productStore, Logger: logger}
	mux.Handle("/api/shop/products", secured(listProducts))
	mux.Handle("/api/shop/products/", secured(productDetail))

	// Admin catalog CRUD
	adminProducts := &products.AdminHandler{Store: productStore, Logger: logger}
	mux.Handle("/api/admin/products", adminOnly(adminProducts))
	mux.Handle("/api/admin/products/", adminOnly(adminProducts))

	// Orders
	shopOrders := &orders.ShopHandler{Store: orderStore, Logger: logger}
	mux.Handle("/api/shop/orders", secured(shopOrders))
	mux.Handle("/api/shop/orders/", secured(shopOrders))

	adminOrders := &orders.AdminHandler{Store: orderStore, Logger: logger}
	mux.Handle("/api/admin/orders", adminOnly(adminOrders))
	mux.Handle("/api/admin/orders/", adminOnly(adminOrders))

	// Media (admin uploads product images straight to object storage)
	if uploader != nil {
		uploadURL := &media.UploadURLHandler{Uploader: uploader, Logger: logger}
		mux.Handle("/api/admin/media/upload-url", adminOnly(uploadURL))
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(requestLogger(logger, mux))
}
