package media

import (
	"encoding/json"
	"net/http"

	"log/slog"
)

type UploadURLHandler struct {
	Uploader *Uploader
	Logger   *slog.Logger
}

func (h *UploadURLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	target, err := h.Uploader.PresignPut(r.Context())
	if err != nil {
		h.Logger.Error("presign upload", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    target,
	})
}
