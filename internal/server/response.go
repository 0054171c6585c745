package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/profilegen/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

// writeError renders any error as the canonical error body with the
// status its kind maps to.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	writeJSON(w, apperr.HTTPStatus(kind), apperr.ToBody(err))
}
