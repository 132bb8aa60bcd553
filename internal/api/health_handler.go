package api

import (
	"net/http"

	"github.com/yonatan12121/TMS/internal/api/shared"
)

// Health handles GET /health. It reports liveness only.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
