package handlers

import (
	"collection-route-service/internal/api/dto"
	"collection-route-service/internal/domain"
	"collection-route-service/internal/ports"
	"net/http"
)

// DepotHandler exposes the read-only area to depot directory.
type DepotHandler struct {
	Depots ports.DepotDirectory
}

func (h *DepotHandler) List(w http.ResponseWriter, r *http.Request) {
	depots, err := h.Depots.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "depots.List", err)
		return
	}

	res := dto.ListDepotsResponse{Depots: depots}
	if res.Depots == nil {
		res.Depots = []domain.Depot{}
	}
	writeJSON(w, r, http.StatusOK, res)
}
