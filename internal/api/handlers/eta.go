package handlers

import (
	"collection-route-service/internal/api/dto"
	"collection-route-service/internal/services"
	"net/http"
	"strconv"
)

// ETAHandler estimates completion time for an arbitrary distance string,
// e.g. GET /eta?distance=12.4%20km&stops=8.
type ETAHandler struct {
	Estimator services.ETAEstimator
}

func (h *ETAHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	stops := 0
	if s := q.Get("stops"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "stops must be an integer")
			return
		}
		stops = n
	}

	distance := q.Get("distance")
	writeJSON(w, r, http.StatusOK, dto.ETAResponse{
		Distance:      distance,
		Stops:         stops,
		EstimatedTime: h.Estimator.Estimate(distance, stops),
	})
}
