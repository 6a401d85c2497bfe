package http

import (
	"log/slog"
	"net/http"
	"seatmap/common/vars"
	"seatmap/model"
	"time"
)

const (
	healthStatusOk       = "ok"
	healthStatusStarting = "starting"
)

// RegisterHealthHttp always answers 200 so the process counts as live before
// the first load; Status tells whether events are being served.
func RegisterHealthHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "health check")

		snapshot := vars.GetEventSnapshot()
		if snapshot == nil {
			writeJSONResponse(w, http.StatusOK, model.HealthResponse{Status: healthStatusStarting})
			return
		}

		writeJSONResponse(w, http.StatusOK, model.HealthResponse{
			Status:   healthStatusOk,
			Events:   len(snapshot.Events),
			Token:    snapshot.Token,
			LoadedAt: snapshot.LoadedAt.UTC().Format(time.RFC3339),
		})
	})
}
