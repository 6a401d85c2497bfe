package http

import (
	"net/http"
	"os"
	"seatmap/common/constant"
)

// RegisterStaticEvents serves the events document the scraper commits, with
// headers that forbid any cache from keeping a copy.
func RegisterStaticEvents(mux *http.ServeMux, file string) {
	mux.HandleFunc("GET "+constant.DefaultEventsPath, func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(file); err != nil {
			http.NotFound(w, r)
			return
		}

		setNoStoreHeaders(w)
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, file)
	})
}
