package dashboard

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewAPIRouter builds a read-only HTTP surface over a Publisher: /api/status
// serves the same JSON document Write persists to disk, and /healthz is a
// liveness probe. This is distinct from (and does not replace) the static
// dashboard file the operator-facing UI polls — it exists for consumers
// that would rather hit an HTTP endpoint than tail a file on disk.
func NewAPIRouter(pub *Publisher) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/status", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(pub.Snapshot())
	}).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return r
}
