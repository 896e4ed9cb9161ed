package cluster

import (
	"fmt"
	"net/http"
)

// NewBasicHealthHandler é o "liveness check" usado pelo Consul: só confirma que
// o processo está de pé e o servidor HTTP responde.
func NewBasicHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Service is alive.")
	}
}
