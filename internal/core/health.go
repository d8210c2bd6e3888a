package core

import "net/http"

// healthResponse is the static payload returned by the health endpoint.
type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleHealth reports liveness. It deliberately checks nothing: the
// dispatcher holds no long-lived connections between runs, so there is no
// dependency whose state would make the process less alive.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, healthResponse{
		Status:  "ok",
		Message: "notification service is running",
	})
}
