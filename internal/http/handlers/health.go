package handlers

import (
	"net/http"
)

// Health is the liveness probe. It deliberately checks nothing downstream:
// a dead backend degrades generation but must not restart the service.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok", "service": "reelplan"})
}
