package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// NewRouter creates and configures a new instance of the router.
func NewRouter(h Handler) *httprouter.Router {
	r := httprouter.New()

	r.GET("/projects", h.Projects)
	r.POST("/projects", h.AddProject)
	r.GET("/runs", h.Runs)
	r.GET("/run/:id", h.Run)
	r.GET("/run/:id/stages", h.RunStages)
	r.POST("/run/:id/cancel", h.CancelRun)
	r.POST("/hook/:alias", h.Hook)

	r.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetDefaultHeaders(w)
		h := w.Header()
		h.Set("Access-Control-Allow-Methods", h.Get("Allow"))
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
