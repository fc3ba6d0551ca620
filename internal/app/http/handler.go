package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/errtype"
	"github.com/julienschmidt/httprouter"
)

// NewHandler creates a new instance of the REST API handler.
func NewHandler(
	projectSvc app.ProjectSvc,
	runSvc app.RunSvc,
	accessKey app.ApiAccessKey,
) Handler {
	return Handler{
		projectSvc: projectSvc,
		runSvc:     runSvc,
		accessKey:  string(accessKey),
	}
}

// Handler handles the REST API requests.
type Handler struct {
	projectSvc app.ProjectSvc
	runSvc     app.RunSvc
	accessKey  string
}

// Projects returns the list of projects.
func (h Handler) Projects(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.projectSvc.List(r.Context())
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// AddProject registers a new project and puts it to pending download status.
func (h Handler) AddProject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	var f app.FormAddProject
	err = json.NewDecoder(r.Body).Decode(&f)
	if err != nil {
		apiError(w, fmt.Errorf("%w: %v", errtype.ErrBadInput, err))
		return
	}
	res, err := h.projectSvc.Add(r.Context(), f)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// Runs returns the list of runs.
func (h Handler) Runs(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.runSvc.List(r.Context())
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// Run returns the run details.
func (h Handler) Run(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	id, err := h.runID(ps)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.runSvc.Find(r.Context(), id)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// RunStages returns the stage rows of the run.
func (h Handler) RunStages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	id, err := h.runID(ps)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.runSvc.Stages(r.Context(), id)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// CancelRun aborts the enqueued or running run.
func (h Handler) CancelRun(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	id, err := h.runID(ps)
	if err != nil {
		apiError(w, err)
		return
	}
	err = h.runSvc.Cancel(r.Context(), id)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, nil)
}

// Hook receives a trigger event and enqueues a new run.
func (h Handler) Hook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	var f app.FormTriggerRun
	err = json.NewDecoder(r.Body).Decode(&f)
	if err != nil {
		apiError(w, fmt.Errorf("%w: %v", errtype.ErrBadInput, err))
		return
	}
	res, err := h.runSvc.Trigger(r.Context(), ps.ByName("alias"), f)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

func (h Handler) runID(ps httprouter.Params) (uint64, error) {
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: invalid run id: %v", errtype.ErrBadInput, err)
	}
	return uint64(id), nil
}

func (h Handler) validateKey(r *http.Request) error {
	if r.URL.Query().Get("accessKey") != h.accessKey {
		return errors.WrapContext(errtype.ErrUnauthorized, errors.Context{})
	}
	return nil
}
