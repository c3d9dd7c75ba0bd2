package requests

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/auth"
	"github.com/huslen0212/part-time-web-thesis/internal/httpx"
)

// Handler implements the HTTP surface of the request workflow.
//
// Routes (all behind auth.Authenticate):
//
//	POST  /requests              JOB_SEEKER  submit a request
//	GET   /requests/me           JOB_SEEKER  list own requests
//	GET   /requests/employer     EMPLOYER    list requests against own jobs
//	PATCH /requests/:requestId   EMPLOYER    approve or reject
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the request routes on rg, which must already run
// auth.Authenticate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	seeker := auth.RequireRole(auth.RoleJobSeeker)
	employer := auth.RequireRole(auth.RoleEmployer)

	rg.POST("/requests", seeker, h.submit)
	rg.GET("/requests/me", seeker, h.listMine)
	rg.GET("/requests/employer", employer, h.listForEmployer)
	rg.PATCH("/requests/:requestId", employer, h.updateStatus)
}

func (h *Handler) submit(c *gin.Context) {
	js, ok := auth.JobSeekerFrom(c)
	if !ok {
		httpx.Error(c, apperr.Forbidden("only job seekers can submit requests"))
		return
	}

	var body struct {
		JobID       int64 `json:"jobId"`
		WorkerCount *int  `json:"workerCount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apperr.Validation("body must contain a numeric jobId"))
		return
	}

	req, err := h.svc.Submit(c.Request.Context(), js.ID, body.JobID, body.WorkerCount)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, req)
}

func (h *Handler) listMine(c *gin.Context) {
	js, ok := auth.JobSeekerFrom(c)
	if !ok {
		httpx.Error(c, apperr.Forbidden("job seekers only"))
		return
	}

	out, err := h.svc.ListForJobSeeker(c.Request.Context(), js.ID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, out)
}

func (h *Handler) listForEmployer(c *gin.Context) {
	e, ok := auth.EmployerFrom(c)
	if !ok {
		httpx.Error(c, apperr.Forbidden("employers only"))
		return
	}

	out, err := h.svc.ListForEmployer(c.Request.Context(), e.ID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, out)
}

func (h *Handler) updateStatus(c *gin.Context) {
	e, ok := auth.EmployerFrom(c)
	if !ok {
		httpx.Error(c, apperr.Forbidden("employers only"))
		return
	}

	requestID, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil || requestID <= 0 {
		httpx.Error(c, apperr.NotFound("request"))
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apperr.Validation("body must contain status"))
		return
	}

	d, err := h.svc.Decide(c.Request.Context(), e.ID, requestID, body.Status)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, d.Request)
}
