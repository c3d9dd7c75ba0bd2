package jobs

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/auth"
	"github.com/huslen0212/part-time-web-thesis/internal/httpx"
)

// Handler exposes the job directory over HTTP.
type Handler struct {
	svc           *Service
	defaultRadius float64
}

// NewHandler returns a Handler. defaultRadiusKm applies to nearby searches
// that omit radius.
func NewHandler(svc *Service, defaultRadiusKm float64) *Handler {
	return &Handler{svc: svc, defaultRadius: defaultRadiusKm}
}

// RegisterRoutes mounts the /jobs routes on rg. Public routes run without
// authn; employer routes run it first.
//
//	POST   /jobs               EMPLOYER
//	GET    /jobs               public
//	GET    /jobs/my            EMPLOYER  templates
//	GET    /jobs/nearby        public    ?lat&lng&radius
//	GET    /jobs/:id           public
//	DELETE /jobs/template/:id  EMPLOYER  clear template flag
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authn gin.HandlerFunc) {
	employer := auth.RequireRole(auth.RoleEmployer)

	g := rg.Group("/jobs")
	g.POST("", authn, employer, h.create)
	g.GET("", h.list)
	g.GET("/my", authn, employer, h.listTemplates)
	g.GET("/nearby", h.nearby)
	g.GET("/:id", h.get)
	g.DELETE("/template/:id", authn, employer, h.unflagTemplate)
}

func (h *Handler) create(c *gin.Context) {
	e, _ := auth.EmployerFrom(c)

	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.Error(c, apperr.Validation("invalid JSON body"))
		return
	}

	job, err := h.svc.Create(c.Request.Context(), e.ID, in)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, gin.H{"message": "job created", "job": job})
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	job, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, job)
}

func (h *Handler) listTemplates(c *gin.Context) {
	e, _ := auth.EmployerFrom(c)
	out, err := h.svc.ListTemplates(c.Request.Context(), e.ID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, out)
}

func (h *Handler) unflagTemplate(c *gin.Context) {
	e, _ := auth.EmployerFrom(c)
	id, ok := jobID(c)
	if !ok {
		return
	}
	job, err := h.svc.UnflagTemplate(c.Request.Context(), e.ID, id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, gin.H{"message": "template removed", "job": job})
}

func (h *Handler) nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		httpx.Error(c, apperr.Validation("lat must be a number"))
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		httpx.Error(c, apperr.Validation("lng must be a number"))
		return
	}
	radius := h.defaultRadius
	if raw := c.Query("radius"); raw != "" {
		if radius, err = strconv.ParseFloat(raw, 64); err != nil {
			httpx.Error(c, apperr.Validation("radius must be a number"))
			return
		}
	}

	out, err := h.svc.Nearby(c.Request.Context(), lat, lng, radius)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, out)
}

// jobID parses :id and writes a 404 when it is not a positive integer.
func jobID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(c, apperr.NotFound("job"))
		return 0, false
	}
	return id, true
}
