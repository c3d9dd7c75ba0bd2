package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/auth"
	"github.com/huslen0212/part-time-web-thesis/internal/httpx"
)

// Handler exposes GET and PUT /profile for either role.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the profile routes on rg, which must already run
// auth.Authenticate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.get)
	rg.PUT("/profile", h.update)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := auth.FromContext(c)
	if !ok {
		httpx.Error(c, apperr.Unauthenticated("missing bearer token"))
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, p)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := auth.FromContext(c)
	if !ok {
		httpx.Error(c, apperr.Unauthenticated("missing bearer token"))
		return
	}

	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.Error(c, apperr.Validation("invalid JSON body"))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, gin.H{"success": true, "profile": p})
}
