package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/httpx"
)

// Handler exposes registration and login.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts POST /register and POST /login on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

func (h *Handler) register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.Error(c, apperr.Validation("invalid JSON body"))
		return
	}

	out, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	httpx.Created(c, gin.H{
		"message": "registered",
		"userId":  out.UserID,
		"role":    out.Role,
	})
}

func (h *Handler) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apperr.Validation("invalid JSON body"))
		return
	}

	token, err := h.svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	httpx.OK(c, gin.H{"message": "logged in", "token": token})
}
