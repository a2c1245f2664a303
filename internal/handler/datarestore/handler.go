package datarestore

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medadmin/hospital-api/internal/handler"
	"github.com/medadmin/hospital-api/internal/service/datarestore"
)

type Handler struct {
	svc *datarestore.Service
}

func NewHandler(svc *datarestore.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	r.GET("/data-restore", adminOnly, h.Restore)
}

// Restore wipes every collection and re-seeds the bootstrap admin.
func (h *Handler) Restore(c *gin.Context) {
	if err := h.svc.Restore(c.Request.Context()); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("data restored"))
}
