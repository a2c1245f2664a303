package patient

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/handler"
	"github.com/medadmin/hospital-api/internal/middleware"
	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/service/patient"
)

type Handler struct {
	svc patient.PatientService
}

func NewHandler(svc patient.PatientService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.List)
		patients.GET("/:id", h.Get)
		patients.PATCH("/:id", h.Edit)
		patients.POST("/:id/avatar", h.UploadAvatar)
		patients.PUT("/:id/avatar", h.EditAvatar)
		patients.DELETE("/:id/avatar", h.DeleteAvatar)
		patients.DELETE("", adminOnly, h.BulkDelete)
	}
}

func (h *Handler) List(c *gin.Context) {
	firstName := c.Query("first_name")
	lastName := c.Query("last_name")

	var (
		patients []*model.Patient
		err      error
	)
	if firstName != "" || lastName != "" {
		patients, err = h.svc.SearchByName(c.Request.Context(), firstName, lastName)
	} else {
		patients, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) Edit(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.EditPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	p, err := h.svc.EditBasic(c.Request.Context(), id, &req, middleware.UserFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	h.putAvatar(c, h.svc.UploadAvatar)
}

func (h *Handler) EditAvatar(c *gin.Context) {
	h.putAvatar(c, h.svc.EditAvatar)
}

type avatarOp func(ctx context.Context, id primitive.ObjectID, reader io.Reader, size int64,
	fileName, contentType string, actor *model.User) (string, error)

func (h *Handler) putAvatar(c *gin.Context, op avatarOp) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("missing avatar file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("unreadable avatar file"))
		return
	}
	defer file.Close()

	url, err := op(c.Request.Context(), id, file, fileHeader.Size,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"),
		middleware.UserFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"image_url": url}))
}

func (h *Handler) DeleteAvatar(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	if err := h.svc.DeleteAvatar(c.Request.Context(), id, middleware.UserFromContext(c)); err != nil {
		handler.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) BulkDelete(c *gin.Context) {
	if err := h.svc.BulkDelete(c.Request.Context()); err != nil {
		handler.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
