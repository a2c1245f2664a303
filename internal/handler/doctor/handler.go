package doctor

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/handler"
	"github.com/medadmin/hospital-api/internal/middleware"
	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/service/doctor"
)

type Handler struct {
	svc doctor.DoctorService
}

func NewHandler(svc doctor.DoctorService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.List)
		doctors.GET("/:id", h.Get)
		doctors.PATCH("/:id", h.Edit)
		doctors.PATCH("/:id/department", adminOnly, h.AssignDepartment)
		doctors.POST("/:id/avatar", h.UploadAvatar)
		doctors.PUT("/:id/avatar", h.EditAvatar)
		doctors.DELETE("/:id/avatar", h.DeleteAvatar)
		doctors.DELETE("", adminOnly, h.BulkDelete)
	}
}

// List returns all profiles, or a name search when first_name/last_name
// query parameters are present. Empty results are a valid empty list.
func (h *Handler) List(c *gin.Context) {
	firstName := c.Query("first_name")
	lastName := c.Query("last_name")

	var (
		doctors []*model.Doctor
		err     error
	)
	if firstName != "" || lastName != "" {
		doctors, err = h.svc.SearchByName(c.Request.Context(), firstName, lastName)
	} else {
		doctors, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	doc, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doc))
}

func (h *Handler) Edit(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	var req model.EditDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doc, err := h.svc.EditBasic(c.Request.Context(), id, &req, middleware.UserFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doc))
}

func (h *Handler) AssignDepartment(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	var req model.AssignDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doc, err := h.svc.AssignDepartment(c.Request.Context(), id, req.Department)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doc))
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
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
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
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
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
