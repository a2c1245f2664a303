package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/medadmin/hospital-api/pkg/errors"
)

// Error writes the response for a service failure, translating application
// errors to their HTTP status. Unknown errors surface as 500. The error is
// also recorded on the context so the error middleware logs it.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
		return
	}
	c.JSON(http.StatusInternalServerError, NewErrorResponse(err.Error()))
}
