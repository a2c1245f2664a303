package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/medadmin/hospital-api/internal/handler"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
)

func newErrorTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	return r
}

func TestErrorHandlerTranslatesRecordedError(t *testing.T) {
	r := newErrorTestRouter()
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound("doctor", nil))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "doctor not found")
}

func TestErrorHandlerKeepsHandlerWrittenResponse(t *testing.T) {
	r := newErrorTestRouter()
	r.GET("/conflict", func(c *gin.Context) {
		handler.Error(c, apperrors.Conflict("email already registered", nil))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))

	// The handler's envelope stands; the middleware must not append a
	// second body on top of it.
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
	assert.NotContains(t, w.Body.String(), "trace_id")
	assert.Equal(t, 1, countJSONObjects(w.Body.String()))
}

func countJSONObjects(body string) int {
	depth, count := 0, 0
	for _, ch := range body {
		switch ch {
		case '{':
			if depth == 0 {
				count++
			}
			depth++
		case '}':
			depth--
		}
	}
	return count
}
