package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
)

func setupErrorTestRouter(err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(err)
	})
	return r
}

func TestErrorHandler_BusinessRejection(t *testing.T) {
	r := setupErrorTestRouter(apperror.New(apperror.ErrCodePreconditionUnmet, "обязательные условия не выполнены"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "PRECONDITION_UNMET")
	assert.Contains(t, w.Body.String(), "обязательные условия не выполнены")
}

func TestErrorHandler_NotFound(t *testing.T) {
	r := setupErrorTestRouter(apperror.ErrAccountNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestErrorHandler_MasksInternalErrors(t *testing.T) {
	r := setupErrorTestRouter(errors.New("pq: connection refused"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "внутренняя ошибка сервера")
}
