package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/escrow-backend/internal/http/middleware"
)

func setupEscrowTestRouter(authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if authenticated {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextClientIDKey, "test-client")
			c.Set(middleware.ContextRoleKey, "service")
			c.Next()
		})
	}

	h := NewEscrowHandler(nil)
	r.POST("/accounts", h.Create)
	r.GET("/accounts/:id", h.Get)
	r.POST("/accounts/:id/fund", h.Fund)
	r.GET("/accounts/:id/movements", h.Movements)
	return r
}

func TestEscrowHandler_Get_InvalidUUID(t *testing.T) {
	r := setupEscrowTestRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/accounts/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UUID")
}

func TestEscrowHandler_Create_Unauthenticated(t *testing.T) {
	r := setupEscrowTestRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEscrowHandler_Create_BadJSON(t *testing.T) {
	r := setupEscrowTestRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{broken`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEscrowHandler_Fund_InvalidUUID(t *testing.T) {
	r := setupEscrowTestRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/accounts/123/fund", bytes.NewBufferString(`{"amount": 100}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEscrowHandler_Movements_InvalidUUID(t *testing.T) {
	r := setupEscrowTestRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/accounts/zzz/movements", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
