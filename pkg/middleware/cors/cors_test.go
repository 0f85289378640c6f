package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.POST("/schedule", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := newCORSRouter([]string{"https://terpsched.example"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/schedule", nil)
	req.Header.Set("Origin", "https://terpsched.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://terpsched.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, allowedMethods, w.Header().Get("Access-Control-Allow-Methods"))
	assert.NotContains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSSkipsUnknownOrigin(t *testing.T) {
	r := newCORSRouter([]string{"https://terpsched.example"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/schedule", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	r := newCORSRouter(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/schedule", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
