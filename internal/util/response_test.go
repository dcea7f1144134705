package util

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSuccess_Envelope(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, gin.H{"value": 1})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "success", body["message"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotNil(t, body["data"])
}

func TestCreated_Envelope(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, gin.H{"id": 9})
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["message"])
}

func TestError_Envelope(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Conflict(c, "email already registered")
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "email already registered", body["message"])

	// Errors carry no data payload.
	_, hasData := body["data"]
	assert.False(t, hasData)
}

func TestNotFoundAndUnauthorized(t *testing.T) {
	w := performRequest(func(c *gin.Context) { NotFound(c) })
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(func(c *gin.Context) { Unauthorized(c) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
