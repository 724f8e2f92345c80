package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/chirp/pkg/apperr"
)

func init() { gin.SetMode(gin.TestMode) }

func run(h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)
	var body Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := run(func(c *gin.Context) { Success(c, gin.H{"id": "1"}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.NotNil(t, body.Data)

	w, body = run(func(c *gin.Context) { Created(c, "Tweet created", nil) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Tweet created", body.Message)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.Validation("Cannot follow yourself"), http.StatusBadRequest, "Cannot follow yourself"},
		{apperr.Conflict("Already liked this tweet"), http.StatusBadRequest, "Already liked this tweet"},
		{apperr.Auth("Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{apperr.NotFound("User not found"), http.StatusNotFound, "User not found"},
		{apperr.Storage("like", errors.New("conn reset")), http.StatusInternalServerError, "Internal server error"},
		{errors.New("raw"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			w, body := run(func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, body.Success)
			assert.Nil(t, body.Data)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestFailOmitsData(t *testing.T) {
	w, _ := run(func(c *gin.Context) { BadRequest(c, "bad") })
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	_, has := raw["data"]
	assert.False(t, has)
	assert.Equal(t, false, raw["success"])
}
